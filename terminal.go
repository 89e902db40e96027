package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// KeyHoldFrames is how long a terminal key stays pressed. Terminals only
// report presses, so keys are released after this many frames.
const KeyHoldFrames = 6

var (
	/// Mapping of terminal characters to CHIP-8 keys.
	///
	TermKeyMap = map[byte]uint{
		'x': 0x0,
		'1': 0x1,
		'2': 0x2,
		'3': 0x3,
		'q': 0x4,
		'w': 0x5,
		'e': 0x6,
		'a': 0x7,
		's': 0x8,
		'd': 0x9,
		'z': 0xA,
		'c': 0xB,
		'4': 0xC,
		'r': 0xD,
		'f': 0xE,
		'v': 0xF,
	}
)

/// TerminalHost feeds stdin to the virtual machine and draws the display
/// with half-block characters.
///
type TerminalHost struct {
	// held counts down the frames until each key is released
	held [chip8.KeyCount]int
}

/// Bell rings the terminal bell when the tone starts.
///
type Bell struct {
	w io.Writer
}

func (b Bell) Play() {
	io.WriteString(b.w, "\a")
}

func (b Bell) Stop() {}

/// RunTerminal runs the emulator in the terminal until the user quits.
///
func RunTerminal(ctx context.Context) error {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return errors.New("terminal mode needs an interactive terminal")
	}

	if w, h, err := term.GetSize(fd); err == nil && (w < chip8.DefaultCols || h < chip8.DefaultRows/2+1) {
		Console.Warn("Terminal is smaller than the display", log.Int("cols", w), log.Int("rows", h))
	}

	if !Opts.Mute {
		Sound = Bell{w: os.Stdout}
	}

	if err := Load(Opts.ROM); err != nil {
		return err
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	keys := make(chan []byte, 16)
	go readKeys(os.Stdin, keys)

	// clear the screen and hide the cursor
	os.Stdout.WriteString("\x1b[2J\x1b[?25l")
	defer os.Stdout.WriteString("\x1b[?25h\r\n")

	host := &TerminalHost{}

	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-keys:
			if !ok || !host.Input(b) {
				return nil
			}
		case <-video.C:
			host.Release()
			Tick()

			os.Stdout.WriteString(Render(VM.Display(), StatusLine()))
		}
	}
}

/// Input handles one read from stdin. Returns false if the user quits.
///
func (h *TerminalHost) Input(b []byte) bool {
	if len(b) == 0 {
		return true
	}

	// escape sequences (arrows, function keys) are ignored
	if b[0] == 0x1B && len(b) > 1 {
		return true
	}

	for _, c := range b {
		switch c {
		case 0x1B, 0x03:
			return false
		case 0x7F, 0x08:
			Logln("Reboot")
			VM.Reset()
		case ' ':
			TogglePause()
		case '.':
			Step()
		case '[':
			VM.DecSpeed()
		case ']':
			VM.IncSpeed()
		default:
			if key, ok := TermKeyMap[lower(c)]; ok {
				VM.PressKey(key)
				h.held[key] = KeyHoldFrames
			}
		}
	}

	return true
}

/// Release counts down held keys, releasing those whose time is up.
///
func (h *TerminalHost) Release() {
	for key, n := range h.held {
		if n == 0 {
			continue
		}

		if h.held[key] = n - 1; n == 1 {
			VM.ReleaseKey(uint(key))
		}
	}
}

/// Render draws the display as text, two pixel rows per line, followed
/// by a status line.
///
func Render(d chip8.Screen, status string) string {
	var b strings.Builder

	b.WriteString("\x1b[H")

	for y := 0; y < d.Rows(); y += 2 {
		for x := range d.Cols() {
			top, bottom := d.Pixel(x, y), d.Pixel(x, y+1)

			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}

		b.WriteString("\r\n")
	}

	b.WriteString(status)
	b.WriteString("\x1b[K")

	return b.String()
}

/// StatusLine summarizes the emulator state below the terminal display.
///
func StatusLine() string {
	return strings.TrimRight(fmt.Sprintf("PC #%04X  SPD %-3d %s", VM.PC, VM.Speed, Status()), " ")
}

// readKeys forwards stdin reads until it fails.
func readKeys(r io.Reader, keys chan<- []byte) {
	defer close(keys)

	buf := make([]byte, 16)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			return
		}
	}
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}

	return c
}
