package main

import (
	"fmt"

	"github.com/massung/chip-8/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// LogLimit is how many lines the on-screen log keeps.
	///
	LogLimit = 500

	// panel sizes in characters
	assemblyCols = 24
	registerCols = 21
	registerRows = 12
)

var (
	/// Log is the on-screen event log.
	///
	Log *Logger

	/// Current debug window address.
	///
	Address uint16
)

/// Panels is the window layout.
///
type Panels struct {
	Screen, Assembly, Registers, Log sdl.Rect

	// Width and Height of the whole window.
	Width, Height int32
}

/// Layout places the screen and debug panels for a pixel scale. The font
/// must be initialized first.
///
func Layout(scale int) Panels {
	sw := int32(chip8.DefaultCols*scale) + 4
	sh := int32(chip8.DefaultRows*scale) + 4
	aw := int32(assemblyCols*Advance) + 8
	rw := int32(registerCols*Advance) + 8
	ph := int32(registerRows*LineHeight) + 8

	p := Panels{
		Screen:   sdl.Rect{X: 8, Y: 8, W: sw, H: sh},
		Assembly: sdl.Rect{X: sw + 16, Y: 8, W: aw, H: sh},
	}

	p.Width = p.Assembly.X + aw + 8
	p.Height = sh + 16 + ph + 8

	p.Registers = sdl.Rect{X: 8, Y: sh + 16, W: rw, H: ph}
	p.Log = sdl.Rect{X: rw + 16, Y: sh + 16, W: p.Width - rw - 24, H: ph}

	return p
}

/// Logln writes a line to the on-screen log, set apart by a blank line.
///
func Logln(s ...string) {
	Log.Logln(s...)
}

/// Show the HELP text in the log.
///
func DebugHelp() {
	for _, s := range []string{
		"Virtual keys:",
		"  1-2-3-4",
		"  Q-W-E-R",
		"  A-S-D-F",
		"  Z-X-C-V",
		"",
		"Emulation keys:",
		"  ESC      - Quit",
		"  BS       - Reboot",
		"  F1/H     - Help",
		"  F3       - Load ROM",
		"  F5/SPACE - Pause",
		"  F6/F10   - Step",
		"  [ ]      - Speed",
		"  Pg Up/Dn - Scroll log",
	} {
		Log.Log(s)
	}
}

/// DebugAssembly renders the disassembled instructions around
/// the CHIP-8 program counter.
///
func DebugAssembly(r sdl.Rect) {
	lines := max(int(r.H-8)/LineHeight, 1)
	pc := VM.PC & chip8.AddressMask

	// keep the window still until the program counter leaves it
	if pc < Address || pc >= Address+uint16(lines*2)-2 || (Address^pc)&1 == 1 {
		Address = pc - min(pc, 2)
	}

	// show the disassembled instructions
	for i := range lines {
		a := Address + uint16(i*2)
		y := r.Y + 4 + int32(i*LineHeight)

		if a == pc {
			if Paused {
				Renderer.SetDrawColor(176, 32, 57, 255)
			} else {
				Renderer.SetDrawColor(57, 102, 176, 255)
			}

			// highlight the current instruction
			Renderer.FillRect(&sdl.Rect{
				X: r.X + 2,
				Y: y,
				W: r.W - 4,
				H: int32(LineHeight),
			})
		}

		Renderer.SetDrawColor(220, 224, 228, 255)
		DrawText(VM.Disassemble(a), int(r.X)+4, int(y))
	}
}

/// Show the current value of all the CHIP-8 registers.
///
func DebugRegisters(r sdl.Rect) {
	x, y := int(r.X)+4, int(r.Y)+4

	Renderer.SetDrawColor(220, 224, 228, 255)

	for i := range 8 {
		DrawText(fmt.Sprintf("V%X #%02X   V%X #%02X", i, VM.V[i], i+8, VM.V[i+8]), x, y+i*LineHeight)
	}

	// skip a line after the v-registers
	y += 9 * LineHeight

	DrawText(fmt.Sprintf("PC #%04X   I  #%04X", VM.PC, VM.I), x, y)
	DrawText(fmt.Sprintf("DT #%02X     ST #%02X", VM.DT, VM.ST), x, y+LineHeight)
	DrawText(fmt.Sprintf("SP %-2d  SPD %-3d %s", len(VM.Stack), VM.Speed, Status()), x, y+2*LineHeight)
}

/// Status is a short label for what the emulator is doing.
///
func Status() string {
	switch {
	case VM.Err() != nil:
		return "HALT"
	case Paused:
		return "PAUSE"
	case VM.State == chip8.WaitingForKey:
		return "KEY"
	}

	return ""
}

/// Show the current log text.
///
func DebugLog(r sdl.Rect) {
	lines := max(int(r.H-8)/LineHeight, 1)
	cols := max(int(r.W-8)/Advance, 4)

	x, y := int(r.X)+4, int(r.Y)+4

	Renderer.SetDrawColor(220, 224, 228, 255)

	for i, s := range Log.Window(lines) {
		DrawText(Truncate(s, cols), x, y+i*LineHeight)
	}
}

/// Truncate shortens s to n characters, ending it with "..." if cut.
///
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-3]) + "..."
}

/// Scroll the debug log up/down.
///
func DebugLogScroll(d int) {
	lines := registerRows

	if d < 0 {
		Log.ScrollUp(lines)
	} else {
		Log.ScrollDown(lines)
	}
}

/// Scroll to the beginning of the log.
///
func DebugLogHome() {
	Log.Home()
}

/// Scroll to the end of the log.
///
func DebugLogEnd() {
	Log.End()
}
