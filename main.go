// Package main implements a CHIP-8 emulator with an SDL window and a
// terminal front end.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// The CHIP-8 virtual machine.
	///
	VM *chip8.CHIP_8

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer

	/// Audio is the SDL speaker, nil when muted or unavailable.
	///
	Audio *Speaker

	/// Sound is attached to every loaded virtual machine.
	///
	Sound chip8.Speaker

	/// Opts are the parsed command line options.
	///
	Opts Options

	/// Console is the process logger.
	///
	Console *log.Logger

	/// File is the path of the loaded ROM.
	///
	File string

	/// True if pausing emulation (single stepping).
	///
	Paused bool
)

// ErrNoROM is returned when no ROM was chosen to run.
var ErrNoROM = errors.New("no ROM file selected")

func init() {
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	Opts = opts
	Console = CreateLogger(opts.Debug, opts.Quiet)
	Log = NewLog(LogLimit)

	if opts.Terminal {
		err = RunTerminal(ctx)
	} else {
		err = RunSDL(ctx)
	}

	if err != nil {
		if errors.Is(err, ErrNoROM) {
			Console.Info("Nothing to run")
			return
		}
		Console.Fatal(err.Error())
	}
}

/// RunSDL opens the emulator window and runs until it is closed.
///
func RunSDL(ctx context.Context) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	// the layout depends on the font metrics
	InitFont()

	l := Layout(Opts.Scale)

	var err error
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(l.Width, l.Height, uint32(sdl.WINDOW_SHOWN)); err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	// set the title
	Window.SetTitle("CHIP-8")

	if !Opts.Mute {
		if Audio, err = OpenSpeaker(); err != nil {
			Console.Warn("Audio disabled", log.Err(err))
		} else {
			Sound = Audio
			defer Audio.Close()
		}
	}

	path := Opts.ROM
	if path == "" {
		if path, err = PickROM(); err != nil {
			return err
		}
	}

	if err = Load(path); err != nil {
		return err
	}

	DebugHelp()

	// 60 Hz frame clock paces the virtual machine
	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	// loop until window closed or user quit
	for ProcessEvents() {
		select {
		case <-ctx.Done():
			return nil
		case <-video.C:
			Tick()

			if Audio != nil {
				Audio.Refresh()
			}

			Refresh(l)
		}
	}

	return nil
}

/// Load a ROM file into a new virtual machine, replacing the current one.
///
func Load(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	vm, err := chip8.LoadROM(program)
	if err != nil {
		return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}

	vm.Speed = Opts.Speed
	vm.StackLimit = Opts.StackLimit
	vm.Trace = Opts.Trace
	vm.SetLogger(Console)

	if Sound != nil {
		vm.SetSpeaker(Sound)
	}

	// silence the old machine
	if VM != nil {
		VM.Silence()
	}

	VM = vm
	File = path
	Paused = Opts.Paused

	Console.Info("ROM loaded", log.String("file", path), log.Int("size", len(program)))
	Logln("Loaded", filepath.Base(path))

	return nil
}

/// PickROM asks for a ROM file with the native file dialog.
///
func PickROM() (string, error) {
	path, err := dialog.File().
		Title("Load CHIP-8 ROM").
		Filter("CHIP-8 ROMs", "ch8", "c8").
		Filter("All files", "*").
		Load()

	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrNoROM
	}
	if err != nil {
		return "", fmt.Errorf("choosing ROM: %w", err)
	}

	return path, nil
}

/// LoadDialog replaces the running ROM with one chosen from the file
/// dialog. Cancelling keeps the current ROM.
///
func LoadDialog() {
	path, err := PickROM()
	if errors.Is(err, ErrNoROM) {
		return
	}

	if err == nil {
		err = Load(path)
	}

	if err != nil {
		Console.Error("Load failed", log.Err(err))
		Logln(err.Error())
	}
}

/// Tick runs one frame of the virtual machine unless paused.
///
func Tick() {
	if Paused {
		VM.Silence()
		return
	}

	if err := VM.Cycle(); err != nil {
		Halt(err)
	}
}

/// TogglePause pauses or resumes emulation. A halted machine stays
/// paused until it is rebooted.
///
func TogglePause() {
	if VM.Err() != nil {
		Log.Log("Halted, press BS to reboot")
		return
	}

	Paused = !Paused
}

/// Step a single instruction while paused.
///
func Step() {
	if !Paused || VM.Err() != nil {
		return
	}

	if err := VM.Step(); err != nil {
		Halt(err)
	}
}

/// Halt pauses emulation after the virtual machine failed.
///
func Halt(err error) {
	Paused = true

	Console.Error("Emulation halted", log.Err(err))

	var opErr *chip8.OpcodeError
	if errors.As(err, &opErr) {
		Logln(fmt.Sprintf("Halted at #%04X (#%04X)", opErr.PC, opErr.Opcode))
	}

	Log.Log(err.Error())
}

/// Refresh redraws the whole window.
///
func Refresh(l Panels) {
	Renderer.SetDrawColor(32, 42, 53, 255)
	Renderer.Clear()

	// frame various portions of the app
	Frame(l.Screen)
	Frame(l.Assembly)
	Frame(l.Registers)
	Frame(l.Log)

	// the video screen
	DrawScreen(l.Screen.X+2, l.Screen.Y+2, int32(Opts.Scale))

	// debug assembly, virtual registers, and log
	DebugAssembly(l.Assembly)
	DebugRegisters(l.Registers)
	DebugLog(l.Log)

	// show the new frame
	Renderer.Present()
}

/// Frame draws a beveled border around a panel.
///
func Frame(r sdl.Rect) {
	x, y, w, h := r.X, r.Y, r.W, r.H

	Renderer.SetDrawColor(0, 0, 0, 255)
	Renderer.DrawLine(x, y, x+w, y)
	Renderer.DrawLine(x, y, x, y+h)

	// highlight
	Renderer.SetDrawColor(95, 112, 120, 255)
	Renderer.DrawLine(x+w, y, x+w, y+h)
	Renderer.DrawLine(x, y+h, x+w, y+h)
}
