package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/massung/chip-8/chip8"
)

/// Options are the command line settings of the emulator.
///
type Options struct {
	ROM        string
	Speed      int
	Scale      int
	StackLimit int

	Terminal bool
	Mute     bool
	Paused   bool

	Debug bool
	Trace bool
	Quiet bool
}

const (
	// default pixel scale of the SDL screen
	DefaultScale = 5

	// largest pixel scale accepted
	MaxScale = 20

	// default return stack depth
	DefaultStackLimit = 16
)

/// ParseFlags parses the command line arguments (without the program
/// name) into Options.
///
func ParseFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if len(rest) > 1 {
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s after the ROM file, options go before the ROM file", rest[1]),
		}
	}
	if len(rest) == 1 {
		opts.ROM = rest[0]
	}

	if err := validateOptions(opts); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	return opts, nil
}

/// UsageError is returned for bad command lines. ShowUsage prints the
/// reason and the list of options.
///
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}

	fmt.Printf("usage: chip-8 [options] [ROM file]\n\n")

	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}

	fmt.Println()
}

func validateOptions(opts Options) error {
	switch {
	case opts.Speed < chip8.MinSpeed || opts.Speed > chip8.MaxSpeed:
		return fmt.Errorf("speed %d is out of range %d-%d", opts.Speed, chip8.MinSpeed, chip8.MaxSpeed)
	case opts.Scale < 1 || opts.Scale > MaxScale:
		return fmt.Errorf("scale %d is out of range 1-%d", opts.Scale, MaxScale)
	case opts.StackLimit < 0:
		return fmt.Errorf("stack limit %d can't be negative", opts.StackLimit)
	case opts.Terminal && opts.ROM == "":
		return fmt.Errorf("a ROM file is required in terminal mode")
	}

	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.Speed, "speed", chip8.DefaultSpeed, "instructions executed per frame")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "size of a CHIP-8 pixel on screen")
	flags.IntVar(&opts.StackLimit, "stack", DefaultStackLimit, "maximum subroutine depth, 0 for unlimited")
	flags.BoolVar(&opts.Terminal, "term", false, "run in the terminal instead of a window")
	flags.BoolVar(&opts.Mute, "mute", false, "don't play the sound timer tone")
	flags.BoolVar(&opts.Paused, "paused", false, "boot the ROM paused")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction (needs -debug)")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
}
