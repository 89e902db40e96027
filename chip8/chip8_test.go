package chip8

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// program assembles instruction words into a big-endian ROM image.
func program(words ...uint16) []byte {
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newTestVM(t *testing.T, words ...uint16) *CHIP_8 {
	t.Helper()

	vm, err := LoadROM(program(words...))
	assert.NoError(t, err)
	return vm
}

func TestLoadROM(t *testing.T) {
	vm := newTestVM(t, 0x6A02)

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, DefaultSpeed, vm.Speed)
	assert.Equal(t, Running, vm.State)
	assert.Equal(t, byte(0x6A), vm.Memory[0x200])
	assert.Equal(t, byte(0x02), vm.Memory[0x201])

	// glyph for 0 at 0x000, glyph for F at 0x04B
	assert.Equal(t, byte(0xF0), vm.Memory[0x000])
	assert.Equal(t, byte(0x80), vm.Memory[0x04F])
}

func TestLoadProgramSize(t *testing.T) {
	vm := New()
	err := vm.LoadProgram(make([]byte, MaxProgramSize+1))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
	assert.Equal(t, 3583, MaxProgramSize+1)

	// rejected programs don't touch memory
	for i := ProgramStart; i < MemorySize; i++ {
		if vm.Memory[i] != 0 {
			t.Fatalf("memory written at %04X", i)
		}
	}
	assert.Len(t, vm.ROM, 0)

	full := make([]byte, 3582)
	for i := range full {
		full[i] = 0xAA
	}
	assert.NoError(t, vm.LoadProgram(full))
	assert.Equal(t, byte(0xAA), vm.Memory[0xFFD])
	assert.Equal(t, byte(0), vm.Memory[0xFFE])
}

func TestLoadProgramReplacesOld(t *testing.T) {
	big := make([]byte, 0x100)
	for i := range big {
		big[i] = 0xAA
	}

	vm, err := LoadROM(big)
	assert.NoError(t, err)
	assert.NoError(t, vm.LoadProgram(program(0x6A02)))

	assert.Equal(t, byte(0x6A), vm.Memory[0x200])
	assert.Equal(t, byte(0x02), vm.Memory[0x201])
	assert.Equal(t, byte(0), vm.Memory[0x202])
	assert.Equal(t, byte(0), vm.Memory[0x2FF])

	// memory matches a fresh boot of the same ROM
	loaded := vm.Memory
	vm.Reset()
	assert.Equal(t, loaded, vm.Memory)
}

func TestEndToEndAdd(t *testing.T) {
	vm := newTestVM(t, 0x6A02, 0x6B03, 0x8AB4)

	for range 3 {
		assert.NoError(t, vm.Step())
	}

	assert.Equal(t, byte(5), vm.V[0xA])
	assert.Equal(t, byte(0), vm.V[0xF])
	assert.Equal(t, uint16(0x206), vm.PC)
	assert.Equal(t, int64(3), vm.Cycles)
}

func TestAddImmediateWraps(t *testing.T) {
	vm := New()

	for v := range 256 {
		for _, kk := range []int{0x00, 0x01, 0x7F, 0x80, 0xFF} {
			vm.PC = ProgramStart
			vm.V[3] = byte(v)
			vm.V[0xF] = 0x42

			assert.NoError(t, vm.ExecuteInstruction(0x7300|uint16(kk)))
			assert.Equal(t, byte((v+kk)%256), vm.V[3])
			assert.Equal(t, byte(0x42), vm.V[0xF], "7xkk must not touch VF")
		}
	}
}

func TestAddXYCarry(t *testing.T) {
	vm := New()

	for a := range 256 {
		for b := range 256 {
			vm.V[1] = byte(a)
			vm.V[2] = byte(b)

			assert.NoError(t, vm.ExecuteInstruction(0x8124))

			if vm.V[1] != byte((a+b)%256) || vm.V[0xF] != flag(a+b > 255) {
				t.Fatalf("8xy4 %d+%d: have V1=%d VF=%d", a, b, vm.V[1], vm.V[0xF])
			}
		}
	}
}

func TestSubBorrowFlag(t *testing.T) {
	vm := New()

	for a := range 256 {
		for b := range 256 {
			vm.V[1] = byte(a)
			vm.V[2] = byte(b)
			assert.NoError(t, vm.ExecuteInstruction(0x8125))

			// VF is 1 when there is NO borrow, and equal operands borrow nothing but still read 0
			if vm.V[1] != byte(a-b) || vm.V[0xF] != flag(a > b) {
				t.Fatalf("8xy5 %d-%d: have V1=%d VF=%d", a, b, vm.V[1], vm.V[0xF])
			}

			vm.V[1] = byte(a)
			vm.V[2] = byte(b)
			assert.NoError(t, vm.ExecuteInstruction(0x8127))

			if vm.V[1] != byte(b-a) || vm.V[0xF] != flag(b > a) {
				t.Fatalf("8xy7 %d-%d: have V1=%d VF=%d", b, a, vm.V[1], vm.V[0xF])
			}
		}
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		input  byte
		result byte
		carry  byte
	}{
		{"shr low bit set", 0x8506, 0x03, 0x01, 1},
		{"shr low bit clear", 0x8506, 0x80, 0x40, 0},
		{"shl high bit clear", 0x850E, 0x41, 0x82, 0},
		// SHL stores the masked bit, not a normalized flag
		{"shl high bit set keeps raw bit", 0x850E, 0x81, 0x02, 0x80},
		{"shl 0xFF", 0x850E, 0xFF, 0xFE, 0x80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := New()
			vm.V[5] = tt.input

			assert.NoError(t, vm.ExecuteInstruction(tt.opcode))
			assert.Equal(t, tt.result, vm.V[5])
			assert.Equal(t, tt.carry, vm.V[0xF])
		})
	}
}

func TestLogicOps(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		want   byte
	}{
		{"ld", 0x8120, 0x0F},
		{"or", 0x8121, 0x3F},
		{"and", 0x8122, 0x0C},
		{"xor", 0x8123, 0x33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := New()
			vm.V[1] = 0x3C
			vm.V[2] = 0x0F

			assert.NoError(t, vm.ExecuteInstruction(tt.opcode))
			assert.Equal(t, tt.want, vm.V[1])
		})
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		skip   bool
	}{
		{"se equal", 0x3144, true},
		{"se not equal", 0x3145, false},
		{"sne equal", 0x4144, false},
		{"sne not equal", 0x4145, true},
		{"se xy equal", 0x5120, true},
		{"se xy not equal", 0x5130, false},
		{"sne xy equal", 0x9120, false},
		{"sne xy not equal", 0x9130, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := New()
			vm.V[1] = 0x44
			vm.V[2] = 0x44
			vm.V[3] = 0x01

			assert.NoError(t, vm.ExecuteInstruction(tt.opcode))

			want := uint16(0x202)
			if tt.skip {
				want = 0x204
			}
			assert.Equal(t, want, vm.PC)
		})
	}
}

func TestJumpsAndCalls(t *testing.T) {
	vm := newTestVM(t, 0x2208, 0x0000, 0x0000, 0x0000, 0x00EE)

	assert.NoError(t, vm.Step())
	assert.Equal(t, uint16(0x208), vm.PC)
	assert.Len(t, vm.Stack, 1)
	assert.Equal(t, uint16(0x202), vm.Stack[0])

	assert.NoError(t, vm.Step())
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Len(t, vm.Stack, 0)

	assert.NoError(t, vm.ExecuteInstruction(0x1ABC))
	assert.Equal(t, uint16(0xABC), vm.PC)

	vm.V[0] = 0x10
	assert.NoError(t, vm.ExecuteInstruction(0xB300))
	assert.Equal(t, uint16(0x310), vm.PC)
}

func TestStackUnderflow(t *testing.T) {
	vm := newTestVM(t, 0x00EE)

	err := vm.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var opErr *OpcodeError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, uint16(0x200), opErr.PC)
	assert.Equal(t, uint16(0x00EE), opErr.Opcode)
}

func TestStackLimit(t *testing.T) {
	vm := newTestVM(t, 0x2200)
	vm.StackLimit = 2

	assert.NoError(t, vm.Step())
	assert.NoError(t, vm.Step())

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Len(t, vm.Stack, 2)
}

func TestUnknownOpcode(t *testing.T) {
	for _, opcode := range []uint16{0x0000, 0x0123, 0x00E1, 0x5121, 0x8128, 0x912F, 0xE1FF, 0xF1FF} {
		vm := New()

		err := vm.ExecuteInstruction(opcode)
		assert.True(t, errors.Is(err, ErrUnknownOpcode), "opcode %04X", opcode)
		assert.ErrorContains(t, err, "unknown opcode")
	}
}

func TestCycleStopsOnError(t *testing.T) {
	vm := newTestVM(t, 0x6101, 0xFFFF, 0x6202)
	vm.DT = 5

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, byte(1), vm.V[1])
	assert.Equal(t, byte(0), vm.V[2])
	assert.Equal(t, byte(5), vm.DT)
}

func TestHaltIsSticky(t *testing.T) {
	vm := newTestVM(t, 0xFFFF, 0x6A07)
	vm.Speed = 1

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, err, vm.Err())
	assert.Equal(t, uint16(0x200), vm.PC)

	// nothing runs past the bad instruction
	assert.Equal(t, err, vm.Cycle())
	assert.Equal(t, err, vm.Step())
	assert.Equal(t, err, vm.ExecuteInstruction(0x6A07))
	assert.Equal(t, byte(0), vm.V[0xA])
	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, int64(0), vm.Cycles)

	vm.Reset()
	assert.Nil(t, vm.Err())
	assert.NoError(t, vm.ExecuteInstruction(0x6A07))
	assert.Equal(t, byte(7), vm.V[0xA])
}

func TestStackUnderflowHalts(t *testing.T) {
	vm := newTestVM(t, 0x00EE, 0x6A07)

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	assert.True(t, errors.Is(vm.Step(), ErrStackUnderflow))
	assert.Equal(t, byte(0), vm.V[0xA])
}

func TestDisplayIsReadOnly(t *testing.T) {
	vm := newTestVM(t)

	_, ok := any(vm.Display()).(interface{ SetPixel(x, y int) bool })
	assert.False(t, ok)
	_, ok = any(vm.Display()).(interface{ Clear() })
	assert.False(t, ok)

	assert.Equal(t, DefaultCols, vm.Display().Cols())
	assert.Equal(t, DefaultRows, vm.Display().Rows())
}

func TestIndexOps(t *testing.T) {
	vm := New()

	assert.NoError(t, vm.ExecuteInstruction(0xA123))
	assert.Equal(t, uint16(0x123), vm.I)

	vm.V[4] = 0x0F
	assert.NoError(t, vm.ExecuteInstruction(0xF41E))
	assert.Equal(t, uint16(0x132), vm.I)

	// I wraps at 16 bits
	vm.I = 0xFFFF
	vm.V[4] = 2
	assert.NoError(t, vm.ExecuteInstruction(0xF41E))
	assert.Equal(t, uint16(0x0001), vm.I)

	vm.V[4] = 0xB
	assert.NoError(t, vm.ExecuteInstruction(0xF429))
	assert.Equal(t, uint16(0xB*GlyphSize), vm.I)
}

func TestBCD(t *testing.T) {
	vm := New()
	vm.I = 0x300
	vm.V[2] = 254

	assert.NoError(t, vm.ExecuteInstruction(0xF233))
	assert.Equal(t, [3]byte{2, 5, 4}, [3]byte(vm.Memory[0x300:0x303]))

	// addresses wrap around the end of memory
	vm.I = 0xFFF
	vm.V[2] = 137
	assert.NoError(t, vm.ExecuteInstruction(0xF233))
	assert.Equal(t, byte(1), vm.Memory[0xFFF])
	assert.Equal(t, byte(3), vm.Memory[0x000])
	assert.Equal(t, byte(7), vm.Memory[0x001])
}

func TestSaveLoadRegisters(t *testing.T) {
	vm := New()
	vm.I = 0x400
	for i := range vm.V {
		vm.V[i] = byte(i * 3)
	}

	assert.NoError(t, vm.ExecuteInstruction(0xF355))
	assert.Equal(t, [5]byte{0, 3, 6, 9, 0}, [5]byte(vm.Memory[0x400:0x405]))
	assert.Equal(t, uint16(0x400), vm.I)

	vm.V = [16]byte{}
	assert.NoError(t, vm.ExecuteInstruction(0xF265))
	assert.Equal(t, byte(0), vm.V[0])
	assert.Equal(t, byte(3), vm.V[1])
	assert.Equal(t, byte(6), vm.V[2])
	assert.Equal(t, byte(0), vm.V[3])
}

func TestRandom(t *testing.T) {
	vm := New()
	vm.SetRand(rand.New(rand.NewPCG(1, 2)))

	for range 100 {
		assert.NoError(t, vm.ExecuteInstruction(0xC50F))
		assert.Equal(t, byte(0), vm.V[5]&0xF0)

		assert.NoError(t, vm.ExecuteInstruction(0xC500))
		assert.Equal(t, byte(0), vm.V[5])
	}
}

func TestDrawCollision(t *testing.T) {
	// draw the glyph for 0 at (1, 2) twice
	vm := newTestVM(t, 0x6000, 0xF029, 0x6101, 0x6202, 0xD125, 0xD125)

	for range 5 {
		assert.NoError(t, vm.Step())
	}
	assert.Equal(t, byte(0), vm.V[0xF])
	assert.True(t, vm.Display().Pixel(1, 2))
	assert.True(t, vm.Display().Pixel(4, 2))
	assert.False(t, vm.Display().Pixel(2, 3))

	assert.NoError(t, vm.Step())
	assert.Equal(t, byte(1), vm.V[0xF])

	lit := 0
	for range vm.Display().Pixels() {
		lit++
	}
	assert.Equal(t, 0, lit)
}

func TestDrawWraps(t *testing.T) {
	vm := New()
	vm.I = 0x300
	vm.Memory[0x300] = 0xC0
	vm.V[0] = 63
	vm.V[1] = 31

	assert.NoError(t, vm.ExecuteInstruction(0xD011))
	assert.True(t, vm.Display().Pixel(63, 31))
	assert.True(t, vm.Display().Pixel(0, 31))
}

func TestClearScreen(t *testing.T) {
	vm := newTestVM(t)

	// top row of the 0 glyph at (0, 0)
	assert.NoError(t, vm.ExecuteInstruction(0xD001))
	assert.True(t, vm.Display().Pixel(3, 0))

	assert.NoError(t, vm.ExecuteInstruction(0x00E0))
	assert.False(t, vm.Display().Pixel(3, 0))
}

func TestWaitForKey(t *testing.T) {
	vm := newTestVM(t, 0xF50A, 0x7501)
	vm.DT = 20

	assert.NoError(t, vm.Step())
	assert.Equal(t, WaitingForKey, vm.State)

	pc, v := vm.PC, vm.V
	for range 10 {
		assert.NoError(t, vm.Cycle())
	}
	assert.Equal(t, pc, vm.PC)
	assert.Equal(t, v, vm.V)
	assert.Equal(t, byte(20), vm.DT, "timers are frozen while waiting")

	// releases and unknown keys don't resume
	vm.ReleaseKey(3)
	vm.PressKey(0x20)
	assert.Equal(t, WaitingForKey, vm.State)

	vm.PressKey(3)
	assert.Equal(t, Running, vm.State)
	assert.Equal(t, byte(3), vm.V[5])
	assert.False(t, vm.keypad.Waiting())

	assert.NoError(t, vm.Step())
	assert.Equal(t, byte(4), vm.V[5])
}

func TestKeySkips(t *testing.T) {
	vm := New()
	vm.V[1] = 0xA

	assert.NoError(t, vm.ExecuteInstruction(0xE19E))
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.NoError(t, vm.ExecuteInstruction(0xE1A1))
	assert.Equal(t, uint16(0x206), vm.PC)

	vm.PressKey(0xA)
	assert.NoError(t, vm.ExecuteInstruction(0xE19E))
	assert.Equal(t, uint16(0x20A), vm.PC)
	assert.NoError(t, vm.ExecuteInstruction(0xE1A1))
	assert.Equal(t, uint16(0x20C), vm.PC)

	// keys past F are never pressed
	vm.V[1] = 0x42
	assert.NoError(t, vm.ExecuteInstruction(0xE1A1))
	assert.Equal(t, uint16(0x210), vm.PC)
}

type countingSpeaker struct {
	plays, stops int
}

func (s *countingSpeaker) Play() { s.plays++ }
func (s *countingSpeaker) Stop() { s.stops++ }

func TestTimersAndTone(t *testing.T) {
	// a program that loops forever setting nothing
	vm := newTestVM(t, 0x1200)
	speaker := &countingSpeaker{}
	vm.SetSpeaker(speaker)

	vm.V[0] = 2
	assert.NoError(t, vm.ExecuteInstruction(0xF015))
	assert.NoError(t, vm.ExecuteInstruction(0xF018))
	vm.PC = ProgramStart

	assert.NoError(t, vm.Cycle())
	assert.Equal(t, byte(1), vm.DT)
	assert.Equal(t, byte(1), vm.ST)
	assert.True(t, vm.ToneActive())

	assert.NoError(t, vm.ExecuteInstruction(0xF307))
	assert.Equal(t, byte(1), vm.V[3])
	vm.PC = ProgramStart

	assert.NoError(t, vm.Cycle())
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, byte(0), vm.ST)
	assert.False(t, vm.ToneActive())

	assert.NoError(t, vm.Cycle())
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, 1, speaker.plays)
	assert.Equal(t, 1, speaker.stops)
}

func TestReset(t *testing.T) {
	vm := newTestVM(t, 0x6A02, 0xA300, 0xFA55, 0x2200)

	for range 4 {
		assert.NoError(t, vm.Step())
	}
	vm.I = 0
	assert.NoError(t, vm.ExecuteInstruction(0xD001))
	assert.True(t, vm.Display().Pixel(0, 0))
	vm.PressKey(1)
	vm.ST = 9

	vm.Reset()

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, [16]byte{}, vm.V)
	assert.Len(t, vm.Stack, 0)
	assert.Equal(t, uint16(0), vm.I)
	assert.Equal(t, byte(0), vm.ST)
	assert.Equal(t, byte(0), vm.Memory[0x30A])
	assert.Equal(t, byte(0x6A), vm.Memory[0x200])
	assert.Equal(t, byte(0xF0), vm.Memory[0x000])
	assert.False(t, vm.Display().Pixel(0, 0))
	assert.False(t, vm.IsPressed(1))
}

func TestSpeed(t *testing.T) {
	vm := New()

	vm.Speed = MaxSpeed
	vm.IncSpeed()
	assert.Equal(t, MaxSpeed, vm.Speed)

	vm.Speed = MinSpeed
	vm.DecSpeed()
	assert.Equal(t, MinSpeed, vm.Speed)

	vm.IncSpeed()
	assert.Equal(t, MinSpeed+1, vm.Speed)
}

func TestCycleRunsSpeedInstructions(t *testing.T) {
	words := make([]uint16, 20)
	for i := range words {
		words[i] = 0x7001
	}
	vm := newTestVM(t, words...)
	vm.Speed = 7

	assert.NoError(t, vm.Cycle())
	assert.Equal(t, byte(7), vm.V[0])
	assert.Equal(t, uint16(0x200+14), vm.PC)
}

func TestTrace(t *testing.T) {
	vm := newTestVM(t, 0x6A02)
	vm.SetLogger(log.NewTestLogger(t))
	vm.Trace = true

	assert.NoError(t, vm.Step())
	assert.Equal(t, byte(2), vm.V[0xA])
}

func TestFetchWrapsAddress(t *testing.T) {
	vm := New()
	vm.Memory[0xFFF] = 0x6A
	vm.Memory[0x000] = 0x07
	vm.PC = 0xFFF

	assert.NoError(t, vm.Step())
	assert.Equal(t, byte(7), vm.V[0xA])
}
