package chip8

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// AddressMask wraps any computed address into memory.
	///
	AddressMask = MemorySize - 1

	/// ProgramStart is where programs are loaded and execution begins.
	///
	ProgramStart = 0x200

	/// MaxProgramSize is the largest program LoadProgram accepts. The last
	/// instruction word of memory (0xFFE-0xFFF) is never loaded.
	///
	MaxProgramSize = 0xFFE - ProgramStart

	/// DefaultSpeed is the number of instructions executed per cycle.
	///
	DefaultSpeed = 10

	// speed limits for IncSpeed and DecSpeed
	MinSpeed = 1
	MaxSpeed = 100
)

/// State is the execution state of the interpreter.
///
type State uint8

const (
	/// Running executes instructions every step.
	///
	Running State = iota

	/// WaitingForKey suspends execution until a key is pressed (LD Vx, K).
	///
	WaitingForKey
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	}

	return fmt.Sprintf("State(%d)", uint8(s))
}

/// CHIP_8 virtual machine emulator.
///
type CHIP_8 struct {
	/// ROM is the program image last loaded. Reset copies it back into
	/// memory.
	///
	ROM []byte

	/// Memory addressable by CHIP-8. The first 512 bytes are reserved
	/// for the font sprites.
	///
	Memory [MemorySize]byte

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// I is the address register.
	///
	I uint16

	/// V are the 16 virtual registers.
	///
	V [16]byte

	/// Stack holds return addresses pushed by CALL.
	///
	Stack []uint16

	/// StackLimit caps the depth of Stack. Zero means no limit.
	///
	StackLimit int

	/// DT is the delay timer register.
	///
	DT byte

	/// ST is the sound timer register.
	///
	ST byte

	/// Speed is how many instructions are executed per Cycle.
	///
	Speed int

	/// State is Running or WaitingForKey.
	///
	State State

	/// W is the register that receives the key while WaitingForKey.
	///
	W uint8

	/// Cycles is how many instructions have been executed.
	///
	Cycles int64

	/// Trace logs every executed instruction at debug level.
	///
	Trace bool

	display *Display
	keypad  Keypad
	halt    error
	tone    ToneGate
	rng     *rand.Rand
	logger  *log.Logger
}

/// New returns a CHIP-8 virtual machine with empty memory. Call LoadFont
/// and LoadProgram before cycling it.
///
func New() *CHIP_8 {
	return &CHIP_8{
		PC:      ProgramStart,
		Speed:   DefaultSpeed,
		display: NewDisplay(DefaultCols, DefaultRows),
	}
}

/// LoadROM creates a new CHIP-8 virtual machine with the font sprites and
/// program loaded.
///
func LoadROM(program []byte) (*CHIP_8, error) {
	vm := New()
	vm.LoadFont()

	if err := vm.LoadProgram(program); err != nil {
		return nil, err
	}

	return vm, nil
}

/// LoadProgram copies a program into memory at 0x200. If it doesn't fit,
/// memory is left untouched.
///
func (vm *CHIP_8) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	vm.ROM = append(vm.ROM[:0], program...)

	// nothing of a previous program may remain
	clear(vm.Memory[ProgramStart:])
	copy(vm.Memory[ProgramStart:], program)

	return nil
}

/// Reset the CHIP-8 virtual machine and reload the font and program.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = [MemorySize]byte{}
	vm.LoadFont()
	copy(vm.Memory[ProgramStart:], vm.ROM)

	// reset video memory and keys
	vm.display.Clear()
	vm.keypad.Reset()
	vm.tone.SetActive(false)

	// reset program counter, stack, and registers
	vm.PC = ProgramStart
	vm.Stack = vm.Stack[:0]
	vm.I = 0
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	vm.Cycles = 0
	vm.State = Running
	vm.W = 0
	vm.halt = nil
}

// Display returns a read-only view of the video memory.
func (vm *CHIP_8) Display() Screen {
	return vm.display.View()
}

// IsPressed returns true if the key is held down.
func (vm *CHIP_8) IsPressed(key uint) bool {
	return vm.keypad.IsPressed(key)
}

// ToneActive returns true while the sound timer tone should be heard.
func (vm *CHIP_8) ToneActive() bool {
	return vm.tone.Active()
}

/// Silence closes the tone gate until the next Cycle reopens it. Hosts
/// call it while paused.
///
func (vm *CHIP_8) Silence() {
	vm.tone.SetActive(false)
}

/// Err returns the error that halted the virtual machine, or nil. Once
/// halted, nothing executes until Reset.
///
func (vm *CHIP_8) Err() error {
	return vm.halt
}

/// SetSpeaker attaches the host audio to the tone gate.
///
func (vm *CHIP_8) SetSpeaker(s Speaker) {
	vm.tone.speaker = s
}

/// SetRand sets the random source used by RND. A nil source uses the
/// global generator.
///
func (vm *CHIP_8) SetRand(r *rand.Rand) {
	vm.rng = r
}

/// SetLogger sets the logger used for instruction tracing.
///
func (vm *CHIP_8) SetLogger(logger *log.Logger) {
	vm.logger = logger
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *CHIP_8) PressKey(key uint) {
	if !vm.keypad.SetPressed(key, true) {
		return
	}

	// resume LD Vx, K with the key pressed
	if vm.State == WaitingForKey {
		vm.V[vm.W] = byte(key)
		vm.State = Running
	}
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *CHIP_8) ReleaseKey(key uint) {
	vm.keypad.SetPressed(key, false)
}

/// IncSpeed executes one more instruction per cycle.
///
func (vm *CHIP_8) IncSpeed() {
	vm.Speed = min(vm.Speed+1, MaxSpeed)
}

/// DecSpeed executes one less instruction per cycle.
///
func (vm *CHIP_8) DecSpeed() {
	vm.Speed = max(vm.Speed-1, MinSpeed)
}

/// Cycle runs one scheduled tick: Speed steps, then the timers (unless
/// waiting for a key), then the tone gate. The first error stops the
/// batch and is returned, and again by every later call until Reset.
///
func (vm *CHIP_8) Cycle() error {
	if vm.halt != nil {
		return vm.halt
	}

	for range vm.Speed {
		if err := vm.Step(); err != nil {
			return err
		}
	}

	if vm.State == Running {
		vm.updateTimers()
	}

	vm.tone.SetActive(vm.ST > 0)

	return nil
}

/// Step the CHIP-8 virtual machine a single instruction. Does nothing
/// while waiting for a key.
///
func (vm *CHIP_8) Step() error {
	if vm.halt != nil {
		return vm.halt
	}

	if vm.State == WaitingForKey {
		return nil
	}

	return vm.ExecuteInstruction(vm.fetch())
}

/// ExecuteInstruction advances the program counter past the instruction
/// and then executes it. An error halts the virtual machine.
///
func (vm *CHIP_8) ExecuteInstruction(opcode uint16) error {
	if vm.halt != nil {
		return vm.halt
	}

	pc := vm.PC

	vm.PC += 2

	inst, ok := Decode(opcode)
	if !ok {
		return vm.stop(pc, opcode, ErrUnknownOpcode)
	}

	if vm.Trace && vm.logger != nil {
		vm.logger.Debug("exec",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.String("instr", inst.Op.String()+" "+inst.Operands()))
	}

	if err := vm.execute(inst); err != nil {
		return vm.stop(pc, opcode, err)
	}

	vm.Cycles++

	return nil
}

// stop halts at the failing instruction.
func (vm *CHIP_8) stop(pc, opcode uint16, err error) error {
	vm.PC = pc
	vm.halt = &OpcodeError{PC: pc, Opcode: opcode, Err: err}

	return vm.halt
}

/// Fetch the 16-bit instruction at the program counter.
///
func (vm *CHIP_8) fetch() uint16 {
	hi := vm.Memory[vm.PC&AddressMask]
	lo := vm.Memory[(vm.PC+1)&AddressMask]

	return uint16(hi)<<8 | uint16(lo)
}

/// Count down both timers, stopping at zero.
///
func (vm *CHIP_8) updateTimers() {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}
}
