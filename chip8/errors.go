package chip8

import (
	"errors"
	"fmt"
)

var (
	/// ErrUnknownOpcode is returned when an instruction word cannot be decoded.
	///
	ErrUnknownOpcode = errors.New("unknown opcode")

	/// ErrStackUnderflow is returned by RET with an empty call stack.
	///
	ErrStackUnderflow = errors.New("stack underflow")

	/// ErrStackOverflow is returned by CALL when StackLimit is reached.
	///
	ErrStackOverflow = errors.New("stack overflow")

	/// ErrProgramTooLarge is returned when a program doesn't fit in memory.
	///
	ErrProgramTooLarge = errors.New("program too large")
)

/// OpcodeError reports a fatal error raised while executing an instruction.
///
type OpcodeError struct {
	/// PC is the address the instruction was fetched from.
	///
	PC uint16

	/// Opcode is the instruction word.
	///
	Opcode uint16

	/// Err is one of the sentinel errors above.
	///
	Err error
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%04X: %04X: %v", e.PC, e.Opcode, e.Err)
}

func (e *OpcodeError) Unwrap() error {
	return e.Err
}
