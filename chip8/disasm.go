package chip8

import (
	"fmt"
	"strings"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

/// Disassemble a CHIP-8 instruction.
///
func (vm *CHIP_8) Disassemble(address uint16) string {
	address &= AddressMask

	// need a whole instruction word
	if address == AddressMask {
		return ""
	}

	// fetch the instruction at this location
	w := uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1])

	// end of program memory?
	if w == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	inst, ok := Decode(w)
	if !ok {
		return fmt.Sprintf("%04X - ??", address)
	}

	return strings.TrimRight(fmt.Sprintf("%04X - %-6s %s", address, Mnemonic(w), inst.Operands()), " ")
}

/// Mnemonic returns the assembler mnemonic for an instruction word using
/// the CHIP-8 opcode table, or the decoder's name if the table has none.
///
func Mnemonic(w uint16) string {
	for _, op := range chip8cpu.Opcodes[int(w>>12)] {
		if op.Instruction != nil && op.Info.Mask&w == op.Info.Value {
			return strings.ToUpper(op.Instruction.Name)
		}
	}

	inst, _ := Decode(w)

	return inst.Op.String()
}
