package chip8

import "fmt"

/// Op identifies a decoded CHIP-8 instruction.
///
type Op uint8

const (
	OpInvalid Op = iota
	OpCls
	OpRet
	OpJump
	OpCall
	OpSkipIf
	OpSkipIfNot
	OpSkipIfXY
	OpLoadX
	OpAddX
	OpLoadXY
	OpOr
	OpAnd
	OpXor
	OpAddXY
	OpSubXY
	OpShr
	OpSubYX
	OpShl
	OpSkipIfNotXY
	OpLoadI
	OpJumpV0
	OpRnd
	OpDraw
	OpSkipIfPressed
	OpSkipIfNotPressed
	OpLoadXDT
	OpLoadXK
	OpLoadDTX
	OpLoadSTX
	OpAddIX
	OpLoadF
	OpLoadB
	OpSaveRegs
	OpLoadRegs
)

var mnemonics = [...]string{
	OpInvalid:          "??",
	OpCls:              "CLS",
	OpRet:              "RET",
	OpJump:             "JP",
	OpCall:             "CALL",
	OpSkipIf:           "SE",
	OpSkipIfNot:        "SNE",
	OpSkipIfXY:         "SE",
	OpLoadX:            "LD",
	OpAddX:             "ADD",
	OpLoadXY:           "LD",
	OpOr:               "OR",
	OpAnd:              "AND",
	OpXor:              "XOR",
	OpAddXY:            "ADD",
	OpSubXY:            "SUB",
	OpShr:              "SHR",
	OpSubYX:            "SUBN",
	OpShl:              "SHL",
	OpSkipIfNotXY:      "SNE",
	OpLoadI:            "LD",
	OpJumpV0:           "JP",
	OpRnd:              "RND",
	OpDraw:             "DRW",
	OpSkipIfPressed:    "SKP",
	OpSkipIfNotPressed: "SKNP",
	OpLoadXDT:          "LD",
	OpLoadXK:           "LD",
	OpLoadDTX:          "LD",
	OpLoadSTX:          "LD",
	OpAddIX:            "ADD",
	OpLoadF:            "LD",
	OpLoadB:            "LD",
	OpSaveRegs:         "LD",
	OpLoadRegs:         "LD",
}

// String returns the assembler mnemonic of the op.
func (op Op) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}

	return mnemonics[OpInvalid]
}

/// Instruction is a decoded instruction word with all of its operand
/// fields extracted.
///
type Instruction struct {
	Op Op

	/// X and Y are register indices (bits 8-11 and 4-7).
	///
	X, Y uint8

	/// N is the low nibble.
	///
	N uint8

	/// KK is the low byte.
	///
	KK uint8

	/// NNN is the low 12 bits.
	///
	NNN uint16
}

/// Decode an instruction word. The top nibble selects the instruction
/// group, then the low nibble or low byte selects within the group. It
/// returns false if the word is not a known instruction.
///
func Decode(opcode uint16) (Instruction, bool) {
	inst := Instruction{
		X:   uint8(opcode >> 8 & 0xF),
		Y:   uint8(opcode >> 4 & 0xF),
		N:   uint8(opcode & 0xF),
		KK:  uint8(opcode & 0xFF),
		NNN: opcode & 0xFFF,
	}

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			inst.Op = OpCls
		case 0x00EE:
			inst.Op = OpRet
		}
	case 0x1000:
		inst.Op = OpJump
	case 0x2000:
		inst.Op = OpCall
	case 0x3000:
		inst.Op = OpSkipIf
	case 0x4000:
		inst.Op = OpSkipIfNot
	case 0x5000:
		if inst.N == 0 {
			inst.Op = OpSkipIfXY
		}
	case 0x6000:
		inst.Op = OpLoadX
	case 0x7000:
		inst.Op = OpAddX
	case 0x8000:
		switch inst.N {
		case 0x0:
			inst.Op = OpLoadXY
		case 0x1:
			inst.Op = OpOr
		case 0x2:
			inst.Op = OpAnd
		case 0x3:
			inst.Op = OpXor
		case 0x4:
			inst.Op = OpAddXY
		case 0x5:
			inst.Op = OpSubXY
		case 0x6:
			inst.Op = OpShr
		case 0x7:
			inst.Op = OpSubYX
		case 0xE:
			inst.Op = OpShl
		}
	case 0x9000:
		if inst.N == 0 {
			inst.Op = OpSkipIfNotXY
		}
	case 0xA000:
		inst.Op = OpLoadI
	case 0xB000:
		inst.Op = OpJumpV0
	case 0xC000:
		inst.Op = OpRnd
	case 0xD000:
		inst.Op = OpDraw
	case 0xE000:
		switch inst.KK {
		case 0x9E:
			inst.Op = OpSkipIfPressed
		case 0xA1:
			inst.Op = OpSkipIfNotPressed
		}
	case 0xF000:
		switch inst.KK {
		case 0x07:
			inst.Op = OpLoadXDT
		case 0x0A:
			inst.Op = OpLoadXK
		case 0x15:
			inst.Op = OpLoadDTX
		case 0x18:
			inst.Op = OpLoadSTX
		case 0x1E:
			inst.Op = OpAddIX
		case 0x29:
			inst.Op = OpLoadF
		case 0x33:
			inst.Op = OpLoadB
		case 0x55:
			inst.Op = OpSaveRegs
		case 0x65:
			inst.Op = OpLoadRegs
		}
	}

	return inst, inst.Op != OpInvalid
}

/// Operands renders the operand list of the instruction in assembler
/// syntax, e.g. "V3, #2A".
///
func (inst Instruction) Operands() string {
	switch inst.Op {
	case OpJump, OpCall:
		return fmt.Sprintf("#%04X", inst.NNN)
	case OpSkipIf, OpSkipIfNot, OpLoadX, OpAddX, OpRnd:
		return fmt.Sprintf("V%X, #%02X", inst.X, inst.KK)
	case OpSkipIfXY, OpSkipIfNotXY, OpLoadXY, OpOr, OpAnd, OpXor, OpAddXY, OpSubXY, OpSubYX:
		return fmt.Sprintf("V%X, V%X", inst.X, inst.Y)
	case OpShr, OpShl, OpSkipIfPressed, OpSkipIfNotPressed:
		return fmt.Sprintf("V%X", inst.X)
	case OpLoadI:
		return fmt.Sprintf("I, #%04X", inst.NNN)
	case OpJumpV0:
		return fmt.Sprintf("V0, #%04X", inst.NNN)
	case OpDraw:
		return fmt.Sprintf("V%X, V%X, %d", inst.X, inst.Y, inst.N)
	case OpLoadXDT:
		return fmt.Sprintf("V%X, DT", inst.X)
	case OpLoadXK:
		return fmt.Sprintf("V%X, K", inst.X)
	case OpLoadDTX:
		return fmt.Sprintf("DT, V%X", inst.X)
	case OpLoadSTX:
		return fmt.Sprintf("ST, V%X", inst.X)
	case OpAddIX:
		return fmt.Sprintf("I, V%X", inst.X)
	case OpLoadF:
		return fmt.Sprintf("F, V%X", inst.X)
	case OpLoadB:
		return fmt.Sprintf("B, V%X", inst.X)
	case OpSaveRegs:
		return fmt.Sprintf("[I], V%X", inst.X)
	case OpLoadRegs:
		return fmt.Sprintf("V%X, [I]", inst.X)
	}

	return ""
}
