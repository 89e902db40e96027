package chip8

import "math/rand/v2"

/// execute a decoded instruction. The program counter has already been
/// advanced past it.
///
func (vm *CHIP_8) execute(inst Instruction) error {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCls:
		vm.cls()
	case OpRet:
		return vm.ret()
	case OpJump:
		vm.jump(inst.NNN)
	case OpCall:
		return vm.call(inst.NNN)
	case OpSkipIf:
		vm.skipIf(x, inst.KK)
	case OpSkipIfNot:
		vm.skipIfNot(x, inst.KK)
	case OpSkipIfXY:
		vm.skipIfXY(x, y)
	case OpLoadX:
		vm.loadX(x, inst.KK)
	case OpAddX:
		vm.addX(x, inst.KK)
	case OpLoadXY:
		vm.loadXY(x, y)
	case OpOr:
		vm.or(x, y)
	case OpAnd:
		vm.and(x, y)
	case OpXor:
		vm.xor(x, y)
	case OpAddXY:
		vm.addXY(x, y)
	case OpSubXY:
		vm.subXY(x, y)
	case OpShr:
		vm.shr(x)
	case OpSubYX:
		vm.subYX(x, y)
	case OpShl:
		vm.shl(x)
	case OpSkipIfNotXY:
		vm.skipIfNotXY(x, y)
	case OpLoadI:
		vm.loadI(inst.NNN)
	case OpJumpV0:
		vm.jumpV0(inst.NNN)
	case OpRnd:
		vm.rnd(x, inst.KK)
	case OpDraw:
		vm.drw(x, y, inst.N)
	case OpSkipIfPressed:
		vm.skipIfPressed(x)
	case OpSkipIfNotPressed:
		vm.skipIfNotPressed(x)
	case OpLoadXDT:
		vm.loadXDT(x)
	case OpLoadXK:
		vm.loadXK(x)
	case OpLoadDTX:
		vm.loadDTX(x)
	case OpLoadSTX:
		vm.loadSTX(x)
	case OpAddIX:
		vm.addIX(x)
	case OpLoadF:
		vm.loadF(x)
	case OpLoadB:
		vm.loadB(x)
	case OpSaveRegs:
		vm.saveRegs(x)
	case OpLoadRegs:
		vm.loadRegs(x)
	default:
		return ErrUnknownOpcode
	}

	return nil
}

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	vm.display.Clear()
}

/// call a subroutine at address.
///
func (vm *CHIP_8) call(address uint16) error {
	if vm.StackLimit > 0 && len(vm.Stack) >= vm.StackLimit {
		return ErrStackOverflow
	}

	vm.Stack = append(vm.Stack, vm.PC)
	vm.PC = address

	return nil
}

/// return from subroutine.
///
func (vm *CHIP_8) ret() error {
	n := len(vm.Stack)
	if n == 0 {
		return ErrStackUnderflow
	}

	vm.PC = vm.Stack[n-1]
	vm.Stack = vm.Stack[:n-1]

	return nil
}

/// jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0.
///
func (vm *CHIP_8) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

/// skip next instruction if vx == n.
///
func (vm *CHIP_8) skipIf(x, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *CHIP_8) skipIfNot(x, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *CHIP_8) skipIfXY(x, y byte) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *CHIP_8) skipIfNotXY(x, y byte) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *CHIP_8) skipIfPressed(x byte) {
	if vm.keypad.IsPressed(uint(vm.V[x])) {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *CHIP_8) skipIfNotPressed(x byte) {
	if !vm.keypad.IsPressed(uint(vm.V[x])) {
		vm.PC += 2
	}
}

/// load n into vx.
///
func (vm *CHIP_8) loadX(x, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *CHIP_8) loadXY(x, y byte) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *CHIP_8) loadXDT(x byte) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *CHIP_8) loadDTX(x byte) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *CHIP_8) loadSTX(x byte) {
	vm.ST = vm.V[x]
}

/// load vx with next key hit (blocking).
///
func (vm *CHIP_8) loadXK(x byte) {
	vm.State = WaitingForKey
	vm.W = x

	vm.keypad.AwaitNextKey()
}

/// load address register.
///
func (vm *CHIP_8) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx.
///
func (vm *CHIP_8) loadB(x byte) {
	n := vm.V[x]

	vm.Memory[vm.I&AddressMask] = n / 100
	vm.Memory[(vm.I+1)&AddressMask] = n % 100 / 10
	vm.Memory[(vm.I+2)&AddressMask] = n % 10
}

/// load font sprite for vx into I.
///
func (vm *CHIP_8) loadF(x byte) {
	vm.I = uint16(vm.V[x]) * GlyphSize
}

/// or vx with vy into vx.
///
func (vm *CHIP_8) or(x, y byte) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *CHIP_8) and(x, y byte) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *CHIP_8) xor(x, y byte) {
	vm.V[x] ^= vm.V[y]
}

/// shl vx 1 bit, set carry to the MSB of vx before shift. The carry is
/// the masked bit itself (0x00 or 0x80), not 0 or 1.
///
func (vm *CHIP_8) shl(x byte) {
	vm.V[0xF] = vm.V[x] & 0x80
	vm.V[x] <<= 1
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *CHIP_8) shr(x byte) {
	vm.V[0xF] = vm.V[x] & 1
	vm.V[x] >>= 1
}

/// add n to vx.
///
func (vm *CHIP_8) addX(x, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *CHIP_8) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[0xF] = flag(sum > 0xFF)
	vm.V[x] = byte(sum)
}

/// add vx to i.
///
func (vm *CHIP_8) addIX(x byte) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, set carry if vx > vy.
///
func (vm *CHIP_8) subXY(x, y byte) {
	vm.V[0xF] = flag(vm.V[x] > vm.V[y])
	vm.V[x] -= vm.V[y]
}

/// subtract vx from vy and store in vx, set carry if vy > vx.
///
func (vm *CHIP_8) subYX(x, y byte) {
	vm.V[0xF] = flag(vm.V[y] > vm.V[x])
	vm.V[x] = vm.V[y] - vm.V[x]
}

/// load a random number & n into vx.
///
func (vm *CHIP_8) rnd(x, b byte) {
	var r int

	if vm.rng != nil {
		r = vm.rng.IntN(256)
	} else {
		r = rand.IntN(256)
	}

	vm.V[x] = byte(r) & b
}

/// draw an 8-pixel wide, n row sprite at I to video memory at vx, vy.
///
func (vm *CHIP_8) drw(x, y, n byte) {
	px, py := int(vm.V[x]), int(vm.V[y])
	erased := false

	for row := range uint16(n) {
		sprite := vm.Memory[(vm.I+row)&AddressMask]

		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}

			if vm.display.SetPixel(px+col, py+int(row)) {
				erased = true
			}
		}
	}

	// set carry flag if any collision occurred
	vm.V[0xF] = flag(erased)
}

/// save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x byte) {
	for i := range uint16(x) + 1 {
		vm.Memory[(vm.I+i)&AddressMask] = vm.V[i]
	}
}

/// load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x byte) {
	for i := range uint16(x) + 1 {
		vm.V[i] = vm.Memory[(vm.I+i)&AddressMask]
	}
}

func flag(b bool) byte {
	if b {
		return 1
	}

	return 0
}
