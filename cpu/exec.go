package cpu

import (
	"fmt"
)

// read8 returns the 8-bit value of operand n.
func (m *Machine) read8(in *Instruction, n int) (value uint8, err error) {
	op := in.Operands[n]
	switch op.Kind {
	case OPERAND_REG8:
		value = m.Reg(op.Reg)
	case OPERAND_INDIRECT_PAIR:
		value = m.Memory.Read(m.Pair(op.Pair))
	case OPERAND_INDIRECT_CONST:
		value = m.Memory.Read(op.Value)
	case OPERAND_IMM8:
		value = op.Low()
	case OPERAND_PAIR, OPERAND_IMM16:
		err = in.mismatch(n, ErrOperandWidth)
	default:
		err = in.mismatch(n, ErrOperandShape)
	}
	return
}

// writable8 checks that operand n can take an 8-bit value.
func (in *Instruction) writable8(n int) error {
	switch in.Operands[n].Kind {
	case OPERAND_REG8, OPERAND_INDIRECT_PAIR, OPERAND_INDIRECT_CONST:
		return nil
	case OPERAND_PAIR:
		return in.mismatch(n, ErrOperandWidth)
	default:
		return in.mismatch(n, ErrOperandShape)
	}
}

// write8 stores an 8-bit value to operand n, which must be writable8.
func (m *Machine) write8(in *Instruction, n int, value uint8) {
	op := in.Operands[n]
	switch op.Kind {
	case OPERAND_REG8:
		m.SetReg(op.Reg, value)
	case OPERAND_INDIRECT_PAIR:
		m.Memory.Write(m.Pair(op.Pair), value)
	case OPERAND_INDIRECT_CONST:
		m.Memory.Write(op.Value, value)
	default:
		panic(fmt.Sprintf("write8: %v operand", op.Kind))
	}
}

// read16 returns the 16-bit value of operand n. 8-bit immediates are zero
// extended.
func (m *Machine) read16(in *Instruction, n int) (value uint16, err error) {
	op := in.Operands[n]
	switch op.Kind {
	case OPERAND_PAIR:
		value = m.Pair(op.Pair)
	case OPERAND_INDIRECT_CONST:
		value = m.Memory.Read16(op.Value)
	case OPERAND_IMM8, OPERAND_IMM16:
		value = op.Value
	case OPERAND_REG8:
		err = in.mismatch(n, ErrOperandWidth)
	default:
		err = in.mismatch(n, ErrOperandShape)
	}
	return
}

// setFlags replaces the flags selected by mask.
func (m *Machine) setFlags(mask uint8, flags uint8) {
	f := m.Reg(REG_F)
	m.SetReg(REG_F, (f&^mask)|(flags&mask))
}

// Execute runs a decoded instruction. Operands are fully checked before any
// state is changed.
func (m *Machine) Execute(in *Instruction) (err error) {
	switch in.Form.Op {
	case OP_NOP:
	case OP_HALT:
		m.request(Transfer{Kind: TRANSFER_HALT})
	case OP_CPL:
		m.SetReg(REG_A, ^m.Reg(REG_A))
		m.setFlags(FLAG_H|FLAG_N, FLAG_H|FLAG_N)
	case OP_SCF:
		m.setFlags(FLAG_C|FLAG_H|FLAG_N, FLAG_C)
	case OP_CCF:
		f := m.Reg(REG_F)
		m.setFlags(FLAG_C|FLAG_N, ^f&FLAG_C)
	case OP_LD:
		err = m.execLoad(in)
	case OP_OR, OP_AND, OP_XOR:
		err = m.execLogic(in)
	case OP_CP, OP_SUB:
		err = m.execCompare(in)
	case OP_ADD:
		err = m.execAdd(in)
	case OP_INC, OP_DEC:
		err = m.execStep(in)
	case OP_BIT, OP_SET, OP_RES:
		err = m.execBit(in)
	case OP_EX:
		err = m.execExchange(in)
	case OP_JP, OP_JR, OP_CALL:
		err = m.execJump(in)
	case OP_DJNZ:
		b := m.Reg(REG_B) - 1
		m.SetReg(REG_B, b)
		if b != 0 {
			m.request(m.target(in, 0, TRANSFER_JUMP))
		}
	case OP_RET:
		if len(in.Operands) == 0 || in.Operands[0].Cond.Holds(m.Reg(REG_F)) {
			m.request(Transfer{Kind: TRANSFER_RETURN})
		}
	case OP_RST:
		addr := in.Operands[0].Value
		if addr&0x7 != 0 || addr > 0x38 {
			err = in.mismatch(0, ErrOperandRange)
			return
		}
		m.request(Transfer{Kind: TRANSFER_CALL, Address: addr})
	default:
		panic(fmt.Sprintf("execute: op %v has no handler", in.Form.Op))
	}

	return
}

// execLoad moves a value between any width-consistent pair of operands.
// 16-bit values are stored low byte first.
func (m *Machine) execLoad(in *Instruction) (err error) {
	dst, src := in.Operands[0], in.Operands[1]

	indirect := func(op Operand) bool {
		return op.Kind == OPERAND_INDIRECT_PAIR || op.Kind == OPERAND_INDIRECT_CONST
	}
	if indirect(dst) && indirect(src) {
		err = in.mismatch(1, ErrOperandShape)
		return
	}

	switch {
	case dst.Kind == OPERAND_PAIR:
		var value uint16
		value, err = m.read16(in, 1)
		if err != nil {
			return
		}
		m.SetPair(dst.Pair, value)
	case dst.Kind == OPERAND_INDIRECT_CONST && src.Kind == OPERAND_PAIR:
		m.Memory.Write16(dst.Value, m.Pair(src.Pair))
	default:
		var value uint8
		value, err = m.read8(in, 1)
		if err != nil {
			return
		}
		err = in.writable8(0)
		if err != nil {
			return
		}
		m.write8(in, 0, value)
	}

	return
}

// execLogic runs and/or/xor against the accumulator.
func (m *Machine) execLogic(in *Instruction) (err error) {
	value, err := m.read8(in, 0)
	if err != nil {
		return
	}

	a := m.Reg(REG_A)
	switch in.Form.Op {
	case OP_OR:
		a |= value
	case OP_AND:
		a &= value
	case OP_XOR:
		a ^= value
	}

	m.SetReg(REG_A, a)
	m.SetReg(REG_F, flagsLogic(a, in.Form.Op == OP_AND))

	return
}

// execCompare runs sub and cp; cp only sets the flags.
func (m *Machine) execCompare(in *Instruction) (err error) {
	value, err := m.read8(in, 0)
	if err != nil {
		return
	}

	result, flags := flagsSub(m.Reg(REG_A), value)
	if in.Form.Op == OP_SUB {
		m.SetReg(REG_A, result)
	}
	m.SetReg(REG_F, flags)

	return
}

// execAdd runs add a,s and add hl,rr.
func (m *Machine) execAdd(in *Instruction) (err error) {
	dst := in.Operands[0]

	if dst.Kind == OPERAND_REG8 {
		if dst.Reg != REG_A {
			err = in.mismatch(0, ErrOperandShape)
			return
		}
		var value uint8
		value, err = m.read8(in, 1)
		if err != nil {
			return
		}
		result, flags := flagsAdd(m.Reg(REG_A), value)
		m.SetReg(REG_A, result)
		m.SetReg(REG_F, flags)
		return
	}

	if dst.Pair != PAIR_HL {
		err = in.mismatch(0, ErrOperandShape)
		return
	}
	if in.Operands[1].Kind != OPERAND_PAIR {
		err = in.mismatch(1, ErrOperandWidth)
		return
	}

	hl := m.Pair(PAIR_HL)
	value := m.Pair(in.Operands[1].Pair)
	sum := uint32(hl) + uint32(value)

	var flags uint8
	if sum > 0xffff {
		flags |= FLAG_C
	}
	if (hl&0xfff)+(value&0xfff) > 0xfff {
		flags |= FLAG_H
	}

	m.SetPair(PAIR_HL, uint16(sum))
	m.setFlags(FLAG_C|FLAG_H|FLAG_N, flags)

	return
}

// execStep runs inc and dec. Pair arithmetic carries and borrows between the
// halves and leaves the flags alone.
func (m *Machine) execStep(in *Instruction) (err error) {
	op := in.Operands[0]
	dec := in.Form.Op == OP_DEC

	if op.Kind == OPERAND_PAIR {
		value := m.Pair(op.Pair)
		if dec {
			value--
		} else {
			value++
		}
		m.SetPair(op.Pair, value)
		return
	}

	value, err := m.read8(in, 0)
	if err != nil {
		return
	}

	var flags uint8
	if dec {
		value--
		flags = FLAG_N
		if value == 0x7f {
			flags |= FLAG_P
		}
		if value&0xf == 0xf {
			flags |= FLAG_H
		}
	} else {
		value++
		if value == 0x80 {
			flags |= FLAG_P
		}
		if value&0xf == 0 {
			flags |= FLAG_H
		}
	}
	flags |= flagsSZ(value)

	m.write8(in, 0, value)
	m.setFlags(^FLAG_C, flags)

	return
}

// execBit runs bit, set and res.
func (m *Machine) execBit(in *Instruction) (err error) {
	mask := uint8(1) << in.Operands[0].Value

	value, err := m.read8(in, 1)
	if err != nil {
		return
	}

	switch in.Form.Op {
	case OP_BIT:
		flags := FLAG_H
		if value&mask == 0 {
			flags |= FLAG_Z | FLAG_P
		}
		flags |= value & mask & FLAG_S
		m.setFlags(^FLAG_C, flags)
	case OP_SET:
		m.write8(in, 1, value|mask)
	case OP_RES:
		m.write8(in, 1, value&^mask)
	}

	return
}

// execExchange runs ex de,hl.
func (m *Machine) execExchange(in *Instruction) (err error) {
	a, b := in.Operands[0].Pair, in.Operands[1].Pair
	if !(a == PAIR_DE && b == PAIR_HL) && !(a == PAIR_HL && b == PAIR_DE) {
		err = in.mismatch(0, ErrOperandShape)
		return
	}

	de, hl := m.Pair(PAIR_DE), m.Pair(PAIR_HL)
	m.SetPair(PAIR_DE, hl)
	m.SetPair(PAIR_HL, de)

	return
}

// target builds the transfer for the target operand n.
func (m *Machine) target(in *Instruction, n int, kind TransferKind) (t Transfer) {
	op := in.Operands[n]
	t.Kind = kind
	switch op.Kind {
	case OPERAND_SYMBOL:
		t.Label = op.Text
	case OPERAND_INDIRECT_PAIR:
		t.Address = m.Pair(op.Pair)
	default:
		t.Address = op.Value
	}
	return
}

// execJump runs jp, jr and call, conditional or not.
func (m *Machine) execJump(in *Instruction) (err error) {
	n := len(in.Operands) - 1

	if in.Form.Op == OP_JP && in.Operands[n].Kind == OPERAND_INDIRECT_PAIR && in.Operands[n].Pair != PAIR_HL {
		err = in.mismatch(n, ErrOperandShape)
		return
	}

	if n == 1 {
		cond := in.Operands[0].Cond
		if in.Form.Op == OP_JR && !cond.Relative() {
			err = in.mismatch(0, ErrOperandShape)
			return
		}
		if !cond.Holds(m.Reg(REG_F)) {
			return
		}
	}

	kind := TRANSFER_JUMP
	if in.Form.Op == OP_CALL {
		kind = TRANSFER_CALL
	}
	m.request(m.target(in, n, kind))

	return
}
