package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// run dispatches each "mnemonic op,op" line, failing on any error.
func run(t *testing.T, m *Machine, program ...string) {
	t.Helper()
	for _, text := range program {
		line := ParseLine("  " + text)
		if !assert.Equal(t, LINE_INSTRUCTION, line.Kind, text) {
			t.FailNow()
		}
		err := m.Dispatch(line.Mnemonic, line.Operands)
		if !assert.NoError(t, err, text) {
			t.FailNow()
		}
	}
}

// snapshot captures everything an instruction may change.
type snapshot struct {
	Register [REG_COUNT]Register
	Memory   Memory
	Transfer *Transfer
}

func snap(m *Machine) (s *snapshot) {
	s = &snapshot{Register: m.Register, Memory: m.Memory}
	if t, ok := m.TakeTransfer(); ok {
		s.Transfer = &t
		m.request(t)
	}
	return
}

func TestDispatchUnknown(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld hl,0x4000", "ld (hl),0x12", "ld a,0x34")
	before := snap(m)

	table := []struct {
		Mnemonic string
		Operands []string
	}{
		{"frob", nil},
		{"ld", []string{"a"}},
		{"inc", nil},
		{"ret", []string{"z", "nz"}},
		{"ld", []string{"a", "b", "c"}},
		{"push", []string{"hl"}},
	}

	for _, entry := range table {
		err := m.Dispatch(entry.Mnemonic, entry.Operands)
		var unknown *ErrInstructionUnknown
		if assert.True(errors.As(err, &unknown), entry.Mnemonic) {
			assert.Equal(entry.Mnemonic, unknown.Mnemonic)
			assert.Equal(len(entry.Operands), unknown.Arity)
		}
		assert.Equal(before, snap(m), entry.Mnemonic)
	}
}

func TestDispatchMismatchNoMutation(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld a,0x01", "ld hl,0x2000")
	before := snap(m)

	table := []struct {
		Text string
		Err  error
	}{
		{"ld (0x1234),(hl)", ErrOperandShape},
		{"ld a,0x1234", ErrOperandWidth},
		{"ld a,hl", ErrOperandWidth},
		{"ld hl,a", ErrOperandWidth},
		{"ld (hl),de", ErrOperandWidth},
		{"ld hl,(de)", ErrOperandShape},
		{"ld 0x12,a", ErrOperandShape},
		{"or hl", ErrOperandShape},
		{"add b,c", ErrOperandShape},
		{"add de,bc", ErrOperandShape},
		{"add hl,b", ErrOperandWidth},
		{"ex bc,hl", ErrOperandShape},
		{"jr pe,0x10", ErrOperandShape},
		{"jp (de)", ErrOperandShape},
		{"rst 0x09", ErrOperandRange},
		{"bit 3,0x12", ErrOperandShape},
		{"inc 0x12", ErrOperandShape},
	}

	for _, entry := range table {
		line := ParseLine("  " + entry.Text)
		err := m.Dispatch(line.Mnemonic, line.Operands)
		var operand *ErrOperand
		assert.True(errors.As(err, &operand), entry.Text)
		assert.ErrorIs(err, entry.Err, entry.Text)
		assert.Equal(before, snap(m), entry.Text)
	}
}

func TestDispatchDecodeErrors(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	err := m.Dispatch("ld", []string{"a", "(ix+5)"})
	assert.ErrorIs(err, ErrDecode("(ix+5)"))

	err = m.Dispatch("ld", []string{"a", "missing"})
	assert.ErrorIs(err, ErrSymbolMissing("missing"))

	err = m.Dispatch("jp", []string{"(missing)"})
	assert.ErrorIs(err, ErrSymbolMissing("missing"))

	assert.Equal(uint8(REG_SENTINEL), m.Reg(REG_A))
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m,
		"ld b,0x05",
		"ld c,b",
		"ld hl,0x4000",
		"ld (hl),c",
		"ld de,0x1234",
		"ld (0x5000),de",
		"ld a,(0x5001)",
		"ld bc,(0x5000)",
		"ld (0x6000),a",
		"ld hl,0x20",
		"ld d,(hl)",
	)

	assert.Equal(uint8(0x05), m.Memory.Read(0x4000))
	assert.Equal(uint8(0x34), m.Memory.Read(0x5000))
	assert.Equal(uint8(0x12), m.Memory.Read(0x5001))
	assert.Equal(uint8(0x12), m.Reg(REG_A))
	assert.Equal(uint16(0x1234), m.Pair(PAIR_BC))
	assert.Equal(uint8(0x12), m.Memory.Read(0x6000))
	assert.Equal(uint16(0x0020), m.Pair(PAIR_HL))
	assert.Equal(uint8(0x00), m.Reg(REG_D))
}

func TestLoadPairCopy(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld hl,0xbeef", "ld de,hl")

	assert.Equal(uint16(0xbeef), m.Pair(PAIR_DE))
}

func TestOr(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld a,0x0f", "ld c,0xf0", "or c")

	assert.Equal(uint8(0xff), m.Reg(REG_A))
	assert.False(COND_Z.Holds(m.Reg(REG_F)))
	assert.True(COND_M.Holds(m.Reg(REG_F)))
	assert.True(COND_NC.Holds(m.Reg(REG_F)))

	run(t, m, "ld hl,0x3000", "ld (hl),0x00", "ld a,0x00", "or (hl)")
	assert.Equal(uint8(0x00), m.Reg(REG_A))
	assert.True(COND_Z.Holds(m.Reg(REG_F)))
	assert.True(COND_PE.Holds(m.Reg(REG_F)))
}

func TestLogicAndCompare(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld a,0xf3", "and 0x0f")
	assert.Equal(uint8(0x03), m.Reg(REG_A))

	run(t, m, "xor a")
	assert.Equal(uint8(0x00), m.Reg(REG_A))
	assert.True(COND_Z.Holds(m.Reg(REG_F)))

	run(t, m, "ld a,0x10", "cp 0x20")
	assert.Equal(uint8(0x10), m.Reg(REG_A))
	assert.True(COND_C.Holds(m.Reg(REG_F)))

	run(t, m, "sub 0x10")
	assert.Equal(uint8(0x00), m.Reg(REG_A))
	assert.True(COND_Z.Holds(m.Reg(REG_F)))
	assert.True(COND_NC.Holds(m.Reg(REG_F)))
}

func TestAdd(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld a,0xf0", "ld b,0x20", "add a,b")
	assert.Equal(uint8(0x10), m.Reg(REG_A))
	assert.True(COND_C.Holds(m.Reg(REG_F)))

	run(t, m, "ld hl,0x1000", "ld de,0x0234", "add hl,de")
	assert.Equal(uint16(0x1234), m.Pair(PAIR_HL))
	assert.True(COND_NC.Holds(m.Reg(REG_F)))
}

func TestIncDec(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld b,0x05", "inc b")
	assert.Equal(uint8(0x06), m.Reg(REG_B))

	run(t, m, "ld a,0x01", "dec a")
	assert.Equal(uint8(0x00), m.Reg(REG_A))
	assert.True(COND_Z.Holds(m.Reg(REG_F)))

	run(t, m, "ld hl,0x4000", "ld (hl),0x7f", "inc (hl)")
	assert.Equal(uint8(0x80), m.Memory.Read(0x4000))
	assert.True(COND_M.Holds(m.Reg(REG_F)))

	run(t, m, "ld de,0x00ff", "inc de")
	assert.Equal(uint16(0x0100), m.Pair(PAIR_DE))

	run(t, m, "ld bc,0xffff", "inc bc")
	assert.Equal(uint16(0x0000), m.Pair(PAIR_BC))

	run(t, m, "ld bc,0x0000", "dec bc")
	assert.Equal(uint16(0xffff), m.Pair(PAIR_BC))
}

func TestDecPairBorrow(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	for high := 1; high <= 0xff; high++ {
		m.SetReg(REG_H, uint8(high))
		m.SetReg(REG_L, 0x00)
		run(t, m, "dec hl")
		assert.Equal(uint8(0xff), m.Reg(REG_L))
		assert.Equal(uint8(high-1), m.Reg(REG_H))
	}
}

func TestIncDecKeepsCarry(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "scf", "ld a,0x00", "inc a")
	assert.True(COND_C.Holds(m.Reg(REG_F)))

	run(t, m, "ccf", "dec a")
	assert.True(COND_NC.Holds(m.Reg(REG_F)))
	assert.True(COND_Z.Holds(m.Reg(REG_F)))
}

func TestBitOps(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld b,0x00", "set 3,b", "set 7,b")
	assert.Equal(uint8(0x88), m.Reg(REG_B))

	run(t, m, "res 3,b")
	assert.Equal(uint8(0x80), m.Reg(REG_B))

	run(t, m, "bit 3,b")
	assert.True(COND_Z.Holds(m.Reg(REG_F)))
	run(t, m, "bit 7,b")
	assert.True(COND_NZ.Holds(m.Reg(REG_F)))

	run(t, m, "ld hl,0x4000", "ld (hl),0x00", "set 0,(hl)")
	assert.Equal(uint8(0x01), m.Memory.Read(0x4000))
}

func TestCplExchange(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld a,0x0f", "cpl")
	assert.Equal(uint8(0xf0), m.Reg(REG_A))

	run(t, m, "ld de,0x1111", "ld hl,0x2222", "ex de,hl")
	assert.Equal(uint16(0x2222), m.Pair(PAIR_DE))
	assert.Equal(uint16(0x1111), m.Pair(PAIR_HL))
}

func TestSymbolOperands(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Symbols.Define("foo", 0x20)
	m.Symbols.Define("buf", 0x4000)
	run(t, m, "ld a,foo", "ld hl,buf", "ld (buf),a", "ld b,(buf)")

	assert.Equal(uint8(0x20), m.Reg(REG_A))
	assert.Equal(uint16(0x4000), m.Pair(PAIR_HL))
	assert.Equal(uint8(0x20), m.Memory.Read(0x4000))
	assert.Equal(uint8(0x20), m.Reg(REG_B))

	err := m.Dispatch("ld", []string{"a", "buf"})
	assert.ErrorIs(err, ErrOperandWidth)
}

func TestSymbolOperandsRange(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	for _, text := range []string{"big: equ 0x12345", "neg: equ -1"} {
		_, err := m.DecodeLine(text)
		assert.NoError(err, text)
	}
	run(t, m, "ld a,0x55", "ld hl,0x1000")
	before := snap(m)

	table := []struct {
		Text     string
		Position int
	}{
		{"ld hl,big", 1},
		{"ld (big),a", 0},
		{"ld a,(big)", 1},
		{"ld hl,neg", 1},
		{"ld a,neg", 1},
		{"jp big", 0},
	}

	for _, entry := range table {
		line := ParseLine("  " + entry.Text)
		err := m.Dispatch(line.Mnemonic, line.Operands)
		assert.ErrorIs(err, ErrOperandRange, entry.Text)
		var operand *ErrOperand
		if assert.True(errors.As(err, &operand), entry.Text) {
			assert.Equal(entry.Position, operand.Position, entry.Text)
		}
		assert.Equal(before, snap(m), entry.Text)
	}

	assert.Equal(uint8(0x00), m.Memory.Read(0x2345))
}

func TestJumps(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	run(t, m, "jp loop")
	tr, ok := m.TakeTransfer()
	assert.True(ok)
	assert.Equal(Transfer{Kind: TRANSFER_JUMP, Label: "loop"}, tr)
	_, ok = m.TakeTransfer()
	assert.False(ok)

	run(t, m, "call 0x1234")
	tr, _ = m.TakeTransfer()
	assert.Equal(Transfer{Kind: TRANSFER_CALL, Address: 0x1234}, tr)

	run(t, m, "ld hl,0x8000", "jp (hl)")
	tr, _ = m.TakeTransfer()
	assert.Equal(Transfer{Kind: TRANSFER_JUMP, Address: 0x8000}, tr)

	run(t, m, "ret", "halt")
	tr, _ = m.TakeTransfer()
	assert.Equal(Transfer{Kind: TRANSFER_HALT}, tr)

	run(t, m, "rst 0x38")
	tr, _ = m.TakeTransfer()
	assert.Equal(Transfer{Kind: TRANSFER_CALL, Address: 0x38}, tr)

	m.Symbols.Define("entry", 0x100)
	run(t, m, "jp entry")
	tr, _ = m.TakeTransfer()
	assert.Equal(Transfer{Kind: TRANSFER_JUMP, Address: 0x100}, tr)
}

func TestConditionalJumps(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	run(t, m, "xor a", "jp nz,skip")
	_, ok := m.TakeTransfer()
	assert.False(ok)

	run(t, m, "jr z,skip")
	tr, ok := m.TakeTransfer()
	assert.True(ok)
	assert.Equal("skip", tr.Label)

	run(t, m, "scf", "call c,sub", "ret nc")
	tr, _ = m.TakeTransfer()
	assert.Equal(Transfer{Kind: TRANSFER_CALL, Label: "sub"}, tr)

	run(t, m, "ret c")
	tr, _ = m.TakeTransfer()
	assert.Equal(Transfer{Kind: TRANSFER_RETURN}, tr)
}

func TestDjnz(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	run(t, m, "ld b,0x02", "djnz loop")
	assert.Equal(uint8(0x01), m.Reg(REG_B))
	_, ok := m.TakeTransfer()
	assert.True(ok)

	run(t, m, "djnz loop")
	assert.Equal(uint8(0x00), m.Reg(REG_B))
	_, ok = m.TakeTransfer()
	assert.False(ok)
}

func TestTransferString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("jump loop", Transfer{Kind: TRANSFER_JUMP, Label: "loop"}.String())
	assert.Equal("call 0x0038", Transfer{Kind: TRANSFER_CALL, Address: 0x38}.String())
	assert.Equal("halt", Transfer{Kind: TRANSFER_HALT}.String())
}
