package cpu

import (
	"errors"
	"log"
	"strings"
)

// Op is an instruction kind.
type Op int

const (
	OP_NOP = Op(iota)
	OP_HALT
	OP_CPL
	OP_SCF
	OP_CCF
	OP_LD
	OP_OR
	OP_AND
	OP_XOR
	OP_CP
	OP_SUB
	OP_ADD
	OP_INC
	OP_DEC
	OP_BIT
	OP_SET
	OP_RES
	OP_EX
	OP_JP
	OP_JR
	OP_CALL
	OP_DJNZ
	OP_RET
	OP_RST
)

// Form is one (mnemonic, arity) shape of an instruction.
type Form struct {
	Op     Op
	Args   []KindSet // Allowed operand kinds, by position.
	Target int       // Position of a jump target, or -1.
}

// Arity is the number of operands of the form.
func (form Form) Arity() int {
	return len(form.Args)
}

type formKey struct {
	Mnemonic string
	Arity    int
}

var (
	kindsSrc8     = Kinds(OPERAND_REG8, OPERAND_INDIRECT_PAIR, OPERAND_INDIRECT_CONST, OPERAND_IMM8)
	kindsDst      = Kinds(OPERAND_REG8, OPERAND_PAIR, OPERAND_INDIRECT_PAIR, OPERAND_INDIRECT_CONST)
	kindsSrc      = kindsDst | Kinds(OPERAND_IMM8, OPERAND_IMM16)
	kindsStep     = Kinds(OPERAND_REG8, OPERAND_PAIR, OPERAND_INDIRECT_PAIR)
	kindsBits     = Kinds(OPERAND_REG8, OPERAND_INDIRECT_PAIR)
	kindsCond     = Kinds(OPERAND_COND)
	kindsTarget   = Kinds(OPERAND_SYMBOL, OPERAND_IMM8, OPERAND_IMM16)
	kindsJpTarget = kindsTarget | Kinds(OPERAND_INDIRECT_PAIR)
)

// forms is the complete instruction set.
var forms = map[formKey]Form{
	{"nop", 0}:  {Op: OP_NOP, Target: -1},
	{"halt", 0}: {Op: OP_HALT, Target: -1},
	{"cpl", 0}:  {Op: OP_CPL, Target: -1},
	{"scf", 0}:  {Op: OP_SCF, Target: -1},
	{"ccf", 0}:  {Op: OP_CCF, Target: -1},

	{"ld", 2}: {Op: OP_LD, Args: []KindSet{kindsDst, kindsSrc}, Target: -1},

	{"or", 1}:  {Op: OP_OR, Args: []KindSet{kindsSrc8}, Target: -1},
	{"and", 1}: {Op: OP_AND, Args: []KindSet{kindsSrc8}, Target: -1},
	{"xor", 1}: {Op: OP_XOR, Args: []KindSet{kindsSrc8}, Target: -1},
	{"cp", 1}:  {Op: OP_CP, Args: []KindSet{kindsSrc8}, Target: -1},
	{"sub", 1}: {Op: OP_SUB, Args: []KindSet{kindsSrc8}, Target: -1},
	{"add", 2}: {Op: OP_ADD, Args: []KindSet{Kinds(OPERAND_REG8, OPERAND_PAIR), kindsSrc8 | Kinds(OPERAND_PAIR)}, Target: -1},

	{"inc", 1}: {Op: OP_INC, Args: []KindSet{kindsStep}, Target: -1},
	{"dec", 1}: {Op: OP_DEC, Args: []KindSet{kindsStep}, Target: -1},

	{"bit", 2}: {Op: OP_BIT, Args: []KindSet{Kinds(OPERAND_BIT), kindsBits}, Target: -1},
	{"set", 2}: {Op: OP_SET, Args: []KindSet{Kinds(OPERAND_BIT), kindsBits}, Target: -1},
	{"res", 2}: {Op: OP_RES, Args: []KindSet{Kinds(OPERAND_BIT), kindsBits}, Target: -1},

	{"ex", 2}: {Op: OP_EX, Args: []KindSet{Kinds(OPERAND_PAIR), Kinds(OPERAND_PAIR)}, Target: -1},

	{"jp", 1}:   {Op: OP_JP, Args: []KindSet{kindsJpTarget}, Target: 0},
	{"jp", 2}:   {Op: OP_JP, Args: []KindSet{kindsCond, kindsTarget}, Target: 1},
	{"jr", 1}:   {Op: OP_JR, Args: []KindSet{kindsTarget}, Target: 0},
	{"jr", 2}:   {Op: OP_JR, Args: []KindSet{kindsCond, kindsTarget}, Target: 1},
	{"call", 1}: {Op: OP_CALL, Args: []KindSet{kindsTarget}, Target: 0},
	{"call", 2}: {Op: OP_CALL, Args: []KindSet{kindsCond, kindsTarget}, Target: 1},
	{"djnz", 1}: {Op: OP_DJNZ, Args: []KindSet{kindsTarget}, Target: 0},
	{"ret", 0}:  {Op: OP_RET, Target: -1},
	{"ret", 1}:  {Op: OP_RET, Args: []KindSet{kindsCond}, Target: -1},
	{"rst", 1}:  {Op: OP_RST, Args: []KindSet{Kinds(OPERAND_IMM8)}, Target: -1},
}

// LookupForm finds the form for a mnemonic and operand count.
func LookupForm(mnemonic string, arity int) (form Form, ok bool) {
	form, ok = forms[formKey{Mnemonic: strings.ToLower(mnemonic), Arity: arity}]
	return
}

// Instruction is a decoded instruction, ready to execute.
type Instruction struct {
	Mnemonic string
	Form     Form
	Operands []Operand
}

// mismatch reports an operand the instruction cannot act on.
func (in *Instruction) mismatch(position int, err error) error {
	return &ErrOperand{
		Mnemonic: in.Mnemonic,
		Position: position,
		Operand:  in.Operands[position],
		Err:      err,
	}
}

// resolve replaces a symbol operand with its value from the symbol table.
// Unknown symbols in a jump target position are kept as labels. Values
// outside 0..0xffff are ErrOperandRange.
func (m *Machine) resolve(op Operand, target bool) (Operand, error) {
	switch op.Kind {
	case OPERAND_ERROR:
		return op, ErrDecode(op.Text)
	case OPERAND_SYMBOL:
	default:
		return op, nil
	}

	value, ok := m.Symbols.Lookup(op.Text)
	if !ok {
		if target && !op.Indirect {
			return op, nil
		}
		return op, ErrSymbolMissing(op.Text)
	}

	if value < 0 || value > 0xffff {
		return op, ErrOperandRange
	}

	op.Value = uint16(value)
	switch {
	case op.Indirect:
		op.Kind = OPERAND_INDIRECT_CONST
	case value >= 0 && value <= 0xff:
		op.Kind = OPERAND_IMM8
	default:
		op.Kind = OPERAND_IMM16
	}

	return op, nil
}

// Decode classifies and resolves the operand tokens of an instruction and
// checks them against its form. Decode does not change the machine.
func (m *Machine) Decode(mnemonic string, tokens []string) (in Instruction, err error) {
	mnemonic = strings.ToLower(mnemonic)

	form, ok := LookupForm(mnemonic, len(tokens))
	if !ok {
		err = &ErrInstructionUnknown{Mnemonic: mnemonic, Arity: len(tokens)}
		return
	}

	in = Instruction{
		Mnemonic: mnemonic,
		Form:     form,
		Operands: make([]Operand, form.Arity()),
	}

	for n, token := range tokens {
		op := Classify(token, mnemonic)
		op, err = m.resolve(op, n == form.Target)
		if errors.Is(err, ErrOperandRange) {
			in.Operands[n] = op
			err = in.mismatch(n, err)
		}
		if err != nil {
			return
		}

		// The flag name 'c' doubles as the register c.
		if op.Kind == OPERAND_COND && op.Cond == COND_C && !form.Args[n].Has(OPERAND_COND) {
			op.Kind = OPERAND_REG8
			op.Reg = REG_C
		}

		in.Operands[n] = op

		if !form.Args[n].Has(op.Kind) {
			err = in.mismatch(n, ErrOperandShape)
			return
		}
	}

	return
}

// Dispatch decodes and executes one instruction. On error the machine is
// left unchanged.
func (m *Machine) Dispatch(mnemonic string, tokens []string) (err error) {
	in, err := m.Decode(mnemonic, tokens)
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("cpu: %v %v", in.Mnemonic, strings.Join(tokens, ","))
	}

	return m.Execute(&in)
}
