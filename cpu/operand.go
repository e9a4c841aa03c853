package cpu

import (
	"regexp"
	"strconv"
	"strings"
)

// OperandKind is the classification of an operand token.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_ERROR          = OperandKind(0) // error
	OPERAND_REG8           = OperandKind(1) // reg8
	OPERAND_PAIR           = OperandKind(2) // pair
	OPERAND_INDIRECT_PAIR  = OperandKind(3) // (pair)
	OPERAND_INDIRECT_CONST = OperandKind(4) // (const)
	OPERAND_IMM8           = OperandKind(5) // imm8
	OPERAND_IMM16          = OperandKind(6) // imm16
	OPERAND_BIT            = OperandKind(7) // bit
	OPERAND_COND           = OperandKind(8) // cond
	OPERAND_SYMBOL         = OperandKind(9) // symbol
)

// KindSet is a set of operand kinds.
type KindSet uint16

// Kinds makes a set from a list of kinds.
func Kinds(kinds ...OperandKind) (set KindSet) {
	for _, kind := range kinds {
		set |= 1 << kind
	}
	return
}

// Has reports whether kind is in the set.
func (set KindSet) Has(kind OperandKind) bool {
	return set&(1<<kind) != 0
}

// Operand is a classified instruction argument.
//
// Which payload fields are meaningful depends on Kind:
//
//	OPERAND_REG8                  Reg
//	OPERAND_PAIR, INDIRECT_PAIR   Pair
//	OPERAND_INDIRECT_CONST        Value (address)
//	OPERAND_IMM8, OPERAND_IMM16   Value
//	OPERAND_BIT                   Value (0-7)
//	OPERAND_COND                  Cond
//	OPERAND_SYMBOL                Text (name), Indirect
//	OPERAND_ERROR                 Text
type Operand struct {
	Kind     OperandKind
	Text     string // Token as written.
	Reg      Reg
	Pair     Pair
	Value    uint16
	Cond     Cond
	Indirect bool // Symbol was written as (name).
}

// High byte of a 16-bit value.
func (op Operand) High() uint8 {
	return uint8(op.Value >> 8)
}

// Low byte of a 16-bit value.
func (op Operand) Low() uint8 {
	return uint8(op.Value)
}

func (op Operand) String() string {
	return op.Text
}

var condMap = map[string]Cond{
	"nz": COND_NZ,
	"z":  COND_Z,
	"nc": COND_NC,
	"c":  COND_C,
	"po": COND_PO,
	"pe": COND_PE,
	"p":  COND_P,
	"m":  COND_M,
}

// regMap holds the registers that may be named as operands; f may not.
var regMap = map[string]Reg{
	"a": REG_A,
	"b": REG_B,
	"c": REG_C,
	"d": REG_D,
	"e": REG_E,
	"h": REG_H,
	"l": REG_L,
}

var pairMap = map[string]Pair{
	"bc": PAIR_BC,
	"de": PAIR_DE,
	"hl": PAIR_HL,
}

// Mnemonics whose small numeric operand is a bit index.
var bitMnemonic = map[string]bool{
	"bit": true,
	"set": true,
	"res": true,
}

// namePattern matches label, constant and symbol names.
const namePattern = `[A-Za-z_.][A-Za-z0-9_.]*`

var symbolRe = regexp.MustCompile(`^` + namePattern + `$`)

// parseHex parses 0xN...N or N...Nh with 1 to 4 hex digits.
// An h-suffixed literal must start with a decimal digit.
func parseHex(word string) (value uint16, digits int, ok bool) {
	var text string
	switch {
	case strings.HasPrefix(word, "0x"):
		text = word[2:]
	case strings.HasSuffix(word, "h") && len(word) > 1 && word[0] >= '0' && word[0] <= '9':
		text = strings.TrimLeft(word[:len(word)-1], "0")
		if len(text) == 0 {
			text = "0"
		}
	default:
		return
	}

	if len(text) < 1 || len(text) > 4 {
		return
	}

	v64, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return
	}

	return uint16(v64), len(text), true
}

// parenthesized returns the inside of "(...)".
func parenthesized(word string) (inner string, ok bool) {
	if len(word) < 3 || word[0] != '(' || word[len(word)-1] != ')' {
		return
	}
	return strings.TrimSpace(word[1 : len(word)-1]), true
}

// Classify turns a raw operand token into an Operand. It never fails; tokens
// that match no operand shape come back as OPERAND_ERROR. The mnemonic decides
// whether a single digit 0-7 is a bit index.
func Classify(raw string, mnemonic string) (op Operand) {
	text := strings.TrimSpace(raw)
	word := strings.ToLower(text)

	op.Text = text

	if cond, ok := condMap[word]; ok {
		op.Kind = OPERAND_COND
		op.Cond = cond
		return
	}

	if reg, ok := regMap[word]; ok {
		op.Kind = OPERAND_REG8
		op.Reg = reg
		return
	}

	if pair, ok := pairMap[word]; ok {
		op.Kind = OPERAND_PAIR
		op.Pair = pair
		return
	}

	if inner, ok := parenthesized(word); ok {
		if pair, ok := pairMap[inner]; ok {
			op.Kind = OPERAND_INDIRECT_PAIR
			op.Pair = pair
			return
		}
		if value, _, ok := parseHex(inner); ok {
			op.Kind = OPERAND_INDIRECT_CONST
			op.Value = value
			return
		}
	}

	if value, digits, ok := parseHex(word); ok {
		op.Value = value
		if digits <= 2 {
			op.Kind = OPERAND_IMM8
		} else {
			op.Kind = OPERAND_IMM16
		}
		return
	}

	if len(word) == 1 && word[0] >= '0' && word[0] <= '7' && bitMnemonic[strings.ToLower(mnemonic)] {
		op.Kind = OPERAND_BIT
		op.Value = uint16(word[0] - '0')
		return
	}

	if v64, err := strconv.ParseUint(word, 10, 16); err == nil {
		op.Value = uint16(v64)
		if v64 <= 0xff {
			op.Kind = OPERAND_IMM8
		} else {
			op.Kind = OPERAND_IMM16
		}
		return
	}

	if symbolRe.MatchString(text) {
		op.Kind = OPERAND_SYMBOL
		return
	}

	if inner, ok := parenthesized(text); ok && symbolRe.MatchString(inner) {
		op.Kind = OPERAND_SYMBOL
		op.Text = inner
		op.Indirect = true
		return
	}

	op.Kind = OPERAND_ERROR
	return
}
