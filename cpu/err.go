package cpu

import (
	"github.com/ezrec/z80step/translate"
)

var f = translate.From

var (
	// Operand errors
	ErrOperandShape = translate.Error("operand not allowed here")
	ErrOperandWidth = translate.Error("operand width mismatch")
	ErrOperandRange = translate.Error("operand out of range")

	// Line errors
	ErrEquateSyntax = translate.Error("equ syntax")

	// Return stack errors
	ErrStackEmpty = translate.Error("stack empty")
	ErrStackFull  = translate.Error("stack full")
)

// ErrDecode is an operand token that matches no operand shape.
type ErrDecode string

func (err ErrDecode) Error() string {
	return f("'%v' is not a valid operand", string(err))
}

// ErrSymbolMissing is a reference to a symbol not in the symbol table.
type ErrSymbolMissing string

func (err ErrSymbolMissing) Error() string {
	return f("symbol %v missing", string(err))
}

// ErrParseNumber is a constant value that is not a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression is a $(...) value that did not evaluate to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrInstructionUnknown is a mnemonic with no form of the given arity.
type ErrInstructionUnknown struct {
	Mnemonic string
	Arity    int
}

func (err *ErrInstructionUnknown) Error() string {
	return f("unknown instruction %v with %v operands", err.Mnemonic, err.Arity)
}

// ErrOperand is an operand an instruction cannot act on.
type ErrOperand struct {
	Mnemonic string
	Position int // Zero-based operand index.
	Operand  Operand
	Err      error
}

func (err *ErrOperand) Error() string {
	return f("%v operand %v '%v' (%v): %v", err.Mnemonic, err.Position+1, err.Operand.Text, err.Operand.Kind, err.Err)
}

func (err *ErrOperand) Unwrap() error {
	return err.Err
}
