// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// LineKind is the syntactic shape of a source line.
type LineKind int

const (
	LINE_BLANK        = LineKind(0) // Empty, or only a comment.
	LINE_LABEL        = LineKind(1) // name:
	LINE_CONSTANT     = LineKind(2) // name: equ value
	LINE_INSTRUCTION  = LineKind(3) // <space>mnemonic op, op
	LINE_UNRECOGNIZED = LineKind(4)
)

var lineKindNames = [...]string{"blank", "label", "constant", "instruction", "unrecognized"}

func (lk LineKind) String() string {
	if lk < 0 || int(lk) >= len(lineKindNames) {
		return "?"
	}
	return lineKindNames[lk]
}

// Line is a parsed source line.
type Line struct {
	Kind     LineKind
	Label    string   // Label or constant name, if any.
	Value    string   // Constant value text.
	Mnemonic string   // Instruction mnemonic, lower case.
	Operands []string // Instruction operand tokens.
	Comment  string   // Trailing comment, including the ';'.
}

// MAX_OPERANDS is the most operands an instruction line may carry.
const MAX_OPERANDS = 3

var (
	labelRe       = regexp.MustCompile(`^(` + namePattern + `):\s*(.*)$`)
	equRe         = regexp.MustCompile(`^(?i:equ)\s+(.+)$`)
	bareEquRe     = regexp.MustCompile(`^(` + namePattern + `)\s+(?i:equ)\s+(.+)$`)
	instructionRe = regexp.MustCompile(`^\s+([A-Za-z]+)(?:\s+(.+))?$`)
)

// splitComment splits a line at its first ';'.
func splitComment(text string) (code string, comment string) {
	n := strings.IndexByte(text, ';')
	if n < 0 {
		return text, ""
	}
	return text[:n], text[n:]
}

// parseInstruction parses "<space>mnemonic op, op".
func parseInstruction(code string) (mnemonic string, operands []string, ok bool) {
	match := instructionRe.FindStringSubmatch(code)
	if match == nil {
		return
	}

	mnemonic = strings.ToLower(match[1])
	if len(match[2]) != 0 {
		for _, token := range strings.Split(match[2], ",") {
			token = strings.TrimSpace(token)
			if len(token) == 0 {
				return
			}
			operands = append(operands, token)
		}
	}

	if len(operands) > MAX_OPERANDS {
		return
	}

	ok = true
	return
}

// ParseLine determines the shape of a source line without evaluating it.
func ParseLine(text string) (line Line) {
	code, comment := splitComment(text)
	code = strings.TrimRight(code, " \t\r")
	line.Comment = comment

	if len(strings.TrimSpace(code)) == 0 {
		line.Kind = LINE_BLANK
		return
	}

	if match := labelRe.FindStringSubmatch(code); match != nil {
		line.Label = match[1]
		rest := match[2]
		if len(rest) == 0 {
			line.Kind = LINE_LABEL
			return
		}
		if equ := equRe.FindStringSubmatch(rest); equ != nil {
			line.Kind = LINE_CONSTANT
			line.Value = strings.TrimSpace(equ[1])
			return
		}
		// An instruction may follow a label on the same line.
		mnemonic, operands, ok := parseInstruction(" " + rest)
		if !ok {
			line.Kind = LINE_UNRECOGNIZED
			return
		}
		line.Kind = LINE_INSTRUCTION
		line.Mnemonic = mnemonic
		line.Operands = operands
		return
	}

	if match := bareEquRe.FindStringSubmatch(code); match != nil {
		line.Kind = LINE_CONSTANT
		line.Label = match[1]
		line.Value = strings.TrimSpace(match[2])
		return
	}

	if mnemonic, operands, ok := parseInstruction(code); ok {
		line.Kind = LINE_INSTRUCTION
		line.Mnemonic = mnemonic
		line.Operands = operands
		return
	}

	line.Kind = LINE_UNRECOGNIZED
	return
}

// LabelOf returns the jump label defined by a line, if any.
func LabelOf(text string) (label string, ok bool) {
	line := ParseLine(text)
	switch line.Kind {
	case LINE_LABEL, LINE_INSTRUCTION:
		label = line.Label
		ok = len(label) != 0
	}
	return
}

// DecodeLine parses a line and acts on it: constants are stored in the
// symbol table, instructions are dispatched. Errors never change the line's
// kind; an instruction that fails to dispatch is still LINE_INSTRUCTION.
func (m *Machine) DecodeLine(text string) (line Line, err error) {
	line = ParseLine(text)

	switch line.Kind {
	case LINE_CONSTANT:
		var value int
		value, err = m.Evaluate(line.Value)
		if err != nil {
			return
		}
		if m.Verbose {
			log.Printf("cpu: equ %v = %#x", line.Label, value)
		}
		m.Symbols.Define(line.Label, value)
	case LINE_INSTRUCTION:
		err = m.Dispatch(line.Mnemonic, line.Operands)
	}

	return
}

// Evaluate returns the value of a constant: a decimal, 0x-hex or h-suffixed
// hex number, an existing symbol, or a $(...) expression over the symbols.
func (m *Machine) Evaluate(text string) (value int, err error) {
	text = strings.TrimSpace(text)

	if len(text) == 0 {
		err = ErrEquateSyntax
		return
	}

	if strings.HasPrefix(text, "$(") && strings.HasSuffix(text, ")") {
		return m.parenEval(text[2 : len(text)-1])
	}

	if v, found := m.Symbols.Lookup(text); found {
		value = v
		return
	}

	lower := strings.ToLower(text)
	if hex, _, ok := parseHex(lower); ok && !strings.HasPrefix(lower, "0x") {
		value = int(hex)
		return
	}

	base := 10
	if strings.HasPrefix(lower, "0x") {
		base = 16
		lower = lower[2:]
	}

	v64, perr := strconv.ParseInt(lower, base, 32)
	if perr != nil {
		err = ErrParseNumber(text)
		return
	}

	value = int(v64)
	return
}

// parenEval evaluates a $(...) expression with the symbols predeclared.
func (m *Machine) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "equ"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, v := range m.Symbols {
		pred[name] = starlark.MakeInt(v)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	value = int(st_int64)
	return
}
