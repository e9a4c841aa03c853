package cpu

import (
	"regexp"
	"strings"
)

// SpanKind is the presentation class of part of a source line.
type SpanKind int

const (
	SPAN_SPACE   = SpanKind(0) // Whitespace and separators.
	SPAN_TEXT    = SpanKind(1) // Mnemonics and register names.
	SPAN_LABEL   = SpanKind(2) // Label definition, with its ':'.
	SPAN_COMMENT = SpanKind(3) // Trailing comment.
	SPAN_ARG     = SpanKind(4) // Literal and symbol arguments.
)

var spanKindNames = [...]string{"space", "text", "label", "comment", "arg"}

func (sk SpanKind) String() string {
	if sk < 0 || int(sk) >= len(spanKindNames) {
		return "?"
	}
	return spanKindNames[sk]
}

// Span is a run of a source line with one presentation class.
type Span struct {
	Kind SpanKind
	Text string
}

var (
	spanLabelRe = regexp.MustCompile(`^` + namePattern + `:`)
	spanTokenRe = regexp.MustCompile(`[\s,]+|[^\s,]+`)
)

// Spans splits a line into presentation spans. Joining the span texts gives
// back the line.
func Spans(text string) (spans []Span) {
	code, comment := splitComment(text)

	if label := spanLabelRe.FindString(code); len(label) != 0 {
		spans = append(spans, Span{Kind: SPAN_LABEL, Text: label})
		code = code[len(label):]
	}

	mnemonic := ""
	for _, token := range spanTokenRe.FindAllString(code, -1) {
		kind := SPAN_ARG
		switch {
		case len(strings.Trim(token, " \t\r\n\v\f,")) == 0:
			kind = SPAN_SPACE
		case len(mnemonic) == 0:
			mnemonic = strings.ToLower(token)
			kind = SPAN_TEXT
		default:
			switch Classify(token, mnemonic).Kind {
			case OPERAND_REG8, OPERAND_PAIR, OPERAND_INDIRECT_PAIR, OPERAND_COND:
				kind = SPAN_TEXT
			}
		}
		spans = append(spans, Span{Kind: kind, Text: token})
	}

	if len(comment) != 0 {
		spans = append(spans, Span{Kind: SPAN_COMMENT, Text: comment})
	}

	return
}
