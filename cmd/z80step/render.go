package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/z80step/cpu"
	"github.com/ezrec/z80step/emulator"
)

const (
	ansiReset  = "\x1b[0m"
	ansiClear  = "\x1b[H\x1b[2J"
	ansiBold   = "\x1b[1m"
	ansiInvert = "\x1b[7m"
	ansiRed    = "\x1b[31m"
)

var spanColour = map[cpu.SpanKind]string{
	cpu.SPAN_SPACE:   "",
	cpu.SPAN_TEXT:    ansiBold,
	cpu.SPAN_LABEL:   "\x1b[33m",
	cpu.SPAN_COMMENT: "\x1b[32m",
	cpu.SPAN_ARG:     "\x1b[36m",
}

// colourLine renders a source line with ANSI colours.
func colourLine(text string) string {
	var sb strings.Builder
	for _, span := range cpu.Spans(text) {
		colour := spanColour[span.Kind]
		if len(colour) == 0 {
			sb.WriteString(span.Text)
			continue
		}
		sb.WriteString(colour)
		sb.WriteString(span.Text)
		sb.WriteString(ansiReset)
	}
	return sb.String()
}

// tagLine renders a source line as kind-tagged spans, for plain output.
func tagLine(text string) string {
	var parts []string
	for _, span := range cpu.Spans(text) {
		parts = append(parts, fmt.Sprintf("%v%q", span.Kind, span.Text))
	}
	return strings.Join(parts, " ")
}

// window returns the first line index and count to show rows lines around
// the cursor.
func window(cursor int, total int, rows int) (first int, count int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}

	first = max(cursor-rows/2, 0)
	first = min(first, total-rows)
	return first, rows
}

// render draws the listing around the cursor, the status and the
// registers. Lines end in "\r\n" so the output is correct in raw mode.
func render(w io.Writer, emu *emulator.Emulator, rows int) {
	fmt.Fprint(w, ansiClear)

	lines := emu.Lines()
	regs := strings.Split(strings.TrimRight(emu.Machine.String(), "\n"), "\n")

	first, count := window(emu.Cursor(), len(lines), rows-len(regs)-3)
	for n := first; n < first+count; n++ {
		marker := "  "
		if n == emu.Cursor() && emu.Status() != emulator.STATUS_READY {
			marker = ansiInvert + "=>" + ansiReset
		}
		fmt.Fprintf(w, "%s%5d  %s\r\n", marker, n+1, colourLine(lines[n]))
	}

	fmt.Fprintf(w, "\r\n%s%v%s  line %d  steps %d", ansiBold, emu.Status(), ansiReset, emu.LineNo(), emu.Steps())
	if message := emu.Message(); len(message) != 0 {
		fmt.Fprintf(w, "  %s%s%s", ansiRed, message, ansiReset)
	}
	fmt.Fprint(w, "\r\n")

	for _, reg := range regs {
		fmt.Fprintf(w, "%s\r\n", reg)
	}
	fmt.Fprint(w, "[s]tep [r]eset [q]uit\r\n")
}
