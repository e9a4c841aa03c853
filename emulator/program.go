package emulator

import (
	"iter"
	"maps"

	"github.com/ezrec/z80step/cpu"
	"github.com/ezrec/z80step/internal"
	"github.com/ezrec/z80step/io"
)

// Program is a loaded listing. Its lines never change after load.
type Program struct {
	Name  string
	Lines []string

	labels map[string]int // Label name to line index.
}

// NewProgram creates a program from a listing, and records the line of
// every label. When a label is defined twice, the first definition wins.
func NewProgram(lst *io.Listing) (prog *Program) {
	prog = &Program{
		Name:   lst.Name,
		Lines:  lst.Lines,
		labels: map[string]int{},
	}

	for n, text := range prog.Lines {
		label, ok := cpu.LabelOf(text)
		if !ok {
			continue
		}
		if _, found := prog.labels[label]; found {
			continue
		}
		prog.labels[label] = n
	}

	return
}

// Label returns the line index of a label.
func (prog *Program) Label(name string) (n int, ok bool) {
	n, ok = prog.labels[name]
	return
}

// Labels iterates all labels and their line indexes, in name order.
func (prog *Program) Labels() iter.Seq2[string, int] {
	return internal.IterSeq2Sorted(maps.All(prog.labels))
}
