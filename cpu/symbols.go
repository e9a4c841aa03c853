package cpu

import (
	"iter"
	"maps"

	"github.com/ezrec/z80step/internal"
)

// Symbols maps constant names to values. Entries are only ever added or
// overwritten.
type Symbols map[string]int

// Define sets or replaces a symbol.
func (sym Symbols) Define(name string, value int) {
	sym[name] = value
}

// Lookup returns a symbol's value.
func (sym Symbols) Lookup(name string) (value int, ok bool) {
	value, ok = sym[name]
	return
}

// All iterates the symbols in name order.
func (sym Symbols) All() iter.Seq2[string, int] {
	return internal.IterSeq2Sorted(maps.All(sym))
}
