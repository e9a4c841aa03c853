package cpu

import (
	"iter"
	"slices"
	"strings"
)

const (
	HISTORY_DEPTH = 8    // Number of values a register remembers.
	REG_SENTINEL  = 0xff // Value of a register that was never written.
	REG_COUNT     = 8    // Number of 8-bit registers.
)

// Reg names one of the 8-bit registers.
type Reg int

const (
	REG_A = Reg(0) // Accumulator.
	REG_F = Reg(1) // Flags.
	REG_B = Reg(2)
	REG_C = Reg(3)
	REG_D = Reg(4)
	REG_E = Reg(5)
	REG_H = Reg(6)
	REG_L = Reg(7)
)

var regNames = [REG_COUNT]string{"a", "f", "b", "c", "d", "e", "h", "l"}

func (r Reg) String() string {
	if r < 0 || int(r) >= len(regNames) {
		return "?"
	}
	return regNames[r]
}

// LookupReg finds a register by name. Unlike operands, f may be named.
func LookupReg(name string) (r Reg, ok bool) {
	n := slices.Index(regNames[:], strings.ToLower(name))
	if n < 0 {
		return
	}
	return Reg(n), true
}

// Pair is a 16-bit view over two 8-bit registers.
type Pair struct {
	High Reg
	Low  Reg
}

var (
	PAIR_BC = Pair{High: REG_B, Low: REG_C}
	PAIR_DE = Pair{High: REG_D, Low: REG_E}
	PAIR_HL = Pair{High: REG_H, Low: REG_L}
)

func (p Pair) String() string {
	return p.High.String() + p.Low.String()
}

// LookupPair finds a register pair by name.
func LookupPair(name string) (p Pair, ok bool) {
	p, ok = pairMap[strings.ToLower(name)]
	return
}

// Register is an 8-bit cell that keeps its last HISTORY_DEPTH values in a
// ring, newest first.
type Register struct {
	values [HISTORY_DEPTH]uint8
	head   int // index of the newest value
	count  int
}

// Get returns the current value, or REG_SENTINEL if never written.
func (r *Register) Get() uint8 {
	if r.count == 0 {
		return REG_SENTINEL
	}

	return r.values[r.head]
}

// Set pushes a new current value, evicting the oldest once full.
func (r *Register) Set(value uint8) {
	r.head = (r.head + HISTORY_DEPTH - 1) % HISTORY_DEPTH
	r.values[r.head] = value
	if r.count < HISTORY_DEPTH {
		r.count++
	}
}

// History iterates the remembered values, newest first.
func (r *Register) History() iter.Seq[uint8] {
	return func(yield func(uint8) bool) {
		for n := range r.count {
			if !yield(r.values[(r.head+n)%HISTORY_DEPTH]) {
				return
			}
		}
	}
}

// Reset forgets all values.
func (r *Register) Reset() {
	*r = Register{}
}
