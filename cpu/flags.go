package cpu

// Flag bits of the f register.
const (
	FLAG_C = uint8(0x01) // Carry
	FLAG_N = uint8(0x02) // Subtract
	FLAG_P = uint8(0x04) // Parity/Overflow
	FLAG_H = uint8(0x10) // Half-carry
	FLAG_Z = uint8(0x40) // Zero
	FLAG_S = uint8(0x80) // Sign
)

// Only the flags the condition codes test, plus H and N, are modelled.

// Cond is a condition code, tested against the f register.
type Cond int

const (
	COND_NZ = Cond(0)
	COND_Z  = Cond(1)
	COND_NC = Cond(2)
	COND_C  = Cond(3)
	COND_PO = Cond(4)
	COND_PE = Cond(5)
	COND_P  = Cond(6)
	COND_M  = Cond(7)
)

var condNames = [...]string{"nz", "z", "nc", "c", "po", "pe", "p", "m"}

func (c Cond) String() string {
	if c < 0 || int(c) >= len(condNames) {
		return "?"
	}
	return condNames[c]
}

// Holds reports whether the condition is true for the flags in f.
func (c Cond) Holds(f uint8) bool {
	var bit uint8
	switch c {
	case COND_NZ, COND_Z:
		bit = FLAG_Z
	case COND_NC, COND_C:
		bit = FLAG_C
	case COND_PO, COND_PE:
		bit = FLAG_P
	case COND_P, COND_M:
		bit = FLAG_S
	default:
		return false
	}

	// Even conditions test for a clear bit.
	set := (f & bit) != 0
	if c%2 == 0 {
		return !set
	}
	return set
}

// Relative reports whether the condition is usable by jr.
func (c Cond) Relative() bool {
	return c >= COND_NZ && c <= COND_C
}

var parityTable [256]uint8

func init() {
	for i := range 256 {
		ones := 0
		for j := uint8(i); j != 0; j >>= 1 {
			ones += int(j & 1)
		}
		if ones%2 == 0 {
			parityTable[i] = FLAG_P
		}
	}
}

// flagsSZ returns the sign and zero flags for a result.
func flagsSZ(value uint8) (f uint8) {
	if value == 0 {
		f |= FLAG_Z
	}
	f |= value & FLAG_S
	return
}

// flagsLogic returns the flags after and/or/xor.
func flagsLogic(value uint8, half bool) (f uint8) {
	f = flagsSZ(value) | parityTable[value]
	if half {
		f |= FLAG_H
	}
	return
}

// flagsAdd returns the flags after an 8-bit add of b to a.
func flagsAdd(a, b uint8) (result uint8, f uint8) {
	sum := uint16(a) + uint16(b)
	result = uint8(sum)
	f = flagsSZ(result)
	if sum > 0xff {
		f |= FLAG_C
	}
	if (a&0xf)+(b&0xf) > 0xf {
		f |= FLAG_H
	}
	if (^(a^b))&(a^result)&0x80 != 0 {
		f |= FLAG_P
	}
	return
}

// flagsSub returns the flags after an 8-bit subtract of b from a.
func flagsSub(a, b uint8) (result uint8, f uint8) {
	result = a - b
	f = flagsSZ(result) | FLAG_N
	if a < b {
		f |= FLAG_C
	}
	if (a & 0xf) < (b & 0xf) {
		f |= FLAG_H
	}
	if (a^b)&(a^result)&0x80 != 0 {
		f |= FLAG_P
	}
	return
}
