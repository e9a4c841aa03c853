package cpu

const (
	MEMORY_SIZE = 0x10000 // Bytes of addressable memory.
)

// Memory is the flat 64K address space. Every uint16 is a valid address.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at addr.
func (mem *Memory) Read(addr uint16) uint8 {
	return mem[addr]
}

// Write stores a byte at addr.
func (mem *Memory) Write(addr uint16, value uint8) {
	mem[addr] = value
}

// Read16 returns the little-endian word at addr; the high byte comes from
// addr+1, wrapping at the top of memory.
func (mem *Memory) Read16(addr uint16) uint16 {
	return uint16(mem[addr]) | uint16(mem[addr+1])<<8
}

// Write16 stores a little-endian word: low byte at addr, high byte at addr+1.
func (mem *Memory) Write16(addr uint16, value uint16) {
	mem[addr] = uint8(value)
	mem[addr+1] = uint8(value >> 8)
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}
