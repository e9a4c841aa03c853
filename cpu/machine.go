// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

var _machine_defines = map[string]int{
	"MEMORY_SIZE":   MEMORY_SIZE,
	"HISTORY_DEPTH": HISTORY_DEPTH,
}

// TransferKind is the kind of a recorded control transfer.
type TransferKind int

const (
	TRANSFER_JUMP   = TransferKind(0)
	TRANSFER_CALL   = TransferKind(1)
	TRANSFER_RETURN = TransferKind(2)
	TRANSFER_HALT   = TransferKind(3)
)

var transferNames = [...]string{"jump", "call", "return", "halt"}

func (tk TransferKind) String() string {
	if tk < 0 || int(tk) >= len(transferNames) {
		return "?"
	}
	return transferNames[tk]
}

// Transfer is a control transfer requested by an instruction. The target is
// either a label name or, if Label is empty, an Address.
type Transfer struct {
	Kind    TransferKind
	Label   string
	Address uint16
}

func (t Transfer) String() string {
	switch {
	case t.Kind == TRANSFER_RETURN || t.Kind == TRANSFER_HALT:
		return t.Kind.String()
	case len(t.Label) != 0:
		return fmt.Sprintf("%v %v", t.Kind, t.Label)
	default:
		return fmt.Sprintf("%v 0x%04x", t.Kind, t.Address)
	}
}

// Machine is the register, memory and symbol state of one simulated run.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Register [REG_COUNT]Register // Register file, indexed by Reg.
	Memory   Memory              // Flat 64K memory.
	Symbols  Symbols             // Constants defined by equ lines.

	transfer *Transfer // Pending control transfer.
}

// NewMachine creates a machine with every register at REG_SENTINEL and
// memory zeroed.
func NewMachine() (m *Machine) {
	m = &Machine{
		Symbols: Symbols{},
	}

	return
}

// Defines iterates the predefined symbols of the machine.
func (m *Machine) Defines() iter.Seq2[string, int] {
	return maps.All(_machine_defines)
}

// Reset clears registers, memory, symbols and any pending transfer.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("cpu: reset")
	}

	for n := range m.Register {
		m.Register[n].Reset()
	}
	m.Memory.Reset()
	m.Symbols = Symbols{}
	m.transfer = nil
}

// Reg returns the current value of a register.
func (m *Machine) Reg(r Reg) uint8 {
	return m.Register[r].Get()
}

// SetReg writes a register.
func (m *Machine) SetReg(r Reg, value uint8) {
	m.Register[r].Set(value)
}

// Pair returns the 16-bit value of a register pair.
func (m *Machine) Pair(p Pair) uint16 {
	return uint16(m.Reg(p.High))<<8 | uint16(m.Reg(p.Low))
}

// SetPair writes both halves of a register pair.
func (m *Machine) SetPair(p Pair, value uint16) {
	m.SetReg(p.High, uint8(value>>8))
	m.SetReg(p.Low, uint8(value))
}

// request records a control transfer for the caller to act on.
func (m *Machine) request(t Transfer) {
	if m.Verbose {
		log.Printf("cpu: %v", t)
	}
	m.transfer = &t
}

// TakeTransfer returns and clears the pending control transfer, if any.
func (m *Machine) TakeTransfer() (t Transfer, ok bool) {
	if m.transfer == nil {
		return
	}

	t, ok = *m.transfer, true
	m.transfer = nil
	return
}

// String returns the register file, each with its history, as text.
func (m *Machine) String() (text string) {
	for n := range m.Register {
		reg := Reg(n)
		var history []string
		for value := range m.Register[n].History() {
			history = append(history, fmt.Sprintf("%02X", value))
		}
		text += fmt.Sprintf("%v: %02X [%v]\n", reg, m.Reg(reg), strings.Join(history, " "))
	}

	for _, p := range []Pair{PAIR_BC, PAIR_DE, PAIR_HL} {
		text += fmt.Sprintf("%v: %04X\n", p, m.Pair(p))
	}

	return
}
