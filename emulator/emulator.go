// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/z80step/cpu"
	"github.com/ezrec/z80step/internal"
)

var _emulator_defines = map[string]int{
	"STACK_LIMIT": cpu.STACK_LIMIT,
}

// Status is the state of the step controller.
type Status int

const (
	STATUS_READY   = Status(0) // Loaded, nothing executed yet.
	STATUS_STEPPED = Status(1) // Landed on an instruction line.
	STATUS_END     = Status(2) // Scanned past the last line.
	STATUS_HALTED  = Status(3) // Executed halt.
)

var statusNames = [...]string{"ready", "stepped", "end", "halted"}

func (st Status) String() string {
	if st < 0 || int(st) >= len(statusNames) {
		return "?"
	}
	return statusNames[st]
}

// Done reports whether further steps are no-ops.
func (st Status) Done() bool {
	return st == STATUS_END || st == STATUS_HALTED
}

// Emulator state. Machine + Program + cursor.
type Emulator struct {
	Verbose      bool // If set, enables verbose logging.
	FollowJumps  bool // If set, jump, call and ret move the cursor.
	*cpu.Machine      // Reference to the machine state.
	Program      *Program

	stack   cpu.Stack // Return line indexes.
	status  Status
	message string // Most recent diagnostic.
	cursor  int    // Index of the landed line.
	next    int    // Index where the next scan starts.
	steps   int    // Instructions landed on since reset.
}

// NewEmulator creates a new emulator, ready to step a program.
func NewEmulator(prog *Program) (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(),
		Program: prog,
	}

	emu.Reset()

	return
}

// Defines returns an iterator over all of the predefined symbols.
func (emu *Emulator) Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Reset clears the machine, rewinds the program and seeds the symbol table.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset()

	for name, value := range emu.Defines() {
		emu.Machine.Symbols.Define(name, value)
	}

	emu.stack.Reset()
	emu.status = STATUS_READY
	emu.message = ""
	emu.cursor = 0
	emu.next = 0
	emu.steps = 0
}

// Status returns the current step status.
func (emu *Emulator) Status() Status {
	return emu.status
}

// Message returns the diagnostic of the most recent step, if any.
func (emu *Emulator) Message() string {
	return emu.message
}

// Cursor returns the index of the current line.
func (emu *Emulator) Cursor() int {
	return emu.cursor
}

// LineNo returns the one-based number of the current line.
func (emu *Emulator) LineNo() int {
	return emu.cursor + 1
}

// Line returns the text of the current line.
func (emu *Emulator) Line() string {
	if emu.cursor >= len(emu.Program.Lines) {
		return ""
	}
	return emu.Program.Lines[emu.cursor]
}

// Lines returns the program lines.
func (emu *Emulator) Lines() []string {
	return emu.Program.Lines
}

// Steps returns the number of instructions landed on since reset.
func (emu *Emulator) Steps() int {
	return emu.steps
}

// Depth returns the number of pending returns.
func (emu *Emulator) Depth() int {
	return len(emu.stack.Data)
}

// diagnose records an error against line n.
func (emu *Emulator) diagnose(n int, err error) error {
	err = &ErrRuntime{LineNo: n + 1, Line: emu.Program.Lines[n], Err: err}
	emu.message = err.Error()
	if emu.Verbose {
		log.Printf("emulator: %v", err)
	}
	return err
}

// Step decodes lines from the cursor until one is an instruction, and
// executes it. Constants met on the way are defined. Errors on skipped or
// landed lines are returned, and kept as the message; they never end the
// run. Once the program has ended or halted, Step does nothing.
func (emu *Emulator) Step() (status Status, err error) {
	if emu.status.Done() {
		status = emu.status
		return
	}

	emu.Machine.Verbose = emu.Verbose
	emu.message = ""

	lines := emu.Program.Lines
	for n := emu.next; n < len(lines); n++ {
		line, lerr := emu.Machine.DecodeLine(lines[n])
		if lerr != nil {
			err = errors.Join(err, emu.diagnose(n, lerr))
		}

		if line.Kind != cpu.LINE_INSTRUCTION {
			continue
		}

		emu.cursor = n
		emu.next = n + 1
		emu.steps++
		emu.status = STATUS_STEPPED

		if t, ok := emu.Machine.TakeTransfer(); ok {
			terr := emu.transfer(n, t)
			if terr != nil {
				err = errors.Join(err, emu.diagnose(n, terr))
			}
		}

		status = emu.status
		return
	}

	if len(lines) > 0 {
		emu.cursor = len(lines) - 1
	}
	emu.next = len(lines)
	emu.status = STATUS_END

	if emu.Verbose {
		log.Printf("emulator: end of program")
	}

	status = emu.status
	return
}

// transfer acts on a control transfer requested by the instruction at line n.
func (emu *Emulator) transfer(n int, t cpu.Transfer) (err error) {
	if t.Kind == cpu.TRANSFER_HALT {
		emu.status = STATUS_HALTED
		return
	}

	if !emu.FollowJumps {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %v", t)
	}

	if t.Kind == cpu.TRANSFER_RETURN {
		var ret int
		ret, err = emu.stack.Pop()
		if err != nil {
			return
		}
		emu.next = ret
		return
	}

	if len(t.Label) == 0 {
		err = ErrTargetAddress(t.Address)
		return
	}

	target, ok := emu.Program.Label(t.Label)
	if !ok {
		err = ErrLabelMissing(t.Label)
		return
	}

	if t.Kind == cpu.TRANSFER_CALL {
		err = emu.stack.Push(n + 1)
		if err != nil {
			return
		}
	}

	emu.next = target

	return
}

// Run steps until the program ends or halts, or limit instructions have
// executed. A limit of zero or less is no limit.
func (emu *Emulator) Run(limit int) (steps int, err error) {
	return emu.RunContext(context.Background(), limit)
}

// RunContext is Run, stopping early with the context's error once ctx is
// done.
func (emu *Emulator) RunContext(ctx context.Context, limit int) (steps int, err error) {
	start := emu.steps
	for limit <= 0 || steps < limit {
		if cerr := ctx.Err(); cerr != nil {
			err = errors.Join(err, cerr)
			return
		}
		status, serr := emu.Step()
		err = errors.Join(err, serr)
		steps = emu.steps - start
		if status.Done() {
			return
		}
	}

	return
}
