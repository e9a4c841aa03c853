// Package script drives an emulator from a Lua program.
//
// The script sees these globals:
//
//	step()        step once; returns status and diagnostic (or nil)
//	run(n)        step up to n instructions (0 for no limit); returns steps, status
//	reset()       reset the emulator
//	reg(name)     current value of an 8-bit register, f included
//	pair(name)    current value of bc, de or hl
//	history(name) table of a register's remembered values, newest first
//	mem(addr)     memory byte at addr
//	sym(name)     symbol value, or nil
//	line()        current line number and text
//	status()      current status name
//	message()     most recent diagnostic, or ""
//	print(...)    write to the script output
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ezrec/z80step/cpu"
	"github.com/ezrec/z80step/emulator"
)

// Script is a Lua program that steps an emulator.
type Script struct {
	Name   string    // Chunk name, for diagnostics.
	Source string    // Lua source text.
	Output io.Writer // Destination of print(); os.Stdout if nil.
}

// binding holds the emulator a running script controls.
type binding struct {
	emu    *emulator.Emulator
	output io.Writer
}

// Run executes the script against the emulator. The script stops early if
// ctx is cancelled.
func (sc *Script) Run(ctx context.Context, emu *emulator.Emulator) (err error) {
	L := lua.NewState()
	defer L.Close()

	if ctx != nil {
		L.SetContext(ctx)
	}

	b := &binding{emu: emu, output: sc.Output}
	if b.output == nil {
		b.output = os.Stdout
	}

	for name, fn := range map[string]lua.LGFunction{
		"step":    b.step,
		"run":     b.run,
		"reset":   b.reset,
		"reg":     b.reg,
		"pair":    b.pair,
		"history": b.history,
		"mem":     b.mem,
		"sym":     b.sym,
		"line":    b.line,
		"status":  b.status,
		"message": b.message,
		"print":   b.print,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	fn, err := L.Load(strings.NewReader(sc.Source), sc.Name)
	if err != nil {
		err = &ErrScript{Name: sc.Name, Err: err}
		return
	}

	L.Push(fn)
	err = L.PCall(0, lua.MultRet, nil)
	if err != nil {
		if ctx != nil && ctx.Err() != nil {
			err = errors.Join(err, ctx.Err())
		}
		err = &ErrScript{Name: sc.Name, Err: err}
		return
	}

	return
}

func (b *binding) step(L *lua.LState) int {
	status, err := b.emu.Step()
	L.Push(lua.LString(status.String()))
	if err != nil {
		L.Push(lua.LString(err.Error()))
	} else {
		L.Push(lua.LNil)
	}
	return 2
}

func (b *binding) run(L *lua.LState) int {
	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	steps, _ := b.emu.RunContext(ctx, L.OptInt(1, 0))
	if err := ctx.Err(); err != nil {
		L.RaiseError("%v", err)
	}

	L.Push(lua.LNumber(steps))
	L.Push(lua.LString(b.emu.Status().String()))
	return 2
}

func (b *binding) reset(L *lua.LState) int {
	b.emu.Reset()
	return 0
}

func (b *binding) checkReg(L *lua.LState, n int) cpu.Reg {
	name := L.CheckString(n)
	r, ok := cpu.LookupReg(name)
	if !ok {
		L.ArgError(n, f("unknown register %v", name))
	}
	return r
}

func (b *binding) reg(L *lua.LState) int {
	r := b.checkReg(L, 1)
	L.Push(lua.LNumber(b.emu.Reg(r)))
	return 1
}

func (b *binding) pair(L *lua.LState) int {
	name := L.CheckString(1)
	p, ok := cpu.LookupPair(name)
	if !ok {
		L.ArgError(1, f("unknown register pair %v", name))
	}
	L.Push(lua.LNumber(b.emu.Pair(p)))
	return 1
}

func (b *binding) history(L *lua.LState) int {
	r := b.checkReg(L, 1)
	tbl := L.NewTable()
	for value := range b.emu.Register[r].History() {
		tbl.Append(lua.LNumber(value))
	}
	L.Push(tbl)
	return 1
}

func (b *binding) mem(L *lua.LState) int {
	addr := L.CheckInt(1)
	if addr < 0 || addr >= cpu.MEMORY_SIZE {
		L.ArgError(1, f("address %v out of range", addr))
	}
	L.Push(lua.LNumber(b.emu.Memory.Read(uint16(addr))))
	return 1
}

func (b *binding) sym(L *lua.LState) int {
	value, ok := b.emu.Symbols.Lookup(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(value))
	return 1
}

func (b *binding) line(L *lua.LState) int {
	L.Push(lua.LNumber(b.emu.LineNo()))
	L.Push(lua.LString(b.emu.Line()))
	return 2
}

func (b *binding) status(L *lua.LState) int {
	L.Push(lua.LString(b.emu.Status().String()))
	return 1
}

func (b *binding) message(L *lua.LState) int {
	L.Push(lua.LString(b.emu.Message()))
	return 1
}

func (b *binding) print(L *lua.LState) int {
	top := L.GetTop()
	args := make([]string, top)
	for n := 1; n <= top; n++ {
		args[n-1] = L.ToStringMeta(L.Get(n)).String()
	}
	fmt.Fprintln(b.output, strings.Join(args, "\t"))
	return 0
}
