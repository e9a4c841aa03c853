package script

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	lua "github.com/yuin/gopher-lua"

	"github.com/ezrec/z80step/emulator"
	"github.com/ezrec/z80step/io"
)

func load(program ...string) *emulator.Emulator {
	return emulator.NewEmulator(emulator.NewProgram(&io.Listing{Name: "test", Lines: program}))
}

func doScript(emu *emulator.Emulator, source string, t *testing.T) string {
	t.Helper()

	var out bytes.Buffer
	sc := &Script{Name: t.Name(), Source: source, Output: &out}
	err := sc.Run(context.Background(), emu)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return out.String()
}

func TestScriptStep(t *testing.T) {
	assert := assert.New(t)

	emu := load(
		"  ld b,0x05",
		"  inc b",
		"  ld hl,0x4000",
		"  ld (hl),b",
	)

	out := doScript(emu, `
local status, err = step()
assert(status == "stepped" and err == nil)
assert(reg("b") == 5)
step()
local h = history("b")
print(h[1], h[2], #h)
print(line())
step(); step()
print(pair("hl"), mem(0x4000))
print(status(), step())
`, t)

	assert.Equal("6\t5\t2\n2\t  inc b\n16384\t6\nstepped\tend\tnil\n", out)
}

func TestScriptRun(t *testing.T) {
	assert := assert.New(t)

	emu := load(
		"foo: equ 0x20",
		"  ld a,foo",
		"  ld a,missing",
		"  halt",
	)

	out := doScript(emu, `
print(sym("foo"), sym("STACK_LIMIT"))
local steps, st = run(0)
print(steps, st, reg("a"), sym("foo"))
reset()
print(status(), message() == "")
`, t)

	assert.Equal("nil\t16\n3\thalted\t32\t32\nready\ttrue\n", out)
}

func TestScriptMessage(t *testing.T) {
	assert := assert.New(t)

	emu := load("  frob")

	out := doScript(emu, `
local _, err = step()
print(err ~= nil, message() == err)
`, t)

	assert.Equal("true\ttrue\n", out)
}

func TestScriptErrors(t *testing.T) {
	assert := assert.New(t)

	emu := load("  nop")

	table := []string{
		`reg("ix")`,
		`pair("af")`,
		`mem(0x10000)`,
		`history(3)`,
		`error("boom")`,
		`this is not lua`,
	}

	for _, source := range table {
		sc := &Script{Name: "bad", Source: source, Output: &bytes.Buffer{}}
		err := sc.Run(context.Background(), emu)
		var serr *ErrScript
		assert.True(errors.As(err, &serr), source)
		var aerr *lua.ApiError
		assert.True(errors.As(err, &aerr), source)
	}
}

func TestScriptCancel(t *testing.T) {
	assert := assert.New(t)

	emu := load("loop:", "  jp loop")
	emu.FollowJumps = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &Script{Name: "spin", Source: `while true do run(10) end`, Output: &bytes.Buffer{}}
	err := sc.Run(ctx, emu)
	assert.ErrorIs(err, context.Canceled)
}

func TestScriptDeadlineInRun(t *testing.T) {
	assert := assert.New(t)

	emu := load("loop:", "  jp loop")
	emu.FollowJumps = true

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		sc := &Script{Name: "spin", Source: `run(0)`, Output: &bytes.Buffer{}}
		done <- sc.Run(ctx, emu)
	}()

	select {
	case err := <-done:
		assert.ErrorIs(err, context.DeadlineExceeded)
		var serr *ErrScript
		assert.True(errors.As(err, &serr))
	case <-time.After(5 * time.Second):
		t.Fatal("script kept running after its deadline")
	}
}
