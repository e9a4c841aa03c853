package emulator

import (
	"github.com/ezrec/z80step/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d: %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrLabelMissing is a jump to a label the program does not define.
type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

// ErrTargetAddress is a jump to a numeric address, which has no line.
type ErrTargetAddress uint16

func (err ErrTargetAddress) Error() string {
	return f("jump to address 0x%04x not followed", uint16(err))
}
