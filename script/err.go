package script

import (
	"github.com/ezrec/z80step/translate"
)

var f = translate.From

// ErrScript is a script that failed to load or run.
type ErrScript struct {
	Name string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("script %v: %v", err.Name, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
