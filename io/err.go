package io

import (
	"github.com/ezrec/z80step/translate"
)

var f = translate.From

// ErrListing is a failure reading a listing.
type ErrListing struct {
	Name   string
	LineNo int
	Err    error
}

func (err *ErrListing) Error() string {
	return f("%v:%d: %v", err.Name, err.LineNo, err.Err)
}

func (err *ErrListing) Unwrap() error {
	return err.Err
}
