package io

import (
	"bufio"
	"io"
	"strings"
)

// MAX_LINE_LENGTH is the longest source line a listing accepts.
const MAX_LINE_LENGTH = 4096

// Listing is the text of a program, one entry per source line.
type Listing struct {
	Name  string   // Source name, for diagnostics.
	Lines []string // Source lines, trailing whitespace removed.
}

// Unmarshal reads a listing from a reader. Lines are split on '\n', and
// trailing whitespace (including any '\r') is removed.
func (lst *Listing) Unmarshal(r io.Reader) (err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), MAX_LINE_LENGTH)

	lst.Lines = nil
	for scanner.Scan() {
		lst.Lines = append(lst.Lines, strings.TrimRight(scanner.Text(), " \t\r\v\f"))
	}

	err = scanner.Err()
	if err != nil {
		err = &ErrListing{Name: lst.Name, LineNo: len(lst.Lines) + 1, Err: err}
		return
	}

	return
}
