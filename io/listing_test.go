package io

import (
	"bufio"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestListing_Unmarshal(t *testing.T) {
	assert := assert.New(t)

	text := "foo: equ 0x20  \r\n\tld a,foo\t\n\n  nop ; done   "

	lst := &Listing{Name: "test.asm"}
	err := lst.Unmarshal(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal([]string{
		"foo: equ 0x20",
		"\tld a,foo",
		"",
		"  nop ; done",
	}, lst.Lines)

	// Unmarshal replaces previous content.
	err = lst.Unmarshal(strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(lst.Lines)
}

func TestListing_UnmarshalTooLong(t *testing.T) {
	assert := assert.New(t)

	text := "  nop\n" + strings.Repeat("x", MAX_LINE_LENGTH+1) + "\n"

	lst := &Listing{Name: "long.asm"}
	err := lst.Unmarshal(strings.NewReader(text))

	var lerr *ErrListing
	assert.True(errors.As(err, &lerr))
	assert.Equal(2, lerr.LineNo)
	assert.ErrorIs(err, bufio.ErrTooLong)
}

func TestReadListing(t *testing.T) {
	assert := assert.New(t)

	filesys := fstest.MapFS{
		"prog/count.asm": &fstest.MapFile{Data: []byte("  ld b,0x05\n  inc b\n")},
	}

	lst, err := ReadListing(filesys, "prog/count.asm")
	assert.NoError(err)
	assert.Equal("prog/count.asm", lst.Name)
	assert.Equal([]string{"  ld b,0x05", "  inc b"}, lst.Lines)

	lst, err = ReadListing(filesys, "prog/missing.asm")
	assert.ErrorIs(err, fs.ErrNotExist)
	assert.Nil(lst)
}
