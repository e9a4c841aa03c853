package io

import (
	"io/fs"
)

// ReadListing loads the named listing from a file system.
func ReadListing(filesys fs.FS, name string) (lst *Listing, err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	lst = &Listing{Name: name}
	err = lst.Unmarshal(inf)
	if err != nil {
		lst = nil
		return
	}

	return
}
