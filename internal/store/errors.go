package store

import "errors"

var (
	// ErrStoreExists is returned by Init when a file already exists at the
	// target path. The existing file is left untouched.
	ErrStoreExists = errors.New("a store already exists at the target path")

	// ErrStoreNotFound is returned by Open when no file exists at the path.
	// Whether to initialise a new store instead is the caller's decision.
	ErrStoreNotFound = errors.New("store file does not exist")
)
