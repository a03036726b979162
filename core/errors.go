package core

import "errors"

var (
	// ErrGenerator wraps failures of the coordinate generator. An add or
	// search that fails this way leaves no partial state behind.
	ErrGenerator = errors.New("coordinate generator failed")
)
