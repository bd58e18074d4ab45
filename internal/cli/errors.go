package cli

import "errors"

// Error constants.
var (
	ErrNoInputs = errors.New("no input files")
	ErrServer   = errors.New("server rejected batch")
)
