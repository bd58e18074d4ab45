package service

import "errors"

// Sentinel kinds for batch errors.
var (
	ErrEmptyBatch   = errors.New("no files uploaded")
	ErrTooManyFiles = errors.New("too many files in batch")
)
