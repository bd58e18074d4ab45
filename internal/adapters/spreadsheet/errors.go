package spreadsheet

import "errors"

// Sentinel kinds for spreadsheet decoding errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrCorrupt           = errors.New("corrupt or unreadable spreadsheet")
	ErrArchiveTooLarge   = errors.New("archive exceeds limits")
)
