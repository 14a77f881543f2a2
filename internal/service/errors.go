package service

import "errors"

var (
	// ErrUnsupportedFile rejects uploads by extension before any parsing.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrMalformedInput means the upload is not a readable workbook.
	ErrMalformedInput = errors.New("malformed cost sheet")
)

const (
	DefaultSessionLimit = 10
	MaxSessionLimit     = 100
)

// ClampLimit maps a requested page size onto [1, MaxSessionLimit]; zero or
// negative selects the default.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSessionLimit
	case limit > MaxSessionLimit:
		return MaxSessionLimit
	default:
		return limit
	}
}
