package models

import "errors"

// Error kinds shared by every package. Callers match them with errors.Is;
// the wrapping error carries the file path or index that caused it.
var (
	ErrIO              = errors.New("i/o error")
	ErrMalformedFile   = errors.New("malformed file")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
)
