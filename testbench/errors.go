package testbench

import "errors"

var (
	// ErrUnknownKind indicates a testbench kind with no registered factory.
	ErrUnknownKind = errors.New("unknown testbench kind")

	// ErrInvalidSpec indicates a spec mapping rejected by the testbench schema.
	ErrInvalidSpec = errors.New("invalid testbench spec")
)
