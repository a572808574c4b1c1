package simdata

import "errors"

var (
	// ErrUnknownAnalysis indicates an analysis type tag that is not DC, PSS or TRAN.
	ErrUnknownAnalysis = errors.New("unknown analysis type")

	// ErrInvalidSweep indicates a sweep description that cannot be normalized.
	ErrInvalidSweep = errors.New("invalid sweep")

	// ErrInvalidValue indicates a value that is neither a number nor an expression.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidSetup indicates a setup mapping that fails structural or semantic checks.
	ErrInvalidSetup = errors.New("invalid netlist setup")

	// ErrUnresolved indicates an expression that cannot be reduced to a number.
	ErrUnresolved = errors.New("unresolved expression")
)
