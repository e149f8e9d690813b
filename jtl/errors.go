package jtl

import (
	"errors"
	"fmt"
)

var (
	ErrNoInputLocation = errors.New("input location not specified")
	ErrNoOutputPath    = errors.New("output path not specified")

	// Structural errors, reported wrapped in a *StructuralError.
	ErrResponseDataOutsideSample       = errors.New("response data outside of any sample")
	ErrUnclosedSample                  = errors.New("end of input inside a sample")
	ErrUnexpectedElementInResponseData = errors.New("element nested in response data")

	ErrUnsupportedScheme = errors.New("unsupported input URL scheme")
)

// A StructuralError reports input that does not follow the expected nesting of
// samples and response data.  Line and Column locate the offending token in
// the input; Depth is the number of samples open at that point.
type StructuralError struct {
	Line   int
	Column int
	Depth  int
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("line %d, column %d (sample depth %d): %s", e.Line, e.Column, e.Depth, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
