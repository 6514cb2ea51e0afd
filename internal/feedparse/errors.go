package feedparse

import "errors"

// Parse conditions. None of them crosses Parse; they are returned by the
// individual stages and counted or swallowed by the pipeline.
var (
	// ErrMalformedInput means a strict decode failed and the next stage
	// should be tried.
	ErrMalformedInput = errors.New("malformed input")

	// ErrFieldMissing means a located record lacks a required field. The
	// record is dropped, its siblings are kept.
	ErrFieldMissing = errors.New("required field missing")

	// ErrContainerNotFound means the question array could not be located.
	// This is the only condition that empties the whole result.
	ErrContainerNotFound = errors.New("question container not found")

	// ErrNumericFieldInvalid means an option id is not an integer. Only that
	// option is dropped.
	ErrNumericFieldInvalid = errors.New("numeric field invalid")
)
