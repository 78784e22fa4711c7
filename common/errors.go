package common

import "errors"

// CustomError is a sentinel category. Callers wrap it with fmt.Errorf("%w: ...")
// and match it with errors.Is.
type CustomError struct {
	error
	code int
}

// Code reports the status-like code of the category.
func (e CustomError) Code() int {
	return e.code
}

// SizeViolationError is returned when a field exceeds its bound or a computed
// length overflows.
var SizeViolationError = CustomError{
	error: errors.New("size violation"),
	code:  413,
}

// MalformedInputError is returned when a precondition on the arguments is not met.
var MalformedInputError = CustomError{
	error: errors.New("malformed input"),
	code:  400,
}

// StreamCorruptionError is returned when a framed stream declares a negative
// length or ends early.
var StreamCorruptionError = CustomError{
	error: errors.New("stream corruption"),
	code:  500,
}

// UnsupportedCapabilityError is returned when an operation is invoked on a
// variant that does not carry the data, e.g. the value of a key-only record.
var UnsupportedCapabilityError = CustomError{
	error: errors.New("unsupported capability"),
	code:  501,
}
