package array

import "fmt"

// DimensionError reports mismatched, unknown, or ambiguous dimensions.
type DimensionError struct {
	msg string
}

func (e *DimensionError) Error() string { return e.msg }

func dimErrorf(format string, args ...any) error {
	return &DimensionError{msg: fmt.Sprintf(format, args...)}
}

// DTypeError reports an operation applied to an unsupported or mismatched
// data type.
type DTypeError struct {
	msg string
}

func (e *DTypeError) Error() string { return e.msg }

func dtypeErrorf(format string, args ...any) error {
	return &DTypeError{msg: fmt.Sprintf(format, args...)}
}

// UnitError reports mismatched units between operands.
type UnitError struct {
	msg string
}

func (e *UnitError) Error() string { return e.msg }

func unitErrorf(format string, args ...any) error {
	return &UnitError{msg: fmt.Sprintf(format, args...)}
}
