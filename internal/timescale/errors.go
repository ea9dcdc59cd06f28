package timescale

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks contract violations by the caller.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrArithmeticOverflow is wrapped when a common period exceeds the duration range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)

// RescalingError reports a time scale computation that cannot be completed,
// such as an overflowing least common multiple or irreconcilable functions.
type RescalingError struct {
	Op  string
	Msg string
	Err error
}

func (e *RescalingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *RescalingError) Unwrap() error {
	return e.Err
}

func newRescalingError(op, msg string, err error) error {
	return &RescalingError{Op: op, Msg: msg, Err: err}
}
