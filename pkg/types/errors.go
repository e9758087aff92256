package types

import (
	"errors"
	"fmt"
)

// ErrPrecondition is the sentinel for decision operations invoked while a
// required input is absent in the current snapshot. It is the only condition
// this core propagates as a hard error; everything else clamps or saturates.
var ErrPrecondition = errors.New("precondition not met")

// PreconditionError names the operation and the missing input.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrPrecondition, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}
