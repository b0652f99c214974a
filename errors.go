package clusterkit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidIterations is returned when the iteration budget is not positive.
	ErrInvalidIterations = errors.New("iteration budget must be positive")

	// ErrNotFitted is returned when results are requested before Visit has run.
	ErrNotFitted = errors.New("engine has not been run")
)

// ErrInvalidDamping indicates a damping factor outside the open interval (0,1).
type ErrInvalidDamping struct {
	Damping float64
}

func (e *ErrInvalidDamping) Error() string {
	return fmt.Sprintf("damping factor must be in (0,1), got %g", e.Damping)
}

// ErrInsufficientData indicates the working range is too small for the
// requested computation. WorkingSize is min(len(idx), len(col)); Required is
// the minimum the engine needs (1, or k for K-Means).
type ErrInsufficientData struct {
	WorkingSize int
	Required    int
}

func (e *ErrInsufficientData) Error() string {
	return fmt.Sprintf("insufficient data: working size %d, need at least %d", e.WorkingSize, e.Required)
}
