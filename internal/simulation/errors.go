package simulation

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed simulation inputs such as negative downtime.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfiguration marks unusable run settings such as a non-positive iteration count.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrTimeout is returned when a run exceeds its deadline.
	ErrTimeout = errors.New("simulation timed out")
)

// contextError translates a context failure into the package's error taxonomy.
func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
