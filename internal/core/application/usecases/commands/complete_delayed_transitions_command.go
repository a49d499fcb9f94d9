package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrCompleteDelayedTransitionsCommandIsNotConstructed = errors.New(
	"CompleteDelayedTransitionsCommand must be created via NewCompleteDelayedTransitionsCommand constructor",
)

// CompleteDelayedTransitionsCommand sweeps orders whose postponed state
// carries an elapsed delayed confirmation timestamp and moves them to
// Confirmed. Issued periodically by the background sweep.
type CompleteDelayedTransitionsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewCompleteDelayedTransitionsCommand creates a sweep command capped at
// batchSize orders per run.
func NewCompleteDelayedTransitionsCommand(batchSize int) (CompleteDelayedTransitionsCommand, error) {
	if batchSize <= 0 {
		return CompleteDelayedTransitionsCommand{}, errors.New("batch size must be greater than 0")
	}

	return CompleteDelayedTransitionsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDelayedTransitionsCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDelayedTransitionsCommandIsNotConstructed)
}

// BatchSize returns the maximum number of orders swept per run.
func (c CompleteDelayedTransitionsCommand) BatchSize() int {
	return c.batchSize
}
