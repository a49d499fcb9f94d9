package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReintegrateAllEligibleCommandIsNotConstructed = errors.New(
	"ReintegrateAllEligibleCommand must be created via NewReintegrateAllEligibleCommand constructor",
)

// ReintegrateAllEligibleCommand reintegrates every eligible pending
// returned item of one order in a single pass.
type ReintegrateAllEligibleCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReintegrateAllEligibleCommand creates a batch reintegration command.
func NewReintegrateAllEligibleCommand(orderID, actorID kernel.UUID) (ReintegrateAllEligibleCommand, error) {
	cmd := ReintegrateAllEligibleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
	); err != nil {
		return ReintegrateAllEligibleCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReintegrateAllEligibleCommand) Validate() error {
	return c.guard.Validate(ErrReintegrateAllEligibleCommandIsNotConstructed)
}

// OrderID returns the order whose returns are reintegrated.
func (c ReintegrateAllEligibleCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the warehouse operator performing the batch.
func (c ReintegrateAllEligibleCommand) ActorID() kernel.UUID {
	return c.actorID
}
