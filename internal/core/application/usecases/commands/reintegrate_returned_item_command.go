package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReintegrateReturnedItemCommandIsNotConstructed = errors.New(
	"ReintegrateReturnedItemCommand must be created via NewReintegrateReturnedItemCommand constructor",
)

// ReintegrateReturnedItemCommand puts one pending returned item back on
// stock. Only pending items whose variant is still active are eligible;
// anything else must go through triage (defective, back to preparation).
type ReintegrateReturnedItemCommand struct { //nolint:recvcheck //using for validation
	itemID  kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReintegrateReturnedItemCommand creates a single item reintegration command.
func NewReintegrateReturnedItemCommand(itemID, actorID kernel.UUID) (ReintegrateReturnedItemCommand, error) {
	cmd := ReintegrateReturnedItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		itemID.Validate(),
		actorID.Validate(),
	); err != nil {
		return ReintegrateReturnedItemCommand{}, err
	}

	cmd.itemID = itemID
	cmd.actorID = actorID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReintegrateReturnedItemCommand) Validate() error {
	return c.guard.Validate(ErrReintegrateReturnedItemCommandIsNotConstructed)
}

// ItemID returns the returned item to reintegrate.
func (c ReintegrateReturnedItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

// ActorID returns the warehouse operator performing the reintegration.
func (c ReintegrateReturnedItemCommand) ActorID() kernel.UUID {
	return c.actorID
}
