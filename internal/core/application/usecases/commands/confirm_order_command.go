package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand represents a confirmation operator committing the
// customer's order: stock is decremented for every line and prices freeze.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	comment string

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a confirmation command.
func NewConfirmOrderCommand(orderID, actorID kernel.UUID, comment string) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the order to confirm.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the confirming operator.
func (c ConfirmOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Comment returns the optional confirmation note.
func (c ConfirmOrderCommand) Comment() string {
	return c.comment
}
