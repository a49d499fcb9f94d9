package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrChangeLineItemQuantityCommandIsNotConstructed = errors.New(
	"ChangeLineItemQuantityCommand must be created via NewChangeLineItemQuantityCommand constructor",
)

// ChangeLineItemQuantityCommand changes a cart line's quantity. A quantity
// of zero removes the line.
type ChangeLineItemQuantityCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	actorID    kernel.UUID
	lineItemID kernel.UUID
	quantity   int

	guard guard.ConstructorGuard
}

// NewChangeLineItemQuantityCommand creates a quantity change command.
func NewChangeLineItemQuantityCommand(orderID, actorID, lineItemID kernel.UUID, quantity int) (ChangeLineItemQuantityCommand, error) {
	cmd := ChangeLineItemQuantityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		lineItemID.Validate(),
	); err != nil {
		return ChangeLineItemQuantityCommand{}, err
	}
	if quantity < 0 {
		return ChangeLineItemQuantityCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"line item quantity",
			fmt.Errorf("%d is negative", quantity),
		)
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.lineItemID = lineItemID
	cmd.quantity = quantity
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeLineItemQuantityCommand) Validate() error {
	return c.guard.Validate(ErrChangeLineItemQuantityCommandIsNotConstructed)
}

// OrderID returns the order whose cart is mutated.
func (c ChangeLineItemQuantityCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator editing the cart.
func (c ChangeLineItemQuantityCommand) ActorID() kernel.UUID {
	return c.actorID
}

// LineItemID returns the line to change.
func (c ChangeLineItemQuantityCommand) LineItemID() kernel.UUID {
	return c.lineItemID
}

// Quantity returns the new quantity; zero removes the line.
func (c ChangeLineItemQuantityCommand) Quantity() int {
	return c.quantity
}
