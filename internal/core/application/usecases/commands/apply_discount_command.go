package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrApplyDiscountCommandIsNotConstructed = errors.New(
	"ApplyDiscountCommand must be created via NewApplyDiscountCommand constructor",
)

// ApplyDiscountCommand locks a manual discount on one cart line. The
// discounted sub-total becomes authoritative and the line leaves the upsell
// counter's contributing set.
type ApplyDiscountCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	actorID    kernel.UUID
	lineItemID kernel.UUID
	kind       order.DiscountKind
	subTotal   kernel.Money

	guard guard.ConstructorGuard
}

// NewApplyDiscountCommand creates a discount command.
func NewApplyDiscountCommand(
	orderID, actorID, lineItemID kernel.UUID,
	kind order.DiscountKind,
	subTotal kernel.Money,
) (ApplyDiscountCommand, error) {
	cmd := ApplyDiscountCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		lineItemID.Validate(),
		kind.Validate(),
		subTotal.Validate(),
	); err != nil {
		return ApplyDiscountCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.lineItemID = lineItemID
	cmd.kind = kind
	cmd.subTotal = subTotal
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyDiscountCommand) Validate() error {
	return c.guard.Validate(ErrApplyDiscountCommandIsNotConstructed)
}

// OrderID returns the order whose line is discounted.
func (c ApplyDiscountCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator granting the discount.
func (c ApplyDiscountCommand) ActorID() kernel.UUID {
	return c.actorID
}

// LineItemID returns the discounted line.
func (c ApplyDiscountCommand) LineItemID() kernel.UUID {
	return c.lineItemID
}

// Kind returns the discount type.
func (c ApplyDiscountCommand) Kind() order.DiscountKind {
	return c.kind
}

// SubTotal returns the agreed discounted sub-total for the line.
func (c ApplyDiscountCommand) SubTotal() kernel.Money {
	return c.subTotal
}
