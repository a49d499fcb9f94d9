package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAddLineItemCommandIsNotConstructed = errors.New(
	"AddLineItemCommand must be created via NewAddLineItemCommand constructor",
)

// AddLineItemCommand adds a product (optionally a specific variant) to an
// order's cart. Only legal while the order has not reached a protected state.
type AddLineItemCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actorID   kernel.UUID
	productID kernel.UUID
	variantID *kernel.UUID
	quantity  int

	guard guard.ConstructorGuard
}

// NewAddLineItemCommand creates a cart addition command.
func NewAddLineItemCommand(
	orderID, actorID, productID kernel.UUID,
	variantID *kernel.UUID,
	quantity int,
) (AddLineItemCommand, error) {
	cmd := AddLineItemCommand{
		variantID: variantID,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		productID.Validate(),
	); err != nil {
		return AddLineItemCommand{}, err
	}
	if variantID != nil {
		if err := variantID.Validate(); err != nil {
			return AddLineItemCommand{}, err
		}
	}
	if quantity <= 0 {
		return AddLineItemCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"line item quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.productID = productID
	cmd.quantity = quantity
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddLineItemCommand) Validate() error {
	return c.guard.Validate(ErrAddLineItemCommandIsNotConstructed)
}

// OrderID returns the order whose cart is mutated.
func (c AddLineItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator editing the cart.
func (c AddLineItemCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ProductID returns the product to add.
func (c AddLineItemCommand) ProductID() kernel.UUID {
	return c.productID
}

// VariantID returns the requested variant, nil for the bare product.
func (c AddLineItemCommand) VariantID() *kernel.UUID {
	return c.variantID
}

// Quantity returns the requested quantity.
func (c AddLineItemCommand) Quantity() int {
	return c.quantity
}
