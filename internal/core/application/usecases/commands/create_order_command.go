package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
	ErrOrderSourceIsRequired = errors.New("order source is required")
	ErrAddressIsRequired     = errors.New("address is required")
)

// CreateOrderCommand represents a request to register a new order at intake.
// Encapsulates the external order number, its creation source with the
// per-source sequence, the delivery address and fee handling.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "CMD-1042", "web", 1042,
//	    "12 rue des Lilas", fee, true)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	number              string
	source              string
	sourceSequence      int
	address             string
	deliveryFee         kernel.Money
	deliveryFeeIncluded bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the order ID is valid and number, source and address are
// not empty. Returns an error if any validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	number string,
	source string,
	sourceSequence int,
	address string,
	deliveryFee kernel.Money,
	deliveryFeeIncluded bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		sourceSequence:      sourceSequence,
		deliveryFeeIncluded: deliveryFeeIncluded,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNumber(number),
		cmd.setSource(source),
		cmd.setAddress(address),
		deliveryFee.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.deliveryFee = deliveryFee

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Number returns the external order number.
func (c CreateOrderCommand) Number() string {
	return c.number
}

// Source returns the creation source channel.
func (c CreateOrderCommand) Source() string {
	return c.source
}

// SourceSequence returns the per-source sequential id.
func (c CreateOrderCommand) SourceSequence() int {
	return c.sourceSequence
}

// Address returns the delivery destination address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// DeliveryFee returns the destination's delivery fee.
func (c CreateOrderCommand) DeliveryFee() kernel.Money {
	return c.deliveryFee
}

// DeliveryFeeIncluded reports whether the fee is part of the order total.
func (c CreateOrderCommand) DeliveryFeeIncluded() bool {
	return c.deliveryFeeIncluded
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	if number == "" {
		return ErrOrderNumberIsRequired
	}

	c.number = number
	return nil
}

func (c *CreateOrderCommand) setSource(source string) error {
	if source == "" {
		return ErrOrderSourceIsRequired
	}

	c.source = source
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}
