package product

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrStockMovementIsNotConstructed is returned when a StockMovement was not
// created through NewStockMovement.
var ErrStockMovementIsNotConstructed = errors.New("StockMovement must be created via NewStockMovement constructor")

// MovementReason classifies why stock changed.
type MovementReason int

const (
	// MovementUnknown catches uninitialized values.
	MovementUnknown MovementReason = iota

	// MovementEntry is a supplier or manual stock entry.
	MovementEntry

	// MovementExit is a decrement for a confirmed order.
	MovementExit

	// MovementLoss is shrinkage or damage.
	MovementLoss

	// MovementReturnReintegration is a returned item going back on shelf.
	MovementReturnReintegration
)

func movementReasonStrings() map[MovementReason]string {
	return map[MovementReason]string{
		MovementUnknown:             "Unknown",
		MovementEntry:               "Entry",
		MovementExit:                "Exit",
		MovementLoss:                "Loss",
		MovementReturnReintegration: "ReturnReintegration",
	}
}

// String implements fmt.Stringer.
func (r MovementReason) String() string {
	if s, ok := movementReasonStrings()[r]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects MovementUnknown and out-of-range values.
func (r MovementReason) Validate() error {
	if r == MovementUnknown {
		return errs.NewValueIsInvalidError("movement reason")
	}
	if _, ok := movementReasonStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("movement reason", fmt.Errorf("%d is not a valid movement reason", r))
	}
	return nil
}

// StockMovement is the immutable audit record of one stock change. Every
// quantity mutation on a product or variant produces exactly one movement,
// whose quantity-after snapshot must agree with the mutated stock.
type StockMovement struct {
	id kernel.UUID

	productID kernel.UUID
	variantID *kernel.UUID

	// orderID links order-driven movements; nil for manual entries/losses.
	orderID *kernel.UUID

	// operatorID records who caused the change; nil for system sweeps.
	operatorID *kernel.UUID

	delta  int
	reason MovementReason

	// quantityAfter is the stock level right after applying delta.
	quantityAfter int

	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewStockMovement creates a validated movement record.
func NewStockMovement(
	id kernel.UUID,
	productID kernel.UUID,
	variantID *kernel.UUID,
	orderID *kernel.UUID,
	operatorID *kernel.UUID,
	delta int,
	reason MovementReason,
	quantityAfter int,
	recordedAt time.Time,
) (*StockMovement, error) {
	m := &StockMovement{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		productID.Validate(),
		reason.Validate(),
	); err != nil {
		return nil, err
	}
	for _, ref := range []*kernel.UUID{variantID, orderID, operatorID} {
		if ref != nil {
			if err := ref.Validate(); err != nil {
				return nil, err
			}
		}
	}
	if delta == 0 {
		return nil, errs.NewValueIsInvalidError("movement delta")
	}
	if quantityAfter < 0 {
		return nil, errs.NewValueIsInvalidError("quantity after movement")
	}
	if recordedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("movement timestamp")
	}

	m.id = id
	m.productID = productID
	m.variantID = variantID
	m.orderID = orderID
	m.operatorID = operatorID
	m.delta = delta
	m.reason = reason
	m.quantityAfter = quantityAfter
	m.recordedAt = recordedAt
	return m, nil
}

// Validate ensures the movement was built via NewStockMovement.
func (m *StockMovement) Validate() error {
	if m == nil {
		return ErrStockMovementIsNotConstructed
	}
	return m.guard.Validate(ErrStockMovementIsNotConstructed)
}

// ID returns the movement's identifier.
func (m *StockMovement) ID() kernel.UUID {
	return m.id
}

// ProductID returns the mutated product.
func (m *StockMovement) ProductID() kernel.UUID {
	return m.productID
}

// VariantID returns the mutated variant, nil for product-level movements.
func (m *StockMovement) VariantID() *kernel.UUID {
	return m.variantID
}

// OrderID returns the driving order, nil when not order-driven.
func (m *StockMovement) OrderID() *kernel.UUID {
	return m.orderID
}

// OperatorID returns who caused the change, nil for system actions.
func (m *StockMovement) OperatorID() *kernel.UUID {
	return m.operatorID
}

// Delta returns the signed quantity change.
func (m *StockMovement) Delta() int {
	return m.delta
}

// Reason returns the movement classification.
func (m *StockMovement) Reason() MovementReason {
	return m.reason
}

// QuantityAfter returns the stock level after the mutation.
func (m *StockMovement) QuantityAfter() int {
	return m.quantityAfter
}

// RecordedAt returns when the movement happened.
func (m *StockMovement) RecordedAt() time.Time {
	return m.recordedAt
}
