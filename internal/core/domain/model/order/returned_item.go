package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrReturnedItemIsNotConstructed is returned when a ReturnedItem was not
	// created through NewReturnedItem or RestoreReturnedItem.
	ErrReturnedItemIsNotConstructed = errors.New("ReturnedItem must be created via NewReturnedItem constructor")

	// ErrReturnedItemNotPending is returned when processing a returned item
	// whose condition already left the pending state.
	ErrReturnedItemNotPending = errors.New("returned item is no longer pending")
)

// ReturnCondition classifies what happened to a returned item after it came
// back from a delivery attempt.
type ReturnCondition int

const (
	// ConditionUnknown catches uninitialized values.
	ConditionUnknown ReturnCondition = iota

	// ConditionPending means the item awaits a decision.
	ConditionPending

	// ConditionReintegrated means the item went back into sellable stock.
	ConditionReintegrated

	// ConditionSentBackToPreparation means the item feeds a re-preparation.
	ConditionSentBackToPreparation

	// ConditionDefective means the item is damaged and leaves circulation.
	ConditionDefective

	// ConditionProcessed closes the return without a stock effect.
	ConditionProcessed
)

func returnConditionStrings() map[ReturnCondition]string {
	return map[ReturnCondition]string{
		ConditionUnknown:               "Unknown",
		ConditionPending:               "Pending",
		ConditionReintegrated:          "Reintegrated",
		ConditionSentBackToPreparation: "SentBackToPreparation",
		ConditionDefective:             "Defective",
		ConditionProcessed:             "Processed",
	}
}

// String implements fmt.Stringer.
func (c ReturnCondition) String() string {
	if s, ok := returnConditionStrings()[c]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects ConditionUnknown and out-of-range values.
func (c ReturnCondition) Validate() error {
	if c == ConditionUnknown {
		return errs.NewValueIsInvalidError("return condition")
	}
	if _, ok := returnConditionStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("return condition", fmt.Errorf("%d is not a valid return condition", c))
	}
	return nil
}

// ReturnedItem records one product quantity that came back at delivery time.
// It is created by the partial-delivery reconciler (or a full return) in
// Pending condition and mutated exactly once, when an operator processes the
// return. It outlives its order for audit purposes.
type ReturnedItem struct {
	id      kernel.UUID
	orderID kernel.UUID

	productID kernel.UUID
	variantID *kernel.UUID

	quantity int

	// originPrice is the unit price the item carried on the order when it
	// shipped; frozen for the audit trail.
	originPrice kernel.Money

	condition ReturnCondition

	// recordedBy is the operator who recorded the return.
	recordedBy kernel.UUID

	processedBy *kernel.UUID
	processedAt *time.Time

	guard guard.ConstructorGuard
}

// NewReturnedItem creates a returned item in Pending condition.
func NewReturnedItem(
	id kernel.UUID,
	orderID kernel.UUID,
	productID kernel.UUID,
	variantID *kernel.UUID,
	quantity int,
	originPrice kernel.Money,
	recordedBy kernel.UUID,
) (*ReturnedItem, error) {
	item := &ReturnedItem{
		condition: ConditionPending,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		productID.Validate(),
		recordedBy.Validate(),
		originPrice.Validate(),
	); err != nil {
		return nil, err
	}
	if variantID != nil {
		if err := variantID.Validate(); err != nil {
			return nil, err
		}
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("returned quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	item.id = id
	item.orderID = orderID
	item.productID = productID
	item.variantID = variantID
	item.quantity = quantity
	item.originPrice = originPrice
	item.recordedBy = recordedBy
	return item, nil
}

// RestoreReturnedItem reconstructs a returned item from persistence.
func RestoreReturnedItem(
	id kernel.UUID,
	orderID kernel.UUID,
	productID kernel.UUID,
	variantID *kernel.UUID,
	quantity int,
	originPrice kernel.Money,
	condition ReturnCondition,
	recordedBy kernel.UUID,
	processedBy *kernel.UUID,
	processedAt *time.Time,
) (*ReturnedItem, error) {
	item, err := NewReturnedItem(id, orderID, productID, variantID, quantity, originPrice, recordedBy)
	if err != nil {
		return nil, err
	}
	if err = condition.Validate(); err != nil {
		return nil, err
	}
	if processedBy != nil {
		if err = processedBy.Validate(); err != nil {
			return nil, err
		}
	}

	item.condition = condition
	item.processedBy = processedBy
	item.processedAt = processedAt
	return item, nil
}

// Validate ensures the item was built via a constructor.
func (r *ReturnedItem) Validate() error {
	if r == nil {
		return ErrReturnedItemIsNotConstructed
	}
	return r.guard.Validate(ErrReturnedItemIsNotConstructed)
}

// ID returns the returned item's identifier.
func (r *ReturnedItem) ID() kernel.UUID {
	return r.id
}

// OrderID returns the order this return belongs to.
func (r *ReturnedItem) OrderID() kernel.UUID {
	return r.orderID
}

// ProductID returns the referenced product.
func (r *ReturnedItem) ProductID() kernel.UUID {
	return r.productID
}

// VariantID returns the referenced variant, nil when none.
func (r *ReturnedItem) VariantID() *kernel.UUID {
	return r.variantID
}

// Quantity returns how many units came back.
func (r *ReturnedItem) Quantity() int {
	return r.quantity
}

// OriginPrice returns the frozen unit price at shipping time.
func (r *ReturnedItem) OriginPrice() kernel.Money {
	return r.originPrice
}

// Condition returns the current condition classification.
func (r *ReturnedItem) Condition() ReturnCondition {
	return r.condition
}

// RecordedBy returns the operator who recorded the return.
func (r *ReturnedItem) RecordedBy() kernel.UUID {
	return r.recordedBy
}

// ProcessedBy returns the operator who processed the return, nil while pending.
func (r *ReturnedItem) ProcessedBy() *kernel.UUID {
	return r.processedBy
}

// ProcessedAt returns when the return was processed, nil while pending.
func (r *ReturnedItem) ProcessedAt() *time.Time {
	return r.processedAt
}

// CanBeReintegrated reports whether the item is eligible for stock
// reintegration: it must still be pending and its variant (when it has one)
// must still be active.
func (r *ReturnedItem) CanBeReintegrated(variantActive bool) bool {
	return r.condition == ConditionPending && variantActive
}

// MarkReintegrated transitions Pending -> Reintegrated. The caller is
// responsible for the matching positive stock mutation.
func (r *ReturnedItem) MarkReintegrated(by kernel.UUID, at time.Time) error {
	return r.process(ConditionReintegrated, by, at)
}

// MarkSentBackToPreparation transitions Pending -> SentBackToPreparation.
func (r *ReturnedItem) MarkSentBackToPreparation(by kernel.UUID, at time.Time) error {
	return r.process(ConditionSentBackToPreparation, by, at)
}

// MarkDefective transitions Pending -> Defective.
func (r *ReturnedItem) MarkDefective(by kernel.UUID, at time.Time) error {
	return r.process(ConditionDefective, by, at)
}

// MarkProcessed transitions Pending -> Processed.
func (r *ReturnedItem) MarkProcessed(by kernel.UUID, at time.Time) error {
	return r.process(ConditionProcessed, by, at)
}

func (r *ReturnedItem) process(target ReturnCondition, by kernel.UUID, at time.Time) error {
	if r.condition != ConditionPending {
		return ErrReturnedItemNotPending
	}
	if err := by.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("processing timestamp")
	}

	r.condition = target
	r.processedBy = &by
	r.processedAt = &at
	return nil
}
