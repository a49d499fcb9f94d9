package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
)

// ErrConservationViolated is the sentinel for partial delivery splits whose
// quantities do not add up to the original line quantities.
var ErrConservationViolated = errors.New("delivered and returned quantities do not conserve original quantities")

// ErrUnknownLineSplit is returned when a split references a line item that is
// not on the order.
var ErrUnknownLineSplit = errors.New("split references a line item not on the order")

// ConservationError lists every line whose split violates the conservation
// law, so the caller can display all offending lines at once.
type ConservationError struct {
	Violations []ConservationViolation
}

// ConservationViolation describes one line's broken split.
type ConservationViolation struct {
	LineItemID kernel.UUID
	Original   int
	Delivered  int
	Returned   int
}

func (e *ConservationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("line %s: %d delivered + %d returned != %d original",
			v.LineItemID, v.Delivered, v.Returned, v.Original))
	}
	return fmt.Sprintf("%s: %s", ErrConservationViolated, strings.Join(parts, "; "))
}

func (e *ConservationError) Unwrap() error {
	return ErrConservationViolated
}

// LineSplit is the caller's split of one original line item into delivered
// and returned quantities.
type LineSplit struct {
	LineItemID kernel.UUID
	Delivered  int
	Returned   int
}

// ReconciliationResult carries everything the orchestrator must persist
// after a successful partial delivery reconciliation.
type ReconciliationResult struct {
	// ReturnedItems are new pending records awaiting explicit reintegration.
	ReturnedItems []*order.ReturnedItem

	// Recap is the structured summary also serialized onto the order's
	// audit operation.
	Recap order.DeliveryRecap
}

// PartialDeliveryReconciler splits an order's line items into delivered and
// returned groups when a delivery comes back incomplete.
//
// The reconciliation is all-or-nothing: conservation is validated for every
// line before any state change, the order's lines are rewritten to the
// delivered quantities, the upsell counter is re-derived and every surviving
// line repriced, and the full split is serialized as a JSON recap on an
// audit operation. Returned stock is NOT reintegrated here; that is a
// separate explicit step gated on the returned item's condition.
type PartialDeliveryReconciler struct {
	pricing PricingEngine
}

// NewPartialDeliveryReconciler creates a reconciler using the given pricing
// engine for post-split repricing.
func NewPartialDeliveryReconciler(pricing PricingEngine) PartialDeliveryReconciler {
	return PartialDeliveryReconciler{pricing: pricing}
}

// Reconcile performs the partial delivery split on the order.
//
// Parameters:
//   - o: the order, currently InDistribution
//   - actor: the logistics operator reporting the outcome
//   - splits: one split per original line item
//   - comment: free text stored on the new state entry
//   - catalog: products for every line, for repricing
//
// On any validation failure the order is left untouched.
func (r PartialDeliveryReconciler) Reconcile(
	o *order.Order,
	actor *operator.Operator,
	splits []LineSplit,
	comment string,
	catalog map[kernel.UUID]*product.Product,
	now time.Time,
) (*ReconciliationResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	byLine := make(map[kernel.UUID]LineSplit, len(splits))
	for _, split := range splits {
		if _, err := o.FindLineItem(split.LineItemID); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLineSplit, split.LineItemID)
		}
		byLine[split.LineItemID] = split
	}

	if err := r.validateConservation(o, byLine); err != nil {
		return nil, err
	}

	// Snapshot frozen prices and variant refs before the lines are
	// rewritten; returned items keep the price the customer was quoted.
	recap, returnedItems, err := r.buildReturnRecords(o, actor, byLine, now)
	if err != nil {
		return nil, err
	}

	if err := o.Transition(actor, order.PartiallyDelivered, comment, now); err != nil {
		return nil, err
	}

	delivered := make(map[kernel.UUID]int, len(byLine))
	for id, split := range byLine {
		delivered[id] = split.Delivered
	}
	if err := o.RewriteLinesForDelivery(delivered); err != nil {
		return nil, err
	}

	// The order now sits in a protected state; force the repricing so the
	// shrunk upsell counter takes effect on the surviving lines.
	if err := r.pricing.RederiveAndReprice(o, catalog, true); err != nil {
		return nil, err
	}

	payload, err := recap.MarshalPayload()
	if err != nil {
		return nil, err
	}
	auditOp, err := order.NewOperation(kernel.NewUUID(), order.OperationDeliveryRecap, actor.ID(), payload, now)
	if err != nil {
		return nil, err
	}
	if err := o.RecordOperation(auditOp); err != nil {
		return nil, err
	}

	return &ReconciliationResult{
		ReturnedItems: returnedItems,
		Recap:         recap,
	}, nil
}

// validateConservation checks every original line has a split whose
// delivered plus returned quantities equal the original quantity.
func (r PartialDeliveryReconciler) validateConservation(o *order.Order, byLine map[kernel.UUID]LineSplit) error {
	var violations []ConservationViolation
	for _, item := range o.LineItems() {
		split, ok := byLine[item.ID()]
		delivered, returned := split.Delivered, split.Returned
		if !ok {
			delivered, returned = 0, 0
		}
		if delivered < 0 || returned < 0 || delivered+returned != item.Quantity() {
			violations = append(violations, ConservationViolation{
				LineItemID: item.ID(),
				Original:   item.Quantity(),
				Delivered:  delivered,
				Returned:   returned,
			})
		}
	}
	if len(violations) > 0 {
		return &ConservationError{Violations: violations}
	}
	return nil
}

// buildReturnRecords creates the pending ReturnedItem records and the JSON
// recap lines, both carrying the pre-rewrite frozen unit prices.
func (r PartialDeliveryReconciler) buildReturnRecords(
	o *order.Order,
	actor *operator.Operator,
	byLine map[kernel.UUID]LineSplit,
	now time.Time,
) (order.DeliveryRecap, []*order.ReturnedItem, error) {
	var (
		recap         order.DeliveryRecap
		returnedItems []*order.ReturnedItem
	)

	for _, item := range o.LineItems() {
		split := byLine[item.ID()]
		variantID := item.VariantID()

		var variantRef *string
		if variantID != nil {
			s := variantID.String()
			variantRef = &s
		}

		if split.Delivered > 0 {
			recap.Delivered = append(recap.Delivered, order.RecapLine{
				ProductID: item.ProductID().String(),
				VariantID: variantRef,
				Quantity:  split.Delivered,
				UnitPrice: item.UnitPrice().String(),
			})
		}

		if split.Returned > 0 {
			recap.Returned = append(recap.Returned, order.RecapLine{
				ProductID: item.ProductID().String(),
				VariantID: variantRef,
				Quantity:  split.Returned,
				Condition: order.ConditionPending.String(),
				UnitPrice: item.UnitPrice().String(),
			})

			returned, err := order.NewReturnedItem(
				kernel.NewUUID(),
				o.ID(),
				item.ProductID(),
				variantID,
				split.Returned,
				item.UnitPrice(),
				actor.ID(),
			)
			if err != nil {
				return order.DeliveryRecap{}, nil, err
			}
			returnedItems = append(returnedItems, returned)
		}
	}

	return recap, returnedItems, nil
}
