// Package queries contains read-only operations over the fulfillment store.
// Query handlers bypass the aggregates and read projections with raw SQL,
// following the CQRS split: commands go through the domain, queries do not.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderSummaryQueryIsNotConstructed = errors.New(
	"GetOrderSummaryQuery must be created via NewGetOrderSummaryQuery constructor",
)

// GetOrderSummaryQuery retrieves one order's display summary: its current
// state, totals, counter and responsible operator.
//
// Example:
//
//	query, _ := NewGetOrderSummaryQuery(orderID)
//	handler := NewGetOrderSummaryQueryHandler(db)
//
//	summary, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order summary: %w", err)
//	}
//	fmt.Printf("Order %s is %s\n", summary.Number, summary.State)
type GetOrderSummaryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderSummaryQuery creates a summary query for one order.
func NewGetOrderSummaryQuery(orderID kernel.UUID) (GetOrderSummaryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderSummaryQuery{}, err
	}

	return GetOrderSummaryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderSummaryQueryIsNotConstructed)
}

// OrderID returns the order to summarize.
func (q GetOrderSummaryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderSummaryQueryResponse is the read model of one order's summary.
type GetOrderSummaryQueryResponse struct {
	ID            kernel.UUID
	Number        string
	Source        string
	Address       string
	State         string
	StateColor    string
	OperatorID    *kernel.UUID
	PaymentStatus string
	Total         string
	UpsellCounter int
	LineCount     int
}
