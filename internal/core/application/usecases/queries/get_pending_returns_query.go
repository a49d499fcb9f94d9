package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetPendingReturnsQueryIsNotConstructed = errors.New(
	"GetPendingReturnsQuery must be created via NewGetPendingReturnsQuery constructor",
)

// GetPendingReturnsQuery retrieves every returned item still awaiting
// triage, across all orders. The warehouse works this list down.
type GetPendingReturnsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingReturnsQuery creates a parameterless pending returns query.
func NewGetPendingReturnsQuery() GetPendingReturnsQuery {
	return GetPendingReturnsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingReturnsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingReturnsQueryIsNotConstructed)
}

// GetPendingReturnsQueryResponse is one pending returned item.
type GetPendingReturnsQueryResponse struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	OrderNumber string
	ProductID   kernel.UUID
	ProductName string
	VariantID   *kernel.UUID
	Quantity    int
	OriginPrice string
}
