package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetStockMovementsQueryIsNotConstructed = errors.New(
	"GetStockMovementsQuery must be created via NewGetStockMovementsQuery constructor",
)

// GetStockMovementsQuery retrieves the most recent stock movements of one
// product, newest first.
type GetStockMovementsQuery struct {
	productID kernel.UUID
	limit     int

	guard guard.ConstructorGuard
}

// NewGetStockMovementsQuery creates a movement audit query.
func NewGetStockMovementsQuery(productID kernel.UUID, limit int) (GetStockMovementsQuery, error) {
	if err := productID.Validate(); err != nil {
		return GetStockMovementsQuery{}, err
	}
	if limit <= 0 {
		return GetStockMovementsQuery{}, errs.NewValueIsInvalidError("movement query limit")
	}

	return GetStockMovementsQuery{
		productID: productID,
		limit:     limit,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStockMovementsQuery) Validate() error {
	return q.guard.Validate(ErrGetStockMovementsQueryIsNotConstructed)
}

// ProductID returns the audited product.
func (q GetStockMovementsQuery) ProductID() kernel.UUID {
	return q.productID
}

// Limit returns the maximum number of movements returned.
func (q GetStockMovementsQuery) Limit() int {
	return q.limit
}

// GetStockMovementsQueryResponse is one audit movement in the read model.
type GetStockMovementsQueryResponse struct {
	ID            kernel.UUID
	VariantID     *kernel.UUID
	OrderID       *kernel.UUID
	OperatorID    *kernel.UUID
	Delta         int
	Reason        string
	QuantityAfter int
	RecordedAt    time.Time
}
