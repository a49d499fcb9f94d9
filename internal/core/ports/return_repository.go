package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ReturnRepository defines the persistence contract for returned item
// records created by partial delivery reconciliation.
type ReturnRepository interface {
	// Add persists a batch of new returned item records.
	Add(ctx context.Context, items []*order.ReturnedItem) error

	// Update persists a condition change on an existing returned item.
	Update(ctx context.Context, item *order.ReturnedItem) error

	// Get retrieves a returned item by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.ReturnedItem, error)

	// GetPendingByOrder retrieves all returned items of an order still in
	// pending condition, eligible for reintegration or triage.
	GetPendingByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.ReturnedItem, error)
}
