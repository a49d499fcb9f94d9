package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// MovementRepository defines the persistence contract for the stock
// movement audit trail. Movements are immutable; there is no update.
type MovementRepository interface {
	// Add persists a batch of new stock movements.
	Add(ctx context.Context, movements []*product.StockMovement) error

	// GetByProduct retrieves the most recent movements of a product,
	// newest first.
	GetByProduct(ctx context.Context, productID kernel.UUID, limit int) ([]*product.StockMovement, error)
}
