package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for product aggregates
// and their variants.
type ProductRepository interface {
	// Add persists a new product aggregate with its variants.
	Add(ctx context.Context, aggregate *product.Product) error

	// Update persists changes to an existing product aggregate, including
	// variant stock levels.
	Update(ctx context.Context, aggregate *product.Product) error

	// Get retrieves a product aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetForUpdate retrieves a product holding a row-level lock on the
	// product and its variants for the duration of the transaction. Stock
	// mutations must load through this method so concurrent decrements of
	// the same product serialize instead of losing updates.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetBatchForUpdate retrieves several products under row-level locks.
	// IDs are locked in a stable order to avoid lock-order deadlocks when
	// two orders share products.
	GetBatchForUpdate(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error)

	// GetBatch retrieves several products without locking, for read-only
	// pricing lookups.
	GetBatch(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error)
}
