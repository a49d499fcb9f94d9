// Package ports defines repository interfaces for the fulfillment domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// with their complete state history, line items and audit operations.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including
	// its state entries, line items and operations.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its full state history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its external order number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetWithDueDelayedTransitions retrieves orders holding an open state
	// entry whose delayed transition timestamp has elapsed. Used by the
	// delayed confirmation sweep.
	GetWithDueDelayedTransitions(ctx context.Context, now time.Time, limit int) ([]*order.Order, error)
}
