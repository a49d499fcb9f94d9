package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
)

// OperatorRepository defines the persistence contract for operators.
// Operators are reference data owned by the auth subsystem; the core only
// reads them to resolve the acting identity and its role.
type OperatorRepository interface {
	// Add persists a new operator.
	Add(ctx context.Context, op *operator.Operator) error

	// Get retrieves an operator by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*operator.Operator, error)
}
