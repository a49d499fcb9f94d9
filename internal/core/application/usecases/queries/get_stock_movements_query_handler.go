package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStockMovementsQueryHandler reads a product's movement audit trail.
type GetStockMovementsQueryHandler struct {
	db *gorm.DB
}

// NewGetStockMovementsQueryHandler creates a handler for movement queries.
// Requires a GORM database connection for query execution.
func NewGetStockMovementsQueryHandler(db *gorm.DB) GetStockMovementsQueryHandler {
	return GetStockMovementsQueryHandler{db: db}
}

// Handle executes the movement query, newest first.
func (h GetStockMovementsQueryHandler) Handle(
	ctx context.Context,
	query GetStockMovementsQuery,
) ([]GetStockMovementsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	movements := make([]GetStockMovementsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			variant_id,
			order_id,
			operator_id,
			delta,
			reason,
			quantity_after,
			recorded_at
		FROM stock_movements
		WHERE product_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`, query.ProductID().String(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			movement   GetStockMovementsQueryResponse
			id         uuid.UUID
			variantID  sql.NullString
			orderID    sql.NullString
			operatorID sql.NullString
			reason     int
		)

		if err = rows.Scan(
			&id,
			&variantID,
			&orderID,
			&operatorID,
			&movement.Delta,
			&reason,
			&movement.QuantityAfter,
			&movement.RecordedAt,
		); err != nil {
			return nil, err
		}

		if movement.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if movement.VariantID, err = parseOptionalUUID(variantID); err != nil {
			return nil, err
		}
		if movement.OrderID, err = parseOptionalUUID(orderID); err != nil {
			return nil, err
		}
		if movement.OperatorID, err = parseOptionalUUID(operatorID); err != nil {
			return nil, err
		}

		movement.Reason = product.MovementReason(reason).String()
		movements = append(movements, movement)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}

func parseOptionalUUID(value sql.NullString) (*kernel.UUID, error) {
	if !value.Valid {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromString(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
