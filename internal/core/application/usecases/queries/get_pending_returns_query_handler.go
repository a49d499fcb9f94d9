package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingReturnsQueryHandler lists pending returned items with their
// order and product context for the warehouse triage screen.
type GetPendingReturnsQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingReturnsQueryHandler creates a handler for pending returns.
// Requires a GORM database connection for query execution.
func NewGetPendingReturnsQueryHandler(db *gorm.DB) GetPendingReturnsQueryHandler {
	return GetPendingReturnsQueryHandler{db: db}
}

// Handle executes the pending returns query, oldest orders first.
func (h GetPendingReturnsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingReturnsQuery,
) ([]GetPendingReturnsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	items := make([]GetPendingReturnsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			ri.id,
			ri.order_id,
			o.number,
			ri.product_id,
			p.name,
			ri.variant_id,
			ri.quantity,
			ri.origin_price
		FROM returned_items ri
		JOIN orders o ON o.id = ri.order_id
		JOIN products p ON p.id = ri.product_id
		WHERE ri.condition = ?
		ORDER BY o.number, ri.id
	`, order.ConditionPending).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      GetPendingReturnsQueryResponse
			id        uuid.UUID
			orderID   uuid.UUID
			productID uuid.UUID
			variantID sql.NullString
		)

		if err = rows.Scan(
			&id,
			&orderID,
			&item.OrderNumber,
			&productID,
			&item.ProductName,
			&variantID,
			&item.Quantity,
			&item.OriginPrice,
		); err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		if variantID.Valid {
			vID, vErr := kernel.UUIDFromString(variantID.String)
			if vErr != nil {
				return nil, vErr
			}
			item.VariantID = &vID
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
