package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads an order's state entries with raw SQL,
// oldest first, so a pipeline view can render the full trail.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for history queries.
// Requires a GORM database connection for query execution.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the history query.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			state,
			operator_id,
			comment,
			started_at,
			ended_at,
			delayed_until
		FROM state_entries
		WHERE order_id = ?
		ORDER BY started_at, id
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry        GetOrderHistoryQueryResponse
			id           uuid.UUID
			state        int
			operatorID   sql.NullString
			endedAt      sql.NullTime
			delayedUntil sql.NullTime
		)

		if err = rows.Scan(
			&id,
			&state,
			&operatorID,
			&entry.Comment,
			&entry.StartedAt,
			&endedAt,
			&delayedUntil,
		); err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ID = entryID

		if operatorID.Valid {
			opID, opErr := kernel.UUIDFromString(operatorID.String)
			if opErr != nil {
				return nil, opErr
			}
			entry.OperatorID = &opID
		}
		if endedAt.Valid {
			t := endedAt.Time
			entry.EndedAt = &t
		}
		if delayedUntil.Valid {
			t := delayedUntil.Time
			entry.DelayedUntil = &t
		}

		entry.State = order.State(state).String()
		entry.StateColor = order.State(state).Color()
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
