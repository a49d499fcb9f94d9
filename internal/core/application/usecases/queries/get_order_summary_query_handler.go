package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderSummaryQueryHandler reads one order's summary row, joining the
// single open state entry for the current state and owner.
type GetOrderSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderSummaryQueryHandler creates a handler for order summaries.
// Requires a GORM database connection for query execution.
func NewGetOrderSummaryQueryHandler(db *gorm.DB) GetOrderSummaryQueryHandler {
	return GetOrderSummaryQueryHandler{db: db}
}

// Handle executes the summary query. Returns ErrObjectNotFound when the
// order does not exist.
func (h GetOrderSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderSummaryQuery,
) (GetOrderSummaryQueryResponse, error) {
	var resp GetOrderSummaryQueryResponse

	if err := query.Validate(); err != nil {
		return resp, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.number,
			o.source,
			o.address,
			o.payment_status,
			o.total,
			o.upsell_counter,
			se.state,
			se.operator_id,
			(SELECT COUNT(*) FROM line_items li WHERE li.order_id = o.id) AS line_count
		FROM orders o
		JOIN state_entries se ON se.order_id = o.id AND se.ended_at IS NULL
		WHERE o.id = ?
	`, query.OrderID().String()).Rows()
	if err != nil {
		return resp, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return resp, err
		}
		return resp, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	var (
		id            uuid.UUID
		paymentStatus int
		state         int
		operatorID    sql.NullString
	)
	if err = rows.Scan(
		&id,
		&resp.Number,
		&resp.Source,
		&resp.Address,
		&paymentStatus,
		&resp.Total,
		&resp.UpsellCounter,
		&state,
		&operatorID,
		&resp.LineCount,
	); err != nil {
		return resp, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return resp, err
	}
	resp.ID = orderID

	if operatorID.Valid {
		opID, idErr := kernel.UUIDFromString(operatorID.String)
		if idErr != nil {
			return resp, idErr
		}
		resp.OperatorID = &opID
	}

	resp.State = order.State(state).String()
	resp.StateColor = order.State(state).Color()
	resp.PaymentStatus = order.PaymentStatus(paymentStatus).String()

	return resp, rows.Err()
}
