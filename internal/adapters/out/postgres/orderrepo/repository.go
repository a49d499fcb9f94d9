package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// orderIDRow scans the sweep's order id projection.
type orderIDRow struct {
	OrderID uuid.UUID
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its ledger, lines and operations.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order. Child rows are replaced wholesale: the
// aggregate owns its full ledger in memory, so rewriting them is simpler and
// safer than diffing closed entries against open ones.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	tx := r.db.WithContext(ctx)

	result := tx.Model(&OrderDTO{}).Where("id = ?", dto.ID).Select(
		"number", "source", "source_sequence", "address", "payment_status",
		"delivery_fee", "delivery_fee_included", "upsell_counter", "total",
	).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, child := range []any{&StateEntryDTO{}, &LineItemDTO{}, &OperationDTO{}} {
		if err := tx.Where("order_id = ?", dto.ID).Delete(child).Error; err != nil {
			return err
		}
	}
	if len(dto.StateEntries) > 0 {
		if err := tx.Create(&dto.StateEntries).Error; err != nil {
			return err
		}
	}
	if len(dto.LineItems) > 0 {
		if err := tx.Create(&dto.LineItems).Error; err != nil {
			return err
		}
	}
	if len(dto.Operations) > 0 {
		if err := tx.Create(&dto.Operations).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its full ledger.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByNumber retrieves an order by its external number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetWithDueDelayedTransitions retrieves orders whose open Postponed entry
// has an elapsed delayed timestamp.
func (r *GormOrderRepository) GetWithDueDelayedTransitions(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	var ids []orderIDRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT order_id
		FROM state_entries
		WHERE ended_at IS NULL
		  AND delayed_until IS NOT NULL
		  AND delayed_until <= ?
		LIMIT ?
	`, now, limit).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(ids))
	for _, row := range ids {
		var dto OrderDTO
		if err = r.preloaded(ctx).First(&dto, "id = ?", row.OrderID).Error; err != nil {
			return nil, err
		}

		aggregate, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("StateEntries", func(db *gorm.DB) *gorm.DB {
			return db.Order("started_at, id")
		}).
		Preload("LineItems").
		Preload("Operations", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded_at, id")
		})
}
