package returnrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM.
type GormReturnRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormReturnRepository creates a new GORM returned item repository.
func NewGormReturnRepository(db *gorm.DB, tracker aggregateTracker) *GormReturnRepository {
	return &GormReturnRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add persists a batch of new returned items.
func (r *GormReturnRepository) Add(ctx context.Context, items []*order.ReturnedItem) error {
	if len(items) == 0 {
		return nil
	}

	dtos := make([]ReturnedItemDTO, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(item))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	for _, item := range items {
		r.tracker.TrackAggregate(item.ID(), item)
	}
	return nil
}

// Update persists a condition change on an existing returned item.
func (r *GormReturnRepository) Update(ctx context.Context, item *order.ReturnedItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := fromDomain(item)
	result := r.db.WithContext(ctx).Model(&ReturnedItemDTO{}).Where("id = ?", dto.ID).Select(
		"condition", "processed_by", "processed_at",
	).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(item.ID(), item)
	return nil
}

// Get retrieves a returned item by ID.
func (r *GormReturnRepository) Get(ctx context.Context, id kernel.UUID) (*order.ReturnedItem, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReturnedItemDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("returned item", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingByOrder retrieves an order's returned items still pending triage.
func (r *GormReturnRepository) GetPendingByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.ReturnedItem, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReturnedItemDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND condition = ?", orderID.Bytes(), int(order.ConditionPending)).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	items := make([]*order.ReturnedItem, 0, len(dtos))
	for _, dto := range dtos {
		item, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		items = append(items, item)
	}

	return items, nil
}
