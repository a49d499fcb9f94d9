package movementrepo

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// The audit trail is append-only; rows are never updated or deleted.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GORM stock movement repository.
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{
		db: db,
	}
}

// Add persists a batch of new stock movements.
func (r *GormMovementRepository) Add(ctx context.Context, movements []*product.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	dtos := make([]StockMovementDTO, 0, len(movements))
	for _, movement := range movements {
		if err := movement.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(movement))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return fmt.Errorf("persist stock movements: %w", err)
	}
	return nil
}

// GetByProduct retrieves the most recent movements of a product, newest first.
func (r *GormMovementRepository) GetByProduct(ctx context.Context, productID kernel.UUID, limit int) ([]*product.StockMovement, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StockMovementDTO
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID.Bytes()).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	movements := make([]*product.StockMovement, 0, len(dtos))
	for _, dto := range dtos {
		movement, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		movements = append(movements, movement)
	}

	return movements, nil
}
