package operatorrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOperatorRepository implements OperatorRepository using GORM.
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewGormOperatorRepository creates a new GORM operator repository.
func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{
		db: db,
	}
}

// Add persists a new operator.
func (r *GormOperatorRepository) Add(ctx context.Context, op *operator.Operator) error {
	if err := op.Validate(); err != nil {
		return err
	}

	dto := fromDomain(op)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an operator by ID.
func (r *GormOperatorRepository) Get(ctx context.Context, id kernel.UUID) (*operator.Operator, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OperatorDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("operator", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
