// Package movementrepo provides data transfer objects and mapping functions
// for the stock movement audit trail. Movements are append-only.
package movementrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// StockMovementDTO represents one immutable audit row.
type StockMovementDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID  `gorm:"type:uuid;index"`
	VariantID     *uuid.UUID `gorm:"type:uuid"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index"`
	OperatorID    *uuid.UUID `gorm:"type:uuid"`
	Delta         int
	Reason        int
	QuantityAfter int
	RecordedAt    time.Time `gorm:"index"`
}

// TableName specifies the database table name for stock movements.
func (StockMovementDTO) TableName() string {
	return "stock_movements"
}

// fromDomain converts a movement to its database representation.
func fromDomain(movement *product.StockMovement) StockMovementDTO {
	return StockMovementDTO{
		ID:            movement.ID().Bytes(),
		ProductID:     movement.ProductID().Bytes(),
		VariantID:     optionalUUIDBytes(movement.VariantID()),
		OrderID:       optionalUUIDBytes(movement.OrderID()),
		OperatorID:    optionalUUIDBytes(movement.OperatorID()),
		Delta:         movement.Delta(),
		Reason:        int(movement.Reason()),
		QuantityAfter: movement.QuantityAfter(),
		RecordedAt:    movement.RecordedAt(),
	}
}

// toDomain converts a database DTO to a movement.
func toDomain(dto StockMovementDTO) (*product.StockMovement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	variantID, err := optionalUUIDFromBytes(dto.VariantID)
	if err != nil {
		return nil, err
	}
	orderID, err := optionalUUIDFromBytes(dto.OrderID)
	if err != nil {
		return nil, err
	}
	operatorID, err := optionalUUIDFromBytes(dto.OperatorID)
	if err != nil {
		return nil, err
	}

	return product.NewStockMovement(
		id,
		productID,
		variantID,
		orderID,
		operatorID,
		dto.Delta,
		product.MovementReason(dto.Reason),
		dto.QuantityAfter,
		dto.RecordedAt,
	)
}

func optionalUUIDBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUIDFromBytes(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
