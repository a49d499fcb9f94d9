// Package returnrepo provides data transfer objects and mapping functions
// for returned item persistence.
package returnrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnedItemDTO represents one returned item row awaiting or past triage.
type ReturnedItemDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;index"`
	ProductID   uuid.UUID  `gorm:"type:uuid;index"`
	VariantID   *uuid.UUID `gorm:"type:uuid"`
	Quantity    int
	OriginPrice decimal.Decimal `gorm:"type:numeric(12,2)"`
	Condition   int             `gorm:"index"`
	RecordedBy  uuid.UUID       `gorm:"type:uuid"`
	ProcessedBy *uuid.UUID      `gorm:"type:uuid"`
	ProcessedAt *time.Time
}

// TableName specifies the database table name for returned items.
func (ReturnedItemDTO) TableName() string {
	return "returned_items"
}

// fromDomain converts a returned item to its database representation.
func fromDomain(item *order.ReturnedItem) ReturnedItemDTO {
	return ReturnedItemDTO{
		ID:          item.ID().Bytes(),
		OrderID:     item.OrderID().Bytes(),
		ProductID:   item.ProductID().Bytes(),
		VariantID:   optionalUUIDBytes(item.VariantID()),
		Quantity:    item.Quantity(),
		OriginPrice: item.OriginPrice().Decimal(),
		Condition:   int(item.Condition()),
		RecordedBy:  item.RecordedBy().Bytes(),
		ProcessedBy: optionalUUIDBytes(item.ProcessedBy()),
		ProcessedAt: item.ProcessedAt(),
	}
}

// toDomain converts a database DTO to a returned item.
func toDomain(dto ReturnedItemDTO) (*order.ReturnedItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	recordedBy, err := kernel.UUIDFromBytes(dto.RecordedBy[:])
	if err != nil {
		return nil, err
	}
	variantID, err := optionalUUIDFromBytes(dto.VariantID)
	if err != nil {
		return nil, err
	}
	processedBy, err := optionalUUIDFromBytes(dto.ProcessedBy)
	if err != nil {
		return nil, err
	}

	return order.RestoreReturnedItem(
		id,
		orderID,
		productID,
		variantID,
		dto.Quantity,
		kernel.NewMoney(dto.OriginPrice),
		order.ReturnCondition(dto.Condition),
		recordedBy,
		processedBy,
		dto.ProcessedAt,
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
