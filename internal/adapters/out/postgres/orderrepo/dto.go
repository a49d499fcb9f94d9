// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Child rows (state entries, line items, operations) live in their own tables
// keyed by order_id and are loaded with the aggregate.
type OrderDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number              string    `gorm:"uniqueIndex"`
	Source              string    `gorm:"index:idx_orders_source_seq"`
	SourceSequence      int       `gorm:"index:idx_orders_source_seq"`
	Address             string
	PaymentStatus       int
	DeliveryFee         decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveryFeeIncluded bool
	UpsellCounter       int
	Total               decimal.Decimal `gorm:"type:numeric(12,2)"`

	StateEntries []StateEntryDTO `gorm:"foreignKey:OrderID"`
	LineItems    []LineItemDTO   `gorm:"foreignKey:OrderID"`
	Operations   []OperationDTO  `gorm:"foreignKey:OrderID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// StateEntryDTO represents one ledger row. The partial index on open
// entries backs the delayed confirmation sweep.
type StateEntryDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;index"`
	State        int        `gorm:"index"`
	OperatorID   *uuid.UUID `gorm:"type:uuid"`
	Comment      string
	StartedAt    time.Time
	EndedAt      *time.Time `gorm:"index"`
	DelayedUntil *time.Time `gorm:"index"`
}

// TableName specifies the database table name for ledger entries.
func (StateEntryDTO) TableName() string {
	return "state_entries"
}

// LineItemDTO represents one cart line row.
type LineItemDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID  `gorm:"type:uuid;index"`
	ProductID       uuid.UUID  `gorm:"type:uuid;index"`
	VariantID       *uuid.UUID `gorm:"type:uuid"`
	Quantity        int
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2)"`
	SubTotal        decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountApplied bool
	DiscountKind    int
}

// TableName specifies the database table name for cart lines.
func (LineItemDTO) TableName() string {
	return "line_items"
}

// OperationDTO represents one audit operation row. Payload is free text;
// delivery recaps store their JSON here.
type OperationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	Kind       int
	OperatorID uuid.UUID `gorm:"type:uuid"`
	Payload    string
	RecordedAt time.Time
}

// TableName specifies the database table name for audit operations.
func (OperationDTO) TableName() string {
	return "operations"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		Number:              aggregate.Number(),
		Source:              aggregate.Source(),
		SourceSequence:      aggregate.SourceSequence(),
		Address:             aggregate.Address(),
		PaymentStatus:       int(aggregate.PaymentStatus()),
		DeliveryFee:         aggregate.DeliveryFee().Decimal(),
		DeliveryFeeIncluded: aggregate.DeliveryFeeIncluded(),
		UpsellCounter:       aggregate.UpsellCounter(),
		Total:               aggregate.Total().Decimal(),
	}

	for _, entry := range aggregate.History() {
		dto.StateEntries = append(dto.StateEntries, StateEntryDTO{
			ID:           entry.ID().Bytes(),
			OrderID:      dto.ID,
			State:        int(entry.State()),
			OperatorID:   optionalUUIDBytes(entry.OperatorID()),
			Comment:      entry.Comment(),
			StartedAt:    entry.StartedAt(),
			EndedAt:      entry.EndedAt(),
			DelayedUntil: entry.DelayedUntil(),
		})
	}

	for _, item := range aggregate.LineItems() {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:              item.ID().Bytes(),
			OrderID:         dto.ID,
			ProductID:       item.ProductID().Bytes(),
			VariantID:       optionalUUIDBytes(item.VariantID()),
			Quantity:        item.Quantity(),
			UnitPrice:       item.UnitPrice().Decimal(),
			SubTotal:        item.SubTotal().Decimal(),
			DiscountApplied: item.DiscountApplied(),
			DiscountKind:    int(item.DiscountKind()),
		})
	}

	for _, op := range aggregate.Operations() {
		dto.Operations = append(dto.Operations, OperationDTO{
			ID:         op.ID().Bytes(),
			OrderID:    dto.ID,
			Kind:       int(op.Kind()),
			OperatorID: op.OperatorID().Bytes(),
			Payload:    op.Payload(),
			RecordedAt: op.RecordedAt(),
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including its ledger using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	history := make([]*order.StateEntry, 0, len(dto.StateEntries))
	for _, raw := range dto.StateEntries {
		entryID, entryErr := kernel.UUIDFromBytes(raw.ID[:])
		if entryErr != nil {
			return nil, entryErr
		}
		operatorID, entryErr := optionalUUIDFromBytes(raw.OperatorID)
		if entryErr != nil {
			return nil, entryErr
		}

		entry, entryErr := order.RestoreStateEntry(
			entryID,
			order.State(raw.State),
			operatorID,
			raw.Comment,
			raw.StartedAt,
			raw.EndedAt,
			raw.DelayedUntil,
		)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, entry)
	}

	lineItems := make([]*order.LineItem, 0, len(dto.LineItems))
	for _, raw := range dto.LineItems {
		itemID, itemErr := kernel.UUIDFromBytes(raw.ID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		productID, itemErr := kernel.UUIDFromBytes(raw.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		variantID, itemErr := optionalUUIDFromBytes(raw.VariantID)
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.RestoreLineItem(
			itemID,
			productID,
			variantID,
			raw.Quantity,
			kernel.NewMoney(raw.UnitPrice),
			kernel.NewMoney(raw.SubTotal),
			raw.DiscountApplied,
			order.DiscountKind(raw.DiscountKind),
		)
		if itemErr != nil {
			return nil, itemErr
		}
		lineItems = append(lineItems, item)
	}

	operations := make([]*order.Operation, 0, len(dto.Operations))
	for _, raw := range dto.Operations {
		opID, opErr := kernel.UUIDFromBytes(raw.ID[:])
		if opErr != nil {
			return nil, opErr
		}
		operatorID, opErr := kernel.UUIDFromBytes(raw.OperatorID[:])
		if opErr != nil {
			return nil, opErr
		}

		op, opErr := order.NewOperation(
			opID,
			order.OperationKind(raw.Kind),
			operatorID,
			raw.Payload,
			raw.RecordedAt,
		)
		if opErr != nil {
			return nil, opErr
		}
		operations = append(operations, op)
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		dto.Source,
		dto.SourceSequence,
		dto.Address,
		order.PaymentStatus(dto.PaymentStatus),
		kernel.NewMoney(dto.DeliveryFee),
		dto.DeliveryFeeIncluded,
		dto.UpsellCounter,
		kernel.NewMoney(dto.Total),
		lineItems,
		history,
		operations,
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
