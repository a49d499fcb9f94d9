// Package productrepo provides data transfer objects and mapping functions
// for product persistence, including variants and pricing phase columns.
package productrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the database structure for persisting product
// aggregates. Upsell tier prices use one column per tier; a zero value
// means the tier is unset.
type ProductDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string
	BasePrice        decimal.Decimal `gorm:"type:numeric(12,2)"`
	CurrentPrice     decimal.Decimal `gorm:"type:numeric(12,2)"`
	PromoPrice       decimal.Decimal `gorm:"type:numeric(12,2)"`
	PromoActive      bool
	Liquidation      bool
	LiquidationPrice decimal.Decimal `gorm:"type:numeric(12,2)"`
	TestPhase        bool
	Upsell           bool
	UpsellTier1      decimal.Decimal `gorm:"type:numeric(12,2)"`
	UpsellTier2      decimal.Decimal `gorm:"type:numeric(12,2)"`
	UpsellTier3      decimal.Decimal `gorm:"type:numeric(12,2)"`
	UpsellTier4      decimal.Decimal `gorm:"type:numeric(12,2)"`
	StockQuantity    int
	Active           bool

	Variants []VariantDTO `gorm:"foreignKey:ProductID"`
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// VariantDTO represents one color/size variant row.
type VariantDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;index"`
	Color         string
	Size          string
	StockQuantity int
	Active        bool
}

// TableName specifies the database table name for variant entities.
func (VariantDTO) TableName() string {
	return "variants"
}

// fromDomain converts a product domain aggregate to its database representation.
func fromDomain(aggregate *product.Product) ProductDTO {
	dto := ProductDTO{
		ID:               aggregate.ID().Bytes(),
		Name:             aggregate.Name(),
		BasePrice:        aggregate.BasePrice().Decimal(),
		CurrentPrice:     aggregate.CurrentPrice().Decimal(),
		PromoPrice:       aggregate.PromoPrice().Decimal(),
		PromoActive:      aggregate.PromoActive(),
		Liquidation:      aggregate.InLiquidation(),
		LiquidationPrice: aggregate.LiquidationPrice().Decimal(),
		TestPhase:        aggregate.InTestPhase(),
		Upsell:           aggregate.IsUpsell(),
		UpsellTier1:      aggregate.UpsellTierPrice(1).Decimal(),
		UpsellTier2:      aggregate.UpsellTierPrice(2).Decimal(),
		UpsellTier3:      aggregate.UpsellTierPrice(3).Decimal(),
		UpsellTier4:      aggregate.UpsellTierPrice(4).Decimal(),
		StockQuantity:    aggregate.StockQuantity(),
		Active:           aggregate.IsActive(),
	}

	for _, v := range aggregate.Variants() {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:            v.ID().Bytes(),
			ProductID:     dto.ID,
			Color:         v.Color(),
			Size:          v.Size(),
			StockQuantity: v.StockQuantity(),
			Active:        v.IsActive(),
		})
	}

	return dto
}

// toDomain converts a database DTO to a product domain aggregate.
func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	variants := make([]*product.Variant, 0, len(dto.Variants))
	for _, raw := range dto.Variants {
		variantID, vErr := kernel.UUIDFromBytes(raw.ID[:])
		if vErr != nil {
			return nil, vErr
		}
		productID, vErr := kernel.UUIDFromBytes(raw.ProductID[:])
		if vErr != nil {
			return nil, vErr
		}

		variant, vErr := product.RestoreVariant(
			variantID,
			productID,
			raw.Color,
			raw.Size,
			raw.StockQuantity,
			raw.Active,
		)
		if vErr != nil {
			return nil, vErr
		}
		variants = append(variants, variant)
	}

	return product.RestoreProduct(
		id,
		dto.Name,
		kernel.NewMoney(dto.BasePrice),
		kernel.NewMoney(dto.CurrentPrice),
		kernel.NewMoney(dto.PromoPrice),
		dto.PromoActive,
		dto.Liquidation,
		kernel.NewMoney(dto.LiquidationPrice),
		dto.TestPhase,
		dto.Upsell,
		[product.UpsellTierCount]kernel.Money{
			kernel.NewMoney(dto.UpsellTier1),
			kernel.NewMoney(dto.UpsellTier2),
			kernel.NewMoney(dto.UpsellTier3),
			kernel.NewMoney(dto.UpsellTier4),
		},
		dto.StockQuantity,
		dto.Active,
		variants,
	)
}
