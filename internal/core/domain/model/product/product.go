package product

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrProductIsNotConstructed is returned when a Product was not created
	// through NewProduct or RestoreProduct.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

	// ErrInsufficientStock is the sentinel for stock mutations that would
	// push a quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Shortage describes one line whose requested quantity exceeds what is on
// hand. Availability checks report every short line so the caller can show a
// complete shortage list.
type Shortage struct {
	ProductID kernel.UUID
	VariantID *kernel.UUID
	Requested int
	Available int
}

// InsufficientStockError aggregates all shortages blocking an operation.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: %d line(s) short", ErrInsufficientStock, len(e.Shortages))
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// NewInsufficientStockError creates an error carrying the full shortage list.
func NewInsufficientStockError(shortages []Shortage) *InsufficientStockError {
	return &InsufficientStockError{Shortages: shortages}
}

// UpsellTierCount is the number of upsell pricing tiers; counters beyond it
// clamp to the last tier.
const UpsellTierCount = 4

// Product is the catalog aggregate: pricing phases, upsell tiers, the
// product-level stock pool and the color/size variants. Stock quantities on
// the product and its variants are mutated only through ApplyStockDelta so
// every change can be paired with a StockMovement.
type Product struct {
	id   kernel.UUID
	name string

	basePrice    kernel.Money
	currentPrice kernel.Money

	// promoPrice applies while promoActive; zero means unset.
	promoPrice  kernel.Money
	promoActive bool

	// liquidationPrice applies while liquidation; zero means unset and the
	// current (then base) price is used instead.
	liquidation      bool
	liquidationPrice kernel.Money

	// testPhase sells at the current price regardless of upsell flags.
	testPhase bool

	// upsell marks the product as participating in counter-based tiering.
	upsell bool

	// upsellTierPrices holds tiers 1..UpsellTierCount; a zero entry means
	// the tier is unset and the current (then base) price applies.
	upsellTierPrices [UpsellTierCount]kernel.Money

	// stockQuantity is the product-level pool, used when a line references
	// no variant or its variant reference was repaired away.
	stockQuantity int

	active bool

	variants []*Variant

	guard guard.ConstructorGuard
}

// NewProduct creates a catalog product with no variants and empty optional
// phases.
func NewProduct(
	id kernel.UUID,
	name string,
	basePrice kernel.Money,
	currentPrice kernel.Money,
	stockQuantity int,
) (*Product, error) {
	p := &Product{
		active: true,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		basePrice.Validate(),
		currentPrice.Validate(),
	); err != nil {
		return nil, err
	}
	if stockQuantity < 0 {
		return nil, errs.NewValueIsInvalidError("stock quantity")
	}

	p.basePrice = basePrice
	p.currentPrice = currentPrice
	p.stockQuantity = stockQuantity
	return p, nil
}

// RestoreProduct reconstructs a product from persistence.
func RestoreProduct(
	id kernel.UUID,
	name string,
	basePrice kernel.Money,
	currentPrice kernel.Money,
	promoPrice kernel.Money,
	promoActive bool,
	liquidation bool,
	liquidationPrice kernel.Money,
	testPhase bool,
	upsell bool,
	upsellTierPrices [UpsellTierCount]kernel.Money,
	stockQuantity int,
	active bool,
	variants []*Variant,
) (*Product, error) {
	p, err := NewProduct(id, name, basePrice, currentPrice, stockQuantity)
	if err != nil {
		return nil, err
	}

	if err = errors.Join(promoPrice.Validate(), liquidationPrice.Validate()); err != nil {
		return nil, err
	}
	for _, tier := range upsellTierPrices {
		if err = tier.Validate(); err != nil {
			return nil, err
		}
	}
	for _, v := range variants {
		if err = v.Validate(); err != nil {
			return nil, err
		}
	}

	p.promoPrice = promoPrice
	p.promoActive = promoActive
	p.liquidation = liquidation
	p.liquidationPrice = liquidationPrice
	p.testPhase = testPhase
	p.upsell = upsell
	p.upsellTierPrices = upsellTierPrices
	p.active = active
	p.variants = variants
	return p, nil
}

// Validate ensures the Product was built via a constructor.
func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

// ID returns the product's identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// Name returns the display name.
func (p *Product) Name() string {
	return p.name
}

// BasePrice returns the catalog base price.
func (p *Product) BasePrice() kernel.Money {
	return p.basePrice
}

// CurrentPrice returns the currently published price.
func (p *Product) CurrentPrice() kernel.Money {
	return p.currentPrice
}

// PromoPrice returns the promotional price, zero when unset.
func (p *Product) PromoPrice() kernel.Money {
	return p.promoPrice
}

// PromoActive reports whether a promotion is running.
func (p *Product) PromoActive() bool {
	return p.promoActive
}

// InLiquidation reports whether the product is in its liquidation phase.
func (p *Product) InLiquidation() bool {
	return p.liquidation
}

// LiquidationPrice returns the liquidation price, zero when unset.
func (p *Product) LiquidationPrice() kernel.Money {
	return p.liquidationPrice
}

// InTestPhase reports whether the product is in its test phase.
func (p *Product) InTestPhase() bool {
	return p.testPhase
}

// IsUpsell reports whether the product participates in upsell tiering.
func (p *Product) IsUpsell() bool {
	return p.upsell
}

// UpsellTierPrice returns the price of the given tier (1-based), clamping
// tiers beyond UpsellTierCount to the last one. Zero means the tier is unset.
func (p *Product) UpsellTierPrice(tier int) kernel.Money {
	if tier < 1 {
		return kernel.ZeroMoney()
	}
	if tier > UpsellTierCount {
		tier = UpsellTierCount
	}
	return p.upsellTierPrices[tier-1]
}

// StockQuantity returns the product-level stock pool.
func (p *Product) StockQuantity() int {
	return p.stockQuantity
}

// IsActive reports whether the product is sellable.
func (p *Product) IsActive() bool {
	return p.active
}

// Variants returns the product's color/size variants.
func (p *Product) Variants() []*Variant {
	return p.variants
}

// FindVariant returns the variant with the given id.
func (p *Product) FindVariant(id kernel.UUID) (*Variant, error) {
	for _, v := range p.variants {
		if v.ID().IsEqual(id) {
			return v, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("variant", id.String())
}

// AddVariant attaches a variant to the product.
func (p *Product) AddVariant(v *Variant) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if !v.ProductID().IsEqual(p.id) {
		return errs.NewValueIsInvalidError("variant product reference")
	}
	p.variants = append(p.variants, v)
	return nil
}

// ApplyStockDelta mutates the product-level stock pool and returns the
// resulting quantity. A delta that would go negative is refused and the
// quantity is left untouched.
func (p *Product) ApplyStockDelta(delta int) (int, error) {
	next := p.stockQuantity + delta
	if next < 0 {
		return p.stockQuantity, NewInsufficientStockError([]Shortage{{
			ProductID: p.id,
			Requested: -delta,
			Available: p.stockQuantity,
		}})
	}
	p.stockQuantity = next
	return next, nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	p.name = name
	return nil
}
