package product

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrVariantIsNotConstructed is returned when a Variant was not created
// through NewVariant.
var ErrVariantIsNotConstructed = errors.New("Variant must be created via NewVariant constructor")

// Variant is one color/size declination of a product with its own stock
// quantity. Line items reference variants; when such a reference dangles the
// parent product's stock pool takes over.
type Variant struct {
	id        kernel.UUID
	productID kernel.UUID

	color string
	size  string

	stockQuantity int

	active bool

	guard guard.ConstructorGuard
}

// NewVariant creates a validated variant.
func NewVariant(
	id kernel.UUID,
	productID kernel.UUID,
	color string,
	size string,
	stockQuantity int,
) (*Variant, error) {
	v := &Variant{
		color:  color,
		size:   size,
		active: true,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		productID.Validate(),
	); err != nil {
		return nil, err
	}
	if stockQuantity < 0 {
		return nil, errs.NewValueIsInvalidError("stock quantity")
	}

	v.id = id
	v.productID = productID
	v.stockQuantity = stockQuantity
	return v, nil
}

// RestoreVariant reconstructs a variant from persistence.
func RestoreVariant(
	id kernel.UUID,
	productID kernel.UUID,
	color string,
	size string,
	stockQuantity int,
	active bool,
) (*Variant, error) {
	v, err := NewVariant(id, productID, color, size, stockQuantity)
	if err != nil {
		return nil, err
	}
	v.active = active
	return v, nil
}

// Validate ensures the Variant was built via a constructor.
func (v *Variant) Validate() error {
	if v == nil {
		return ErrVariantIsNotConstructed
	}
	return v.guard.Validate(ErrVariantIsNotConstructed)
}

// ID returns the variant's identifier.
func (v *Variant) ID() kernel.UUID {
	return v.id
}

// ProductID returns the parent product's identifier.
func (v *Variant) ProductID() kernel.UUID {
	return v.productID
}

// Color returns the variant's color.
func (v *Variant) Color() string {
	return v.color
}

// Size returns the variant's size.
func (v *Variant) Size() string {
	return v.size
}

// StockQuantity returns the variant's stock on hand.
func (v *Variant) StockQuantity() int {
	return v.stockQuantity
}

// IsActive reports whether the variant is sellable; inactive variants refuse
// stock reintegration.
func (v *Variant) IsActive() bool {
	return v.active
}

// Deactivate takes the variant out of circulation.
func (v *Variant) Deactivate() {
	v.active = false
}

// ApplyStockDelta mutates the variant's stock and returns the resulting
// quantity. A delta that would go negative is refused and the quantity is
// left untouched.
func (v *Variant) ApplyStockDelta(delta int) (int, error) {
	next := v.stockQuantity + delta
	if next < 0 {
		variantID := v.id
		return v.stockQuantity, NewInsufficientStockError([]Shortage{{
			ProductID: v.productID,
			VariantID: &variantID,
			Requested: -delta,
			Available: v.stockQuantity,
		}})
	}
	v.stockQuantity = next
	return next, nil
}
