package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrLineItemIsNotConstructed is returned when a LineItem was not created
	// through NewLineItem or RestoreLineItem.
	ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

	// ErrDiscountAlreadyApplied is returned when applying a discount twice.
	ErrDiscountAlreadyApplied = errors.New("discount is already applied to this line item")
)

// DiscountKind classifies an explicitly applied line discount.
type DiscountKind int

const (
	// DiscountNone means no discount is applied.
	DiscountNone DiscountKind = iota

	// DiscountPercentage is a percentage taken off the computed sub-total.
	DiscountPercentage

	// DiscountFixed is a negotiated fixed sub-total.
	DiscountFixed
)

func discountKindStrings() map[DiscountKind]string {
	return map[DiscountKind]string{
		DiscountNone:       "none",
		DiscountPercentage: "percentage",
		DiscountFixed:      "fixed",
	}
}

// String implements fmt.Stringer.
func (k DiscountKind) String() string {
	if s, ok := discountKindStrings()[k]; ok {
		return s
	}
	return "none"
}

// DiscountKindFromString resolves a discount kind by its display name.
func DiscountKindFromString(s string) (DiscountKind, error) {
	for kind, name := range discountKindStrings() {
		if name == s {
			return kind, nil
		}
	}
	return DiscountNone, errs.NewValueIsInvalidErrorWithCause("discount kind", fmt.Errorf("unknown discount kind %q", s))
}

// Validate rejects out-of-range kinds.
func (k DiscountKind) Validate() error {
	if _, ok := discountKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("discount kind", fmt.Errorf("%d is not a valid discount kind", k))
	}
	return nil
}

// LineItem is one product (optionally one variant) entry in an order's cart,
// with a quantity and a frozen price. The sub-total normally equals unit
// price times quantity; once a discount is applied and locked, the stored
// sub-total becomes authoritative and must not be silently recomputed.
type LineItem struct {
	id kernel.UUID

	productID kernel.UUID

	// variantID is nil when the product has no color/size split, or after a
	// dangling variant reference was repaired to the parent product.
	variantID *kernel.UUID

	quantity int

	unitPrice kernel.Money

	subTotal kernel.Money

	discountApplied bool

	discountKind DiscountKind

	guard guard.ConstructorGuard
}

// NewLineItem creates a line with a computed sub-total.
func NewLineItem(
	id kernel.UUID,
	productID kernel.UUID,
	variantID *kernel.UUID,
	quantity int,
	unitPrice kernel.Money,
) (*LineItem, error) {
	item := &LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setVariantID(variantID),
		item.setQuantity(quantity),
		unitPrice.Validate(),
	); err != nil {
		return nil, err
	}

	item.unitPrice = unitPrice
	item.subTotal = unitPrice.MulInt(quantity)
	return item, nil
}

// RestoreLineItem reconstructs a line from persistence, keeping the stored
// sub-total authoritative (it may differ from price x quantity when a
// discount was locked in).
func RestoreLineItem(
	id kernel.UUID,
	productID kernel.UUID,
	variantID *kernel.UUID,
	quantity int,
	unitPrice kernel.Money,
	subTotal kernel.Money,
	discountApplied bool,
	discountKind DiscountKind,
) (*LineItem, error) {
	item, err := NewLineItem(id, productID, variantID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	if err = discountKind.Validate(); err != nil {
		return nil, err
	}
	if err = subTotal.Validate(); err != nil {
		return nil, err
	}

	item.subTotal = subTotal
	item.discountApplied = discountApplied
	item.discountKind = discountKind
	return item, nil
}

// Validate ensures the line was built via a constructor.
func (li *LineItem) Validate() error {
	if li == nil {
		return ErrLineItemIsNotConstructed
	}
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

// ID returns the line's identifier.
func (li *LineItem) ID() kernel.UUID {
	return li.id
}

// ProductID returns the referenced product.
func (li *LineItem) ProductID() kernel.UUID {
	return li.productID
}

// VariantID returns the referenced variant, nil when none.
func (li *LineItem) VariantID() *kernel.UUID {
	return li.variantID
}

// Quantity returns the ordered quantity.
func (li *LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice returns the frozen unit price.
func (li *LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// SubTotal returns the line's sub-total.
func (li *LineItem) SubTotal() kernel.Money {
	return li.subTotal
}

// DiscountApplied reports whether an explicit discount locks the sub-total.
func (li *LineItem) DiscountApplied() bool {
	return li.discountApplied
}

// DiscountKind returns the applied discount's kind, DiscountNone when none.
func (li *LineItem) DiscountKind() DiscountKind {
	return li.discountKind
}

// SetQuantity changes the ordered quantity. Zero is not allowed here; the
// aggregate removes the line instead.
func (li *LineItem) SetQuantity(quantity int) error {
	return li.setQuantity(quantity)
}

// ApplyPricing is the pricing engine's write path: it stores the computed
// unit price and sub-total.
func (li *LineItem) ApplyPricing(unitPrice, subTotal kernel.Money) error {
	if err := errors.Join(unitPrice.Validate(), subTotal.Validate()); err != nil {
		return err
	}
	li.unitPrice = unitPrice
	li.subTotal = subTotal
	return nil
}

// ApplyDiscount locks an explicit discount on the line: the given sub-total
// becomes authoritative until the discount is cleared.
func (li *LineItem) ApplyDiscount(kind DiscountKind, subTotal kernel.Money) error {
	if li.discountApplied {
		return ErrDiscountAlreadyApplied
	}
	if kind == DiscountNone {
		return errs.NewValueIsInvalidError("discount kind")
	}
	if err := errors.Join(kind.Validate(), subTotal.Validate()); err != nil {
		return err
	}

	li.discountApplied = true
	li.discountKind = kind
	li.subTotal = subTotal
	return nil
}

// ClearDiscount removes the discount lock; the next recomputation reprices
// the line normally.
func (li *LineItem) ClearDiscount() {
	li.discountApplied = false
	li.discountKind = DiscountNone
}

// RepairVariantReference drops a dangling variant reference, falling back to
// the parent product. The caller records the repair in the audit trail.
func (li *LineItem) RepairVariantReference() {
	li.variantID = nil
}

func (li *LineItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

func (li *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	li.productID = productID
	return nil
}

func (li *LineItem) setVariantID(variantID *kernel.UUID) error {
	if variantID == nil {
		return nil
	}
	if err := variantID.Validate(); err != nil {
		return err
	}
	li.variantID = variantID
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}
