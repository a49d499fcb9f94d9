package services

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
)

// StockControl is a domain service owning every stock quantity mutation.
// It applies the delta on the variant or product and produces the matching
// StockMovement audit record in the same step, so the movement's
// quantity-after snapshot always agrees with the mutated stock.
//
// Availability checks aggregate all shortages before failing, so a caller
// confirming a multi-line order can show the complete shortage list and
// never performs a partial decrement.
type StockControl struct{}

// NewStockControl creates a new StockControl instance.
func NewStockControl() StockControl {
	return StockControl{}
}

// StockTarget points a mutation at a variant of a product, or at the
// product itself when VariantID is nil.
type StockTarget struct {
	Product   *product.Product
	VariantID *kernel.UUID
}

// availableQuantity resolves the stock level the mutation would apply to.
func (s StockControl) availableQuantity(target StockTarget) (int, error) {
	if err := target.Product.Validate(); err != nil {
		return 0, err
	}
	if target.VariantID == nil {
		return target.Product.StockQuantity(), nil
	}
	variant, err := target.Product.FindVariant(*target.VariantID)
	if err != nil {
		return 0, err
	}
	return variant.StockQuantity(), nil
}

// Mutate applies delta to the target's stock and returns the audit record.
//
// Parameters:
//   - target: the product or variant to mutate
//   - delta: signed quantity change, never zero
//   - reason: movement classification
//   - orderID: the driving order, nil for manual mutations
//   - operatorID: who caused the change, nil for system actions
//
// The resulting quantity must stay non-negative; otherwise the mutation is
// refused with an InsufficientStockError and nothing changes.
func (s StockControl) Mutate(
	target StockTarget,
	delta int,
	reason product.MovementReason,
	orderID *kernel.UUID,
	operatorID *kernel.UUID,
	now time.Time,
) (*product.StockMovement, error) {
	if err := target.Product.Validate(); err != nil {
		return nil, err
	}

	var (
		after int
		err   error
	)
	if target.VariantID == nil {
		after, err = target.Product.ApplyStockDelta(delta)
	} else {
		var variant *product.Variant
		variant, err = target.Product.FindVariant(*target.VariantID)
		if err != nil {
			return nil, err
		}
		after, err = variant.ApplyStockDelta(delta)
	}
	if err != nil {
		return nil, err
	}

	return product.NewStockMovement(
		kernel.NewUUID(),
		target.Product.ID(),
		target.VariantID,
		orderID,
		operatorID,
		delta,
		reason,
		after,
		now,
	)
}

// LineRequirement is one line's demand against the catalog, produced by
// ResolveLineTargets from an order's line items.
type LineRequirement struct {
	Target   StockTarget
	Quantity int

	// VariantRepaired is set when the line referenced a variant that no
	// longer exists and the demand fell back to the parent product.
	VariantRepaired bool
}

// ResolveLineTargets maps the order's line items onto stock targets.
//
// A line whose variant reference dangles is repaired in place: the variant
// id is dropped from the line and the requirement falls back to the parent
// product. Callers log the repair; it is recovery, not a failure.
func (s StockControl) ResolveLineTargets(o *order.Order, catalog map[kernel.UUID]*product.Product) ([]LineRequirement, error) {
	requirements := make([]LineRequirement, 0, len(o.LineItems()))
	for _, item := range o.LineItems() {
		prod, ok := catalog[item.ProductID()]
		if !ok {
			return nil, ErrProductNotInCatalog
		}

		target := StockTarget{Product: prod}
		repaired := false
		if variantID := item.VariantID(); variantID != nil {
			if _, err := prod.FindVariant(*variantID); err != nil {
				item.RepairVariantReference()
				repaired = true
			} else {
				target.VariantID = variantID
			}
		}

		requirements = append(requirements, LineRequirement{
			Target:          target,
			Quantity:        item.Quantity(),
			VariantRepaired: repaired,
		})
	}
	return requirements, nil
}

// CheckAvailability verifies every requirement can be satisfied, returning
// an InsufficientStockError listing all shortages at once when any demand
// falls short. Demand is summed per target first, so several lines drawing
// on the same product or variant are checked against their combined total.
// No stock changes here.
func (s StockControl) CheckAvailability(requirements []LineRequirement) error {
	type targetDemand struct {
		target StockTarget
		total  int
	}

	keys := make([]string, 0, len(requirements))
	demand := make(map[string]*targetDemand, len(requirements))
	for _, req := range requirements {
		key := req.Target.Product.ID().String()
		if req.Target.VariantID != nil {
			key += "/" + req.Target.VariantID.String()
		}
		entry, ok := demand[key]
		if !ok {
			entry = &targetDemand{target: req.Target}
			demand[key] = entry
			keys = append(keys, key)
		}
		entry.total += req.Quantity
	}

	var shortages []product.Shortage
	for _, key := range keys {
		entry := demand[key]
		available, err := s.availableQuantity(entry.target)
		if err != nil {
			return err
		}
		if available < entry.total {
			shortages = append(shortages, product.Shortage{
				ProductID: entry.target.Product.ID(),
				VariantID: entry.target.VariantID,
				Requested: entry.total,
				Available: available,
			})
		}
	}
	if len(shortages) > 0 {
		return product.NewInsufficientStockError(shortages)
	}
	return nil
}

// DecrementForOrder checks all requirements first and only then decrements
// each one, producing a movement per line. A shortage on any line aborts
// before the first decrement.
func (s StockControl) DecrementForOrder(
	requirements []LineRequirement,
	orderID kernel.UUID,
	operatorID kernel.UUID,
	now time.Time,
) ([]*product.StockMovement, error) {
	if err := s.CheckAvailability(requirements); err != nil {
		return nil, err
	}

	movements := make([]*product.StockMovement, 0, len(requirements))
	for _, req := range requirements {
		movement, err := s.Mutate(req.Target, -req.Quantity, product.MovementExit, &orderID, &operatorID, now)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, nil
}
