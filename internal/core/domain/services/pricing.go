package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
)

// ErrProductNotInCatalog is returned when a line item references a product
// the caller did not load into the pricing catalog.
var ErrProductNotInCatalog = errors.New("product not found in pricing catalog")

// PriceKind tells which pricing rule produced a line's unit price.
type PriceKind string

const (
	PriceKindFrozen      PriceKind = "frozen"
	PriceKindDiscount    PriceKind = "discount"
	PriceKindPromotion   PriceKind = "promotion"
	PriceKindLiquidation PriceKind = "liquidation"
	PriceKindTest        PriceKind = "test"
	PriceKindUpsell      PriceKind = "upsell"
	PriceKindDefault     PriceKind = "default"
)

// LineQuote is the result of pricing a single line item.
type LineQuote struct {
	UnitPrice kernel.Money
	SubTotal  kernel.Money
	Kind      PriceKind
}

// PricingEngine is a domain service that computes line item prices and order
// totals from product pricing phases and the order's upsell counter.
//
// Rules are evaluated in strict priority, first match wins:
//  1. Protected-state freeze (unless the caller forces recomputation)
//  2. Explicit discount kept as stored, cleared if the product's phase
//     forbids discounts
//  3. Active promotion
//  4. Liquidation price, falling back to current then base
//  5. Test phase uses the current price
//  6. Upsell tier selected by the order counter, clamped at tier 4
//  7. Current price, falling back to base
//
// All arithmetic is decimal, so repeated recomputation never drifts.
//
// Example usage:
//
//	engine := NewPricingEngine()
//	catalog := map[kernel.UUID]*product.Product{p.ID(): p}
//	if err := engine.RecomputeOrderTotals(o, catalog, false); err != nil {
//	    // handle pricing failure
//	}
type PricingEngine struct{}

// NewPricingEngine creates a new PricingEngine instance.
func NewPricingEngine() PricingEngine {
	return PricingEngine{}
}

// PriceLineItem computes the quote for one line item.
//
// Parameters:
//   - item: the line to price
//   - prod: the line's product with its pricing phase flags
//   - counter: the order's current upsell counter
//   - frozen: true when the order sits in a protected state and the caller
//     did not force recomputation
//
// A discounted line in a liquidation or promotion phase has its discount
// cleared and falls through to the phase rules: those phases forbid stacking
// a manual discount on top.
func (e PricingEngine) PriceLineItem(item *order.LineItem, prod *product.Product, counter int, frozen bool) (LineQuote, error) {
	if err := item.Validate(); err != nil {
		return LineQuote{}, err
	}
	if err := prod.Validate(); err != nil {
		return LineQuote{}, err
	}

	if frozen {
		return LineQuote{
			UnitPrice: item.UnitPrice(),
			SubTotal:  item.SubTotal(),
			Kind:      PriceKindFrozen,
		}, nil
	}

	if item.DiscountApplied() {
		if prod.InLiquidation() || prod.PromoActive() {
			item.ClearDiscount()
		} else {
			return LineQuote{
				UnitPrice: item.UnitPrice(),
				SubTotal:  item.SubTotal(),
				Kind:      PriceKind(fmt.Sprintf("%s_%s", PriceKindDiscount, item.DiscountKind())),
			}, nil
		}
	}

	unit, kind := e.phasePrice(prod, counter)
	return LineQuote{
		UnitPrice: unit,
		SubTotal:  unit.MulInt(item.Quantity()),
		Kind:      kind,
	}, nil
}

// phasePrice resolves rules 3..7 for a non-discounted, non-frozen line.
func (e PricingEngine) phasePrice(prod *product.Product, counter int) (kernel.Money, PriceKind) {
	if prod.PromoActive() && !prod.PromoPrice().IsZero() {
		return prod.PromoPrice(), PriceKindPromotion
	}

	if prod.InLiquidation() {
		if !prod.LiquidationPrice().IsZero() {
			return prod.LiquidationPrice(), PriceKindLiquidation
		}
		return fallback(prod.CurrentPrice(), prod.BasePrice()), PriceKindLiquidation
	}

	if prod.InTestPhase() {
		return fallback(prod.CurrentPrice(), prod.BasePrice()), PriceKindTest
	}

	if prod.IsUpsell() && counter > 0 {
		tier := counter
		if tier > product.UpsellTierCount {
			tier = product.UpsellTierCount
		}
		if tierPrice := prod.UpsellTierPrice(tier); !tierPrice.IsZero() {
			return tierPrice, PriceKindUpsell
		}
	}

	return fallback(prod.CurrentPrice(), prod.BasePrice()), PriceKindDefault
}

// RecomputeOrderTotals reprices every non-discounted line of the order using
// its current upsell counter, then rewrites the order total as the sum of
// line sub-totals plus the delivery fee when the inclusion flag is set.
//
// The operation is idempotent: a second call with no state change leaves
// every sub-total and the total untouched. When the order sits in a
// protected state, sub-totals stay frozen unless force is true.
func (e PricingEngine) RecomputeOrderTotals(o *order.Order, catalog map[kernel.UUID]*product.Product, force bool) error {
	if err := o.Validate(); err != nil {
		return err
	}

	state, err := o.CurrentState()
	if err != nil {
		return err
	}
	frozen := state.IsProtected() && !force

	total := kernel.ZeroMoney()
	for _, item := range o.LineItems() {
		prod, ok := catalog[item.ProductID()]
		if !ok {
			return fmt.Errorf("%w: %s", ErrProductNotInCatalog, item.ProductID())
		}

		quote, err := e.PriceLineItem(item, prod, o.UpsellCounter(), frozen)
		if err != nil {
			return err
		}

		if quote.Kind != PriceKindFrozen && !quote.Kind.isDiscount() {
			if err := item.ApplyPricing(quote.UnitPrice, quote.SubTotal); err != nil {
				return err
			}
		}

		total = total.Add(item.SubTotal())
	}

	if o.DeliveryFeeIncluded() {
		total = total.Add(o.DeliveryFee())
	}

	return o.SetTotals(total, o.UpsellCounter())
}

// DeriveUpsellCounter computes the order's tier counter from its lines.
//
// Only lines whose product is upsell-flagged and whose discount is not
// applied contribute quantity. The counter is the contributing quantity
// minus one, floored at zero; a missing catalog product contributes nothing.
func (e PricingEngine) DeriveUpsellCounter(o *order.Order, catalog map[kernel.UUID]*product.Product) int {
	total := 0
	for _, item := range o.LineItems() {
		if item.DiscountApplied() {
			continue
		}
		prod, ok := catalog[item.ProductID()]
		if !ok || !prod.IsUpsell() {
			continue
		}
		total += item.Quantity()
	}

	if total <= 1 {
		return 0
	}
	return total - 1
}

// RederiveAndReprice recomputes the upsell counter, stores it on the order
// and reprices all lines with the fresh counter. Cart mutations and the
// partial delivery reconciler call this after every membership change.
func (e PricingEngine) RederiveAndReprice(o *order.Order, catalog map[kernel.UUID]*product.Product, force bool) error {
	counter := e.DeriveUpsellCounter(o, catalog)
	if err := o.SetTotals(o.Total(), counter); err != nil {
		return err
	}
	return e.RecomputeOrderTotals(o, catalog, force)
}

func (k PriceKind) isDiscount() bool {
	return len(k) >= len(PriceKindDiscount) && k[:len(PriceKindDiscount)] == PriceKindDiscount
}

func fallback(preferred, alternative kernel.Money) kernel.Money {
	if preferred.IsZero() {
		return alternative
	}
	return preferred
}
