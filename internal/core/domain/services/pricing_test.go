package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	return kernel.NewMoney(decimal.NewFromInt(amount))
}

func newOperator(t *testing.T, role operator.Role) *operator.Operator {
	t.Helper()
	op, err := operator.NewOperator(kernel.NewUUID(), "Test Operator", role)
	require.NoError(t, err)
	return op
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"ORD-2001",
		"webshop",
		2001,
		"42 High Street",
		money(t, 7),
		false,
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

// productSpec configures the optional pricing phases of a test product.
type productSpec struct {
	current     int64
	base        int64
	promo       int64
	promoActive bool
	liquidation bool
	liquidPrice int64
	testPhase   bool
	upsell      bool
	tiers       [product.UpsellTierCount]int64
	stock       int
	inactive    bool
}

func newTestProduct(t *testing.T, spec productSpec) *product.Product {
	t.Helper()
	var tiers [product.UpsellTierCount]kernel.Money
	for i, v := range spec.tiers {
		tiers[i] = money(t, v)
	}
	p, err := product.RestoreProduct(
		kernel.NewUUID(),
		"Test Product",
		money(t, spec.base),
		money(t, spec.current),
		money(t, spec.promo),
		spec.promoActive,
		spec.liquidation,
		money(t, spec.liquidPrice),
		spec.testPhase,
		spec.upsell,
		tiers,
		spec.stock,
		!spec.inactive,
		nil,
	)
	require.NoError(t, err)
	return p
}

func newLineFor(t *testing.T, p *product.Product, quantity int, unitPrice int64) *order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), p.ID(), nil, quantity, money(t, unitPrice))
	require.NoError(t, err)
	return item
}

func addLine(t *testing.T, o *order.Order, item *order.LineItem) {
	t.Helper()
	require.NoError(t, o.AddLineItem(item))
}

func catalogOf(products ...*product.Product) map[kernel.UUID]*product.Product {
	catalog := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		catalog[p.ID()] = p
	}
	return catalog
}

// confirmOrder walks a fresh order into the Confirmed state, which is the
// first protected state of the pipeline.
func confirmOrder(t *testing.T, o *order.Order) *operator.Operator {
	t.Helper()
	now := time.Now()
	confirmer := newOperator(t, operator.RoleConfirmation)
	assigneeID := confirmer.ID()
	require.NoError(t, o.TransitionAssigning(confirmer, order.Assigned, &assigneeID, "", now))
	require.NoError(t, o.Transition(confirmer, order.InConfirmationProgress, "", now))
	require.NoError(t, o.Transition(confirmer, order.Confirmed, "", now))
	return confirmer
}

func TestPricingEngine_PriceLineItem(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("should keep stored price when frozen", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, promoActive: true, promo: 10})
		item := newLineFor(t, p, 2, 99)

		quote, err := engine.PriceLineItem(item, p, 0, true)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindFrozen, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 99)))
		assert.True(t, quote.SubTotal.IsEqual(money(t, 198)))
	})

	t.Run("should keep explicit discount over every phase rule", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, testPhase: true})
		item := newLineFor(t, p, 2, 30)
		require.NoError(t, item.ApplyDiscount(order.DiscountPercentage, money(t, 48)))

		quote, err := engine.PriceLineItem(item, p, 0, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKind("discount_percentage"), quote.Kind)
		assert.True(t, quote.SubTotal.IsEqual(money(t, 48)))
	})

	t.Run("should clear discount when product is in promotion", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, promoActive: true, promo: 20})
		item := newLineFor(t, p, 3, 30)
		require.NoError(t, item.ApplyDiscount(order.DiscountFixed, money(t, 60)))

		quote, err := engine.PriceLineItem(item, p, 0, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindPromotion, quote.Kind)
		assert.False(t, item.DiscountApplied())
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 20)))
		assert.True(t, quote.SubTotal.IsEqual(money(t, 60)))
	})

	t.Run("should clear discount when product is in liquidation", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, liquidation: true, liquidPrice: 12})
		item := newLineFor(t, p, 1, 30)
		require.NoError(t, item.ApplyDiscount(order.DiscountFixed, money(t, 15)))

		quote, err := engine.PriceLineItem(item, p, 0, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindLiquidation, quote.Kind)
		assert.False(t, item.DiscountApplied())
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 12)))
	})

	t.Run("should prefer promotion over liquidation", func(t *testing.T) {
		p := newTestProduct(t, productSpec{
			current: 30, base: 25,
			promoActive: true, promo: 18,
			liquidation: true, liquidPrice: 12,
		})
		item := newLineFor(t, p, 1, 30)

		quote, err := engine.PriceLineItem(item, p, 0, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindPromotion, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 18)))
	})

	t.Run("should fall back to current price when liquidation price is unset", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, liquidation: true})
		item := newLineFor(t, p, 1, 30)

		quote, err := engine.PriceLineItem(item, p, 0, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindLiquidation, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 30)))
	})

	t.Run("should use current price in test phase ignoring upsell tiers", func(t *testing.T) {
		p := newTestProduct(t, productSpec{
			current: 30, base: 25, testPhase: true,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		item := newLineFor(t, p, 1, 30)

		quote, err := engine.PriceLineItem(item, p, 3, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindTest, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 30)))
	})

	t.Run("should select upsell tier by counter", func(t *testing.T) {
		p := newTestProduct(t, productSpec{
			current: 30, base: 25,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		item := newLineFor(t, p, 1, 30)

		quote, err := engine.PriceLineItem(item, p, 2, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindUpsell, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 26)))
	})

	t.Run("should clamp upsell counter at the last tier", func(t *testing.T) {
		p := newTestProduct(t, productSpec{
			current: 30, base: 25,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		item := newLineFor(t, p, 1, 30)

		quote, err := engine.PriceLineItem(item, p, 9, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindUpsell, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 22)))
	})

	t.Run("should ignore upsell tiers while counter is zero", func(t *testing.T) {
		p := newTestProduct(t, productSpec{
			current: 30, base: 25,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		item := newLineFor(t, p, 1, 30)

		quote, err := engine.PriceLineItem(item, p, 0, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindDefault, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 30)))
	})

	t.Run("should fall back to base price when current is unset", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 0, base: 25})
		item := newLineFor(t, p, 1, 25)

		quote, err := engine.PriceLineItem(item, p, 0, false)

		require.NoError(t, err)
		assert.Equal(t, services.PriceKindDefault, quote.Kind)
		assert.True(t, quote.UnitPrice.IsEqual(money(t, 25)))
	})
}

func TestPricingEngine_RecomputeOrderTotals(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("should rewrite line prices and the order total", func(t *testing.T) {
		regular := newTestProduct(t, productSpec{current: 30, base: 25})
		promo := newTestProduct(t, productSpec{current: 50, base: 40, promoActive: true, promo: 35})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, regular, 2, 1))
		addLine(t, o, newLineFor(t, promo, 1, 1))

		err := engine.RecomputeOrderTotals(o, catalogOf(regular, promo), false)

		require.NoError(t, err)
		assert.True(t, o.LineItems()[0].SubTotal().IsEqual(money(t, 60)))
		assert.True(t, o.LineItems()[1].SubTotal().IsEqual(money(t, 35)))
		assert.True(t, o.Total().IsEqual(money(t, 95)))
	})

	t.Run("should add delivery fee when the inclusion flag is set", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o, err := order.NewOrder(kernel.NewUUID(), "ORD-2002", "webshop", 2002, "addr", money(t, 7), true, time.Now())
		require.NoError(t, err)
		addLine(t, o, newLineFor(t, p, 1, 1))

		require.NoError(t, engine.RecomputeOrderTotals(o, catalogOf(p), false))
		assert.True(t, o.Total().IsEqual(money(t, 37)))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, p, 3, 1))
		catalog := catalogOf(p)

		require.NoError(t, engine.RecomputeOrderTotals(o, catalog, false))
		first := o.Total()
		require.NoError(t, engine.RecomputeOrderTotals(o, catalog, false))

		assert.True(t, o.Total().IsEqual(first))
		assert.True(t, o.LineItems()[0].SubTotal().IsEqual(money(t, 90)))
	})

	t.Run("should freeze sub-totals in protected states", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, p, 2, 30))
		catalog := catalogOf(p)
		require.NoError(t, engine.RecomputeOrderTotals(o, catalog, false))
		confirmOrder(t, o)

		updated := newTestProduct(t, productSpec{current: 45, base: 25})
		updated = cloneWithID(t, updated, p.ID())
		require.NoError(t, engine.RecomputeOrderTotals(o, catalogOf(updated), false))

		assert.True(t, o.LineItems()[0].UnitPrice().IsEqual(money(t, 30)))
		assert.True(t, o.Total().IsEqual(money(t, 60)))
	})

	t.Run("should reprice a protected order when forced", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, p, 2, 30))
		require.NoError(t, engine.RecomputeOrderTotals(o, catalogOf(p), false))
		confirmOrder(t, o)

		updated := cloneWithID(t, newTestProduct(t, productSpec{current: 45, base: 25}), p.ID())
		require.NoError(t, engine.RecomputeOrderTotals(o, catalogOf(updated), true))

		assert.True(t, o.LineItems()[0].UnitPrice().IsEqual(money(t, 45)))
		assert.True(t, o.Total().IsEqual(money(t, 90)))
	})

	t.Run("should fail when a line's product misses from the catalog", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, p, 1, 1))

		err := engine.RecomputeOrderTotals(o, catalogOf(), false)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrProductNotInCatalog)
	})
}

func TestPricingEngine_DeriveUpsellCounter(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("should floor at zero for a single upsell unit", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, upsell: true})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, p, 1, 30))

		assert.Equal(t, 0, engine.DeriveUpsellCounter(o, catalogOf(p)))
	})

	t.Run("should count contributing quantity minus one", func(t *testing.T) {
		a := newTestProduct(t, productSpec{current: 30, base: 25, upsell: true})
		b := newTestProduct(t, productSpec{current: 20, base: 15, upsell: true})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, a, 2, 30))
		addLine(t, o, newLineFor(t, b, 3, 20))

		assert.Equal(t, 4, engine.DeriveUpsellCounter(o, catalogOf(a, b)))
	})

	t.Run("should ignore discounted and non-upsell lines", func(t *testing.T) {
		upsell := newTestProduct(t, productSpec{current: 30, base: 25, upsell: true})
		plain := newTestProduct(t, productSpec{current: 10, base: 10})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, upsell, 2, 30))
		addLine(t, o, newLineFor(t, plain, 5, 10))
		discounted := newLineFor(t, upsell, 4, 30)
		require.NoError(t, discounted.ApplyDiscount(order.DiscountFixed, money(t, 80)))
		addLine(t, o, discounted)

		assert.Equal(t, 1, engine.DeriveUpsellCounter(o, catalogOf(upsell, plain)))
	})

	t.Run("should ignore lines whose product misses from the catalog", func(t *testing.T) {
		known := newTestProduct(t, productSpec{current: 30, base: 25, upsell: true})
		unknown := newTestProduct(t, productSpec{current: 30, base: 25, upsell: true})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, known, 2, 30))
		addLine(t, o, newLineFor(t, unknown, 2, 30))

		assert.Equal(t, 1, engine.DeriveUpsellCounter(o, catalogOf(known)))
	})
}

func TestPricingEngine_RederiveAndReprice(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("should move two single-unit upsell lines to the second tier together", func(t *testing.T) {
		a := newTestProduct(t, productSpec{
			current: 30, base: 25,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		b := newTestProduct(t, productSpec{
			current: 30, base: 25,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, a, 1, 30))
		addLine(t, o, newLineFor(t, b, 1, 30))
		catalog := catalogOf(a, b)

		require.NoError(t, engine.RederiveAndReprice(o, catalog, false))

		assert.Equal(t, 1, o.UpsellCounter())
		assert.True(t, o.LineItems()[0].UnitPrice().IsEqual(money(t, 28)))
		assert.True(t, o.LineItems()[1].UnitPrice().IsEqual(money(t, 28)))
		assert.True(t, o.Total().IsEqual(money(t, 56)))
	})

	t.Run("should deepen the tier when a unit is added", func(t *testing.T) {
		a := newTestProduct(t, productSpec{
			current: 30, base: 25,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		o := newTestOrder(t)
		line := newLineFor(t, a, 2, 30)
		addLine(t, o, line)
		catalog := catalogOf(a)
		require.NoError(t, engine.RederiveAndReprice(o, catalog, false))
		require.Equal(t, 1, o.UpsellCounter())

		require.NoError(t, o.ChangeLineItemQuantity(line.ID(), 3))
		require.NoError(t, engine.RederiveAndReprice(o, catalog, false))

		assert.Equal(t, 2, o.UpsellCounter())
		assert.True(t, line.UnitPrice().IsEqual(money(t, 26)))
		assert.True(t, o.Total().IsEqual(money(t, 78)))
	})
}

// cloneWithID rebuilds a test product under the given id so a fresh catalog
// snapshot can stand in for the same product with changed prices.
func cloneWithID(t *testing.T, p *product.Product, id kernel.UUID) *product.Product {
	t.Helper()
	var tiers [product.UpsellTierCount]kernel.Money
	for i := 1; i <= product.UpsellTierCount; i++ {
		tiers[i-1] = p.UpsellTierPrice(i)
	}
	clone, err := product.RestoreProduct(
		id,
		p.Name(),
		p.BasePrice(),
		p.CurrentPrice(),
		p.PromoPrice(),
		p.PromoActive(),
		p.InLiquidation(),
		p.LiquidationPrice(),
		p.InTestPhase(),
		p.IsUpsell(),
		tiers,
		p.StockQuantity(),
		p.IsActive(),
		p.Variants(),
	)
	require.NoError(t, err)
	return clone
}
