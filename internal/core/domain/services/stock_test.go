package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVariant(t *testing.T, productID kernel.UUID, stock int) *product.Variant {
	t.Helper()
	v, err := product.NewVariant(kernel.NewUUID(), productID, "black", "M", stock)
	require.NoError(t, err)
	return v
}

func TestStockControl_Mutate(t *testing.T) {
	control := services.NewStockControl()
	now := time.Now()

	t.Run("should decrement product stock and record the resulting quantity", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		orderID := kernel.NewUUID()
		operatorID := kernel.NewUUID()

		movement, err := control.Mutate(
			services.StockTarget{Product: p}, -3, product.MovementExit, &orderID, &operatorID, now,
		)

		require.NoError(t, err)
		assert.Equal(t, 7, p.StockQuantity())
		assert.Equal(t, -3, movement.Delta())
		assert.Equal(t, 7, movement.QuantityAfter())
		assert.Equal(t, product.MovementExit, movement.Reason())
		require.NotNil(t, movement.OrderID())
		assert.True(t, movement.OrderID().IsEqual(orderID))
	})

	t.Run("should mutate the variant when the target names one", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		v := newTestVariant(t, p.ID(), 4)
		require.NoError(t, p.AddVariant(v))
		variantID := v.ID()

		movement, err := control.Mutate(
			services.StockTarget{Product: p, VariantID: &variantID}, -4, product.MovementExit, nil, nil, now,
		)

		require.NoError(t, err)
		assert.Equal(t, 0, v.StockQuantity())
		assert.Equal(t, 10, p.StockQuantity())
		assert.Equal(t, 0, movement.QuantityAfter())
		require.NotNil(t, movement.VariantID())
		assert.True(t, movement.VariantID().IsEqual(variantID))
	})

	t.Run("should refuse a delta that would go negative", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 3})

		_, err := control.Mutate(services.StockTarget{Product: p}, -5, product.MovementExit, nil, nil, now)

		require.Error(t, err)
		var stockErr *product.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.ErrorIs(t, err, product.ErrInsufficientStock)
		assert.Equal(t, 3, p.StockQuantity())
	})

	t.Run("should fail on an unknown variant", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 3})
		missing := kernel.NewUUID()

		_, err := control.Mutate(services.StockTarget{Product: p, VariantID: &missing}, -1, product.MovementExit, nil, nil, now)

		require.Error(t, err)
	})
}

func TestStockControl_ResolveLineTargets(t *testing.T) {
	control := services.NewStockControl()

	t.Run("should map lines onto their products and variants", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		v := newTestVariant(t, p.ID(), 5)
		require.NoError(t, p.AddVariant(v))
		variantID := v.ID()

		o := newTestOrder(t)
		plain := newLineFor(t, p, 2, 30)
		addLine(t, o, plain)
		variantLine, err := order.NewLineItem(kernel.NewUUID(), p.ID(), &variantID, 1, money(t, 30))
		require.NoError(t, err)
		addLine(t, o, variantLine)

		requirements, err := control.ResolveLineTargets(o, catalogOf(p))

		require.NoError(t, err)
		require.Len(t, requirements, 2)
		assert.Nil(t, requirements[0].Target.VariantID)
		assert.Equal(t, 2, requirements[0].Quantity)
		require.NotNil(t, requirements[1].Target.VariantID)
		assert.True(t, requirements[1].Target.VariantID.IsEqual(variantID))
		assert.False(t, requirements[1].VariantRepaired)
	})

	t.Run("should repair a dangling variant reference onto the product", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		gone := kernel.NewUUID()
		o := newTestOrder(t)
		item, err := order.NewLineItem(kernel.NewUUID(), p.ID(), &gone, 2, money(t, 30))
		require.NoError(t, err)
		addLine(t, o, item)

		requirements, err := control.ResolveLineTargets(o, catalogOf(p))

		require.NoError(t, err)
		require.Len(t, requirements, 1)
		assert.True(t, requirements[0].VariantRepaired)
		assert.Nil(t, requirements[0].Target.VariantID)
		assert.Nil(t, item.VariantID())
	})

	t.Run("should fail when a product misses from the catalog", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		o := newTestOrder(t)
		addLine(t, o, newLineFor(t, p, 1, 30))

		_, err := control.ResolveLineTargets(o, catalogOf())

		require.ErrorIs(t, err, services.ErrProductNotInCatalog)
	})
}

func TestStockControl_CheckAvailability(t *testing.T) {
	control := services.NewStockControl()

	t.Run("should pass when every line is covered", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		requirements := []services.LineRequirement{
			{Target: services.StockTarget{Product: p}, Quantity: 10},
		}

		require.NoError(t, control.CheckAvailability(requirements))
	})

	t.Run("should aggregate every shortage into one error", func(t *testing.T) {
		a := newTestProduct(t, productSpec{current: 30, base: 25, stock: 3})
		b := newTestProduct(t, productSpec{current: 20, base: 15, stock: 0})
		covered := newTestProduct(t, productSpec{current: 10, base: 10, stock: 5})
		requirements := []services.LineRequirement{
			{Target: services.StockTarget{Product: a}, Quantity: 5},
			{Target: services.StockTarget{Product: covered}, Quantity: 5},
			{Target: services.StockTarget{Product: b}, Quantity: 1},
		}

		err := control.CheckAvailability(requirements)

		var stockErr *product.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		require.Len(t, stockErr.Shortages, 2)
		assert.True(t, stockErr.Shortages[0].ProductID.IsEqual(a.ID()))
		assert.Equal(t, 5, stockErr.Shortages[0].Requested)
		assert.Equal(t, 3, stockErr.Shortages[0].Available)
		assert.True(t, stockErr.Shortages[1].ProductID.IsEqual(b.ID()))
	})

	t.Run("should sum demand from lines sharing a target", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 5})
		v := newTestVariant(t, p.ID(), 3)
		require.NoError(t, p.AddVariant(v))
		variantID := v.ID()
		requirements := []services.LineRequirement{
			{Target: services.StockTarget{Product: p, VariantID: &variantID}, Quantity: 2},
			{Target: services.StockTarget{Product: p, VariantID: &variantID}, Quantity: 2},
		}

		err := control.CheckAvailability(requirements)

		var stockErr *product.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		require.Len(t, stockErr.Shortages, 1)
		assert.Equal(t, 4, stockErr.Shortages[0].Requested)
		assert.Equal(t, 3, stockErr.Shortages[0].Available)
		require.NotNil(t, stockErr.Shortages[0].VariantID)
		assert.True(t, stockErr.Shortages[0].VariantID.IsEqual(variantID))
	})

	t.Run("should keep the variant pool apart from the product pool", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 4})
		v := newTestVariant(t, p.ID(), 4)
		require.NoError(t, p.AddVariant(v))
		variantID := v.ID()
		requirements := []services.LineRequirement{
			{Target: services.StockTarget{Product: p}, Quantity: 3},
			{Target: services.StockTarget{Product: p, VariantID: &variantID}, Quantity: 3},
		}

		require.NoError(t, control.CheckAvailability(requirements))
	})

	t.Run("should check variant stock for variant targets", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		v := newTestVariant(t, p.ID(), 1)
		require.NoError(t, p.AddVariant(v))
		variantID := v.ID()
		requirements := []services.LineRequirement{
			{Target: services.StockTarget{Product: p, VariantID: &variantID}, Quantity: 2},
		}

		err := control.CheckAvailability(requirements)

		var stockErr *product.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		require.Len(t, stockErr.Shortages, 1)
		assert.Equal(t, 1, stockErr.Shortages[0].Available)
	})
}

func TestStockControl_DecrementForOrder(t *testing.T) {
	control := services.NewStockControl()
	now := time.Now()

	t.Run("should decrement every line and return one movement per line", func(t *testing.T) {
		a := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		b := newTestProduct(t, productSpec{current: 20, base: 15, stock: 6})
		requirements := []services.LineRequirement{
			{Target: services.StockTarget{Product: a}, Quantity: 3},
			{Target: services.StockTarget{Product: b}, Quantity: 6},
		}
		orderID := kernel.NewUUID()
		operatorID := kernel.NewUUID()

		movements, err := control.DecrementForOrder(requirements, orderID, operatorID, now)

		require.NoError(t, err)
		require.Len(t, movements, 2)
		assert.Equal(t, 7, a.StockQuantity())
		assert.Equal(t, 0, b.StockQuantity())
		assert.Equal(t, 7, movements[0].QuantityAfter())
		assert.Equal(t, 0, movements[1].QuantityAfter())
		for _, m := range movements {
			assert.Equal(t, product.MovementExit, m.Reason())
			require.NotNil(t, m.OperatorID())
			assert.True(t, m.OperatorID().IsEqual(operatorID))
		}
	})

	t.Run("should abort before any decrement when one line falls short", func(t *testing.T) {
		a := newTestProduct(t, productSpec{current: 30, base: 25, stock: 10})
		short := newTestProduct(t, productSpec{current: 20, base: 15, stock: 2})
		requirements := []services.LineRequirement{
			{Target: services.StockTarget{Product: a}, Quantity: 3},
			{Target: services.StockTarget{Product: short}, Quantity: 5},
		}

		_, err := control.DecrementForOrder(requirements, kernel.NewUUID(), kernel.NewUUID(), now)

		var stockErr *product.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 10, a.StockQuantity())
		assert.Equal(t, 2, short.StockQuantity())
	})
}
