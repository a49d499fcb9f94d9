package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driveToDistribution walks a fresh order down the happy path into
// InDistribution and returns the logistics operator holding it.
func driveToDistribution(t *testing.T, o *order.Order) *operator.Operator {
	t.Helper()
	now := time.Now()
	confirmOrder(t, o)
	preparer := newOperator(t, operator.RolePreparation)
	shipper := newOperator(t, operator.RoleLogistics)
	for _, state := range []order.State{order.ToPrint, order.InPreparation, order.Collected, order.Packed, order.Prepared} {
		require.NoError(t, o.Transition(preparer, state, "", now))
	}
	require.NoError(t, o.Transition(shipper, order.InDistribution, "", now))
	return shipper
}

func TestPartialDeliveryReconciler_Reconcile(t *testing.T) {
	reconciler := services.NewPartialDeliveryReconciler(services.NewPricingEngine())
	now := time.Now()

	t.Run("should split a line into delivered and returned parts", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25, stock: 0})
		o := newTestOrder(t)
		line := newLineFor(t, p, 10, 30)
		require.NoError(t, line.ApplyPricing(money(t, 30), money(t, 300)))
		addLine(t, o, line)
		shipper := driveToDistribution(t, o)

		result, err := reconciler.Reconcile(o, shipper, []services.LineSplit{
			{LineItemID: line.ID(), Delivered: 6, Returned: 4},
		}, "customer kept six", catalogOf(p), now)

		require.NoError(t, err)

		state, err := o.CurrentState()
		require.NoError(t, err)
		assert.Equal(t, order.PartiallyDelivered, state)

		require.Len(t, o.LineItems(), 1)
		assert.Equal(t, 6, o.LineItems()[0].Quantity())
		assert.True(t, o.Total().IsEqual(money(t, 180)))

		require.Len(t, result.ReturnedItems, 1)
		returned := result.ReturnedItems[0]
		assert.Equal(t, 4, returned.Quantity())
		assert.Equal(t, order.ConditionPending, returned.Condition())
		assert.True(t, returned.OriginPrice().IsEqual(money(t, 30)))
		assert.True(t, returned.OrderID().IsEqual(o.ID()))
		assert.True(t, returned.RecordedBy().IsEqual(shipper.ID()))
	})

	t.Run("should drop a line returned in full", func(t *testing.T) {
		kept := newTestProduct(t, productSpec{current: 30, base: 25})
		refused := newTestProduct(t, productSpec{current: 20, base: 15})
		o := newTestOrder(t)
		keptLine := newLineFor(t, kept, 2, 30)
		refusedLine := newLineFor(t, refused, 3, 20)
		addLine(t, o, keptLine)
		addLine(t, o, refusedLine)
		shipper := driveToDistribution(t, o)

		result, err := reconciler.Reconcile(o, shipper, []services.LineSplit{
			{LineItemID: keptLine.ID(), Delivered: 2, Returned: 0},
			{LineItemID: refusedLine.ID(), Delivered: 0, Returned: 3},
		}, "", catalogOf(kept, refused), now)

		require.NoError(t, err)
		require.Len(t, o.LineItems(), 1)
		assert.True(t, o.LineItems()[0].ID().IsEqual(keptLine.ID()))
		require.Len(t, result.ReturnedItems, 1)
		assert.Equal(t, 3, result.ReturnedItems[0].Quantity())
	})

	t.Run("should reject splits that break conservation and leave the order untouched", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		line := newLineFor(t, p, 10, 30)
		addLine(t, o, line)
		shipper := driveToDistribution(t, o)

		_, err := reconciler.Reconcile(o, shipper, []services.LineSplit{
			{LineItemID: line.ID(), Delivered: 6, Returned: 3},
		}, "", catalogOf(p), now)

		require.Error(t, err)
		var consErr *services.ConservationError
		require.ErrorAs(t, err, &consErr)
		assert.ErrorIs(t, err, services.ErrConservationViolated)
		require.Len(t, consErr.Violations, 1)
		assert.Equal(t, 10, consErr.Violations[0].Original)
		assert.Equal(t, 6, consErr.Violations[0].Delivered)
		assert.Equal(t, 3, consErr.Violations[0].Returned)

		state, err := o.CurrentState()
		require.NoError(t, err)
		assert.Equal(t, order.InDistribution, state)
		assert.Equal(t, 10, line.Quantity())
	})

	t.Run("should reject a split naming a line not on the order", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		line := newLineFor(t, p, 4, 30)
		addLine(t, o, line)
		shipper := driveToDistribution(t, o)

		_, err := reconciler.Reconcile(o, shipper, []services.LineSplit{
			{LineItemID: line.ID(), Delivered: 2, Returned: 2},
			{LineItemID: kernel.NewUUID(), Delivered: 1, Returned: 0},
		}, "", catalogOf(p), now)

		require.ErrorIs(t, err, services.ErrUnknownLineSplit)

		state, err := o.CurrentState()
		require.NoError(t, err)
		assert.Equal(t, order.InDistribution, state)
		assert.Equal(t, 4, line.Quantity())
	})

	t.Run("should treat a line without a split as fully unaccounted", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		line := newLineFor(t, p, 2, 30)
		addLine(t, o, line)
		shipper := driveToDistribution(t, o)

		_, err := reconciler.Reconcile(o, shipper, nil, "", catalogOf(p), now)

		var consErr *services.ConservationError
		require.ErrorAs(t, err, &consErr)
		require.Len(t, consErr.Violations, 1)
		assert.Equal(t, 0, consErr.Violations[0].Delivered)
		assert.Equal(t, 0, consErr.Violations[0].Returned)
	})

	t.Run("should refuse reconciliation outside InDistribution", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		o := newTestOrder(t)
		line := newLineFor(t, p, 2, 30)
		addLine(t, o, line)
		confirmOrder(t, o)
		shipper := newOperator(t, operator.RoleLogistics)

		_, err := reconciler.Reconcile(o, shipper, []services.LineSplit{
			{LineItemID: line.ID(), Delivered: 1, Returned: 1},
		}, "", catalogOf(p), now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should reprice surviving upsell lines with the shrunk counter", func(t *testing.T) {
		p := newTestProduct(t, productSpec{
			current: 30, base: 25,
			upsell: true, tiers: [product.UpsellTierCount]int64{28, 26, 24, 22},
		})
		o := newTestOrder(t)
		line := newLineFor(t, p, 3, 30)
		addLine(t, o, line)
		catalog := catalogOf(p)
		engine := services.NewPricingEngine()
		require.NoError(t, engine.RederiveAndReprice(o, catalog, false))
		require.True(t, line.UnitPrice().IsEqual(money(t, 26)))
		shipper := driveToDistribution(t, o)

		_, err := reconciler.Reconcile(o, shipper, []services.LineSplit{
			{LineItemID: line.ID(), Delivered: 2, Returned: 1},
		}, "", catalog, now)

		require.NoError(t, err)
		assert.Equal(t, 1, o.UpsellCounter())
		assert.True(t, line.UnitPrice().IsEqual(money(t, 28)))
		assert.True(t, o.Total().IsEqual(money(t, 56)))
	})

	t.Run("should serialize the recap onto an audit operation", func(t *testing.T) {
		p := newTestProduct(t, productSpec{current: 30, base: 25})
		v := newTestVariant(t, p.ID(), 5)
		require.NoError(t, p.AddVariant(v))
		variantID := v.ID()

		o := newTestOrder(t)
		line, err := order.NewLineItem(kernel.NewUUID(), p.ID(), &variantID, 5, money(t, 30))
		require.NoError(t, err)
		require.NoError(t, line.ApplyPricing(money(t, 30), money(t, 150)))
		addLine(t, o, line)
		shipper := driveToDistribution(t, o)

		result, err := reconciler.Reconcile(o, shipper, []services.LineSplit{
			{LineItemID: line.ID(), Delivered: 3, Returned: 2},
		}, "", catalogOf(p), now)
		require.NoError(t, err)

		require.Len(t, o.Operations(), 1)
		op := o.Operations()[0]
		assert.Equal(t, order.OperationDeliveryRecap, op.Kind())

		recap, err := order.ParseDeliveryRecap(op.Payload())
		require.NoError(t, err)
		require.Len(t, recap.Delivered, 1)
		assert.Equal(t, p.ID().String(), recap.Delivered[0].ProductID)
		assert.Equal(t, 3, recap.Delivered[0].Quantity)
		assert.Empty(t, recap.Delivered[0].Condition)
		require.Len(t, recap.Returned, 1)
		assert.Equal(t, 2, recap.Returned[0].Quantity)
		assert.Equal(t, order.ConditionPending.String(), recap.Returned[0].Condition)
		require.NotNil(t, recap.Returned[0].VariantID)
		assert.Equal(t, variantID.String(), *recap.Returned[0].VariantID)
		assert.Equal(t, "30", recap.Returned[0].UnitPrice)

		assert.Equal(t, result.Recap, recap)
	})
}
