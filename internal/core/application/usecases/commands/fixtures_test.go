package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"

	"github.com/shopspring/decimal"
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
		"ORD-3001",
		"webshop",
		3001,
		"42 High Street",
		money(t, 5),
		false,
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

// orderInConfirmation walks a fresh order into InConfirmationProgress under
// the given confirmation operator.
func orderInConfirmation(t *testing.T, confirmer *operator.Operator) *order.Order {
	t.Helper()
	o := newTestOrder(t)
	now := time.Now()
	assigneeID := confirmer.ID()
	require.NoError(t, o.TransitionAssigning(confirmer, order.Assigned, &assigneeID, "", now))
	require.NoError(t, o.Transition(confirmer, order.InConfirmationProgress, "", now))
	return o
}

func recordContact(t *testing.T, o *order.Order, by kernel.UUID) {
	t.Helper()
	op, err := order.NewOperation(kernel.NewUUID(), order.OperationContactAttempt, by, "called the customer", time.Now())
	require.NoError(t, err)
	require.NoError(t, o.RecordOperation(op))
}

func newCatalogProduct(t *testing.T, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), "Test Product", money(t, 25), money(t, 30), stock)
	require.NoError(t, err)
	return p
}

func addLineFor(t *testing.T, o *order.Order, p *product.Product, quantity int) *order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), p.ID(), nil, quantity, money(t, 30))
	require.NoError(t, err)
	require.NoError(t, o.AddLineItem(item))
	return item
}

func newPendingReturn(t *testing.T, p *product.Product, quantity int) *order.ReturnedItem {
	t.Helper()
	item, err := order.NewReturnedItem(
		kernel.NewUUID(), kernel.NewUUID(), p.ID(), nil, quantity, money(t, 30), kernel.NewUUID(),
	)
	require.NoError(t, err)
	return item
}
