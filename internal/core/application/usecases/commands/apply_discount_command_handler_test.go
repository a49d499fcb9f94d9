package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

func TestApplyDiscountCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	confirmer := newOperator(t, operator.RoleConfirmation)
	aggregate := orderInConfirmation(t, confirmer)
	prod := newCatalogProduct(t, 10)
	item := addLineFor(t, aggregate, prod, 2)
	catalog := map[kernel.UUID]*product.Product{prod.ID(): prod}

	cmd, err := commands.NewApplyDiscountCommand(
		aggregate.ID(), confirmer.ID(), item.ID(), order.DiscountFixed, money(t, 48),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	productRepo := new(MockProductRepository)
	uow := new(MockPricingUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OperatorRepository").Return(operatorRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("ProductRepository").Return(productRepo)
	operatorRepo.On("Get", ctx, confirmer.ID()).Return(confirmer, nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	productRepo.On("Get", ctx, prod.ID()).Return(prod, nil).Once()
	productRepo.On("GetBatch", ctx, []kernel.UUID{prod.ID()}).Return(catalog, nil).Once()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockPricingUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewApplyDiscountCommandHandler(factory, services.NewPricingEngine())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.True(t, item.DiscountApplied())
	require.Equal(t, order.DiscountFixed, item.DiscountKind())
	require.True(t, item.SubTotal().IsEqual(money(t, 48)))
	require.True(t, aggregate.Total().IsEqual(money(t, 48)))
	uow.AssertExpectations(t)
}

func TestApplyDiscountCommandHandler_Handle_ProtectedState(t *testing.T) {
	ctx := t.Context()
	confirmer := newOperator(t, operator.RoleConfirmation)
	aggregate := orderInConfirmation(t, confirmer)
	prod := newCatalogProduct(t, 10)
	item := addLineFor(t, aggregate, prod, 2)
	require.NoError(t, aggregate.Transition(confirmer, order.Confirmed, "", time.Now()))

	cmd, err := commands.NewApplyDiscountCommand(
		aggregate.ID(), confirmer.ID(), item.ID(), order.DiscountFixed, money(t, 1),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	productRepo := new(MockProductRepository)
	uow := new(MockPricingUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OperatorRepository").Return(operatorRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("ProductRepository").Return(productRepo)
	operatorRepo.On("Get", ctx, confirmer.ID()).Return(confirmer, nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	productRepo.On("Get", ctx, prod.ID()).Return(prod, nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockPricingUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewApplyDiscountCommandHandler(factory, services.NewPricingEngine())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrCartIsFrozen)
	require.False(t, item.DiscountApplied())
	require.True(t, item.SubTotal().IsEqual(money(t, 60)))
	orderRepo.AssertNotCalled(t, "Update", ctx, aggregate)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestApplyDiscountCommandHandler_Handle_RoleCannotEditCart(t *testing.T) {
	ctx := t.Context()
	confirmer := newOperator(t, operator.RoleConfirmation)
	supervisor := newOperator(t, operator.RoleSupervisor)
	aggregate := orderInConfirmation(t, confirmer)
	prod := newCatalogProduct(t, 10)
	item := addLineFor(t, aggregate, prod, 2)

	cmd, err := commands.NewApplyDiscountCommand(
		aggregate.ID(), supervisor.ID(), item.ID(), order.DiscountFixed, money(t, 40),
	)
	require.NoError(t, err)

	operatorRepo := new(MockOperatorRepository)
	orderRepo := new(MockOrderRepository)
	uow := new(MockPricingUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OperatorRepository").Return(operatorRepo)
	operatorRepo.On("Get", ctx, supervisor.ID()).Return(supervisor, nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockPricingUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewApplyDiscountCommandHandler(factory, services.NewPricingEngine())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrRoleCannotEditCart)
	require.False(t, item.DiscountApplied())
	orderRepo.AssertNotCalled(t, "Get", ctx, aggregate.ID())
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestApplyDiscountCommandHandler_Handle_ForbiddenInPhase(t *testing.T) {
	ctx := t.Context()
	confirmer := newOperator(t, operator.RoleConfirmation)
	aggregate := orderInConfirmation(t, confirmer)
	prod, err := product.RestoreProduct(
		kernel.NewUUID(), "Liquidated", money(t, 25), money(t, 30),
		kernel.ZeroMoney(), false, true, money(t, 12), false, false,
		[product.UpsellTierCount]kernel.Money{}, 10, true, nil,
	)
	require.NoError(t, err)
	item := addLineFor(t, aggregate, prod, 2)

	cmd, err := commands.NewApplyDiscountCommand(
		aggregate.ID(), confirmer.ID(), item.ID(), order.DiscountPercentage, money(t, 40),
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	productRepo := new(MockProductRepository)
	uow := new(MockPricingUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OperatorRepository").Return(operatorRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("ProductRepository").Return(productRepo)
	operatorRepo.On("Get", ctx, confirmer.ID()).Return(confirmer, nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	productRepo.On("Get", ctx, prod.ID()).Return(prod, nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockPricingUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewApplyDiscountCommandHandler(factory, services.NewPricingEngine())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDiscountForbiddenInPhase)
	require.False(t, item.DiscountApplied())
	uow.AssertNotCalled(t, "Commit", ctx)
}
