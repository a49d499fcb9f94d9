package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	confirmer := newOperator(t, operator.RoleConfirmation)
	aggregate := orderInConfirmation(t, confirmer)
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), confirmer.ID(), order.Postponed, "no answer")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OperatorRepository").Return(operatorRepo)
	uow.On("OrderRepository").Return(orderRepo)
	operatorRepo.On("Get", ctx, confirmer.ID()).Return(confirmer, nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, fixedClock{now: time.Now()})
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	state, err := aggregate.CurrentState()
	require.NoError(t, err)
	require.Equal(t, order.Postponed, state)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_IllegalTransition(t *testing.T) {
	ctx := t.Context()
	confirmer := newOperator(t, operator.RoleConfirmation)
	aggregate := orderInConfirmation(t, confirmer)
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), confirmer.ID(), order.InDistribution, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OperatorRepository").Return(operatorRepo)
	uow.On("OrderRepository").Return(orderRepo)
	operatorRepo.On("Get", ctx, confirmer.ID()).Return(confirmer, nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, fixedClock{now: time.Now()})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrIllegalTransition)
	orderRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestTransitionOrderCommandHandler_Handle_StaleAssignment(t *testing.T) {
	ctx := t.Context()
	confirmer := newOperator(t, operator.RoleConfirmation)
	intruder := newOperator(t, operator.RoleConfirmation)
	aggregate := orderInConfirmation(t, confirmer)
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), intruder.ID(), order.Confirmed, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OperatorRepository").Return(operatorRepo)
	uow.On("OrderRepository").Return(orderRepo)
	operatorRepo.On("Get", ctx, intruder.ID()).Return(intruder, nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, fixedClock{now: time.Now()})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrStaleAssignment)
	uow.AssertNotCalled(t, "Commit", ctx)
}
