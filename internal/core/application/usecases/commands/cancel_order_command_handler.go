package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// CancelOrderCommandHandler terminally cancels an order, recording the
// mandatory reason as a cancellation note on the audit trail.
//
// Stock decremented at confirmation stays decremented; releasing it is an
// explicit warehouse decision, not a side effect of cancellation.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor, err := uow.OperatorRepository().Get(ctx, cmd.ActorID())
	if err != nil {
		return err
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	if err = aggregate.Transition(actor, order.Cancelled, cmd.Reason(), now); err != nil {
		return err
	}

	note, err := order.NewOperation(kernel.NewUUID(), order.OperationCancellationNote, actor.ID(), cmd.Reason(), now)
	if err != nil {
		return err
	}
	if err = aggregate.RecordOperation(note); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
