package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// RecordContactCommandHandler appends a contact attempt operation to the
// order's audit trail.
type RecordContactCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

// NewRecordContactCommandHandler creates a handler for contact logging.
func NewRecordContactCommandHandler(uowFactory OrderUoWFactory, clock Clock) RecordContactCommandHandler {
	return RecordContactCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle processes the contact logging command.
func (h *RecordContactCommandHandler) Handle(ctx context.Context, cmd RecordContactCommand) error {
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

	if _, err := uow.OperatorRepository().Get(ctx, cmd.ActorID()); err != nil {
		return err
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	op, err := order.NewOperation(kernel.NewUUID(), order.OperationContactAttempt, cmd.ActorID(), cmd.Note(), h.clock.Now())
	if err != nil {
		return err
	}
	if err = aggregate.RecordOperation(op); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
