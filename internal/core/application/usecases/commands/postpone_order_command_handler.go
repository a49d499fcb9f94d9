package commands

import (
	"context"
)

// PostponeOrderCommandHandler parks an order in Postponed, carrying the
// optional delayed confirmation timestamp on the new state entry.
type PostponeOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

// NewPostponeOrderCommandHandler creates a handler for postponements.
func NewPostponeOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) PostponeOrderCommandHandler {
	return PostponeOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle processes the postponement command.
func (h *PostponeOrderCommandHandler) Handle(ctx context.Context, cmd PostponeOrderCommand) error {
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

	if err = aggregate.Postpone(actor, cmd.Comment(), cmd.DelayedUntil(), h.clock.Now()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
