package commands

import (
	"context"
)

// TransitionOrderCommandHandler applies a pure ledger transition: close the
// open state entry, open the target entry under the actor, nothing else.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

// NewTransitionOrderCommandHandler creates a handler for pure transitions.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle processes the transition command. Illegal transitions and stale
// assignments surface from the aggregate before anything is persisted.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	if err = aggregate.Transition(actor, cmd.Target(), cmd.Comment(), h.clock.Now()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
