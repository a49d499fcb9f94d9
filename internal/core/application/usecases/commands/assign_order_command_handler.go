package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// AssignOrderCommandHandler moves an order from Unassigned to Assigned,
// stamping the assignee as the new state entry's operator.
type AssignOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

// NewAssignOrderCommandHandler creates a handler for order assignment.
func NewAssignOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle processes the assignment command. The transition table rejects
// assignment from any state other than Unassigned or ReturnToConfirmation.
func (h *AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
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

	// The assignee must exist; responsibility on a ghost operator would
	// strand the order.
	if _, err = uow.OperatorRepository().Get(ctx, cmd.AssigneeID()); err != nil {
		return err
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	assigneeID := cmd.AssigneeID()
	if err = aggregate.TransitionAssigning(actor, order.Assigned, &assigneeID, cmd.Comment(), h.clock.Now()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
