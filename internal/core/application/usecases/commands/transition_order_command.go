package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a pure ledger transition with no pricing
// or stock side effects: starting confirmation, queueing for print, the
// preparation steps (InPreparation, Collected, Packed, Prepared), shipping,
// the full-delivery outcomes, and marking Duplicate or Erroneous.
//
// Transitions with side effects (confirm, cancel, postpone, problem reports,
// partial deliveries) have dedicated commands.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	target  order.State
	comment string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a transition command. Legality of the
// target against the order's current state and the actor's role is decided
// by the aggregate, not here; the command only refuses unknown states.
func NewTransitionOrderCommand(orderID, actorID kernel.UUID, target order.State, comment string) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		target.Validate(),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.target = target
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator requesting the transition.
func (c TransitionOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Target returns the requested state.
func (c TransitionOrderCommand) Target() order.State {
	return c.target
}

// Comment returns the optional transition note.
func (c TransitionOrderCommand) Comment() string {
	return c.comment
}
