package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrPostponeOrderCommandIsNotConstructed = errors.New(
	"PostponeOrderCommand must be created via NewPostponeOrderCommand constructor",
)

// PostponeOrderCommand parks an order, optionally scheduling an automatic
// return to Confirmed when delayedUntil elapses (a delayed confirmation).
type PostponeOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	actorID      kernel.UUID
	comment      string
	delayedUntil *time.Time

	guard guard.ConstructorGuard
}

// NewPostponeOrderCommand creates a postponement command. A nil delayedUntil
// parks the order indefinitely; the future-timestamp check lives in the
// aggregate where the clock is known.
func NewPostponeOrderCommand(orderID, actorID kernel.UUID, comment string, delayedUntil *time.Time) (PostponeOrderCommand, error) {
	cmd := PostponeOrderCommand{
		comment:      comment,
		delayedUntil: delayedUntil,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
	); err != nil {
		return PostponeOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PostponeOrderCommand) Validate() error {
	return c.guard.Validate(ErrPostponeOrderCommandIsNotConstructed)
}

// OrderID returns the order to postpone.
func (c PostponeOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the postponing operator.
func (c PostponeOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Comment returns the postponement note.
func (c PostponeOrderCommand) Comment() string {
	return c.comment
}

// DelayedUntil returns the scheduled confirmation time, nil when none.
func (c PostponeOrderCommand) DelayedUntil() *time.Time {
	return c.delayedUntil
}
