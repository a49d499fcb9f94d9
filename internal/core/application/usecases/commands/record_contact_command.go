package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRecordContactCommandIsNotConstructed = errors.New(
		"RecordContactCommand must be created via NewRecordContactCommand constructor",
	)
	ErrContactNoteIsRequired = errors.New("contact note is required")
)

// RecordContactCommand represents a confirmation operator logging a call or
// message to the customer. At least one contact attempt must exist before
// the order can be confirmed.
type RecordContactCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	note    string

	guard guard.ConstructorGuard
}

// NewRecordContactCommand creates a contact logging command.
func NewRecordContactCommand(orderID, actorID kernel.UUID, note string) (RecordContactCommand, error) {
	cmd := RecordContactCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
	); err != nil {
		return RecordContactCommand{}, err
	}
	if note == "" {
		return RecordContactCommand{}, ErrContactNoteIsRequired
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.note = note
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordContactCommand) Validate() error {
	return c.guard.Validate(ErrRecordContactCommandIsNotConstructed)
}

// OrderID returns the order being contacted about.
func (c RecordContactCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator who made the contact.
func (c RecordContactCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Note returns the free-text contact summary.
func (c RecordContactCommand) Note() string {
	return c.note
}
