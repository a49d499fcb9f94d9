package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand represents a request to put an order under the
// responsibility of a confirmation operator.
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	actorID    kernel.UUID
	assigneeID kernel.UUID
	comment    string

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates an assignment command. Actor and assignee
// may be the same operator when self-assigning from the pool.
func NewAssignOrderCommand(orderID, actorID, assigneeID kernel.UUID, comment string) (AssignOrderCommand, error) {
	cmd := AssignOrderCommand{
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		assigneeID.Validate(),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.assigneeID = assigneeID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator performing the assignment.
func (c AssignOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// AssigneeID returns the operator receiving responsibility.
func (c AssignOrderCommand) AssigneeID() kernel.UUID {
	return c.assigneeID
}

// Comment returns the optional assignment note.
func (c AssignOrderCommand) Comment() string {
	return c.comment
}
