package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReportProblemCommandIsNotConstructed = errors.New(
		"ReportProblemCommand must be created via NewReportProblemCommand constructor",
	)
	ErrProblemDescriptionIsRequired = errors.New("problem description is required")
)

// ReportProblemCommand sends an order found problematic during preparation
// back into the confirmation flow.
type ReportProblemCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	comment string

	guard guard.ConstructorGuard
}

// NewReportProblemCommand creates a problem report command. The description
// is mandatory; confirmation needs to know what to check.
func NewReportProblemCommand(orderID, actorID kernel.UUID, comment string) (ReportProblemCommand, error) {
	cmd := ReportProblemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
	); err != nil {
		return ReportProblemCommand{}, err
	}
	if comment == "" {
		return ReportProblemCommand{}, ErrProblemDescriptionIsRequired
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.comment = comment
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportProblemCommand) Validate() error {
	return c.guard.Validate(ErrReportProblemCommandIsNotConstructed)
}

// OrderID returns the problematic order.
func (c ReportProblemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator reporting the problem.
func (c ReportProblemCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Comment returns the problem description.
func (c ReportProblemCommand) Comment() string {
	return c.comment
}
