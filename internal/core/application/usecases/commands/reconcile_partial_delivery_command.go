package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReconcilePartialDeliveryCommandIsNotConstructed = errors.New(
		"ReconcilePartialDeliveryCommand must be created via NewReconcilePartialDeliveryCommand constructor",
	)
	ErrLineSplitsAreRequired = errors.New("at least one line split is required")
)

// ReconcilePartialDeliveryCommand reports a delivery that came back
// incomplete: each original line is split into delivered and returned
// quantities.
type ReconcilePartialDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	splits  []services.LineSplit
	comment string

	guard guard.ConstructorGuard
}

// NewReconcilePartialDeliveryCommand creates a reconciliation command.
// Conservation of quantities is validated against the order inside the
// transaction, not here.
func NewReconcilePartialDeliveryCommand(
	orderID, actorID kernel.UUID,
	splits []services.LineSplit,
	comment string,
) (ReconcilePartialDeliveryCommand, error) {
	cmd := ReconcilePartialDeliveryCommand{
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
	); err != nil {
		return ReconcilePartialDeliveryCommand{}, err
	}
	if len(splits) == 0 {
		return ReconcilePartialDeliveryCommand{}, ErrLineSplitsAreRequired
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.splits = splits
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcilePartialDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePartialDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being reconciled.
func (c ReconcilePartialDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the logistics operator reporting the outcome.
func (c ReconcilePartialDeliveryCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Splits returns the per-line delivered/returned quantities.
func (c ReconcilePartialDeliveryCommand) Splits() []services.LineSplit {
	return c.splits
}

// Comment returns the reconciliation note.
func (c ReconcilePartialDeliveryCommand) Comment() string {
	return c.comment
}
