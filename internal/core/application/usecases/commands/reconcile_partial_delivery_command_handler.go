package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// ReconcilePartialDeliveryCommandHandler applies a partial delivery split:
// the ledger moves to PartiallyDelivered, the cart is rewritten to the
// delivered quantities and repriced, pending ReturnedItem records are
// created and the JSON recap lands on the audit trail. Returned stock is
// not reintegrated here.
type ReconcilePartialDeliveryCommandHandler struct {
	uowFactory StockUoWFactory
	reconciler services.PartialDeliveryReconciler
	clock      Clock
}

// NewReconcilePartialDeliveryCommandHandler creates a handler for partial
// delivery reconciliation.
func NewReconcilePartialDeliveryCommandHandler(
	uowFactory StockUoWFactory,
	reconciler services.PartialDeliveryReconciler,
	clock Clock,
) ReconcilePartialDeliveryCommandHandler {
	return ReconcilePartialDeliveryCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		clock:      clock,
	}
}

// Handle processes the reconciliation command. A conservation violation
// rejects the whole operation before any state change.
func (h *ReconcilePartialDeliveryCommandHandler) Handle(ctx context.Context, cmd ReconcilePartialDeliveryCommand) error {
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

	catalog, err := uow.ProductRepository().GetBatch(ctx, lineProductIDs(aggregate))
	if err != nil {
		return err
	}

	result, err := h.reconciler.Reconcile(aggregate, actor, cmd.Splits(), cmd.Comment(), catalog, h.clock.Now())
	if err != nil {
		return err
	}

	if err = uow.ReturnRepository().Add(ctx, result.ReturnedItems); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
