package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ChangeLineItemQuantityCommandHandler changes or removes a cart line, then
// re-derives the upsell counter and reprices the order.
type ChangeLineItemQuantityCommandHandler struct {
	uowFactory PricingUoWFactory
	pricing    services.PricingEngine
}

// NewChangeLineItemQuantityCommandHandler creates a handler for quantity changes.
func NewChangeLineItemQuantityCommandHandler(uowFactory PricingUoWFactory, pricing services.PricingEngine) ChangeLineItemQuantityCommandHandler {
	return ChangeLineItemQuantityCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
	}
}

// Handle processes the quantity change command.
func (h *ChangeLineItemQuantityCommandHandler) Handle(ctx context.Context, cmd ChangeLineItemQuantityCommand) error {
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
	if err = order.CanEditCart(actor.Role()); err != nil {
		return err
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.ChangeLineItemQuantity(cmd.LineItemID(), cmd.Quantity()); err != nil {
		return err
	}

	catalog, err := uow.ProductRepository().GetBatch(ctx, lineProductIDs(aggregate))
	if err != nil {
		return err
	}
	if err = h.pricing.RederiveAndReprice(aggregate, catalog, false); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
