package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// AddLineItemCommandHandler adds a line to an order's cart, re-derives the
// upsell counter from the new cart composition and reprices every line.
type AddLineItemCommandHandler struct {
	uowFactory PricingUoWFactory
	pricing    services.PricingEngine
}

// NewAddLineItemCommandHandler creates a handler for cart additions.
func NewAddLineItemCommandHandler(uowFactory PricingUoWFactory, pricing services.PricingEngine) AddLineItemCommandHandler {
	return AddLineItemCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
	}
}

// Handle processes the cart addition command.
func (h *AddLineItemCommandHandler) Handle(ctx context.Context, cmd AddLineItemCommand) error {
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

	prod, err := uow.ProductRepository().Get(ctx, cmd.ProductID())
	if err != nil {
		return err
	}
	if cmd.VariantID() != nil {
		if _, err = prod.FindVariant(*cmd.VariantID()); err != nil {
			return err
		}
	}

	// The initial unit price is provisional; RederiveAndReprice below
	// settles it against the full rule set.
	item, err := order.NewLineItem(kernel.NewUUID(), cmd.ProductID(), cmd.VariantID(), cmd.Quantity(), prod.CurrentPrice())
	if err != nil {
		return err
	}
	if err = aggregate.AddLineItem(item); err != nil {
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
