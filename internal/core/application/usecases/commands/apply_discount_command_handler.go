package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ErrDiscountForbiddenInPhase is returned when a discount is requested on a
// product whose liquidation or promotion phase forbids manual discounts.
var ErrDiscountForbiddenInPhase = errors.New("product phase forbids manual discounts")

// ApplyDiscountCommandHandler locks a discount on a cart line, then
// re-derives the upsell counter (the line stops contributing) and reprices
// the remaining lines.
type ApplyDiscountCommandHandler struct {
	uowFactory PricingUoWFactory
	pricing    services.PricingEngine
}

// NewApplyDiscountCommandHandler creates a handler for discounts.
func NewApplyDiscountCommandHandler(uowFactory PricingUoWFactory, pricing services.PricingEngine) ApplyDiscountCommandHandler {
	return ApplyDiscountCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
	}
}

// Handle processes the discount command.
func (h *ApplyDiscountCommandHandler) Handle(ctx context.Context, cmd ApplyDiscountCommand) error {
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

	item, err := aggregate.FindLineItem(cmd.LineItemID())
	if err != nil {
		return err
	}

	prod, err := uow.ProductRepository().Get(ctx, item.ProductID())
	if err != nil {
		return err
	}
	if prod.InLiquidation() || prod.PromoActive() {
		return ErrDiscountForbiddenInPhase
	}

	if err = aggregate.ApplyLineDiscount(cmd.LineItemID(), cmd.Kind(), cmd.SubTotal()); err != nil {
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
