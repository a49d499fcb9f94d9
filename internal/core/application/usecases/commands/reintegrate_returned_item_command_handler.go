package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
)

// ErrReturnedItemNotEligible is returned when a reintegration targets an
// item that is not pending or whose variant was deactivated.
var ErrReturnedItemNotEligible = errors.New("returned item is not eligible for reintegration")

// ReintegrateReturnedItemCommandHandler reintegrates one pending returned
// item: the product or variant stock is incremented under a row-level lock,
// a return movement is recorded and the item's condition flips to
// reintegrated. Running it twice is harmless; the second call finds the
// item no longer pending and refuses.
type ReintegrateReturnedItemCommandHandler struct {
	uowFactory StockUoWFactory
	stock      services.StockControl
	clock      Clock
}

// NewReintegrateReturnedItemCommandHandler creates a handler for single
// item reintegration.
func NewReintegrateReturnedItemCommandHandler(
	uowFactory StockUoWFactory,
	stock services.StockControl,
	clock Clock,
) ReintegrateReturnedItemCommandHandler {
	return ReintegrateReturnedItemCommandHandler{
		uowFactory: uowFactory,
		stock:      stock,
		clock:      clock,
	}
}

// Handle processes the single item reintegration command.
func (h *ReintegrateReturnedItemCommandHandler) Handle(ctx context.Context, cmd ReintegrateReturnedItemCommand) error {
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

	if _, err := uow.OperatorRepository().Get(ctx, cmd.ActorID()); err != nil {
		return err
	}

	item, err := uow.ReturnRepository().Get(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	if err = reintegrateItem(ctx, uow, h.stock, item, cmd.ActorID(), h.clock.Now()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// reintegrateItem performs the eligibility check, the locked stock
// increment, the movement append and the condition flip for one returned
// item. Shared by the single and batch handlers.
func reintegrateItem(
	ctx context.Context,
	uow StockUoW,
	stock services.StockControl,
	item *order.ReturnedItem,
	actorID kernel.UUID,
	now time.Time,
) error {
	prod, err := uow.ProductRepository().GetForUpdate(ctx, item.ProductID())
	if err != nil {
		return err
	}

	variantActive := true
	if item.VariantID() != nil {
		variant, findErr := prod.FindVariant(*item.VariantID())
		if findErr != nil {
			variantActive = false
		} else {
			variantActive = variant.IsActive()
		}
	}
	if !item.CanBeReintegrated(variantActive) {
		return ErrReturnedItemNotEligible
	}

	target := services.StockTarget{Product: prod, VariantID: item.VariantID()}
	orderID := item.OrderID()
	movement, err := stock.Mutate(target, item.Quantity(), product.MovementReturnReintegration, &orderID, &actorID, now)
	if err != nil {
		return err
	}

	if err = item.MarkReintegrated(actorID, now); err != nil {
		return err
	}

	if err = uow.ProductRepository().Update(ctx, prod); err != nil {
		return err
	}
	if err = uow.MovementRepository().Add(ctx, []*product.StockMovement{movement}); err != nil {
		return err
	}
	return uow.ReturnRepository().Update(ctx, item)
}
