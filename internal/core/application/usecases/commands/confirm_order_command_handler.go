package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ConfirmOrderCommandHandler commits an order: it validates that at least
// one contact attempt was recorded, checks stock for every line item before
// decrementing any of them, repairs dangling variant references, seals the
// totals with a final repricing and transitions the ledger to Confirmed.
//
// All of it happens in one transaction; a shortage on the last line leaves
// the stock of the first line untouched.
type ConfirmOrderCommandHandler struct {
	uowFactory StockUoWFactory
	pricing    services.PricingEngine
	stock      services.StockControl
	clock      Clock
	logger     *slog.Logger
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(
	uowFactory StockUoWFactory,
	pricing services.PricingEngine,
	stock services.StockControl,
	clock Clock,
	logger *slog.Logger,
) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		stock:      stock,
		clock:      clock,
		logger:     logger,
	}
}

// Handle processes the confirmation command.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) error {
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

	if !aggregate.HasContactAttempt() {
		return order.ErrMissingContactOperation
	}

	// Lock every product of the cart up front so two confirmations hitting
	// the same products serialize instead of losing stock updates.
	catalog, err := uow.ProductRepository().GetBatchForUpdate(ctx, lineProductIDs(aggregate))
	if err != nil {
		return err
	}

	requirements, err := h.stock.ResolveLineTargets(aggregate, catalog)
	if err != nil {
		return err
	}
	now := h.clock.Now()
	for _, req := range requirements {
		if !req.VariantRepaired {
			continue
		}
		h.logger.WarnContext(ctx, "repaired dangling variant reference",
			slog.String("order_id", aggregate.ID().String()),
			slog.String("product_id", req.Target.Product.ID().String()),
		)
		repair, opErr := order.NewOperation(
			kernel.NewUUID(),
			order.OperationVariantRepair,
			actor.ID(),
			fmt.Sprintf("fell back to product %s", req.Target.Product.ID()),
			now,
		)
		if opErr != nil {
			return opErr
		}
		if opErr = aggregate.RecordOperation(repair); opErr != nil {
			return opErr
		}
	}

	movements, err := h.stock.DecrementForOrder(requirements, aggregate.ID(), actor.ID(), now)
	if err != nil {
		return err
	}

	// Seal the quoted totals before the freeze takes effect.
	if err = h.pricing.RederiveAndReprice(aggregate, catalog, false); err != nil {
		return err
	}

	if err = aggregate.Transition(actor, order.Confirmed, cmd.Comment(), now); err != nil {
		return err
	}

	for _, prod := range catalog {
		if err = uow.ProductRepository().Update(ctx, prod); err != nil {
			return err
		}
	}
	if err = uow.MovementRepository().Add(ctx, movements); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// lineProductIDs collects the distinct product ids of the order's lines.
func lineProductIDs(aggregate *order.Order) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(aggregate.LineItems()))
	ids := make([]kernel.UUID, 0, len(aggregate.LineItems()))
	for _, item := range aggregate.LineItems() {
		if _, ok := seen[item.ProductID()]; ok {
			continue
		}
		seen[item.ProductID()] = struct{}{}
		ids = append(ids, item.ProductID())
	}
	return ids
}
