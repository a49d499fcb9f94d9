package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

// ReintegrationFailure reports one item of a batch that could not be
// reintegrated. Failed items stay pending; they do not roll back siblings.
type ReintegrationFailure struct {
	ItemID kernel.UUID
	Reason error
}

// ReintegrationReport summarizes a batch reintegration.
type ReintegrationReport struct {
	Reintegrated []kernel.UUID
	Failures     []ReintegrationFailure
}

// ReintegrateAllEligibleCommandHandler walks every pending returned item of
// an order and reintegrates the eligible ones. Semantics are at least one
// success, not all or nothing: a failed item lands in the report's failure
// list while its siblings commit.
type ReintegrateAllEligibleCommandHandler struct {
	uowFactory StockUoWFactory
	stock      services.StockControl
	clock      Clock
	logger     *slog.Logger
}

// NewReintegrateAllEligibleCommandHandler creates a handler for batch
// reintegration.
func NewReintegrateAllEligibleCommandHandler(
	uowFactory StockUoWFactory,
	stock services.StockControl,
	clock Clock,
	logger *slog.Logger,
) ReintegrateAllEligibleCommandHandler {
	return ReintegrateAllEligibleCommandHandler{
		uowFactory: uowFactory,
		stock:      stock,
		clock:      clock,
		logger:     logger,
	}
}

// Handle processes the batch reintegration command.
func (h *ReintegrateAllEligibleCommandHandler) Handle(ctx context.Context, cmd ReintegrateAllEligibleCommand) (ReintegrationReport, error) {
	var report ReintegrationReport

	if err := cmd.Validate(); err != nil {
		return report, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return report, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.OperatorRepository().Get(ctx, cmd.ActorID()); err != nil {
		return report, err
	}

	pending, err := uow.ReturnRepository().GetPendingByOrder(ctx, cmd.OrderID())
	if err != nil {
		return report, err
	}

	now := h.clock.Now()
	for _, item := range pending {
		if err := reintegrateItem(ctx, uow, h.stock, item, cmd.ActorID(), now); err != nil {
			h.logger.WarnContext(ctx, "returned item skipped during batch reintegration",
				slog.String("item_id", item.ID().String()),
				slog.String("reason", err.Error()),
			)
			report.Failures = append(report.Failures, ReintegrationFailure{ItemID: item.ID(), Reason: err})
			continue
		}
		report.Reintegrated = append(report.Reintegrated, item.ID())
	}

	if err := uow.Commit(ctx); err != nil {
		return report, err
	}
	return report, nil
}
