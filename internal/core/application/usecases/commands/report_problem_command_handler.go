package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
)

// ReportProblemCommandHandler transitions an order to ReturnToConfirmation,
// putting it back on the desk of whoever originally confirmed it. When the
// original confirmer cannot be found in the ledger, the entry opens unowned
// and any confirmation operator can pick it up.
type ReportProblemCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
	logger     *slog.Logger
}

// NewReportProblemCommandHandler creates a handler for problem reports.
func NewReportProblemCommandHandler(uowFactory OrderUoWFactory, clock Clock, logger *slog.Logger) ReportProblemCommandHandler {
	return ReportProblemCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger,
	}
}

// Handle processes the problem report command.
func (h *ReportProblemCommandHandler) Handle(ctx context.Context, cmd ReportProblemCommand) error {
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

	assignee := aggregate.OriginalConfirmerID()
	if assignee == nil {
		h.logger.InfoContext(ctx, "no original confirmer found, returning order unassigned",
			slog.String("order_id", aggregate.ID().String()),
		)
	}

	if err = aggregate.TransitionAssigning(actor, order.ReturnToConfirmation, assignee, cmd.Comment(), h.clock.Now()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
