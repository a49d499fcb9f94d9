package commands

import (
	"context"
	"log/slog"
)

// CompleteDelayedTransitionsCommandHandler finds orders holding an open
// Postponed entry whose delayed timestamp has elapsed and auto-confirms
// them, closing every open entry defensively along the way.
type CompleteDelayedTransitionsCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
	logger     *slog.Logger
}

// NewCompleteDelayedTransitionsCommandHandler creates a handler for the
// delayed confirmation sweep.
func NewCompleteDelayedTransitionsCommandHandler(
	uowFactory OrderUoWFactory,
	clock Clock,
	logger *slog.Logger,
) CompleteDelayedTransitionsCommandHandler {
	return CompleteDelayedTransitionsCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger,
	}
}

// Handle processes the sweep command. Returns the number of orders
// transitioned.
func (h *CompleteDelayedTransitionsCommandHandler) Handle(ctx context.Context, cmd CompleteDelayedTransitionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	due, err := uow.OrderRepository().GetWithDueDelayedTransitions(ctx, now, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	transitioned := 0
	for _, aggregate := range due {
		applied, err := aggregate.CompleteDelayedTransition(now)
		if err != nil {
			return 0, err
		}
		if !applied {
			continue
		}

		if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
			return 0, err
		}
		h.logger.InfoContext(ctx, "delayed confirmation applied",
			slog.String("order_id", aggregate.ID().String()),
		)
		transitioned++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return transitioned, nil
}
