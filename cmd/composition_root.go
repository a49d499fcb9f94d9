package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	clock      commands.SystemClock
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) pricingUoWFactory() commands.PricingUoWFactory {
	return FuncPricingUoWFactory(func() commands.PricingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) stockUoWFactory() commands.StockUoWFactory {
	return FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateRecordContactCommandHandler() commands.RecordContactCommandHandler {
	return commands.NewRecordContactCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(
		c.stockUoWFactory(),
		services.NewPricingEngine(),
		services.NewStockControl(),
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreatePostponeOrderCommandHandler() commands.PostponeOrderCommandHandler {
	return commands.NewPostponeOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateReportProblemCommandHandler() commands.ReportProblemCommandHandler {
	return commands.NewReportProblemCommandHandler(c.orderUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateAddLineItemCommandHandler() commands.AddLineItemCommandHandler {
	return commands.NewAddLineItemCommandHandler(c.pricingUoWFactory(), services.NewPricingEngine())
}

func (c *CompositionRoot) CreateChangeLineItemQuantityCommandHandler() commands.ChangeLineItemQuantityCommandHandler {
	return commands.NewChangeLineItemQuantityCommandHandler(c.pricingUoWFactory(), services.NewPricingEngine())
}

func (c *CompositionRoot) CreateApplyDiscountCommandHandler() commands.ApplyDiscountCommandHandler {
	return commands.NewApplyDiscountCommandHandler(c.pricingUoWFactory(), services.NewPricingEngine())
}

func (c *CompositionRoot) CreateReconcilePartialDeliveryCommandHandler() commands.ReconcilePartialDeliveryCommandHandler {
	return commands.NewReconcilePartialDeliveryCommandHandler(
		c.stockUoWFactory(),
		services.NewPartialDeliveryReconciler(services.NewPricingEngine()),
		c.clock,
	)
}

func (c *CompositionRoot) CreateReintegrateReturnedItemCommandHandler() commands.ReintegrateReturnedItemCommandHandler {
	return commands.NewReintegrateReturnedItemCommandHandler(
		c.stockUoWFactory(),
		services.NewStockControl(),
		c.clock,
	)
}

func (c *CompositionRoot) CreateReintegrateAllEligibleCommandHandler() commands.ReintegrateAllEligibleCommandHandler {
	return commands.NewReintegrateAllEligibleCommandHandler(
		c.stockUoWFactory(),
		services.NewStockControl(),
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateCompleteDelayedTransitionsCommandHandler() commands.CompleteDelayedTransitionsCommandHandler {
	return commands.NewCompleteDelayedTransitionsCommandHandler(c.orderUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetOrderSummaryQueryHandler() queries.GetOrderSummaryQueryHandler {
	return queries.NewGetOrderSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingReturnsQueryHandler() queries.GetPendingReturnsQueryHandler {
	return queries.NewGetPendingReturnsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStockMovementsQueryHandler() queries.GetStockMovementsQueryHandler {
	return queries.NewGetStockMovementsQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPricingUoWFactory func() commands.PricingUoW

func (f FuncPricingUoWFactory) Create() commands.PricingUoW {
	return f()
}

type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}
