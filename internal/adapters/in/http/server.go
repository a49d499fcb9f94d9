// Package http exposes the fulfillment use cases over a JSON REST API.
// Handlers translate transport concerns only; all business rules live in
// the application and domain layers.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler         commands.CreateOrderCommandHandler
	assignOrderHandler         commands.AssignOrderCommandHandler
	transitionOrderHandler     commands.TransitionOrderCommandHandler
	recordContactHandler       commands.RecordContactCommandHandler
	confirmOrderHandler        commands.ConfirmOrderCommandHandler
	postponeOrderHandler       commands.PostponeOrderCommandHandler
	cancelOrderHandler         commands.CancelOrderCommandHandler
	reportProblemHandler       commands.ReportProblemCommandHandler
	addLineItemHandler         commands.AddLineItemCommandHandler
	changeQuantityHandler      commands.ChangeLineItemQuantityCommandHandler
	applyDiscountHandler       commands.ApplyDiscountCommandHandler
	reconcileHandler           commands.ReconcilePartialDeliveryCommandHandler
	reintegrateItemHandler     commands.ReintegrateReturnedItemCommandHandler
	reintegrateEligibleHandler commands.ReintegrateAllEligibleCommandHandler

	// Query handlers
	orderSummaryHandler   queries.GetOrderSummaryQueryHandler
	orderHistoryHandler   queries.GetOrderHistoryQueryHandler
	pendingReturnsHandler queries.GetPendingReturnsQueryHandler
	stockMovementsHandler queries.GetStockMovementsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	recordContactHandler commands.RecordContactCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	postponeOrderHandler commands.PostponeOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	reportProblemHandler commands.ReportProblemCommandHandler,
	addLineItemHandler commands.AddLineItemCommandHandler,
	changeQuantityHandler commands.ChangeLineItemQuantityCommandHandler,
	applyDiscountHandler commands.ApplyDiscountCommandHandler,
	reconcileHandler commands.ReconcilePartialDeliveryCommandHandler,
	reintegrateItemHandler commands.ReintegrateReturnedItemCommandHandler,
	reintegrateEligibleHandler commands.ReintegrateAllEligibleCommandHandler,
	orderSummaryHandler queries.GetOrderSummaryQueryHandler,
	orderHistoryHandler queries.GetOrderHistoryQueryHandler,
	pendingReturnsHandler queries.GetPendingReturnsQueryHandler,
	stockMovementsHandler queries.GetStockMovementsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		assignOrderHandler:         assignOrderHandler,
		transitionOrderHandler:     transitionOrderHandler,
		recordContactHandler:       recordContactHandler,
		confirmOrderHandler:        confirmOrderHandler,
		postponeOrderHandler:       postponeOrderHandler,
		cancelOrderHandler:         cancelOrderHandler,
		reportProblemHandler:       reportProblemHandler,
		addLineItemHandler:         addLineItemHandler,
		changeQuantityHandler:      changeQuantityHandler,
		applyDiscountHandler:       applyDiscountHandler,
		reconcileHandler:           reconcileHandler,
		reintegrateItemHandler:     reintegrateItemHandler,
		reintegrateEligibleHandler: reintegrateEligibleHandler,
		orderSummaryHandler:        orderSummaryHandler,
		orderHistoryHandler:        orderHistoryHandler,
		pendingReturnsHandler:      pendingReturnsHandler,
		stockMovementsHandler:      stockMovementsHandler,
	}
}

// RegisterRoutes attaches all API routes to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderID", s.GetOrderSummary)
	api.GET("/orders/:orderID/history", s.GetOrderHistory)
	api.POST("/orders/:orderID/assign", s.AssignOrder)
	api.POST("/orders/:orderID/transition", s.TransitionOrder)
	api.POST("/orders/:orderID/contact-attempts", s.RecordContact)
	api.POST("/orders/:orderID/confirm", s.ConfirmOrder)
	api.POST("/orders/:orderID/postpone", s.PostponeOrder)
	api.POST("/orders/:orderID/cancel", s.CancelOrder)
	api.POST("/orders/:orderID/report-problem", s.ReportProblem)
	api.POST("/orders/:orderID/line-items", s.AddLineItem)
	api.PATCH("/orders/:orderID/line-items/:lineItemID", s.ChangeLineItemQuantity)
	api.POST("/orders/:orderID/line-items/:lineItemID/discount", s.ApplyDiscount)
	api.POST("/orders/:orderID/reconcile", s.ReconcilePartialDelivery)
	api.POST("/orders/:orderID/returns/reintegrate-eligible", s.ReintegrateAllEligible)
	api.POST("/returns/:itemID/reintegrate", s.ReintegrateReturnedItem)
	api.GET("/returns/pending", s.GetPendingReturns)
	api.GET("/products/:productID/movements", s.GetStockMovements)
}

// ErrorResponse is the JSON body returned on failures.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain and application errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError
	var illegal *order.IllegalTransitionError
	var shortage *product.InsufficientStockError
	var conservation *services.ConservationError

	status := http.StatusBadRequest
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &illegal), errors.Is(err, order.ErrIllegalTransition):
		status = http.StatusConflict
	case errors.As(err, &shortage):
		status = http.StatusConflict
	case errors.As(err, &conservation), errors.Is(err, services.ErrConservationViolated):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrMissingContactOperation),
		errors.Is(err, commands.ErrDiscountForbiddenInPhase),
		errors.Is(err, commands.ErrReturnedItemNotEligible):
		status = http.StatusConflict
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pathUUID(ctx echo.Context, param string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(param))
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Number              string `json:"number"`
	Source              string `json:"source"`
	SourceSequence      int    `json:"source_sequence"`
	Address             string `json:"address"`
	DeliveryFee         string `json:"delivery_fee"`
	DeliveryFeeIncluded bool   `json:"delivery_fee_included"`
}

// CreateOrderResponse returns the identifier of the new order.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	fee := kernel.ZeroMoney()
	if req.DeliveryFee != "" {
		amount, err := decimal.NewFromString(req.DeliveryFee)
		if err != nil {
			return badRequest(ctx, "Invalid delivery fee: "+err.Error())
		}
		fee = kernel.NewMoney(amount)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.Number,
		req.Source,
		req.SourceSequence,
		req.Address,
		fee,
		req.DeliveryFeeIncluded,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// AssignOrderRequest is the body of POST /orders/:orderID/assign.
type AssignOrderRequest struct {
	ActorID    string `json:"actor_id"`
	AssigneeID string `json:"assignee_id"`
	Comment    string `json:"comment"`
}

// AssignOrder handles POST /api/v1/orders/:orderID/assign.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req AssignOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}
	assigneeID, err := kernel.UUIDFromString(req.AssigneeID)
	if err != nil {
		return badRequest(ctx, "Invalid assignee ID")
	}

	cmd, err := commands.NewAssignOrderCommand(orderID, actorID, assigneeID, req.Comment)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TransitionOrderRequest is the body of POST /orders/:orderID/transition.
type TransitionOrderRequest struct {
	ActorID string `json:"actor_id"`
	Target  string `json:"target"`
	Comment string `json:"comment"`
}

// TransitionOrder handles POST /api/v1/orders/:orderID/transition.
// It serves the pure lifecycle moves; transitions with side effects
// (confirmation, cancellation, postponement) have dedicated endpoints.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req TransitionOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}
	target, err := order.StateByName(req.Target)
	if err != nil {
		return badRequest(ctx, "Unknown target state: "+req.Target)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actorID, target, req.Comment)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordContactRequest is the body of POST /orders/:orderID/contact-attempts.
type RecordContactRequest struct {
	ActorID string `json:"actor_id"`
	Note    string `json:"note"`
}

// RecordContact handles POST /api/v1/orders/:orderID/contact-attempts.
func (s *Server) RecordContact(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req RecordContactRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewRecordContactCommand(orderID, actorID, req.Note)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.recordContactHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ConfirmOrderRequest is the body of POST /orders/:orderID/confirm.
type ConfirmOrderRequest struct {
	ActorID string `json:"actor_id"`
	Comment string `json:"comment"`
}

// ConfirmOrder handles POST /api/v1/orders/:orderID/confirm.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req ConfirmOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID, actorID, req.Comment)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PostponeOrderRequest is the body of POST /orders/:orderID/postpone.
type PostponeOrderRequest struct {
	ActorID      string     `json:"actor_id"`
	Comment      string     `json:"comment"`
	DelayedUntil *time.Time `json:"delayed_until,omitempty"`
}

// PostponeOrder handles POST /api/v1/orders/:orderID/postpone.
func (s *Server) PostponeOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req PostponeOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewPostponeOrderCommand(orderID, actorID, req.Comment, req.DelayedUntil)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.postponeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrderRequest is the body of POST /orders/:orderID/cancel.
type CancelOrderRequest struct {
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:orderID/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorID, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportProblemRequest is the body of POST /orders/:orderID/report-problem.
type ReportProblemRequest struct {
	ActorID string `json:"actor_id"`
	Comment string `json:"comment"`
}

// ReportProblem handles POST /api/v1/orders/:orderID/report-problem.
func (s *Server) ReportProblem(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req ReportProblemRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewReportProblemCommand(orderID, actorID, req.Comment)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.reportProblemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AddLineItemRequest is the body of POST /orders/:orderID/line-items.
type AddLineItemRequest struct {
	ActorID   string  `json:"actor_id"`
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

// AddLineItem handles POST /api/v1/orders/:orderID/line-items.
func (s *Server) AddLineItem(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req AddLineItemRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}
	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return badRequest(ctx, "Invalid product ID")
	}

	var variantID *kernel.UUID
	if req.VariantID != nil {
		parsed, parseErr := kernel.UUIDFromString(*req.VariantID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid variant ID")
		}
		variantID = &parsed
	}

	cmd, err := commands.NewAddLineItemCommand(orderID, actorID, productID, variantID, req.Quantity)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.addLineItemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ChangeLineItemQuantityRequest is the body of PATCH /orders/:orderID/line-items/:lineItemID.
type ChangeLineItemQuantityRequest struct {
	ActorID  string `json:"actor_id"`
	Quantity int    `json:"quantity"`
}

// ChangeLineItemQuantity handles PATCH /api/v1/orders/:orderID/line-items/:lineItemID.
// A quantity of zero removes the line.
func (s *Server) ChangeLineItemQuantity(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}
	lineItemID, err := pathUUID(ctx, "lineItemID")
	if err != nil {
		return badRequest(ctx, "Invalid line item ID")
	}

	var req ChangeLineItemQuantityRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewChangeLineItemQuantityCommand(orderID, actorID, lineItemID, req.Quantity)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.changeQuantityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ApplyDiscountRequest is the body of POST /orders/:orderID/line-items/:lineItemID/discount.
type ApplyDiscountRequest struct {
	ActorID  string `json:"actor_id"`
	Kind     string `json:"kind"`
	SubTotal string `json:"sub_total"`
}

// ApplyDiscount handles POST /api/v1/orders/:orderID/line-items/:lineItemID/discount.
func (s *Server) ApplyDiscount(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}
	lineItemID, err := pathUUID(ctx, "lineItemID")
	if err != nil {
		return badRequest(ctx, "Invalid line item ID")
	}

	var req ApplyDiscountRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}
	kind, err := order.DiscountKindFromString(req.Kind)
	if err != nil {
		return badRequest(ctx, "Unknown discount kind: "+req.Kind)
	}
	amount, err := decimal.NewFromString(req.SubTotal)
	if err != nil {
		return badRequest(ctx, "Invalid sub-total: "+err.Error())
	}

	cmd, err := commands.NewApplyDiscountCommand(orderID, actorID, lineItemID, kind, kernel.NewMoney(amount))
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.applyDiscountHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// LineSplitRequest is one delivered/returned split in a reconciliation.
type LineSplitRequest struct {
	LineItemID string `json:"line_item_id"`
	Delivered  int    `json:"delivered"`
	Returned   int    `json:"returned"`
}

// ReconcileRequest is the body of POST /orders/:orderID/reconcile.
type ReconcileRequest struct {
	ActorID string             `json:"actor_id"`
	Comment string             `json:"comment"`
	Splits  []LineSplitRequest `json:"splits"`
}

// ReconcilePartialDelivery handles POST /api/v1/orders/:orderID/reconcile.
func (s *Server) ReconcilePartialDelivery(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req ReconcileRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	splits := make([]services.LineSplit, 0, len(req.Splits))
	for _, split := range req.Splits {
		lineItemID, parseErr := kernel.UUIDFromString(split.LineItemID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid line item ID in splits")
		}
		splits = append(splits, services.LineSplit{
			LineItemID: lineItemID,
			Delivered:  split.Delivered,
			Returned:   split.Returned,
		})
	}

	cmd, err := commands.NewReconcilePartialDeliveryCommand(orderID, actorID, splits, req.Comment)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.reconcileHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReintegrateRequest is the body of the reintegration endpoints.
type ReintegrateRequest struct {
	ActorID string `json:"actor_id"`
}

// ReintegrateReturnedItem handles POST /api/v1/returns/:itemID/reintegrate.
func (s *Server) ReintegrateReturnedItem(ctx echo.Context) error {
	itemID, err := pathUUID(ctx, "itemID")
	if err != nil {
		return badRequest(ctx, "Invalid returned item ID")
	}

	var req ReintegrateRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewReintegrateReturnedItemCommand(itemID, actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.reintegrateItemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReintegrationFailureResponse describes one item the bulk sweep skipped.
type ReintegrationFailureResponse struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// ReintegrateAllEligibleResponse summarizes a bulk reintegration.
type ReintegrateAllEligibleResponse struct {
	Reintegrated []string                       `json:"reintegrated"`
	Failures     []ReintegrationFailureResponse `json:"failures"`
}

// ReintegrateAllEligible handles POST /api/v1/orders/:orderID/returns/reintegrate-eligible.
func (s *Server) ReintegrateAllEligible(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req ReintegrateRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor ID")
	}

	cmd, err := commands.NewReintegrateAllEligibleCommand(orderID, actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	report, err := s.reintegrateEligibleHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	response := ReintegrateAllEligibleResponse{
		Reintegrated: make([]string, 0, len(report.Reintegrated)),
		Failures:     make([]ReintegrationFailureResponse, 0, len(report.Failures)),
	}
	for _, id := range report.Reintegrated {
		response.Reintegrated = append(response.Reintegrated, id.String())
	}
	for _, failure := range report.Failures {
		response.Failures = append(response.Failures, ReintegrationFailureResponse{
			ItemID: failure.ItemID.String(),
			Reason: failure.Reason.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// OrderSummaryResponse is the body of GET /orders/:orderID.
type OrderSummaryResponse struct {
	ID            string  `json:"id"`
	Number        string  `json:"number"`
	Source        string  `json:"source"`
	Address       string  `json:"address"`
	State         string  `json:"state"`
	StateColor    string  `json:"state_color"`
	OperatorID    *string `json:"operator_id,omitempty"`
	PaymentStatus string  `json:"payment_status"`
	Total         string  `json:"total"`
	UpsellCounter int     `json:"upsell_counter"`
	LineCount     int     `json:"line_count"`
}

// GetOrderSummary handles GET /api/v1/orders/:orderID.
func (s *Server) GetOrderSummary(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	query, err := queries.NewGetOrderSummaryQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	summary, err := s.orderSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderSummaryResponse{
		ID:            summary.ID.String(),
		Number:        summary.Number,
		Source:        summary.Source,
		Address:       summary.Address,
		State:         summary.State,
		StateColor:    summary.StateColor,
		OperatorID:    optionalUUIDString(summary.OperatorID),
		PaymentStatus: summary.PaymentStatus,
		Total:         summary.Total,
		UpsellCounter: summary.UpsellCounter,
		LineCount:     summary.LineCount,
	})
}

// HistoryEntryResponse is one ledger entry in GET /orders/:orderID/history.
type HistoryEntryResponse struct {
	ID           string     `json:"id"`
	State        string     `json:"state"`
	StateColor   string     `json:"state_color"`
	OperatorID   *string    `json:"operator_id,omitempty"`
	Comment      string     `json:"comment,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	DelayedUntil *time.Time `json:"delayed_until,omitempty"`
}

// GetOrderHistory handles GET /api/v1/orders/:orderID/history.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	entries, err := s.orderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = HistoryEntryResponse{
			ID:           entry.ID.String(),
			State:        entry.State,
			StateColor:   entry.StateColor,
			OperatorID:   optionalUUIDString(entry.OperatorID),
			Comment:      entry.Comment,
			StartedAt:    entry.StartedAt,
			EndedAt:      entry.EndedAt,
			DelayedUntil: entry.DelayedUntil,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// PendingReturnResponse is one row of GET /returns/pending.
type PendingReturnResponse struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	VariantID   *string `json:"variant_id,omitempty"`
	Quantity    int     `json:"quantity"`
	OriginPrice string  `json:"origin_price"`
}

// GetPendingReturns handles GET /api/v1/returns/pending.
func (s *Server) GetPendingReturns(ctx echo.Context) error {
	query := queries.NewGetPendingReturnsQuery()

	returns, err := s.pendingReturnsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]PendingReturnResponse, len(returns))
	for i, item := range returns {
		response[i] = PendingReturnResponse{
			ID:          item.ID.String(),
			OrderID:     item.OrderID.String(),
			OrderNumber: item.OrderNumber,
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			VariantID:   optionalUUIDString(item.VariantID),
			Quantity:    item.Quantity,
			OriginPrice: item.OriginPrice,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// defaultMovementLimit bounds the audit page when the client does not ask
// for a specific size.
const defaultMovementLimit = 50

// StockMovementResponse is one row of GET /products/:productID/movements.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	VariantID     *string   `json:"variant_id,omitempty"`
	OrderID       *string   `json:"order_id,omitempty"`
	OperatorID    *string   `json:"operator_id,omitempty"`
	Delta         int       `json:"delta"`
	Reason        string    `json:"reason"`
	QuantityAfter int       `json:"quantity_after"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// GetStockMovements handles GET /api/v1/products/:productID/movements.
func (s *Server) GetStockMovements(ctx echo.Context) error {
	productID, err := pathUUID(ctx, "productID")
	if err != nil {
		return badRequest(ctx, "Invalid product ID")
	}

	limit := defaultMovementLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil || parsed <= 0 {
			return badRequest(ctx, "Invalid limit")
		}
		limit = parsed
	}

	query, err := queries.NewGetStockMovementsQuery(productID, limit)
	if err != nil {
		return writeError(ctx, err)
	}

	movements, err := s.stockMovementsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]StockMovementResponse, len(movements))
	for i, movement := range movements {
		response[i] = StockMovementResponse{
			ID:            movement.ID.String(),
			VariantID:     optionalUUIDString(movement.VariantID),
			OrderID:       optionalUUIDString(movement.OrderID),
			OperatorID:    optionalUUIDString(movement.OperatorID),
			Delta:         movement.Delta,
			Reason:        movement.Reason,
			QuantityAfter: movement.QuantityAfter,
			RecordedAt:    movement.RecordedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func optionalUUIDString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
