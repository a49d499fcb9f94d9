package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrderSummaryQueryHandlerTestSuite struct {
	suite.Suite
	container      *postgres.PostgresContainer
	db             *gorm.DB
	summaryHandler queries.GetOrderSummaryQueryHandler
	historyHandler queries.GetOrderHistoryQueryHandler
	orderRepo      *orderrepo.GormOrderRepository
}

func (suite *GetOrderSummaryQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.StateEntryDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.OperationDTO{},
	)
	suite.Require().NoError(err)

	suite.summaryHandler = queries.NewGetOrderSummaryQueryHandler(db)
	suite.historyHandler = queries.NewGetOrderHistoryQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
}

func (suite *GetOrderSummaryQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderSummaryQueryHandlerTestSuite) SetupTest() {
	for _, table := range []string{"operations", "line_items", "state_entries", "orders"} {
		err := suite.db.Exec("TRUNCATE TABLE " + table + " CASCADE").Error
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderSummaryQueryHandlerTestSuite) createOrder(number string) (*order.Order, *operator.Operator) {
	fee := kernel.NewMoney(decimal.NewFromInt(7))
	o, err := order.NewOrder(kernel.NewUUID(), number, "webshop", 42, "42 High Street", fee, false, time.Now())
	suite.Require().NoError(err)

	confirmer, err := operator.NewOperator(kernel.NewUUID(), "Confirmation Operator", operator.RoleConfirmation)
	suite.Require().NoError(err)
	assigneeID := confirmer.ID()
	suite.Require().NoError(o.TransitionAssigning(confirmer, order.Assigned, &assigneeID, "picked up", time.Now()))
	return o, confirmer
}

func (suite *GetOrderSummaryQueryHandlerTestSuite) TestHandle_Summary() {
	ctx := context.Background()
	o, confirmer := suite.createOrder("ORD-7001")
	item, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), nil, 2, kernel.NewMoney(decimal.NewFromInt(30)))
	suite.Require().NoError(err)
	suite.Require().NoError(o.AddLineItem(item))
	suite.Require().NoError(suite.orderRepo.Add(ctx, o))

	query, err := queries.NewGetOrderSummaryQuery(o.ID())
	suite.Require().NoError(err)

	resp, err := suite.summaryHandler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(resp.ID.IsEqual(o.ID()))
	suite.Equal("ORD-7001", resp.Number)
	suite.Equal("webshop", resp.Source)
	suite.Equal("Assigned", resp.State)
	suite.Equal(1, resp.LineCount)
	suite.Require().NotNil(resp.OperatorID)
	suite.True(resp.OperatorID.IsEqual(confirmer.ID()))
}

func (suite *GetOrderSummaryQueryHandlerTestSuite) TestHandle_NotFound() {
	query, err := queries.NewGetOrderSummaryQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.summaryHandler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetOrderSummaryQueryHandlerTestSuite) TestHandle_History() {
	ctx := context.Background()
	o, confirmer := suite.createOrder("ORD-7002")
	suite.Require().NoError(o.Transition(confirmer, order.InConfirmationProgress, "calling", time.Now()))
	suite.Require().NoError(suite.orderRepo.Add(ctx, o))

	query, err := queries.NewGetOrderHistoryQuery(o.ID())
	suite.Require().NoError(err)

	entries, err := suite.historyHandler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)

	suite.Equal("Unassigned", entries[0].State)
	suite.Nil(entries[0].OperatorID)
	suite.NotNil(entries[0].EndedAt)

	suite.Equal("Assigned", entries[1].State)
	suite.Equal("picked up", entries[1].Comment)
	suite.NotNil(entries[1].EndedAt)

	suite.Equal("InConfirmationProgress", entries[2].State)
	suite.Nil(entries[2].EndedAt)
	suite.Require().NotNil(entries[2].OperatorID)
	suite.True(entries[2].OperatorID.IsEqual(confirmer.ID()))
}

func TestGetOrderSummaryQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(GetOrderSummaryQueryHandlerTestSuite))
}

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}
