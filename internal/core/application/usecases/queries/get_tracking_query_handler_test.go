package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker implements the repositories' aggregate tracker for query tests.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type GetTrackingQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetTrackingQueryHandler
}

func (suite *GetTrackingQueryHandlerTestSuite) SetupSuite() {
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

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &courierrepo.CourierDTO{}))

	suite.handler = queries.NewGetTrackingQueryHandler(db)
}

func (suite *GetTrackingQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetTrackingQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, couriers").Error)
}

func (suite *GetTrackingQueryHandlerTestSuite) TestHandle_UnknownNumber_ReturnsNotFoundError() {
	query, err := queries.NewGetTrackingQuery("CR999999999")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Nil(result)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetTrackingQueryHandlerTestSuite) TestHandle_PendingOrder_ReturnsSnapshotWithoutCourier() {
	pending := suite.seedOrder()

	query, err := queries.NewGetTrackingQuery(pending.Number())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(pending.Number(), result.OrderNumber)
	suite.Equal("pending", result.Status)
	suite.Equal("express", result.Priority)
	suite.Equal("123 Broadway", result.Pickup.Address)
	suite.InDelta(40.7128, result.Pickup.Lat, 1e-9)
	suite.Equal("1560 Broadway", result.Delivery.Address)
	suite.Nil(result.EstimatedPickupAt)
	suite.Nil(result.Courier)
	suite.Empty(result.ProofImages)

	suite.Require().Len(result.Events, 1)
	suite.Equal("pending", result.Events[0].Status)
	suite.Equal("created", result.Events[0].Note)
}

func (suite *GetTrackingQueryHandlerTestSuite) TestHandle_ClaimedOrder_IncludesCourierAndHistory() {
	ctx := context.Background()

	assigned := suite.seedOrder()
	claimer := suite.seedCourier("Sam Chen", 40.7140, -74.0050)
	suite.Require().NoError(assigned.Claim(claimer.ID()))

	orderRepo := orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
	suite.Require().NoError(orderRepo.Update(ctx, assigned))

	query, err := queries.NewGetTrackingQuery(assigned.Number())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal("assigned", result.Status)
	suite.True(assigned.ID().IsEqual(result.OrderID))

	suite.Require().NotNil(result.Courier)
	suite.Equal("Sam Chen", result.Courier.Name)
	suite.Equal("bike", result.Courier.Vehicle)
	suite.Require().NotNil(result.Courier.Lat)
	suite.InDelta(40.7140, *result.Courier.Lat, 1e-9)

	suite.Require().Len(result.Events, 2)
	suite.Equal("pending", result.Events[0].Status)
	suite.Equal("assigned", result.Events[1].Status)
}

func (suite *GetTrackingQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetTrackingQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetTrackingQuery constructor")
}

func (suite *GetTrackingQueryHandlerTestSuite) seedOrder() *order.Order {
	pickupCoord, err := kernel.NewCoordinate(40.7128, -74.0060)
	suite.Require().NoError(err)
	deliveryCoord, err := kernel.NewCoordinate(40.7589, -73.9851)
	suite.Require().NoError(err)

	pickup, err := order.NewWaypoint("123 Broadway", pickupCoord, "Dana Reed", "+15550101")
	suite.Require().NoError(err)
	delivery, err := order.NewWaypoint("1560 Broadway", deliveryCoord, "Lee Park", "")
	suite.Require().NoError(err)

	pack, err := order.NewPackage(2.5, "documents", false, 120)
	suite.Require().NoError(err)

	pending, err := order.NewOrder(
		kernel.NewUUID(),
		order.GenerateNumber(time.Now()),
		kernel.NewUUID(),
		pickup,
		delivery,
		pack,
		order.PriorityExpress,
		"card",
	)
	suite.Require().NoError(err)

	repo := orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
	suite.Require().NoError(repo.Add(context.Background(), pending))
	return pending
}

func (suite *GetTrackingQueryHandlerTestSuite) seedCourier(name string, lat, lng float64) *courier.Courier {
	registered, err := courier.NewCourier(kernel.NewUUID(), name, "+15550100", courier.VehicleBike)
	suite.Require().NoError(err)
	registered.SetAvailable(true)

	position, err := kernel.NewCoordinate(lat, lng)
	suite.Require().NoError(err)
	suite.Require().NoError(registered.ReportLocation(position, time.Now().UTC()))

	repo := courierrepo.NewGormCourierRepository(suite.db, noopTracker{})
	suite.Require().NoError(repo.Add(context.Background(), registered))
	return registered
}

func TestGetTrackingQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetTrackingQueryHandlerTestSuite))
}
