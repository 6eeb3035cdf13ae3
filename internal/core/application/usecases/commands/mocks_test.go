package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetFirstInPendingStatus(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInPendingStatus(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

// recordingPublisher captures broadcasts for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	orderID   kernel.UUID
	eventType ports.EventType
	payload   any
}

func (p *recordingPublisher) Publish(orderID kernel.UUID, eventType ports.EventType, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{orderID: orderID, eventType: eventType, payload: payload})
}

func (p *recordingPublisher) recorded() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]recordedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Shared aggregate builders.

func buildWaypoint(t *testing.T, address string, lat, lng float64) order.Waypoint {
	t.Helper()
	coord, err := kernel.NewCoordinate(lat, lng)
	require.NoError(t, err)
	w, err := order.NewWaypoint(address, coord, "Jamie Rivera", "+1-555-0100")
	require.NoError(t, err)
	return w
}

func buildPackage(t *testing.T) order.Package {
	t.Helper()
	p, err := order.NewPackage(2, "documents", false, 50)
	require.NoError(t, err)
	return p
}

func buildPendingOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.GenerateNumber(time.Now()),
		customerID,
		buildWaypoint(t, "123 Broadway", 40.7128, -74.0060),
		buildWaypoint(t, "1560 Broadway", 40.7589, -73.9851),
		buildPackage(t),
		order.PriorityStandard,
		"card",
	)
	require.NoError(t, err)
	return o
}

func buildAvailableCourier(t *testing.T, name string, lat, lng float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, "", courier.VehicleBike)
	require.NoError(t, err)
	c.SetAvailable(true)
	coord, err := kernel.NewCoordinate(lat, lng)
	require.NoError(t, err)
	require.NoError(t, c.ReportLocation(coord, time.Now().UTC()))
	return c
}

func buildCourierWithoutPresence(t *testing.T, name string) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, "", courier.VehicleBike)
	require.NoError(t, err)
	c.SetAvailable(true)
	return c
}

// fakeUoW is a stateful in-memory unit of work used where mock scripting
// gets in the way, most importantly the concurrent-claim race. Update
// enforces the same optimistic version rule as the real store.
type fakeUoW struct {
	store *fakeStore
}

type fakeStore struct {
	mu       sync.Mutex
	orders   map[kernel.UUID]*storedOrder
	numbers  map[string]kernel.UUID
	couriers map[kernel.UUID]*courier.Courier
}

type storedOrder struct {
	aggregate *order.Order
	version   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[kernel.UUID]*storedOrder),
		numbers:  make(map[string]kernel.UUID),
		couriers: make(map[kernel.UUID]*courier.Courier),
	}
}

func (s *fakeStore) factory() *fakeUoWFactory {
	return &fakeUoWFactory{store: s}
}

type fakeUoWFactory struct{ store *fakeStore }

func (f *fakeUoWFactory) Create() commands.UoW {
	return &fakeUoW{store: f.store}
}

func (s *fakeStore) orderFactory() *fakeOrderUoWFactory {
	return &fakeOrderUoWFactory{store: s}
}

type fakeOrderUoWFactory struct{ store *fakeStore }

func (f *fakeOrderUoWFactory) Create() commands.OrderUoW {
	return &fakeUoW{store: f.store}
}

func (s *fakeStore) courierFactory() *fakeCourierUoWFactory {
	return &fakeCourierUoWFactory{store: s}
}

type fakeCourierUoWFactory struct{ store *fakeStore }

func (f *fakeCourierUoWFactory) Create() commands.CourierUoW {
	return &fakeUoW{store: f.store}
}

func (u *fakeUoW) Begin(context.Context) error    { return nil }
func (u *fakeUoW) Commit(context.Context) error   { return nil }
func (u *fakeUoW) Rollback(context.Context) error { return nil }

func (u *fakeUoW) OrderRepository() ports.OrderRepository {
	return &fakeOrderRepository{store: u.store}
}

func (u *fakeUoW) CourierRepository() ports.CourierRepository {
	return &fakeCourierRepository{store: u.store}
}

type fakeOrderRepository struct{ store *fakeStore }

func (r *fakeOrderRepository) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.numbers[o.Number()]; exists {
		return errs.NewObjectAlreadyExistsError("order", o.Number())
	}
	r.store.numbers[o.Number()] = o.ID()
	r.store.orders[o.ID()] = &storedOrder{aggregate: restoreCopy(o), version: o.Version()}
	return nil
}

func (r *fakeOrderRepository) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, exists := r.store.orders[o.ID()]
	if !exists {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	if stored.version != o.Version() {
		return errs.NewVersionIsInvalidErrorWithCause("order")
	}
	r.store.orders[o.ID()] = &storedOrder{aggregate: restoreCopy(o), version: o.Version() + 1}
	return nil
}

func (r *fakeOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, exists := r.store.orders[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return restoreAt(stored), nil
}

func (r *fakeOrderRepository) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	r.store.mu.Lock()
	id, exists := r.store.numbers[number]
	r.store.mu.Unlock()
	if !exists {
		return nil, errs.NewObjectNotFoundError("order", number)
	}
	return r.Get(context.Background(), id)
}

func (r *fakeOrderRepository) GetFirstInPendingStatus(_ context.Context) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, stored := range r.store.orders {
		if stored.aggregate.Status() == order.Pending {
			return restoreAt(stored), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order", "pending")
}

func (r *fakeOrderRepository) GetAllInPendingStatus(_ context.Context) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*order.Order
	for _, stored := range r.store.orders {
		if stored.aggregate.Status() == order.Pending {
			out = append(out, restoreAt(stored))
		}
	}
	return out, nil
}

type fakeCourierRepository struct{ store *fakeStore }

func (r *fakeCourierRepository) Add(_ context.Context, c *courier.Courier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.couriers[c.ID()] = c
	return nil
}

func (r *fakeCourierRepository) Update(_ context.Context, c *courier.Courier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.couriers[c.ID()] = c
	return nil
}

func (r *fakeCourierRepository) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, exists := r.store.couriers[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("courier", id)
	}
	return c, nil
}

func (r *fakeCourierRepository) GetAllAvailable(_ context.Context) ([]*courier.Courier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*courier.Courier
	for _, c := range r.store.couriers {
		if c.IsAvailable() && c.HasPresence() {
			out = append(out, c)
		}
	}
	return out, nil
}

// restoreCopy detaches a snapshot so callers cannot mutate stored state.
func restoreCopy(o *order.Order) *order.Order {
	restored, err := order.RestoreOrder(
		o.ID(), o.Number(), o.CustomerID(), o.Courier(),
		o.Pickup(), o.Delivery(), o.Package(), o.Priority(),
		o.Pricing(), o.Status(),
		o.EstimatedPickupAt(), o.EstimatedDeliveryAt(),
		o.ActualPickupAt(), o.ActualDeliveredAt(),
		o.Tracking(), o.CustomerRating(), o.CourierRating(),
		o.PaymentMethod(), o.PaymentStatus(), o.ProofImages(),
		o.Version(),
	)
	if err != nil {
		panic(err)
	}
	return restored
}

func restoreAt(stored *storedOrder) *order.Order {
	o := stored.aggregate
	restored, err := order.RestoreOrder(
		o.ID(), o.Number(), o.CustomerID(), o.Courier(),
		o.Pickup(), o.Delivery(), o.Package(), o.Priority(),
		o.Pricing(), o.Status(),
		o.EstimatedPickupAt(), o.EstimatedDeliveryAt(),
		o.ActualPickupAt(), o.ActualDeliveredAt(),
		o.Tracking(), o.CustomerRating(), o.CourierRating(),
		o.PaymentMethod(), o.PaymentStatus(), o.ProofImages(),
		stored.version,
	)
	if err != nil {
		panic(err)
	}
	return restored
}
