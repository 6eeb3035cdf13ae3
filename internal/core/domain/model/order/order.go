package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods. This ensures all
// orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the delivery order aggregate root. It owns the full lifecycle
// from creation through courier claim to completion, the append-only
// tracking history, the fare breakdown frozen at creation, and the
// post-delivery ratings.
//
// Order follows these invariants:
//   - Status transitions follow the state machine defined on Status
//   - A courier is attached exactly when the status requires one
//   - The tracking history is append-only with non-decreasing timestamps
//   - Pricing is computed once at creation and never recomputed
//   - Each party rates at most once, and only after delivery
//   - Can only be created through NewOrder or RestoreOrder
//
// The struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods. Order is not safe for
// concurrent mutation; the optimistic version guards concurrent
// persistence instead.
type Order struct {
	id         kernel.UUID
	number     string
	customerID kernel.UUID

	// courierID is the claiming courier's ID (nil while pending)
	courierID *kernel.UUID

	pickup   Waypoint
	delivery Waypoint
	pack     Package
	priority Priority
	pricing  Pricing
	status   Status

	estimatedPickupAt   *time.Time
	estimatedDeliveryAt *time.Time
	actualPickupAt      *time.Time
	actualDeliveredAt   *time.Time

	tracking []TrackingEvent

	customerRating *Rating
	courierRating  *Rating

	paymentMethod string
	paymentStatus string

	proofImages []string

	// version backs the optimistic concurrency check in the store;
	// the winning claim is the one whose conditional update sees it.
	version int

	isConstructed bool
}

// NewOrder creates a new Order in the pending status. The fare is computed
// here from the waypoint distance and priority and never changes afterwards.
// An initial "created" tracking event is appended.
//
// The order number must already match the generated format; uniqueness is
// enforced by the store, and callers regenerate on conflict.
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	pickup Waypoint,
	delivery Waypoint,
	pack Package,
	priority Priority,
	paymentMethod string,
) (*Order, error) {
	order := &Order{
		status:        Pending,
		paymentMethod: paymentMethod,
		paymentStatus: "pending",
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setNumber(number),
		order.setCustomerID(customerID),
		order.setPickup(pickup),
		order.setDelivery(delivery),
		order.setPackage(pack),
		order.setPriority(priority),
	); err != nil {
		return nil, err
	}

	distanceKm, err := order.pickup.Coordinate().DistanceKmTo(order.delivery.Coordinate())
	if err != nil {
		return nil, err
	}

	pricing, err := NewPricing(distanceKm, priority)
	if err != nil {
		return nil, err
	}
	order.pricing = pricing

	if err = order.appendEvent(Pending, nil, "created"); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistence without re-running
// creation logic. It still validates structural invariants, in particular
// the status/courier consistency.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	courierID *kernel.UUID,
	pickup Waypoint,
	delivery Waypoint,
	pack Package,
	priority Priority,
	pricing Pricing,
	status Status,
	estimatedPickupAt *time.Time,
	estimatedDeliveryAt *time.Time,
	actualPickupAt *time.Time,
	actualDeliveredAt *time.Time,
	tracking []TrackingEvent,
	customerRating *Rating,
	courierRating *Rating,
	paymentMethod string,
	paymentStatus string,
	proofImages []string,
	version int,
) (*Order, error) {
	order := &Order{
		priority:            priority,
		pricing:             pricing,
		status:              status,
		estimatedPickupAt:   copyTime(estimatedPickupAt),
		estimatedDeliveryAt: copyTime(estimatedDeliveryAt),
		actualPickupAt:      copyTime(actualPickupAt),
		actualDeliveredAt:   copyTime(actualDeliveredAt),
		customerRating:      customerRating,
		courierRating:       courierRating,
		paymentMethod:       paymentMethod,
		paymentStatus:       paymentStatus,
		version:             version,
		isConstructed:       true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setNumber(number),
		order.setCustomerID(customerID),
		order.setPickup(pickup),
		order.setDelivery(delivery),
		order.setPackage(pack),
		order.setPriority(priority),
		pricing.Validate(),
		status.Validate(),
		status.ValidateCanHaveCourier(courierID != nil),
	); err != nil {
		return nil, err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		cID := *courierID
		order.courierID = &cID
	}

	order.tracking = make([]TrackingEvent, len(tracking))
	copy(order.tracking, tracking)

	order.proofImages = make([]string, len(proofImages))
	copy(order.proofImages, proofImages)

	return order, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory method. Call it when reconstructing orders from persistence.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-facing order number.
func (o *Order) Number() string {
	return o.number
}

// CustomerID returns the ID of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Courier returns the claiming courier's ID, or nil while pending.
func (o *Order) Courier() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	cID := *o.courierID
	return &cID
}

// Pickup returns the pickup waypoint.
func (o *Order) Pickup() Waypoint {
	return o.pickup
}

// Delivery returns the delivery waypoint.
func (o *Order) Delivery() Waypoint {
	return o.delivery
}

// Package returns the parcel description.
func (o *Order) Package() Package {
	return o.pack
}

// Priority returns the delivery priority class.
func (o *Order) Priority() Priority {
	return o.priority
}

// Pricing returns the fare breakdown frozen at creation.
func (o *Order) Pricing() Pricing {
	return o.pricing
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// EstimatedPickupAt returns the pickup ETA set at claim time, or nil.
func (o *Order) EstimatedPickupAt() *time.Time {
	return copyTime(o.estimatedPickupAt)
}

// EstimatedDeliveryAt returns the delivery ETA set at claim time, or nil.
func (o *Order) EstimatedDeliveryAt() *time.Time {
	return copyTime(o.estimatedDeliveryAt)
}

// ActualPickupAt returns when the package was actually collected, or nil.
func (o *Order) ActualPickupAt() *time.Time {
	return copyTime(o.actualPickupAt)
}

// ActualDeliveredAt returns when the package was actually delivered, or nil.
func (o *Order) ActualDeliveredAt() *time.Time {
	return copyTime(o.actualDeliveredAt)
}

// Tracking returns a copy of the append-only tracking history, oldest first.
func (o *Order) Tracking() []TrackingEvent {
	events := make([]TrackingEvent, len(o.tracking))
	copy(events, o.tracking)
	return events
}

// LastTrackingEvent returns the most recent tracking event, if any.
func (o *Order) LastTrackingEvent() (TrackingEvent, bool) {
	if len(o.tracking) == 0 {
		return TrackingEvent{}, false
	}
	return o.tracking[len(o.tracking)-1], true
}

// CustomerRating returns the rating left by the customer, or nil.
func (o *Order) CustomerRating() *Rating {
	return o.customerRating
}

// CourierRating returns the rating left by the courier, or nil.
func (o *Order) CourierRating() *Rating {
	return o.courierRating
}

// PaymentMethod returns the opaque payment method label.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// PaymentStatus returns the opaque payment status label.
func (o *Order) PaymentStatus() string {
	return o.paymentStatus
}

// ProofImages returns a copy of the attached proof-of-delivery references.
func (o *Order) ProofImages() []string {
	images := make([]string, len(o.proofImages))
	copy(images, o.proofImages)
	return images
}

// Version returns the optimistic concurrency version.
func (o *Order) Version() int {
	return o.version
}

// IsActive reports whether a courier is currently working the order
// (assigned, picked_up or in_transit).
func (o *Order) IsActive() bool {
	return o.status == Assigned || o.status == PickedUp || o.status == InTransit
}

// Authorize is the single capability check for every actor-driven mutation.
//
// Rules:
//   - admins may do anything
//   - the owning customer may cancel and rate
//   - any courier may attempt a claim; after the claim only the assigned
//     courier may progress, fail, rate, report location or attach proof
//
// Returns an *UnauthorizedError naming the role and action on denial.
func (o *Order) Authorize(actor Actor, action Action) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	switch actor.Role() {
	case RoleAdmin:
		return nil
	case RoleCustomer:
		if actor.ID().IsEqual(o.customerID) && (action == ActionCancel || action == ActionRate) {
			return nil
		}
	case RoleCourier:
		if action == ActionClaim {
			return nil
		}
		if o.courierID != nil && actor.ID().IsEqual(*o.courierID) {
			switch action {
			case ActionProgress, ActionCancel, ActionFail, ActionRate, ActionReportLocation, ActionAttachProof:
				return nil
			}
		}
	}

	return NewUnauthorizedError(actor.Role(), action)
}

// Claim attaches a courier to a pending order and moves it to assigned.
//
// The claim succeeds only while the order is still pending and unassigned;
// otherwise ErrAlreadyAssigned is returned. Under concurrent claims the
// store's conditional version update decides the single winner, and losers
// surface the same ErrAlreadyAssigned.
func (o *Order) Claim(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.status != Pending || o.courierID != nil {
		return ErrAlreadyAssigned
	}

	o.courierID = &courierID
	o.status = Assigned
	return o.appendEvent(Assigned, nil, "claimed by courier")
}

// Transition moves the order along the lifecycle on behalf of an actor.
//
// The target must be a valid edge from the current status and the actor must
// be authorized for the corresponding action (progress, cancel or fail).
// A target of Assigned performed by a courier is a claim and delegates to
// Claim. Pickup and delivery transitions stamp the actual times, and every
// transition appends a tracking event carrying the optional note and
// location.
func (o *Order) Transition(actor Actor, target Status, note string, location *kernel.Coordinate) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if target == Assigned {
		if actor.Role() != RoleCourier {
			return NewUnauthorizedError(actor.Role(), ActionClaim)
		}
		if _, err := o.status.TransitionTo(target); err != nil {
			return err
		}
		return o.Claim(actor.ID())
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	if err = o.Authorize(actor, actionForTarget(target)); err != nil {
		return err
	}

	now := o.nextEventTime()
	switch target { //nolint:exhaustive // only two targets stamp actual times
	case PickedUp:
		t := now
		o.actualPickupAt = &t
	case Delivered:
		t := now
		o.actualDeliveredAt = &t
	}

	o.status = next
	return o.appendEvent(next, location, note)
}

// Rate records a post-delivery rating by the acting party.
//
// Only delivered orders can be rated, each party rates at most once, and the
// customer and the assigned courier rate each other. The created rating is
// returned so callers can propagate it (e.g. into the courier's rolling
// average).
func (o *Order) Rate(actor Actor, score int, feedback string) (Rating, error) {
	if err := actor.Validate(); err != nil {
		return Rating{}, err
	}

	if o.status != Delivered {
		return Rating{}, ErrOrderNotDelivered
	}

	if err := o.Authorize(actor, ActionRate); err != nil {
		return Rating{}, err
	}

	var slot **Rating
	switch actor.Role() {
	case RoleCustomer:
		slot = &o.customerRating
	case RoleCourier:
		slot = &o.courierRating
	default:
		// admins moderate ratings, they do not author them
		return Rating{}, NewUnauthorizedError(actor.Role(), ActionRate)
	}

	if *slot != nil {
		return Rating{}, NewAlreadyRatedError(actor.Role())
	}

	rating, err := NewRating(score, feedback, time.Now().UTC())
	if err != nil {
		return Rating{}, err
	}
	*slot = &rating
	return rating, nil
}

// RecordLocation appends a courier position report to the tracking history.
// The current status is recorded unchanged. Reports are accepted only while
// the order is active.
func (o *Order) RecordLocation(location kernel.Coordinate, note string) error {
	if err := location.Validate(); err != nil {
		return err
	}

	if !o.IsActive() {
		return ErrNoActiveAssignment
	}

	return o.appendEvent(o.status, &location, note)
}

// AttachProof stores an opaque proof-of-delivery reference. Proof can be
// attached while the order is active or right after delivery.
func (o *Order) AttachProof(image string) error {
	if image == "" {
		return errors.New("proof image reference is required")
	}

	if !o.IsActive() && o.status != Delivered {
		return ErrNoActiveAssignment
	}

	o.proofImages = append(o.proofImages, image)
	return nil
}

// SetEstimates stamps the pickup and delivery ETAs computed at claim time.
// Estimates can only be set on an assigned order.
func (o *Order) SetEstimates(pickupAt time.Time, deliveryAt time.Time) error {
	if o.status != Assigned {
		return NewInvalidTransitionError(o.status, Assigned)
	}

	p, d := pickupAt, deliveryAt
	o.estimatedPickupAt = &p
	o.estimatedDeliveryAt = &d
	return nil
}

// SetPaymentStatus updates the opaque payment status label.
func (o *Order) SetPaymentStatus(status string) error {
	if status == "" {
		return errors.New("payment status is required")
	}
	o.paymentStatus = status
	return nil
}

// appendEvent appends a tracking event at the next monotonic timestamp.
func (o *Order) appendEvent(status Status, location *kernel.Coordinate, note string) error {
	event, err := NewTrackingEvent(status, o.nextEventTime(), location, note)
	if err != nil {
		return err
	}
	o.tracking = append(o.tracking, event)
	return nil
}

// nextEventTime returns the current time clamped to the last event's
// timestamp, keeping the tracking history non-decreasing even when the
// wall clock steps backwards.
func (o *Order) nextEventTime() time.Time {
	now := time.Now().UTC()
	if n := len(o.tracking); n > 0 {
		if last := o.tracking[n-1].Timestamp(); now.Before(last) {
			return last
		}
	}
	return now
}

func actionForTarget(target Status) Action {
	switch target { //nolint:exhaustive // remaining targets progress the delivery
	case Cancelled:
		return ActionCancel
	case Failed:
		return ActionFail
	default:
		return ActionProgress
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if err := ValidateNumber(number); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setPickup(pickup Waypoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	o.pickup = pickup
	return nil
}

func (o *Order) setDelivery(delivery Waypoint) error {
	if err := delivery.Validate(); err != nil {
		return err
	}
	o.delivery = delivery
	return nil
}

func (o *Order) setPackage(pack Package) error {
	if err := pack.Validate(); err != nil {
		return err
	}
	o.pack = pack
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}
