package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrNoPresence is returned when an operation needs the courier's position
	// but none has been reported yet.
	ErrNoPresence = errors.New("courier location not available")
)

// Courier is the courier aggregate root. It owns the courier's identity,
// vehicle, availability flag, last reported position (presence) and the
// rolling average of ratings received from customers.
//
// Business rules:
//   - A courier is dispatchable only while available with a known position
//   - Presence updates always overwrite the previous report
//   - The rating average is maintained incrementally from sum and count
type Courier struct {
	id      kernel.UUID
	name    string
	phone   string
	vehicle VehicleType

	available bool

	// presence: nil until the first location report arrives
	location   *kernel.Coordinate
	reportedAt *time.Time

	ratingSum   float64
	ratingCount int

	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier. New couriers start unavailable and
// without presence; they become dispatchable after going available and
// reporting a position.
func NewCourier(id kernel.UUID, name string, phone string, vehicle VehicleType) (*Courier, error) {
	courier := &Courier{
		phone: phone,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier reconstructs a Courier from persistent storage, including
// availability, presence and the rating accumulator.
func RestoreCourier(
	id kernel.UUID,
	name string,
	phone string,
	vehicle VehicleType,
	available bool,
	location *kernel.Coordinate,
	reportedAt *time.Time,
	ratingSum float64,
	ratingCount int,
) (*Courier, error) {
	courier := &Courier{
		phone:     phone,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	if (location == nil) != (reportedAt == nil) {
		return nil, errs.NewValueIsRequiredError("location and reportedAt must be set together")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		l := *location
		t := *reportedAt
		courier.location = &l
		courier.reportedAt = &t
	}

	if ratingCount < 0 || ratingSum < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("rating accumulator is invalid",
			errors.New("rating sum and count must be non-negative"))
	}
	courier.ratingSum = ratingSum
	courier.ratingCount = ratingCount

	return courier, nil
}

// Validate checks if the Courier was properly constructed through a factory
// method. The zero value is invalid.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's contact phone, which may be empty.
func (c *Courier) Phone() string {
	return c.phone
}

// Vehicle returns the courier's vehicle type.
func (c *Courier) Vehicle() VehicleType {
	return c.vehicle
}

// SpeedKmh returns the assumed travel speed of the courier's vehicle.
func (c *Courier) SpeedKmh() float64 {
	return c.vehicle.SpeedKmh()
}

// IsAvailable reports whether the courier is accepting work.
func (c *Courier) IsAvailable() bool {
	return c.available
}

// SetAvailable flips the availability flag.
func (c *Courier) SetAvailable(available bool) {
	c.available = available
}

// HasPresence reports whether the courier has ever reported a position.
func (c *Courier) HasPresence() bool {
	return c.location != nil
}

// Location returns the last reported position, or an ErrNoPresence error
// when the courier has not reported one yet.
func (c *Courier) Location() (kernel.Coordinate, error) {
	if c.location == nil {
		return kernel.Coordinate{}, ErrNoPresence
	}
	return *c.location, nil
}

// LocationReportedAt returns when the last position was reported, or nil.
func (c *Courier) LocationReportedAt() *time.Time {
	if c.reportedAt == nil {
		return nil
	}
	t := *c.reportedAt
	return &t
}

// ReportLocation overwrites the courier's presence with a new position
// report.
func (c *Courier) ReportLocation(location kernel.Coordinate, reportedAt time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if reportedAt.IsZero() {
		return errs.NewValueIsRequiredError("reportedAt")
	}

	l := location
	t := reportedAt
	c.location = &l
	c.reportedAt = &t
	return nil
}

// AverageRating returns the rolling rating average, or 0 when the courier
// has not been rated yet.
func (c *Courier) AverageRating() float64 {
	if c.ratingCount == 0 {
		return 0
	}
	return c.ratingSum / float64(c.ratingCount)
}

// RatingSum returns the rating accumulator sum for persistence.
func (c *Courier) RatingSum() float64 {
	return c.ratingSum
}

// RatingCount returns the number of ratings received.
func (c *Courier) RatingCount() int {
	return c.ratingCount
}

// ApplyRating folds a new customer score into the rolling average.
func (c *Courier) ApplyRating(score int) error {
	if score < 1 || score > 5 {
		return errs.NewValueIsOutOfRangeError("score", score, 1, 5)
	}

	c.ratingSum += float64(score)
	c.ratingCount++
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setVehicle(vehicle VehicleType) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	c.vehicle = vehicle
	return nil
}
