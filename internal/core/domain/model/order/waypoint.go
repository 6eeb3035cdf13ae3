package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrWaypointIsNotConstructed is returned when validating a Waypoint that
// was not created via NewWaypoint.
var ErrWaypointIsNotConstructed = errs.NewValueIsRequiredError(
	"waypoint must be created via NewWaypoint constructor")

// Waypoint is one endpoint of a delivery: a street address, its geographic
// position and the contact to reach there. Every order carries exactly two,
// pickup and delivery.
type Waypoint struct {
	address      string
	coordinate   kernel.Coordinate
	contactName  string
	contactPhone string
	guard        guard.ConstructorGuard
}

// NewWaypoint creates a Waypoint. Address, coordinate and contact name are
// required; the contact phone is optional.
func NewWaypoint(address string, coordinate kernel.Coordinate, contactName string, contactPhone string) (Waypoint, error) {
	waypoint := Waypoint{
		contactPhone: contactPhone,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		waypoint.setAddress(address),
		waypoint.setCoordinate(coordinate),
		waypoint.setContactName(contactName),
	); err != nil {
		return Waypoint{}, err
	}

	return waypoint, nil
}

// Validate checks that the Waypoint was created through NewWaypoint.
func (w Waypoint) Validate() error {
	return w.guard.Validate(ErrWaypointIsNotConstructed)
}

// Address returns the street address.
func (w Waypoint) Address() string {
	return w.address
}

// Coordinate returns the geographic position.
func (w Waypoint) Coordinate() kernel.Coordinate {
	return w.coordinate
}

// ContactName returns the name of the contact at the waypoint.
func (w Waypoint) ContactName() string {
	return w.contactName
}

// ContactPhone returns the contact phone, which may be empty.
func (w Waypoint) ContactPhone() string {
	return w.contactPhone
}

func (w *Waypoint) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	w.address = address
	return nil
}

func (w *Waypoint) setCoordinate(coordinate kernel.Coordinate) error {
	if err := coordinate.Validate(); err != nil {
		return err
	}
	w.coordinate = coordinate
	return nil
}

func (w *Waypoint) setContactName(contactName string) error {
	if contactName == "" {
		return errs.NewValueIsRequiredError("contactName")
	}
	w.contactName = contactName
	return nil
}
