package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrTrackingEventIsNotConstructed is returned when validating a
// TrackingEvent that was not created via NewTrackingEvent.
var ErrTrackingEventIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking event must be created via NewTrackingEvent constructor")

// TrackingEvent is one entry of an order's append-only tracking history:
// the status at the time of the event, when it happened, and optionally
// where and why.
type TrackingEvent struct {
	status    Status
	timestamp time.Time
	location  *kernel.Coordinate
	note      string
	guard     guard.ConstructorGuard
}

// NewTrackingEvent creates a TrackingEvent. The location is optional;
// when present it must be a valid coordinate.
func NewTrackingEvent(status Status, timestamp time.Time, location *kernel.Coordinate, note string) (TrackingEvent, error) {
	if err := status.Validate(); err != nil {
		return TrackingEvent{}, err
	}
	if timestamp.IsZero() {
		return TrackingEvent{}, errs.NewValueIsRequiredError("timestamp")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return TrackingEvent{}, err
		}
		l := *location
		location = &l
	}

	return TrackingEvent{
		status:    status,
		timestamp: timestamp,
		location:  location,
		note:      note,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the event was created through NewTrackingEvent.
func (e TrackingEvent) Validate() error {
	return e.guard.Validate(ErrTrackingEventIsNotConstructed)
}

// Status returns the order status recorded by the event.
func (e TrackingEvent) Status() Status {
	return e.status
}

// Timestamp returns when the event happened.
func (e TrackingEvent) Timestamp() time.Time {
	return e.timestamp
}

// Location returns a copy of the recorded position, or nil when the event
// carries none.
func (e TrackingEvent) Location() *kernel.Coordinate {
	if e.location == nil {
		return nil
	}
	l := *e.location
	return &l
}

// Note returns the free-form annotation, which may be empty.
func (e TrackingEvent) Note() string {
	return e.note
}
