package commands

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// Broadcast payload assembly shared by command handlers. Publishing is
// best-effort, so these run after the transaction commits.

func courierInfo(c *courier.Courier) *ports.CourierInfo {
	if c == nil {
		return nil
	}
	return &ports.CourierInfo{
		Name:    c.Name(),
		Vehicle: c.Vehicle().String(),
	}
}

func locationPayload(c *kernel.Coordinate) *ports.LocationPayload {
	if c == nil {
		return nil
	}
	return &ports.LocationPayload{
		Lat: c.Latitude(),
		Lng: c.Longitude(),
	}
}

func trackingEventPayload(event order.TrackingEvent) ports.TrackingEventPayload {
	return ports.TrackingEventPayload{
		Status:    event.Status().String(),
		Timestamp: event.Timestamp(),
		Location:  locationPayload(event.Location()),
		Note:      event.Note(),
	}
}

func publishTrackingUpdated(publisher ports.TrackingPublisher, o *order.Order, c *courier.Courier) {
	event, ok := o.LastTrackingEvent()
	if !ok {
		return
	}

	publisher.Publish(o.ID(), ports.EventTrackingUpdated, ports.TrackingUpdated{
		OrderNumber: o.Number(),
		Update:      trackingEventPayload(event),
		Courier:     courierInfo(c),
	})
}

func publishLocationUpdated(publisher ports.TrackingPublisher, o *order.Order, c *courier.Courier, position kernel.Coordinate, at time.Time) {
	publisher.Publish(o.ID(), ports.EventLocationUpdated, ports.LocationUpdated{
		OrderNumber: o.Number(),
		Location:    *locationPayload(&position),
		Timestamp:   at,
		Courier:     courierInfo(c),
	})
}

func publishProofUploaded(publisher ports.TrackingPublisher, o *order.Order, c *courier.Courier, image string) {
	publisher.Publish(o.ID(), ports.EventProofUploaded, ports.ProofUploaded{
		OrderNumber: o.Number(),
		Image:       image,
		Courier:     courierInfo(c),
	})
}
