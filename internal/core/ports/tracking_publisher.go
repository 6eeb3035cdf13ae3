package ports

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// EventType labels a tracking broadcast on the wire.
type EventType string

const (
	// EventLocationUpdated announces a courier position report.
	EventLocationUpdated EventType = "location_updated"
	// EventTrackingUpdated announces a lifecycle change with its tracking
	// event.
	EventTrackingUpdated EventType = "tracking_updated"
	// EventProofUploaded announces an attached proof-of-delivery reference.
	EventProofUploaded EventType = "proof_uploaded"
)

// CourierInfo is the public subset of courier fields carried in broadcasts.
type CourierInfo struct {
	Name    string `json:"name"`
	Vehicle string `json:"vehicle"`
}

// LocationPayload is a coordinate on the wire.
type LocationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TrackingEventPayload is one tracking history entry on the wire.
type TrackingEventPayload struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Location  *LocationPayload `json:"location,omitempty"`
	Note      string           `json:"note,omitempty"`
}

// LocationUpdated is the payload of EventLocationUpdated.
type LocationUpdated struct {
	OrderNumber string          `json:"orderNumber"`
	Location    LocationPayload `json:"location"`
	Timestamp   time.Time       `json:"timestamp"`
	Courier     *CourierInfo    `json:"courier,omitempty"`
}

// TrackingUpdated is the payload of EventTrackingUpdated.
type TrackingUpdated struct {
	OrderNumber string               `json:"orderNumber"`
	Update      TrackingEventPayload `json:"update"`
	Courier     *CourierInfo         `json:"courier,omitempty"`
}

// ProofUploaded is the payload of EventProofUploaded.
type ProofUploaded struct {
	OrderNumber string       `json:"orderNumber"`
	Image       string       `json:"image"`
	Courier     *CourierInfo `json:"courier,omitempty"`
}

// TrackingPublisher pushes tracking broadcasts to the subscribers of an
// order's channel. Publishing is best-effort and non-blocking: commands
// must never stall or fail because a tracking client is slow, and a
// subscriber that misses events recovers from the persisted tracking
// snapshot.
type TrackingPublisher interface {
	Publish(orderID kernel.UUID, eventType EventType, payload any)
}
