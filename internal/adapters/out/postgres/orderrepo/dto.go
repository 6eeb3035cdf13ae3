// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Waypoints, package and pricing are flattened into prefixed column groups so
// read-side queries can select them without JSON extraction; the append-only
// tracking history, ratings and proof references live in JSONB columns.
//
// The version column backs the optimistic concurrency check: updates are
// conditional on the version the aggregate was loaded with.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number     string     `gorm:"type:varchar(16);not null;uniqueIndex"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CourierID  *uuid.UUID `gorm:"type:uuid;index"`

	Pickup   WaypointDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery WaypointDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	Package  PackageDTO  `gorm:"embedded;embeddedPrefix:package_"`
	Pricing  PricingDTO  `gorm:"embedded;embeddedPrefix:pricing_"`

	Priority string `gorm:"type:varchar(16);not null"`
	Status   string `gorm:"type:varchar(16);not null;index"`

	EstimatedPickupAt   *time.Time
	EstimatedDeliveryAt *time.Time
	ActualPickupAt      *time.Time
	ActualDeliveredAt   *time.Time

	Tracking       TrackingDoc  `gorm:"type:jsonb"`
	CustomerRating RatingColumn `gorm:"type:jsonb"`
	CourierRating  RatingColumn `gorm:"type:jsonb"`

	PaymentMethod string     `gorm:"type:varchar(32);not null"`
	PaymentStatus string     `gorm:"type:varchar(32);not null"`
	ProofImages   StringsDoc `gorm:"type:jsonb"`

	Version   int `gorm:"not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// WaypointDTO represents an embedded pickup or delivery stop within the order table.
type WaypointDTO struct {
	Address      string  `gorm:"type:varchar(255);not null"`
	Lat          float64 `gorm:"not null"`
	Lng          float64 `gorm:"not null"`
	ContactName  string  `gorm:"type:varchar(255);not null"`
	ContactPhone string  `gorm:"type:varchar(32)"`
}

// PackageDTO represents the embedded package description within the order table.
type PackageDTO struct {
	WeightKg      float64 `gorm:"not null"`
	Category      string  `gorm:"type:varchar(64);not null"`
	Fragile       bool    `gorm:"not null"`
	DeclaredValue float64 `gorm:"not null"`
}

// PricingDTO represents the embedded fare breakdown within the order table.
// Amounts are stored exactly as computed at creation time.
type PricingDTO struct {
	BaseFare     float64 `gorm:"not null"`
	DistanceFare float64 `gorm:"not null"`
	PriorityFare float64 `gorm:"not null"`
	Total        float64 `gorm:"not null"`
}

// TrackingEventDoc is one tracking history entry in the JSONB document.
type TrackingEventDoc struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// TrackingDoc stores the order's tracking history as a JSONB array.
type TrackingDoc []TrackingEventDoc

// Value implements driver.Valuer for JSONB storage.
func (d TrackingDoc) Value() (driver.Value, error) {
	if d == nil {
		d = TrackingDoc{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (d *TrackingDoc) Scan(value any) error {
	return scanJSON(value, d)
}

// GormDataType tells GORM to create the column as jsonb.
func (TrackingDoc) GormDataType() string {
	return "jsonb"
}

// RatingDoc is a party's rating in the JSONB document.
type RatingDoc struct {
	Score    int       `json:"score"`
	Feedback string    `json:"feedback,omitempty"`
	RatedAt  time.Time `json:"ratedAt"`
}

// RatingColumn is a nullable JSONB column holding an optional rating.
type RatingColumn struct {
	Doc *RatingDoc
}

// Value implements driver.Valuer; an absent rating is stored as NULL.
func (c RatingColumn) Value() (driver.Value, error) {
	if c.Doc == nil {
		return nil, nil
	}
	return json.Marshal(c.Doc)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (c *RatingColumn) Scan(value any) error {
	if value == nil {
		c.Doc = nil
		return nil
	}
	c.Doc = &RatingDoc{}
	return scanJSON(value, c.Doc)
}

// GormDataType tells GORM to create the column as jsonb.
func (RatingColumn) GormDataType() string {
	return "jsonb"
}

// StringsDoc stores a string list as a JSONB array.
type StringsDoc []string

// Value implements driver.Valuer for JSONB storage.
func (d StringsDoc) Value() (driver.Value, error) {
	if d == nil {
		d = StringsDoc{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (d *StringsDoc) Scan(value any) error {
	return scanJSON(value, d)
}

// GormDataType tells GORM to create the column as jsonb.
func (StringsDoc) GormDataType() string {
	return "jsonb"
}

func scanJSON(value any, target any) error {
	if value == nil {
		return nil
	}
	switch raw := value.(type) {
	case []byte:
		return json.Unmarshal(raw, target)
	case string:
		return json.Unmarshal([]byte(raw), target)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	tracking := make(TrackingDoc, 0, len(aggregate.Tracking()))
	for _, event := range aggregate.Tracking() {
		tracking = append(tracking, trackingEventFromDomain(event))
	}

	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		Number:     aggregate.Number(),
		CustomerID: aggregate.CustomerID().Bytes(),
		CourierID:  courierID,
		Pickup:     waypointFromDomain(aggregate.Pickup()),
		Delivery:   waypointFromDomain(aggregate.Delivery()),
		Package: PackageDTO{
			WeightKg:      aggregate.Package().WeightKg(),
			Category:      aggregate.Package().Category(),
			Fragile:       aggregate.Package().Fragile(),
			DeclaredValue: aggregate.Package().DeclaredValue(),
		},
		Pricing: PricingDTO{
			BaseFare:     aggregate.Pricing().BaseFare(),
			DistanceFare: aggregate.Pricing().DistanceFare(),
			PriorityFare: aggregate.Pricing().PriorityFare(),
			Total:        aggregate.Pricing().Total(),
		},
		Priority:            aggregate.Priority().String(),
		Status:              aggregate.Status().String(),
		EstimatedPickupAt:   aggregate.EstimatedPickupAt(),
		EstimatedDeliveryAt: aggregate.EstimatedDeliveryAt(),
		ActualPickupAt:      aggregate.ActualPickupAt(),
		ActualDeliveredAt:   aggregate.ActualDeliveredAt(),
		Tracking:            tracking,
		CustomerRating:      RatingColumn{Doc: ratingFromDomain(aggregate.CustomerRating())},
		CourierRating:       RatingColumn{Doc: ratingFromDomain(aggregate.CourierRating())},
		PaymentMethod:       aggregate.PaymentMethod(),
		PaymentStatus:       aggregate.PaymentStatus(),
		ProofImages:         StringsDoc(aggregate.ProofImages()),
		Version:             aggregate.Version(),
	}
}

func waypointFromDomain(waypoint order.Waypoint) WaypointDTO {
	return WaypointDTO{
		Address:      waypoint.Address(),
		Lat:          waypoint.Coordinate().Latitude(),
		Lng:          waypoint.Coordinate().Longitude(),
		ContactName:  waypoint.ContactName(),
		ContactPhone: waypoint.ContactPhone(),
	}
}

func trackingEventFromDomain(event order.TrackingEvent) TrackingEventDoc {
	doc := TrackingEventDoc{
		Status:    event.Status().String(),
		Timestamp: event.Timestamp(),
		Note:      event.Note(),
	}
	if location := event.Location(); location != nil {
		lat, lng := location.Latitude(), location.Longitude()
		doc.Lat = &lat
		doc.Lng = &lng
	}
	return doc
}

func ratingFromDomain(rating *order.Rating) *RatingDoc {
	if rating == nil {
		return nil
	}
	return &RatingDoc{
		Score:    rating.Score(),
		Feedback: rating.Feedback(),
		RatedAt:  rating.RatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including tracking history and ratings using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	pickup, err := waypointToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}

	delivery, err := waypointToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	pack, err := order.NewPackage(
		dto.Package.WeightKg,
		dto.Package.Category,
		dto.Package.Fragile,
		dto.Package.DeclaredValue,
	)
	if err != nil {
		return nil, err
	}

	priority, err := order.ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	tracking := make([]order.TrackingEvent, 0, len(dto.Tracking))
	for _, doc := range dto.Tracking {
		event, eventErr := trackingEventToDomain(doc)
		if eventErr != nil {
			return nil, eventErr
		}
		tracking = append(tracking, event)
	}

	customerRating, err := ratingToDomain(dto.CustomerRating.Doc)
	if err != nil {
		return nil, err
	}

	courierRating, err := ratingToDomain(dto.CourierRating.Doc)
	if err != nil {
		return nil, err
	}

	pricing := order.RestorePricing(
		dto.Pricing.BaseFare,
		dto.Pricing.DistanceFare,
		dto.Pricing.PriorityFare,
		dto.Pricing.Total,
	)

	return order.RestoreOrder(
		id,
		dto.Number,
		customerID,
		courierID,
		pickup,
		delivery,
		pack,
		priority,
		pricing,
		status,
		dto.EstimatedPickupAt,
		dto.EstimatedDeliveryAt,
		dto.ActualPickupAt,
		dto.ActualDeliveredAt,
		tracking,
		customerRating,
		courierRating,
		dto.PaymentMethod,
		dto.PaymentStatus,
		dto.ProofImages,
		dto.Version,
	)
}

func waypointToDomain(dto WaypointDTO) (order.Waypoint, error) {
	coordinate, err := kernel.NewCoordinate(dto.Lat, dto.Lng)
	if err != nil {
		return order.Waypoint{}, err
	}
	return order.NewWaypoint(dto.Address, coordinate, dto.ContactName, dto.ContactPhone)
}

func trackingEventToDomain(doc TrackingEventDoc) (order.TrackingEvent, error) {
	status, err := order.ParseStatus(doc.Status)
	if err != nil {
		return order.TrackingEvent{}, err
	}

	var location *kernel.Coordinate
	if doc.Lat != nil && doc.Lng != nil {
		coordinate, coordErr := kernel.NewCoordinate(*doc.Lat, *doc.Lng)
		if coordErr != nil {
			return order.TrackingEvent{}, coordErr
		}
		location = &coordinate
	}

	return order.NewTrackingEvent(status, doc.Timestamp, location, doc.Note)
}

func ratingToDomain(doc *RatingDoc) (*order.Rating, error) {
	if doc == nil {
		return nil, nil
	}
	rating, err := order.NewRating(doc.Score, doc.Feedback, doc.RatedAt)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}
