package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type waypointRequest struct {
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	ContactName  string  `json:"contactName"`
	ContactPhone string  `json:"contactPhone,omitempty"`
}

type packageRequest struct {
	WeightKg      float64 `json:"weightKg"`
	Category      string  `json:"category"`
	Fragile       bool    `json:"fragile"`
	DeclaredValue float64 `json:"declaredValue"`
}

type createOrderRequest struct {
	Pickup        waypointRequest `json:"pickup"`
	Delivery      waypointRequest `json:"delivery"`
	Package       packageRequest  `json:"package"`
	Priority      string          `json:"priority"`
	PaymentMethod string          `json:"paymentMethod"`
}

type transitionOrderRequest struct {
	Status string   `json:"status"`
	Note   string   `json:"note,omitempty"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
}

type cancelOrderRequest struct {
	Note string `json:"note,omitempty"`
}

type rateOrderRequest struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback,omitempty"`
}

type attachProofRequest struct {
	Image string `json:"image"`
}

type reportLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type createCourierRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

type waypointResponse struct {
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	ContactName  string  `json:"contactName"`
	ContactPhone string  `json:"contactPhone,omitempty"`
}

type packageResponse struct {
	WeightKg      float64 `json:"weightKg"`
	Category      string  `json:"category"`
	Fragile       bool    `json:"fragile"`
	DeclaredValue float64 `json:"declaredValue"`
}

type pricingResponse struct {
	BaseFare     float64 `json:"baseFare"`
	DistanceFare float64 `json:"distanceFare"`
	PriorityFare float64 `json:"priorityFare"`
	Total        float64 `json:"total"`
}

type orderResponse struct {
	ID                  string           `json:"id"`
	Number              string           `json:"number"`
	Status              string           `json:"status"`
	Priority            string           `json:"priority"`
	CustomerID          string           `json:"customerId"`
	CourierID           *string          `json:"courierId,omitempty"`
	Pickup              waypointResponse `json:"pickup"`
	Delivery            waypointResponse `json:"delivery"`
	Package             packageResponse  `json:"package"`
	Pricing             pricingResponse  `json:"pricing"`
	EstimatedPickupAt   *time.Time       `json:"estimatedPickupAt,omitempty"`
	EstimatedDeliveryAt *time.Time       `json:"estimatedDeliveryAt,omitempty"`
	ActualPickupAt      *time.Time       `json:"actualPickupAt,omitempty"`
	ActualDeliveredAt   *time.Time       `json:"actualDeliveredAt,omitempty"`
	PaymentMethod       string           `json:"paymentMethod"`
	PaymentStatus       string           `json:"paymentStatus"`
	ProofImages         []string         `json:"proofImages"`
}

type courierResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Vehicle       string     `json:"vehicle"`
	Available     bool       `json:"available"`
	AverageRating float64    `json:"averageRating"`
	Lat           *float64   `json:"lat,omitempty"`
	Lng           *float64   `json:"lng,omitempty"`
	ReportedAt    *time.Time `json:"reportedAt,omitempty"`
}

type trackingCourierResponse struct {
	Name    string   `json:"name"`
	Vehicle string   `json:"vehicle"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

type trackingEventResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Note      string    `json:"note,omitempty"`
}

type trackingResponse struct {
	OrderNumber         string                   `json:"orderNumber"`
	Status              string                   `json:"status"`
	Priority            string                   `json:"priority"`
	Pickup              waypointResponse         `json:"pickup"`
	Delivery            waypointResponse         `json:"delivery"`
	EstimatedPickupAt   *time.Time               `json:"estimatedPickupAt,omitempty"`
	EstimatedDeliveryAt *time.Time               `json:"estimatedDeliveryAt,omitempty"`
	ActualPickupAt      *time.Time               `json:"actualPickupAt,omitempty"`
	ActualDeliveredAt   *time.Time               `json:"actualDeliveredAt,omitempty"`
	Events              []trackingEventResponse  `json:"events"`
	ProofImages         []string                 `json:"proofImages"`
	Courier             *trackingCourierResponse `json:"courier,omitempty"`
}

type availableOrderResponse struct {
	ID              string    `json:"id"`
	Number          string    `json:"number"`
	PickupAddress   string    `json:"pickupAddress"`
	PickupLat       float64   `json:"pickupLat"`
	PickupLng       float64   `json:"pickupLng"`
	DeliveryAddress string    `json:"deliveryAddress"`
	DeliveryLat     float64   `json:"deliveryLat"`
	DeliveryLng     float64   `json:"deliveryLng"`
	Priority        string    `json:"priority"`
	WeightKg        float64   `json:"weightKg"`
	Category        string    `json:"category"`
	Fragile         bool      `json:"fragile"`
	TotalAmount     float64   `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

type nearbyCourierResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Vehicle       string    `json:"vehicle"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	DistanceKm    float64   `json:"distanceKm"`
	AverageRating float64   `json:"averageRating"`
	ReportedAt    time.Time `json:"reportedAt"`
}

type etaResponse struct {
	OrderNumber        string  `json:"orderNumber"`
	Status             string  `json:"status"`
	DistanceKm         float64 `json:"distanceKm"`
	SpeedKmh           float64 `json:"speedKmh"`
	EtaMinutes         int     `json:"etaMinutes"`
	PickupEtaMinutes   int     `json:"pickupEtaMinutes,omitempty"`
	DeliveryEtaMinutes int     `json:"deliveryEtaMinutes"`
}

func toWaypointResponse(wp order.Waypoint) waypointResponse {
	return waypointResponse{
		Address:      wp.Address(),
		Lat:          wp.Coordinate().Latitude(),
		Lng:          wp.Coordinate().Longitude(),
		ContactName:  wp.ContactName(),
		ContactPhone: wp.ContactPhone(),
	}
}

func toOrderResponse(o *order.Order) orderResponse {
	response := orderResponse{
		ID:                  o.ID().String(),
		Number:              o.Number(),
		Status:              o.Status().String(),
		Priority:            o.Priority().String(),
		CustomerID:          o.CustomerID().String(),
		Pickup:              toWaypointResponse(o.Pickup()),
		Delivery:            toWaypointResponse(o.Delivery()),
		Package: packageResponse{
			WeightKg:      o.Package().WeightKg(),
			Category:      o.Package().Category(),
			Fragile:       o.Package().Fragile(),
			DeclaredValue: o.Package().DeclaredValue(),
		},
		Pricing: pricingResponse{
			BaseFare:     o.Pricing().BaseFare(),
			DistanceFare: o.Pricing().DistanceFare(),
			PriorityFare: o.Pricing().PriorityFare(),
			Total:        o.Pricing().Total(),
		},
		EstimatedPickupAt:   o.EstimatedPickupAt(),
		EstimatedDeliveryAt: o.EstimatedDeliveryAt(),
		ActualPickupAt:      o.ActualPickupAt(),
		ActualDeliveredAt:   o.ActualDeliveredAt(),
		PaymentMethod:       o.PaymentMethod(),
		PaymentStatus:       o.PaymentStatus(),
		ProofImages:         o.ProofImages(),
	}

	if courierID := o.Courier(); courierID != nil {
		id := courierID.String()
		response.CourierID = &id
	}

	return response
}

func toCourierResponse(c *courier.Courier) courierResponse {
	response := courierResponse{
		ID:            c.ID().String(),
		Name:          c.Name(),
		Phone:         c.Phone(),
		Vehicle:       c.Vehicle().String(),
		Available:     c.IsAvailable(),
		AverageRating: c.AverageRating(),
		ReportedAt:    c.LocationReportedAt(),
	}

	if c.HasPresence() {
		if position, err := c.Location(); err == nil {
			lat, lng := position.Latitude(), position.Longitude()
			response.Lat = &lat
			response.Lng = &lng
		}
	}

	return response
}

func toTrackingResponse(snapshot *queries.GetTrackingQueryResponse) trackingResponse {
	response := trackingResponse{
		OrderNumber: snapshot.OrderNumber,
		Status:      snapshot.Status,
		Priority:    snapshot.Priority,
		Pickup: waypointResponse{
			Address:     snapshot.Pickup.Address,
			Lat:         snapshot.Pickup.Lat,
			Lng:         snapshot.Pickup.Lng,
			ContactName: snapshot.Pickup.ContactName,
		},
		Delivery: waypointResponse{
			Address:     snapshot.Delivery.Address,
			Lat:         snapshot.Delivery.Lat,
			Lng:         snapshot.Delivery.Lng,
			ContactName: snapshot.Delivery.ContactName,
		},
		EstimatedPickupAt:   snapshot.EstimatedPickupAt,
		EstimatedDeliveryAt: snapshot.EstimatedDeliveryAt,
		ActualPickupAt:      snapshot.ActualPickupAt,
		ActualDeliveredAt:   snapshot.ActualDeliveredAt,
		Events:              make([]trackingEventResponse, len(snapshot.Events)),
		ProofImages:         snapshot.ProofImages,
	}

	for i, event := range snapshot.Events {
		response.Events[i] = trackingEventResponse{
			Status:    event.Status,
			Timestamp: event.Timestamp,
			Lat:       event.Lat,
			Lng:       event.Lng,
			Note:      event.Note,
		}
	}

	if snapshot.Courier != nil {
		response.Courier = &trackingCourierResponse{
			Name:    snapshot.Courier.Name,
			Vehicle: snapshot.Courier.Vehicle,
			Lat:     snapshot.Courier.Lat,
			Lng:     snapshot.Courier.Lng,
		}
	}

	return response
}
