// Package http exposes the dispatch engine over a REST API.
// Handlers translate requests into commands and queries, and translate
// domain failures into HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Actor identity headers. Authentication lives at the gateway; the engine
// trusts these headers for authorization decisions.
const (
	headerActorID   = "X-Actor-ID"
	headerActorRole = "X-Actor-Role"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	claimOrderHandler      commands.ClaimOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	rateOrderHandler       commands.RateOrderCommandHandler
	attachProofHandler     commands.AttachProofCommandHandler
	reportLocationHandler  commands.ReportLocationCommandHandler
	createCourierHandler   commands.CreateCourierCommandHandler
	setAvailabilityHandler commands.SetCourierAvailabilityCommandHandler

	// Query handlers
	getTrackingHandler        queries.GetTrackingQueryHandler
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler
	findNearbyCouriersHandler queries.FindNearbyCouriersQueryHandler
	estimateETAHandler        queries.EstimateETAQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	rateOrderHandler commands.RateOrderCommandHandler,
	attachProofHandler commands.AttachProofCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	createCourierHandler commands.CreateCourierCommandHandler,
	setAvailabilityHandler commands.SetCourierAvailabilityCommandHandler,
	getTrackingHandler queries.GetTrackingQueryHandler,
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler,
	findNearbyCouriersHandler queries.FindNearbyCouriersQueryHandler,
	estimateETAHandler queries.EstimateETAQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		claimOrderHandler:         claimOrderHandler,
		transitionOrderHandler:    transitionOrderHandler,
		rateOrderHandler:          rateOrderHandler,
		attachProofHandler:        attachProofHandler,
		reportLocationHandler:     reportLocationHandler,
		createCourierHandler:      createCourierHandler,
		setAvailabilityHandler:    setAvailabilityHandler,
		getTrackingHandler:        getTrackingHandler,
		getAvailableOrdersHandler: getAvailableOrdersHandler,
		findNearbyCouriersHandler: findNearbyCouriersHandler,
		estimateETAHandler:        estimateETAHandler,
	}
}

// RegisterRoutes attaches all REST endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/available", s.GetAvailableOrders)
	api.PATCH("/orders/:id/assign", s.ClaimOrder)
	api.PATCH("/orders/:id/status", s.TransitionOrder)
	api.PATCH("/orders/:id/cancel", s.CancelOrder)
	api.PATCH("/orders/:id/rate", s.RateOrder)
	api.POST("/orders/:id/proof", s.AttachProof)

	api.GET("/tracking/:orderNumber", s.GetTracking)
	api.PATCH("/tracking/:orderNumber/location", s.ReportLocation)
	api.GET("/tracking/:orderNumber/eta", s.EstimateETA)

	api.POST("/couriers", s.CreateCourier)
	api.PATCH("/couriers/:id/availability", s.SetCourierAvailability)
	api.GET("/couriers/nearby", s.FindNearbyCouriers)

	e.GET("/health", s.Health)
}

// CreateOrder handles POST /api/v1/orders - registers a new delivery order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	customerID, err := actorID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, "Missing or invalid "+headerActorID+" header")
	}

	var request createOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := buildCreateOrderCommand(customerID, request)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(created))
}

// GetAvailableOrders handles GET /api/v1/orders/available - lists the
// pending backlog for couriers browsing claimable work.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	backlog, err := s.getAvailableOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetAvailableOrdersQuery())
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]availableOrderResponse, len(backlog))
	for i, pending := range backlog {
		response[i] = availableOrderResponse{
			ID:              pending.ID.String(),
			Number:          pending.Number,
			PickupAddress:   pending.PickupAddress,
			PickupLat:       pending.PickupLat,
			PickupLng:       pending.PickupLng,
			DeliveryAddress: pending.DeliveryAddress,
			DeliveryLat:     pending.DeliveryLat,
			DeliveryLng:     pending.DeliveryLng,
			Priority:        pending.Priority,
			WeightKg:        pending.WeightKg,
			Category:        pending.Category,
			Fragile:         pending.Fragile,
			TotalAmount:     pending.TotalAmount,
			CreatedAt:       pending.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ClaimOrder handles PATCH /api/v1/orders/:id/assign - a courier claims a
// pending order.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	courierID, err := actorID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, "Missing or invalid "+headerActorID+" header")
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, courierID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid claim data: "+err.Error())
	}

	claimed, err := s.claimOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(claimed))
}

// TransitionOrder handles PATCH /api/v1/orders/:id/status - moves an order
// through its lifecycle, including cancellation and delivery failure.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var request transitionOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	target, err := order.ParseStatus(request.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Unknown status: "+request.Status)
	}

	var location *kernel.Coordinate
	if request.Lat != nil && request.Lng != nil {
		point, coordErr := kernel.NewCoordinate(*request.Lat, *request.Lng)
		if coordErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid coordinates: "+coordErr.Error())
		}
		location = &point
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actor, target, request.Note, location)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid transition data: "+err.Error())
	}

	updated, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

// CancelOrder handles PATCH /api/v1/orders/:id/cancel - shorthand for a
// transition to the cancelled status.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var request cancelOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actor, order.Cancelled, request.Note, nil)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid cancellation data: "+err.Error())
	}

	cancelled, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(cancelled))
}

// RateOrder handles PATCH /api/v1/orders/:id/rate - either party rates a
// delivered order.
func (s *Server) RateOrder(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var request rateOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewRateOrderCommand(orderID, actor, request.Score, request.Feedback)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid rating data: "+err.Error())
	}

	rated, err := s.rateOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(rated))
}

// AttachProof handles POST /api/v1/orders/:id/proof - the assigned courier
// attaches a proof-of-delivery image reference.
func (s *Server) AttachProof(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var request attachProofRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewAttachProofCommand(orderID, actor, request.Image)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid proof data: "+err.Error())
	}

	updated, err := s.attachProofHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

// GetTracking handles GET /api/v1/tracking/:orderNumber - the public
// tracking snapshot of an order.
func (s *Server) GetTracking(ctx echo.Context) error {
	query, err := queries.NewGetTrackingQuery(ctx.Param("orderNumber"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order number")
	}

	snapshot, err := s.getTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toTrackingResponse(snapshot))
}

// ReportLocation handles PATCH /api/v1/tracking/:orderNumber/location - the
// assigned courier reports a position fix.
func (s *Server) ReportLocation(ctx echo.Context) error {
	courierID, err := actorID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, "Missing or invalid "+headerActorID+" header")
	}

	var request reportLocationRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	position, err := kernel.NewCoordinate(request.Lat, request.Lng)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid coordinates: "+err.Error())
	}

	cmd, err := commands.NewReportLocationCommand(ctx.Param("orderNumber"), courierID, position)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid location report: "+err.Error())
	}

	updated, err := s.reportLocationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

// EstimateETA handles GET /api/v1/tracking/:orderNumber/eta - straight-line
// arrival estimate for an actively assigned order.
func (s *Server) EstimateETA(ctx echo.Context) error {
	query, err := queries.NewEstimateETAQuery(ctx.Param("orderNumber"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order number")
	}

	estimate, err := s.estimateETAHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, etaResponse{
		OrderNumber:        estimate.OrderNumber,
		Status:             estimate.Status,
		DistanceKm:         estimate.DistanceKm,
		SpeedKmh:           estimate.SpeedKmh,
		EtaMinutes:         estimate.EtaMinutes,
		PickupEtaMinutes:   estimate.PickupEtaMinutes,
		DeliveryEtaMinutes: estimate.DeliveryEtaMinutes,
	})
}

// CreateCourier handles POST /api/v1/couriers - registers a new courier.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var request createCourierRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	vehicle, err := courier.ParseVehicleType(request.Vehicle)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Unknown vehicle type: "+request.Vehicle)
	}

	cmd, err := commands.NewCreateCourierCommand(request.Name, request.Phone, vehicle)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid courier data: "+err.Error())
	}

	created, err := s.createCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toCourierResponse(created))
}

// SetCourierAvailability handles PATCH /api/v1/couriers/:id/availability -
// a courier goes on or off duty.
func (s *Server) SetCourierAvailability(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid courier id")
	}

	var request setAvailabilityRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierID, request.Available)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid availability data: "+err.Error())
	}

	updated, err := s.setAvailabilityHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toCourierResponse(updated))
}

// FindNearbyCouriers handles GET /api/v1/couriers/nearby - available
// couriers around a point, closest first.
func (s *Server) FindNearbyCouriers(ctx echo.Context) error {
	lat, err := strconv.ParseFloat(ctx.QueryParam("lat"), 64)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid lat parameter")
	}
	lng, err := strconv.ParseFloat(ctx.QueryParam("lng"), 64)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid lng parameter")
	}

	radiusKm := 0.0
	if raw := ctx.QueryParam("radius"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid radius parameter")
		}
	}

	origin, err := kernel.NewCoordinate(lat, lng)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid coordinates: "+err.Error())
	}

	query, err := queries.NewFindNearbyCouriersQuery(origin, radiusKm)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid search: "+err.Error())
	}

	nearby, err := s.findNearbyCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]nearbyCourierResponse, len(nearby))
	for i, candidate := range nearby {
		response[i] = nearbyCourierResponse{
			ID:            candidate.ID.String(),
			Name:          candidate.Name,
			Vehicle:       candidate.Vehicle,
			Lat:           candidate.Lat,
			Lng:           candidate.Lng,
			DistanceKm:    candidate.DistanceKm,
			AverageRating: candidate.AverageRating,
			ReportedAt:    candidate.ReportedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func buildCreateOrderCommand(customerID kernel.UUID, request createOrderRequest) (commands.CreateOrderCommand, error) {
	pickupCoord, err := kernel.NewCoordinate(request.Pickup.Lat, request.Pickup.Lng)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	pickup, err := order.NewWaypoint(request.Pickup.Address, pickupCoord, request.Pickup.ContactName, request.Pickup.ContactPhone)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	deliveryCoord, err := kernel.NewCoordinate(request.Delivery.Lat, request.Delivery.Lng)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	delivery, err := order.NewWaypoint(request.Delivery.Address, deliveryCoord, request.Delivery.ContactName, request.Delivery.ContactPhone)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	pack, err := order.NewPackage(request.Package.WeightKg, request.Package.Category, request.Package.Fragile, request.Package.DeclaredValue)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	priority, err := order.ParsePriority(request.Priority)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(customerID, pickup, delivery, pack, priority, request.PaymentMethod)
}

func actorID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Request().Header.Get(headerActorID))
}

func actorFromRequest(ctx echo.Context) (order.Actor, error) {
	id, err := actorID(ctx)
	if err != nil {
		return order.Actor{}, errors.New("missing or invalid " + headerActorID + " header")
	}

	role, err := order.ParseRole(ctx.Request().Header.Get(headerActorRole))
	if err != nil {
		return order.Actor{}, errors.New("missing or invalid " + headerActorRole + " header")
	}

	return order.NewActor(id, role)
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}

// domainError maps use case failures to HTTP statuses.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrUnauthorized):
		return errorJSON(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrAlreadyRated),
		errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	// Claim precondition failures are a caller-level retry signal, not a
	// conflict on an existing resource.
	case errors.Is(err, order.ErrAlreadyAssigned),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderNotDelivered),
		errors.Is(err, order.ErrNoActiveAssignment),
		errors.Is(err, courier.ErrNoPresence),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "Internal server error")
	}
}
