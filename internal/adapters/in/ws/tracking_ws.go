// Package ws streams live tracking events to clients over WebSocket.
// Each connection subscribes to one order's channel on the tracking bus
// and receives broadcasts until the client disconnects.
package ws

import (
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/adapters/out/bus"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	// writeWait bounds a single write to the peer.
	writeWait = 10 * time.Second

	// pongWait bounds how long a connection may stay silent.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = 54 * time.Second
)

// wireEvent is the JSON frame sent to tracking clients.
type wireEvent struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackingHandler upgrades tracking requests to WebSocket connections and
// relays bus events. The initial snapshot comes from the tracking query so
// a client never starts blind.
type TrackingHandler struct {
	bus         *bus.TrackingBus
	getTracking queries.GetTrackingQueryHandler
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewTrackingHandler creates the WebSocket tracking handler.
func NewTrackingHandler(
	trackingBus *bus.TrackingBus,
	getTracking queries.GetTrackingQueryHandler,
	logger *slog.Logger,
) *TrackingHandler {
	return &TrackingHandler{
		bus:         trackingBus,
		getTracking: getTracking,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Tracking pages are public; the order number is the capability.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "tracking_ws"),
	}
}

// Register attaches the WebSocket endpoint to the echo instance.
func (h *TrackingHandler) Register(e *echo.Echo) {
	e.GET("/api/v1/tracking/:orderNumber/ws", h.Serve)
}

// Serve handles GET /api/v1/tracking/:orderNumber/ws.
func (h *TrackingHandler) Serve(ctx echo.Context) error {
	query, err := queries.NewGetTrackingQuery(ctx.Param("orderNumber"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order number")
	}

	snapshot, err := h.getTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	sub := h.bus.Subscribe(snapshot.OrderID)

	go h.readPump(conn, sub)
	go h.writePump(conn, sub, snapshot)

	return nil
}

// readPump drains the connection until the peer goes away, then tears the
// subscription down so writePump exits.
func (h *TrackingHandler) readPump(conn *websocket.Conn, sub *bus.Subscription) {
	defer sub.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *TrackingHandler) writePump(conn *websocket.Conn, sub *bus.Subscription, snapshot *queries.GetTrackingQueryResponse) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		_ = conn.Close()
	}()

	if err := h.writeJSON(conn, wireEvent{
		Type:      "snapshot",
		Data:      snapshot,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return
	}

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			if err := h.writeJSON(conn, wireEvent{
				Type:      string(event.Type),
				Data:      event.Data,
				Timestamp: event.Timestamp,
			}); err != nil {
				h.logger.Debug("tracking client write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *TrackingHandler) writeJSON(conn *websocket.Conn, event wireEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(event)
}
