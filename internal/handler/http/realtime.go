package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/handler/http/response"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/jwt"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/sse"
)

// RealtimeHandler serves the attendance event stream and its inbound check-in/check-out events.
type RealtimeHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type realtimeHandlerImpl struct {
	engine     attendance.Engine
	hub        *sse.Hub
	jwtService jwt.Service
	keepalive  time.Duration
}

func NewRealtimeHandler(engine attendance.Engine, hub *sse.Hub, jwtService jwt.Service) RealtimeHandler {
	return &realtimeHandlerImpl{
		engine:     engine,
		hub:        hub,
		jwtService: jwtService,
		keepalive:  30 * time.Second,
	}
}

// GetSSEToken generates a short-lived token for the attendance stream
func (h *realtimeHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream opens a realtime connection. The first event carries the connection id that
// check-in/check-out events must be posted to.
func (h *realtimeHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot set headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	connID, err := uuid.NewV7()
	if err != nil {
		http.Error(w, "Failed to open connection", http.StatusInternalServerError)
		return
	}
	connectionID := connID.String()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Subscribe before Connect so the initial rosters land on this stream.
	events, cleanup := h.hub.Subscribe(connectionID)
	defer cleanup()

	writeEvent(w, "connected", map[string]string{"connection_id": connectionID, "user_id": userID})
	flusher.Flush()

	if err := h.engine.Connect(r.Context(), connectionID); err != nil {
		slog.Error("Failed to register realtime connection", "connection_id", connectionID, "error", err)
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
		defer cancel()
		if err := h.engine.Disconnect(ctx, connectionID); err != nil {
			slog.Error("Failed to discard realtime connection", "connection_id", connectionID, "error", err)
		}
	}()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode SSE event", "event", event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// CheckIn delivers a check-in event on a realtime connection.
func (h *realtimeHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	connectionID := chi.URLParam(r, "id")

	var req attendance.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	event, err := h.engine.CheckIn(r.Context(), connectionID, req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in", event)
}

// CheckOut delivers a check-out event on a realtime connection.
func (h *realtimeHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	connectionID := chi.URLParam(r, "id")

	var req attendance.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	outcome, err := h.engine.CheckOut(r.Context(), connectionID, req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if outcome.Result == attendance.CheckOutOrphan {
		response.SuccessWithMessage(w, "No active check-in found", outcome)
		return
	}
	response.SuccessWithMessage(w, "Checked out", outcome)
}
