package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/internal/websocket"
	"github.com/yegors/preflight/pkg/logger"
)

// planTimeout bounds a single plan computation requested over the socket
const planTimeout = 15 * time.Second

// WebSocketHandler answers plan requests from WebSocket clients and pushes
// catalog changes to all of them
type WebSocketHandler struct {
	service *Service
	server  *websocket.Server
	logger  *logger.Logger
}

// NewWebSocketHandler creates a new WebSocket message handler
func NewWebSocketHandler(service *Service, server *websocket.Server, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
		server:  server,
		logger:  log.Named("planner-ws-handler"),
	}
}

// HandleMessage handles incoming WebSocket messages
func (h *WebSocketHandler) HandleMessage(client *websocket.Client, messageType string, data map[string]any) error {
	switch messageType {
	case websocket.MessageTypePlanRequest:
		return h.handlePlanRequest(client, data)
	default:
		h.logger.Debug("Unhandled message type", logger.String("type", messageType))
		return nil
	}
}

// ModelUpserted broadcasts a catalog change to every connected client
func (h *WebSocketHandler) ModelUpserted(summary aircraft.Summary) {
	h.server.Broadcast(&websocket.Message{
		Type: websocket.MessageTypeCatalogUpdated,
		Data: map[string]any{
			"model": summary,
		},
	})
}

// handlePlanRequest computes the plan carried in data["plan"] and replies to the requesting client.
// A "request_id" in the request is echoed in the reply.
func (h *WebSocketHandler) handlePlanRequest(client *websocket.Client, data map[string]any) error {
	requestID := data["request_id"]

	plan, err := decodePlan(data["plan"])
	if err != nil {
		h.sendToClient(client, planError(requestID, err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
	defer cancel()

	result, err := h.service.Compute(ctx, plan)
	if err != nil {
		h.sendToClient(client, planError(requestID, err))
		return err
	}

	h.sendToClient(client, &websocket.Message{
		Type: websocket.MessageTypePlanResult,
		Data: map[string]any{
			"request_id": requestID,
			"result":     result,
		},
	})
	return nil
}

// decodePlan round-trips the loosely typed message payload through JSON into a Plan
func decodePlan(raw any) (Plan, error) {
	var plan Plan
	if raw == nil {
		return plan, fmt.Errorf("%w: missing plan", ErrInvalidPlan)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return plan, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := json.Unmarshal(encoded, &plan); err != nil {
		return plan, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return plan, nil
}

func planError(requestID any, err error) *websocket.Message {
	return &websocket.Message{
		Type: websocket.MessageTypePlanError,
		Data: map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		},
	}
}

// sendToClient sends a message to a specific client
func (h *WebSocketHandler) sendToClient(client *websocket.Client, message *websocket.Message) {
	if !client.SendMessage(message) {
		h.logger.Warn("Client send channel full, dropping message",
			logger.String("type", message.Type))
	}
}
