package handlers

import (
	"encoding/json"
	"net/http"

	"swipe-match-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled by the router; any origin may listen
	},
}

// WebSocketHandler streams match notifications to connected users
type WebSocketHandler struct {
	hub *services.WSHub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket handles GET /ws?user_id=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, "user_id required", http.StatusBadRequest)
		return
	}

	logger := hlog.FromRequest(r).With().Str("user_id", userID).Logger()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	logger.Info().Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error().Err(err).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			logger.Error().Err(err).Msg("Failed to parse WebSocket message")
			h.reply(logger, userID, services.WSMessage{Type: "error", Message: "Invalid message format"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.reply(logger, userID, services.WSMessage{Type: "pong"})
		default:
			h.reply(logger, userID, services.WSMessage{Type: "error", Message: "Unknown message type"})
		}
	}
}

func (h *WebSocketHandler) reply(logger zerolog.Logger, userID string, msg services.WSMessage) {
	if err := h.hub.SendToUser(userID, msg); err != nil {
		logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to send WebSocket reply")
	}
}
