package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// MatchCreatedData is the payload of a match_created message
type MatchCreatedData struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
}

type wsClient struct {
	conn *websocket.Conn
	// gorilla/websocket allows one concurrent writer per connection
	writeMu sync.Mutex
}

// WSHub manages WebSocket connections keyed by user id
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsClient
	logger      zerolog.Logger
}

// NewWSHub creates a new WebSocket hub
func NewWSHub(logger zerolog.Logger) *WSHub {
	return &WSHub{
		connections: make(map[string]*wsClient),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Register registers a connection for a user, replacing any previous one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.conn.Close()
	}
	h.connections[userID] = &wsClient{conn: conn}

	h.logger.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes the connection for a user if it is still conn. A nil
// conn removes whatever is registered.
func (h *WSHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.connections[userID]
	if !ok || (conn != nil && client.conn != conn) {
		return
	}
	client.conn.Close()
	delete(h.connections, userID)
	h.logger.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	client, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	client.writeMu.Lock()
	err = client.conn.WriteMessage(websocket.TextMessage, data)
	client.writeMu.Unlock()
	if err != nil {
		h.Unregister(userID, client.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// NotifyMatchCreated tells both users of a mutual like, skipping whoever is offline
func (h *WSHub) NotifyMatchCreated(fromUserID, toUserID string) {
	message := WSMessage{
		Type: "match_created",
		Data: MatchCreatedData{FromUserID: fromUserID, ToUserID: toUserID},
	}

	for _, userID := range []string{fromUserID, toUserID} {
		if !h.IsOnline(userID) {
			continue
		}
		if err := h.SendToUser(userID, message); err != nil {
			h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to notify match")
		}
	}
}
