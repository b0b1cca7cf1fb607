package services

import (
	"encoding/json"
	"sync"

	"webcarros-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// FeedMessage represents a message sent to feed subscribers
type FeedMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// FeedHub fans out listing events to connected browsers. Delivery is
// best-effort: a failed write drops the connection.
type FeedHub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]bool
}

// NewFeedHub creates a new feed hub
func NewFeedHub() *FeedHub {
	return &FeedHub{
		conns: make(map[*websocket.Conn]bool),
	}
}

// Register adds a subscriber connection
func (h *FeedHub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[conn] = true

	log.Info().Int("subscribers", len(h.conns)).Msg("Feed subscriber registered")
}

// Unregister removes a subscriber connection
func (h *FeedHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[conn] {
		conn.Close()
		delete(h.conns, conn)
		log.Info().Int("subscribers", len(h.conns)).Msg("Feed subscriber unregistered")
	}
}

// Subscribers returns the number of connected subscribers
func (h *FeedHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastListingCreated notifies all subscribers about a new listing
func (h *FeedHub) BroadcastListingCreated(car *models.Car) {
	data, err := json.Marshal(FeedMessage{
		Type: "listing_created",
		Data: car,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal feed message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Msg("Failed to send feed message, dropping subscriber")
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
