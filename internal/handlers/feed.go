package handlers

import (
	"net/http"

	"webcarros-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the feed is public, same as the listings it mirrors
	},
}

// FeedHandler handles websocket subscriptions to the listing feed
type FeedHandler struct {
	hub *services.FeedHub
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(hub *services.FeedHub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// Serve handles GET /ws. The connection is write-only from the server's
// perspective; the read loop only detects the client going away.
func (h *FeedHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade feed connection")
		return
	}

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Feed connection error")
			}
			return
		}
	}
}
