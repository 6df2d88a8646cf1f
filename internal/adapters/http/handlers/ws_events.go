package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/voicepal-ai/voicepal/internal/application/session"
)

// WebSocketEventsHandler streams engine events for one session. Clients
// issue commands over the REST surface and listen here for completions.
type WebSocketEventsHandler struct {
	upgrader    websocket.Upgrader
	registry    *session.Registry
	broadcaster *WebSocketBroadcaster
}

func NewWebSocketEventsHandler(registry *session.Registry, broadcaster *WebSocketBroadcaster, allowedOrigins []string) *WebSocketEventsHandler {
	allowedOriginsMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		allowedOriginsMap[origin] = true
	}

	return &WebSocketEventsHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return allowedOriginsMap[origin]
			},
		},
		registry:    registry,
		broadcaster: broadcaster,
	}
}

func (h *WebSocketEventsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	engine, ok := lookupEngine(h.registry, w, r)
	if !ok {
		return
	}
	sessionID := engine.Snapshot().ID

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for session %s: %v", sessionID, err)
		return
	}

	h.broadcaster.Subscribe(sessionID, conn)
	defer func() {
		h.broadcaster.Unsubscribe(sessionID, conn)
		conn.Close()
	}()

	// The stream is one-way; reading only detects the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
