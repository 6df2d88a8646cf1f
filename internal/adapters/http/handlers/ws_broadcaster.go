package handlers

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voicepal-ai/voicepal/internal/application/session"
)

// WebSocketBroadcaster fans engine events out to every socket subscribed to a
// session. Frames are JSON text messages.
type WebSocketBroadcaster struct {
	connections map[string]map[*websocket.Conn]struct{}
	mu          sync.RWMutex
}

func NewWebSocketBroadcaster() *WebSocketBroadcaster {
	return &WebSocketBroadcaster{
		connections: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (b *WebSocketBroadcaster) Subscribe(sessionID string, conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.connections[sessionID] == nil {
		b.connections[sessionID] = make(map[*websocket.Conn]struct{})
	}

	b.connections[sessionID][conn] = struct{}{}
	log.Printf("WebSocket subscribed to session %s (total: %d)", sessionID, len(b.connections[sessionID]))
}

func (b *WebSocketBroadcaster) Unsubscribe(sessionID string, conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if conns, ok := b.connections[sessionID]; ok {
		delete(conns, conn)
		log.Printf("WebSocket unsubscribed from session %s (remaining: %d)", sessionID, len(conns))

		if len(conns) == 0 {
			delete(b.connections, sessionID)
		}
	}
}

// BroadcastEvent sends one engine event to every subscriber of the session.
func (b *WebSocketBroadcaster) BroadcastEvent(sessionID string, ev session.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to encode event for WebSocket broadcast: %v", err)
		return
	}
	b.broadcast(sessionID, data)
}

func (b *WebSocketBroadcaster) broadcast(sessionID string, data []byte) {
	b.mu.RLock()
	conns, ok := b.connections[sessionID]
	if !ok || len(conns) == 0 {
		b.mu.RUnlock()
		return
	}
	targets := make([]*websocket.Conn, 0, len(conns))
	for conn := range conns {
		targets = append(targets, conn)
	}
	b.mu.RUnlock()

	for _, conn := range targets {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Failed to broadcast to WebSocket connection: %v", err)
			b.Unsubscribe(sessionID, conn)
		}
	}
}

func (b *WebSocketBroadcaster) SubscriberCount(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if conns, ok := b.connections[sessionID]; ok {
		return len(conns)
	}
	return 0
}
