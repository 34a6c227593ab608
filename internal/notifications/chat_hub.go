// Package notifications provides the real-time chat hub and its Redis wiring.
package notifications

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/websocket/v2"
)

const maxConnsPerUser = 5

// ChatHub manages the single shared chat lobby. Every connected user sees
// every message; there are no rooms.
type ChatHub struct {
	mu sync.RWMutex

	// Map: userID -> set of active Clients (one user may have several tabs)
	userConns map[uint]map[*Client]bool
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// ChatMessage is the wire format for lobby traffic. SenderID carries the
// originating connection through the Redis fanout so it can be excluded from
// the broadcast; it is stripped before delivery.
type ChatMessage struct {
	Type     string            `json:"type"` // "message", "messages_dropped", "server_shutdown"
	Message  string            `json:"message,omitempty"`
	User     models.PublicUser `json:"user,omitempty"`
	SenderID string            `json:"sender_id,omitempty"`
}

// NewChatHub creates a new ChatHub instance
func NewChatHub() *ChatHub {
	return &ChatHub{
		userConns: make(map[uint]map[*Client]bool),
	}
}

// Register adds a user's websocket connection to the lobby. Returns the
// Client or an error when the per-user connection limit is exceeded.
func (h *ChatHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Client]bool)
	}
	if len(h.userConns[userID]) >= maxConnsPerUser {
		return nil, ErrConnectionLimit
	}

	client := NewClient(h, conn, userID)
	h.userConns[userID][client] = true
	middleware.ActiveChatConnections.Inc()

	log.Printf("ChatHub: Registered user %d (Active clients: %d)", userID, len(h.userConns[userID]))
	return client, nil
}

// UnregisterClient removes a websocket connection from the lobby.
func (h *ChatHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.userConns[client.UserID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.userConns, client.UserID)
	}
	middleware.ActiveChatConnections.Dec()

	log.Printf("ChatHub: Unregistered client for user %d (Remaining clients: %d)", client.UserID, len(clients))
}

// IsUserOnline returns true when the user has at least one active chat client.
func (h *ChatHub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userConns[userID]
	return ok && len(clients) > 0
}

// ConnectionCount returns the number of live connections in the lobby.
func (h *ChatHub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.userConns {
		n += len(clients)
	}
	return n
}

// Broadcast sends a message to every connection in the lobby except the one
// identified by message.SenderID. The sender already has the message on
// screen; echoing it back would duplicate it.
func (h *ChatHub) Broadcast(message ChatMessage) {
	senderID := message.SenderID
	message.SenderID = ""

	messageJSON, err := json.Marshal(message)
	if err != nil {
		log.Printf("ChatHub: Failed to marshal message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.userConns {
		for client := range clients {
			if client.ID == senderID {
				continue
			}
			client.TrySend(messageJSON)
		}
	}
}

// StartWiring connects the hub to the Redis lobby channel so messages reach
// connections held by other instances.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartChatSubscriber(ctx, func(_ string, payload string) {
		var message ChatMessage
		if err := json.Unmarshal([]byte(payload), &message); err != nil {
			log.Printf("ChatHub: Failed to parse lobby message: %v", err)
			return
		}
		if message.Type == "" {
			message.Type = "message"
		}
		h.Broadcast(message)
	})
}

// Shutdown gracefully closes all websocket connections
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.userConns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage,
				[]byte(`{"type":"server_shutdown","message":"Server is shutting down"}`)); err != nil {
				log.Printf("failed to write shutdown message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}

	h.userConns = make(map[uint]map[*Client]bool)
	return nil
}
