package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"quill/internal/middleware"
	"quill/internal/notifications"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketChatHandler handles WebSocket connections for the chat lobby
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		// Get userID from context locals (set by WebSocketAuthRequired)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket Chat: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		user, err := s.userService.GetByID(ctx, userID)
		if err != nil || user == nil {
			log.Printf("WebSocket Chat: Failed to get user %d: %v", userID, err)
			_ = conn.Close()
			return
		}
		sender := user.Public()

		log.Printf("WebSocket: User %d (%s) connected to chat", userID, user.Username)

		client, err := s.chatHub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket Chat: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = func(c *notifications.Client, raw []byte) {
			var incoming struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(raw, &incoming); err != nil {
				log.Printf("WebSocket: Invalid message format from user %d", userID)
				middleware.ChatMessages.WithLabelValues("rejected_invalid").Inc()
				return
			}

			// Chat is plain text; markup is stripped, not rendered.
			text := validation.SanitizePlainText(incoming.Message)
			if text == "" {
				middleware.ChatMessages.WithLabelValues("rejected_empty").Inc()
				return
			}

			// Same ceiling as the HTTP endpoints (15 per minute).
			id := fmt.Sprintf("user:%d", userID)
			allowed, rlErr := middleware.CheckRateLimit(ctx, s.redis, "chat_message", id, 15, time.Minute)
			if rlErr != nil {
				// Fail open, same as the HTTP rate limit middleware.
				allowed = true
			}
			if !allowed {
				response := notifications.ChatMessage{
					Type:    "error",
					Message: "Rate limit exceeded. Please wait a moment.",
				}
				if respJSON, err := json.Marshal(response); err == nil {
					c.TrySend(respJSON)
				}
				middleware.ChatMessages.WithLabelValues("rate_limited").Inc()
				return
			}

			message := notifications.ChatMessage{
				Type:     "message",
				Message:  text,
				User:     sender,
				SenderID: c.ID,
			}

			// Publish through Redis so every instance's lobby sees it; fall
			// back to the local hub when Redis is not configured.
			if s.notifier.Enabled() {
				messageJSON, err := json.Marshal(message)
				if err != nil {
					log.Printf("marshal chat message error: %v", err)
					return
				}
				if perr := s.notifier.PublishChatMessage(ctx, string(messageJSON)); perr != nil {
					log.Printf("publish chat message error: %v", perr)
					return
				}
			} else {
				s.chatHub.Broadcast(message)
			}
			middleware.ChatMessages.WithLabelValues("broadcast").Inc()
		}

		// Send welcome message
		welcome := notifications.ChatMessage{
			Type: "connected",
			User: sender,
		}
		if welcomeJSON, err := json.Marshal(welcome); err == nil {
			client.TrySend(welcomeJSON)
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()
	})
}
