package notifications

import (
	"context"
	"errors"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// LobbyChannel is the Redis channel carrying chat lobby messages between
// instances.
const LobbyChannel = "chat:lobby"

// ErrConnectionLimit is returned when a user exceeds the per-user websocket
// connection limit.
var ErrConnectionLimit = errors.New("user connection limit reached")

// Notifier publishes chat traffic into Redis channels so every instance of
// the application sees every lobby message.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether a Redis backend is attached. Without one, callers
// fall back to broadcasting on the local hub only.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishChatMessage publishes a lobby message for every instance to fan out.
func (n *Notifier) PublishChatMessage(ctx context.Context, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, LobbyChannel, payload).Err()
}

// StartChatSubscriber subscribes to the lobby channel and calls onMessage for
// each incoming message.
func (n *Notifier) StartChatSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, LobbyChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in ChatSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
