// Package fanout delivers chat events to room subscribers and personal
// notification events to per-user channels. Delivery is at-least-once;
// a failure to reach one subscriber never fails the publish for others.
package fanout

import "context"

// Unsubscribe tears down a subscription. Safe to call more than once.
type Unsubscribe func()

// Broadcaster is the pub/sub transport boundary. The Redis implementation
// supports multi-process deployments; the in-process Hub serves
// single-node runs and tests.
type Broadcaster interface {
	PublishRoom(ctx context.Context, roomID string, event interface{}) error
	PublishUser(ctx context.Context, userID string, event interface{}) error
	SubscribeRoom(ctx context.Context, roomID string, fn func(payload []byte)) (Unsubscribe, error)
	SubscribeUser(ctx context.Context, userID string, fn func(payload []byte)) (Unsubscribe, error)
}

func roomTopic(roomID string) string { return "chat.room." + roomID }
func userTopic(userID string) string { return "chat.user." + userID }
