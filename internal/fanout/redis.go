package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster publishes events over Redis pub/sub, one channel per
// room and one per user.
type RedisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(rdb *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

func (b *RedisBroadcaster) PublishRoom(ctx context.Context, roomID string, event interface{}) error {
	return b.publish(ctx, roomTopic(roomID), event)
}

func (b *RedisBroadcaster) PublishUser(ctx context.Context, userID string, event interface{}) error {
	return b.publish(ctx, userTopic(userID), event)
}

func (b *RedisBroadcaster) publish(ctx context.Context, topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", topic, err)
	}
	if err := b.rdb.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (b *RedisBroadcaster) SubscribeRoom(ctx context.Context, roomID string, fn func(payload []byte)) (Unsubscribe, error) {
	return b.subscribe(ctx, roomTopic(roomID), fn)
}

func (b *RedisBroadcaster) SubscribeUser(ctx context.Context, userID string, fn func(payload []byte)) (Unsubscribe, error) {
	return b.subscribe(ctx, userTopic(userID), fn)
}

func (b *RedisBroadcaster) subscribe(ctx context.Context, topic string, fn func(payload []byte)) (Unsubscribe, error) {
	ps := b.rdb.Subscribe(ctx, topic)
	// Receive the subscription confirmation so the caller never misses
	// events published right after SubscribeRoom returns.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ps.Channel() {
			fn([]byte(msg.Payload))
		}
	}()

	// Unsubscribe waits for the drain goroutine so no callback runs after
	// it returns.
	return func() {
		if err := ps.Close(); err != nil {
			log.Printf("fanout: closing subscription to %s: %v", topic, err)
		}
		<-done
	}, nil
}
