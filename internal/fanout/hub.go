package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// subscriberBuffer is the per-subscriber queue size. A subscriber that
// falls this far behind starts losing events rather than blocking the
// publisher.
const subscriberBuffer = 256

type subscriber struct {
	fn   func(payload []byte)
	ch   chan []byte
	done chan struct{}
	// stopped closes when the drain goroutine exits, so Unsubscribe can
	// guarantee no callback runs after it returns.
	stopped  chan struct{}
	stopOnce sync.Once
}

func (s *subscriber) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Hub is an in-process Broadcaster. Each subscriber drains its own
// buffered channel on its own goroutine, so one slow consumer cannot
// stall a publish.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[int]*subscriber
	nextID int
	closed bool
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[int]*subscriber)}
}

func (h *Hub) PublishRoom(_ context.Context, roomID string, event interface{}) error {
	return h.publish(roomTopic(roomID), event)
}

func (h *Hub) PublishUser(_ context.Context, userID string, event interface{}) error {
	return h.publish(userTopic(userID), event)
}

func (h *Hub) publish(topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", topic, err)
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.topics[topic]))
	for _, s := range h.topics[topic] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.ch <- payload:
		case <-s.done:
		default:
			log.Printf("fanout: subscriber on %s is full, dropping event", topic)
		}
	}
	return nil
}

func (h *Hub) SubscribeRoom(_ context.Context, roomID string, fn func(payload []byte)) (Unsubscribe, error) {
	return h.subscribe(roomTopic(roomID), fn)
}

func (h *Hub) SubscribeUser(_ context.Context, userID string, fn func(payload []byte)) (Unsubscribe, error) {
	return h.subscribe(userTopic(userID), fn)
}

func (h *Hub) subscribe(topic string, fn func(payload []byte)) (Unsubscribe, error) {
	s := &subscriber{
		fn:      fn,
		ch:      make(chan []byte, subscriberBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, fmt.Errorf("hub is shut down")
	}
	h.nextID++
	id := h.nextID
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[int]*subscriber)
	}
	h.topics[topic][id] = s
	h.mu.Unlock()

	go func() {
		defer close(s.stopped)
		for {
			select {
			case payload := <-s.ch:
				s.fn(payload)
			case <-s.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.topics[topic]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(h.topics, topic)
				}
			}
			h.mu.Unlock()
			s.stop()
		})
		<-s.stopped
	}, nil
}

// Shutdown detaches every subscriber. Publishes after shutdown are
// silently delivered to nobody.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for topic, subs := range h.topics {
		for id, s := range subs {
			s.stop()
			delete(subs, id)
		}
		delete(h.topics, topic)
	}
}
