// Package presence tracks which users hold live connections to which
// rooms. State is process-local and ephemeral: it is rebuilt from nothing
// on restart as connections re-register.
package presence

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

type key struct {
	userID string
	roomID string
}

type shard struct {
	mu    sync.Mutex
	conns map[key]int
}

// Registry is a reference-counted (user, room) connection map. Counting,
// rather than set membership, keeps a user present while any of several
// simultaneous sessions to the same room is still open. Keys are sharded
// by user so unrelated rooms never contend on one lock.
type Registry struct {
	shards [shardCount]*shard
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{conns: make(map[key]int)}
	}
	return r
}

func (r *Registry) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// Connect records one more live session for (user, room).
func (r *Registry) Connect(userID, roomID string) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[key{userID, roomID}]++
}

// Disconnect drops one session for (user, room). Disconnecting a user that
// is not tracked is a no-op.
func (r *Registry) Disconnect(userID, roomID string) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, roomID}
	n, ok := s.conns[k]
	if !ok {
		return
	}
	if n <= 1 {
		delete(s.conns, k)
		return
	}
	s.conns[k] = n - 1
}

// IsConnected reports whether the user has at least one live session to
// the room.
func (r *Registry) IsConnected(userID, roomID string) bool {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[key{userID, roomID}] > 0
}

// ConnectedRecipients filters candidates down to those currently connected
// to the room.
func (r *Registry) ConnectedRecipients(roomID string, candidates []string) []string {
	connected := make([]string, 0, len(candidates))
	for _, userID := range candidates {
		if r.IsConnected(userID, roomID) {
			connected = append(connected, userID)
		}
	}
	return connected
}
