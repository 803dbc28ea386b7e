package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_ConnectDisconnect(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.IsConnected("alice", "room-1"))

	r.Connect("alice", "room-1")
	assert.True(t, r.IsConnected("alice", "room-1"))
	assert.False(t, r.IsConnected("alice", "room-2"))
	assert.False(t, r.IsConnected("bob", "room-1"))

	r.Disconnect("alice", "room-1")
	assert.False(t, r.IsConnected("alice", "room-1"))
}

func TestRegistry_CountsConcurrentSessions(t *testing.T) {
	r := NewRegistry()

	// Two tabs into the same room: closing one must not erase the other.
	r.Connect("alice", "room-1")
	r.Connect("alice", "room-1")

	r.Disconnect("alice", "room-1")
	assert.True(t, r.IsConnected("alice", "room-1"))

	r.Disconnect("alice", "room-1")
	assert.False(t, r.IsConnected("alice", "room-1"))
}

func TestRegistry_DisconnectUnknownIsNoop(t *testing.T) {
	r := NewRegistry()

	r.Disconnect("ghost", "room-1")
	r.Disconnect("ghost", "room-1")
	assert.False(t, r.IsConnected("ghost", "room-1"))
}

func TestRegistry_ConnectedRecipients(t *testing.T) {
	r := NewRegistry()

	r.Connect("alice", "room-1")
	r.Connect("bob", "room-1")
	r.Connect("carol", "room-2")

	got := r.ConnectedRecipients("room-1", []string{"alice", "bob", "carol", "dave"})
	assert.ElementsMatch(t, []string{"alice", "bob"}, got)

	assert.Empty(t, r.ConnectedRecipients("room-3", []string{"alice", "bob"}))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i%10)
			r.Connect(user, "room-1")
			r.IsConnected(user, "room-1")
			r.Disconnect(user, "room-1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		assert.False(t, r.IsConnected(fmt.Sprintf("user-%d", i), "room-1"))
	}
}
