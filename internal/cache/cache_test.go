package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestSetGet(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := New(5*time.Minute, WithClock(clock.Now))

	results := []*types.Task{{ID: "1"}, {ID: "3"}}
	c.Set("alice", "status=!Done", results)

	e, ok := c.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "status=!Done", e.Query)
	assert.Equal(t, results, e.Results)
	assert.Equal(t, time.Unix(1000, 0), e.Created)

	_, ok = c.Get("bob")
	assert.False(t, ok)
}

func TestSetOverwritesSlot(t *testing.T) {
	c := New(time.Minute)
	c.Set("alice", "first", []*types.Task{{ID: "1"}})
	c.Set("alice", "second", []*types.Task{{ID: "2"}})

	e, ok := c.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "second", e.Query)
	assert.Equal(t, 1, c.Len())
}

func TestExpiredEntryIsEvicted(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := New(300*time.Second, WithClock(clock.Now))
	c.Set("alice", "q", []*types.Task{{ID: "1"}})

	clock.Advance(300 * time.Second)
	_, ok := c.Get("alice")
	assert.True(t, ok, "entry exactly at the TTL is still valid")

	clock.Advance(time.Second)
	_, ok = c.Get("alice")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestExpiryWithRealClock(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Set("k", "q", nil)
	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, types.DefaultCacheTTL, New(0).TTL())
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "q", nil)
	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}
