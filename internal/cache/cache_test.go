package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissOnEmpty(t *testing.T) {
	c := New[string](0)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

// TestFreshness is universal invariant 5: Get(k) returns a value only if
// inserted within its TTL.
func TestFreshness(t *testing.T) {
	c := New[string](0)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	c.Put("k", "v", 10*time.Millisecond)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	fakeNow = fakeNow.Add(20 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "expected miss once past ttl")
}

func TestLRUEvictionInBlocks(t *testing.T) {
	c := New[int](10)
	for i := 0; i < 10; i++ {
		c.Put(keyFor(i), i, time.Hour)
	}
	require.Equal(t, 10, c.Len())

	// Touch key 9 so it's most-recently-used and survives eviction.
	_, _ = c.Get(keyFor(9))

	c.Put("overflow", 99, time.Hour)
	assert.LessOrEqual(t, c.Len(), 10)

	_, ok := c.Get(keyFor(9))
	assert.True(t, ok, "recently touched key should survive LRU eviction")
}

func keyFor(i int) string {
	return string(rune('a' + i))
}
