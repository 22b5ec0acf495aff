package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := New(true)
	defer c.Close()

	etag := c.Set("catalog:banners", []byte(`[1]`), time.Minute)
	data, got, ok := c.Get("catalog:banners")
	require.True(t, ok)
	assert.Equal(t, []byte(`[1]`), data)
	assert.Equal(t, etag, got)

	c.Delete("catalog:banners")
	_, _, ok = c.Get("catalog:banners")
	assert.False(t, ok)

	s := c.Stats()
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
}

func TestCache_ExpiryFollowsClock(t *testing.T) {
	now := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	c := New(true, WithClock(func() time.Time { return now }))
	defer c.Close()

	c.Set("template:good_morning", []byte("v"), 5*time.Minute)
	c.Set("catalog:packages", []byte("p"), time.Hour)

	now = now.Add(5 * time.Minute)
	_, _, ok := c.Get("template:good_morning")
	assert.False(t, ok, "deadline is exclusive")
	_, _, ok = c.Get("catalog:packages")
	assert.True(t, ok)

	s := c.Stats()
	assert.Equal(t, Stats{Enabled: true, Keys: 2, Live: 1, Expired: 1, Hits: 1, Misses: 1}, s)

	assert.Equal(t, 1, c.dropExpired())
	assert.Equal(t, 1, c.Stats().Keys)
}

func TestCache_Disabled(t *testing.T) {
	c := New(false)
	defer c.Close()

	etag := c.Set("k", []byte("v"), time.Minute)
	assert.Equal(t, ComputeETag([]byte("v")), etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestCache_CloseTwice(t *testing.T) {
	c := New(true)
	c.Close()
	assert.NotPanics(t, c.Close)
}

func TestComputeETag(t *testing.T) {
	etag := ComputeETag([]byte("x"))
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, etag)
	assert.Equal(t, etag, ComputeETag([]byte("x")))
	assert.NotEqual(t, etag, ComputeETag([]byte("y")))
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("x"))
	strong := etag[2:]

	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.True(t, CheckETagMatch(strong, etag), "weak comparison")
	assert.True(t, CheckETagMatch(`W/"old", `+etag, etag), "list")
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"nope"`, etag))
	assert.False(t, CheckETagMatch(etag, ""))
}
