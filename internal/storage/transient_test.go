package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTransientStore_RoundTrip(t *testing.T) {
	s := NewMemoryTransientStore()

	s.Set("k", []byte("v"), time.Minute)

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryTransientStore_Expiry(t *testing.T) {
	s := NewMemoryTransientStore()

	now := time.Now()
	s.SetClock(func() time.Time { return now })
	s.Set("k", []byte("v"), 5*time.Minute)

	_, ok := s.Get("k")
	assert.True(t, ok)

	s.SetClock(func() time.Time { return now.Add(5*time.Minute + time.Second) })
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestMemoryTransientStore_ZeroTTLDeletes(t *testing.T) {
	s := NewMemoryTransientStore()

	s.Set("k", []byte("v"), time.Minute)
	s.Set("k", nil, 0)

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestMemoryTransientStore_MissingKey(t *testing.T) {
	s := NewMemoryTransientStore()

	_, ok := s.Get("nope")
	assert.False(t, ok)
}
