package cachemanager

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeManager records sets and serves a fixed map.
type fakeManager struct {
	values map[string]int
	sets   int
}

func (f *fakeManager) Get(key string) (int, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeManager) Set(key string, value int, _ time.Duration) {
	f.values[key] = value
	f.sets++
}

func (f *fakeManager) Delete(keys ...string) error { return nil }
func (f *fakeManager) Flush() error                { return nil }

func TestReadThroughCache_Get_Miss_LoadsAndStores(t *testing.T) {
	manager := &fakeManager{values: map[string]int{}}
	loads := 0

	cache := NewReadThroughCache[string, int, string](manager, func(input string) (int, error) {
		loads++
		return len(input), nil
	}, false)

	v, err := cache.Get("key", "abcd", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, manager.sets)

	// Second get hits the cache; the loader is not called again.
	v, err = cache.Get("key", "abcd", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, 1, loads)
}

func TestReadThroughCache_Get_LoaderError(t *testing.T) {
	manager := &fakeManager{values: map[string]int{}}
	boom := errors.New("boom")

	cache := NewReadThroughCache[string, int, string](manager, func(string) (int, error) {
		return 0, boom
	}, false)

	_, err := cache.Get("key", "input", time.Minute)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, manager.sets)
}

func TestReadThroughCache_Get_SkipCache(t *testing.T) {
	manager := &fakeManager{values: map[string]int{"key": 99}}
	loads := 0

	cache := NewReadThroughCache[string, int, string](manager, func(input string) (int, error) {
		loads++
		return len(input), nil
	}, true)

	v, err := cache.Get("key", "ab", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 0, manager.sets)
}
