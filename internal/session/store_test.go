package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()

	slots := []Slot{
		{Filename: "a.jpg", URL: "https://store/R1/a.jpg"},
		{Filename: "b.jpg", URL: "https://store/R1/b.jpg"},
	}
	store.Put("R1", slots)

	got, ok := store.Get("R1")
	require.True(t, ok)
	assert.Equal(t, slots, got)

	// Get does not consume the entry.
	_, ok = store.Get("R1")
	assert.True(t, ok)

	store.Remove("R1")
	_, ok = store.Get("R1")
	assert.False(t, ok)
	assert.Zero(t, store.Len())

	// Removing an absent entry is a no-op.
	store.Remove("R1")
}

func TestStoreMissingRecord(t *testing.T) {
	store := NewStore()
	slots, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, slots)
}

// TestStoreConcurrentBatches verifies that interleaved batches do not
// interfere with each other's entries.
func TestStoreConcurrentBatches(t *testing.T) {
	store := NewStore()

	const batches = 50
	var wg sync.WaitGroup
	for i := 0; i < batches; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := fmt.Sprintf("R%d", i)
			slots := []Slot{{Filename: "a.jpg", URL: "https://store/" + record + "/a.jpg"}}

			store.Put(record, slots)
			got, ok := store.Get(record)
			assert.True(t, ok)
			assert.Equal(t, slots, got)
			store.Remove(record)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, store.Len())
}
