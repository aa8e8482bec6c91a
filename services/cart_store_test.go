package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAccumulatesQuantity(t *testing.T) {
	store := NewCartStore()

	n, err := store.Add("session-1", 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.Add("session-1", 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, map[int64]int{10: 5}, store.Quantities("session-1"))
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	store := NewCartStore()

	_, err := store.Add("session-1", 10, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = store.Add("session-1", 10, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Nothing was created for the session
	assert.Empty(t, store.Quantities("session-1"))
}

func TestSetReplacesQuantity(t *testing.T) {
	store := NewCartStore()
	_, err := store.Add("s", 7, 4)
	require.NoError(t, err)

	require.NoError(t, store.Set("s", 7, 1))
	assert.Equal(t, map[int64]int{7: 1}, store.Quantities("s"))
}

func TestSetRejectsInvalidQuantityAndLeavesCartUnchanged(t *testing.T) {
	store := NewCartStore()
	_, err := store.Add("s", 7, 4)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Set("s", 7, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, store.Set("s", 7, -1), ErrInvalidQuantity)
	assert.Equal(t, map[int64]int{7: 4}, store.Quantities("s"))
}

func TestSetMissingLineItem(t *testing.T) {
	store := NewCartStore()

	// No cart at all for the session
	assert.ErrorIs(t, store.Set("s", 7, 2), ErrCartItemNotFound)

	// Cart exists but holds a different product
	_, err := store.Add("s", 8, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Set("s", 7, 2), ErrCartItemNotFound)
}

func TestRemoveLastItemDeletesCart(t *testing.T) {
	store := NewCartStore()
	_, err := store.Add("s", 7, 4)
	require.NoError(t, err)

	assert.True(t, store.Remove("s", 7))
	assert.Empty(t, store.Quantities("s"))

	// A fresh add works again after the cart entry was dropped
	n, err := store.Add("s", 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := NewCartStore()
	_, err := store.Add("s", 7, 1)
	require.NoError(t, err)

	assert.True(t, store.Remove("s", 7))
	assert.False(t, store.Remove("s", 7))
	assert.False(t, store.Remove("unknown-session", 7))
}

func TestRemoveKeepsOtherLines(t *testing.T) {
	store := NewCartStore()
	_, err := store.Add("s", 1, 2)
	require.NoError(t, err)
	_, err = store.Add("s", 2, 3)
	require.NoError(t, err)

	assert.True(t, store.Remove("s", 1))
	assert.Equal(t, map[int64]int{2: 3}, store.Quantities("s"))
}

func TestClearIsIdempotent(t *testing.T) {
	store := NewCartStore()
	_, err := store.Add("s", 7, 4)
	require.NoError(t, err)

	store.Clear("s")
	assert.Empty(t, store.Quantities("s"))

	// Clearing an absent cart is a no-op
	store.Clear("s")
	store.Clear("never-existed")
}

func TestQuantitiesReturnsACopy(t *testing.T) {
	store := NewCartStore()
	_, err := store.Add("s", 7, 4)
	require.NoError(t, err)

	snapshot := store.Quantities("s")
	snapshot[7] = 99
	assert.Equal(t, map[int64]int{7: 4}, store.Quantities("s"))
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	store := NewCartStore()
	const workers = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Add("s", 7, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, map[int64]int{7: workers}, store.Quantities("s"))
}

func TestConcurrentSessionsAreIndependent(t *testing.T) {
	store := NewCartStore()
	const sessions = 20
	const addsPerSession = 50

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "session-" + string(rune('a'+n))
			for j := 0; j < addsPerSession; j++ {
				_, err := store.Add(key, int64(n), 1)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < sessions; i++ {
		key := "session-" + string(rune('a'+i))
		assert.Equal(t, map[int64]int{int64(i): addsPerSession}, store.Quantities(key))
	}
}

// Mixing adds with removals that empty the cart exercises the drop-and-retry
// path: a goroutine holding a dropped cart pointer must re-resolve the key
// instead of writing into a dangling cart.
func TestConcurrentAddAndRemoveConverge(t *testing.T) {
	store := NewCartStore()
	const rounds = 200

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := store.Add("s", 7, 1)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			store.Remove("s", 7)
		}
	}()
	wg.Wait()

	// Whatever interleaving happened, the cart is either absent or holds a
	// positive quantity for the single product.
	got := store.Quantities("s")
	if q, ok := got[7]; ok {
		assert.Greater(t, q, 0)
	}
	assert.LessOrEqual(t, len(got), 1)
}
