package signup

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "alice", NormalizeUsername("  alice "))
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("alice@example.com")
	assert.False(t, ok)

	entry := Pending{
		Username:  "alice",
		Email:     "alice@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	store.Put(entry.Email, entry)

	got, ok := store.Get(entry.Email)
	require.True(t, ok)
	assert.Equal(t, entry.Code, got.Code)

	store.Delete(entry.Email)
	_, ok = store.Get(entry.Email)
	assert.False(t, ok)
}

func TestMemoryStoreOverwriteSupersedes(t *testing.T) {
	store := NewMemoryStore()
	email := "alice@example.com"

	store.Put(email, Pending{Email: email, Code: "111111", ExpiresAt: time.Now().Add(time.Hour)})
	store.Put(email, Pending{Email: email, Code: "222222", ExpiresAt: time.Now().Add(time.Hour)})

	got, ok := store.Get(email)
	require.True(t, ok)
	assert.Equal(t, "222222", got.Code, "a new start must invalidate the earlier code")
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	store.Put("old@example.com", Pending{Email: "old@example.com", ExpiresAt: now.Add(-time.Minute)})
	store.Put("fresh@example.com", Pending{Email: "fresh@example.com", ExpiresAt: now.Add(time.Minute)})

	removed := store.Sweep(now)
	assert.Equal(t, 1, removed)

	_, ok := store.Get("old@example.com")
	assert.False(t, ok)
	_, ok = store.Get("fresh@example.com")
	assert.True(t, ok)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", i%5)
			store.Put(email, Pending{Email: email, Code: "123456", ExpiresAt: time.Now().Add(time.Minute)})
			if p, ok := store.Get(email); ok {
				// Entries are swapped whole, never observed half-written.
				assert.Equal(t, "123456", p.Code)
			}
			store.Sweep(time.Now())
		}(i)
	}
	wg.Wait()
}

func TestPendingExpired(t *testing.T) {
	now := time.Now()
	p := Pending{ExpiresAt: now}

	assert.True(t, p.Expired(now))
	assert.True(t, p.Expired(now.Add(time.Second)))
	assert.False(t, p.Expired(now.Add(-time.Second)))
}
