// Package signup holds the short-lived pending-registration state used by
// the email verification flow. The store is process-local by design: a
// restart discards unverified signups and the user starts over.
package signup

import (
	"strings"
	"sync"
	"time"
)

// Pending is one unverified registration, keyed by normalized email.
type Pending struct {
	Username     string
	Email        string
	PasswordHash []byte
	Code         string
	ExpiresAt    time.Time
}

// Expired reports whether the entry's TTL has passed.
func (p Pending) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// PendingStore is injected into the signup service so the in-memory map can
// later be swapped for a durable TTL-indexed store without touching callers.
type PendingStore interface {
	Put(email string, p Pending)
	Get(email string) (Pending, bool)
	Delete(email string)
	Sweep(now time.Time) int
}

// NormalizeEmail canonicalizes an email for use as a store key and for
// comparisons against durable identities.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims surrounding whitespace; usernames keep their case
// for display and are compared case-insensitively at the storage layer.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]Pending
}

// NewMemoryStore returns a mutex-guarded map store. A later Put for the same
// email overwrites the earlier entry, invalidating its code.
func NewMemoryStore() PendingStore {
	return &memoryStore{entries: make(map[string]Pending)}
}

func (s *memoryStore) Put(email string, p Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = p
}

func (s *memoryStore) Get(email string) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[email]
	return p, ok
}

func (s *memoryStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
}

// Sweep drops expired entries and returns how many were removed.
func (s *memoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for email, p := range s.entries {
		if p.Expired(now) {
			delete(s.entries, email)
			removed++
		}
	}
	return removed
}
