package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bizboost/api/internal/config"
	"bizboost/api/internal/models"
	"bizboost/api/internal/repository"
)

// fakeUserStore is an in-memory UserStore that mimics the storage layer's
// unique indexes, including returning repository.ErrDuplicate on violations.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) snapshot(id string) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	return u, ok
}

func (f *fakeUserStore) violatesUnique(candidate models.User) bool {
	for _, u := range f.users {
		if u.ID == candidate.ID {
			continue
		}
		if candidate.Token != nil && u.Token != nil && *candidate.Token == *u.Token {
			return true
		}
		if candidate.Email != nil && u.Email != nil &&
			strings.EqualFold(*candidate.Email, *u.Email) {
			return true
		}
		if candidate.Username != nil && u.Username != nil &&
			strings.EqualFold(*candidate.Username, *u.Username) {
			return true
		}
		if candidate.GoogleID != nil && u.GoogleID != nil && *candidate.GoogleID == *u.GoogleID {
			return true
		}
	}
	return false
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.violatesUnique(user) {
		return repository.ErrDuplicate
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByToken(_ context.Context, token string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Token != nil && *u.Token == token {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) FindByIdentity(_ context.Context, identity string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username != nil && strings.EqualFold(*u.Username, identity) {
			return u, nil
		}
		if u.Email != nil && strings.EqualFold(*u.Email, identity) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) FindByGoogleID(_ context.Context, googleID string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByUsernameOrEmail(_ context.Context, username string, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username != nil && strings.EqualFold(*u.Username, username) {
			return true, nil
		}
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) PromoteSession(_ context.Context, id string, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = models.UserRoleMember
	u.Token = &token
	u.TokenExpiresAt = &expiresAt
	u.GuestExpiresAt = nil
	if f.violatesUnique(u) {
		return repository.ErrDuplicate
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) ClearSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Token = nil
	u.TokenExpiresAt = nil
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) AttachGoogle(_ context.Context, id string, googleID string, name string, avatarURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.GoogleID = &googleID
	if u.Name == "" {
		u.Name = name
	}
	if u.AvatarURL == nil {
		u.AvatarURL = avatarURL
	}
	if f.violatesUnique(u) {
		return repository.ErrDuplicate
	}
	f.users[id] = u
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Auth: config.AuthConfig{
			SessionLifetime:   7 * 24 * time.Hour,
			GuestLifetime:     24 * time.Hour,
			SignupCodeTTL:     10 * time.Minute,
			SignupCodeDigits:  6,
			MinPasswordLength: 8,
		},
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
