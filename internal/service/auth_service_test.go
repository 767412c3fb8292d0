package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizboost/api/internal/models"
	"bizboost/api/internal/oauth"
	"bizboost/api/internal/repository"
	"bizboost/api/internal/security"
)

type fakeVerifier struct {
	identity oauth.Identity
	err      error
}

func (f fakeVerifier) Verify(context.Context, string) (oauth.Identity, error) {
	return f.identity, f.err
}

func newAuthService(store *fakeUserStore, verifier oauth.Verifier) *AuthService {
	return NewAuthService(store, verifier, testConfig(), testLogger())
}

func seedMember(t *testing.T, store *fakeUserStore, username string, email string, password string) models.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	token, expiresAt, err := security.IssueToken(time.Hour)
	require.NoError(t, err)

	user := models.User{
		ID:             username + "-id",
		Role:           models.UserRoleMember,
		Username:       &username,
		Email:          &email,
		Name:           username,
		PasswordHash:   hash,
		Token:          &token,
		TokenExpiresAt: &expiresAt,
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestCreateGuest(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})

	user, err := svc.CreateGuest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.UserRoleGuest, user.Role)
	require.NotNil(t, user.Token)
	assert.True(t, security.TokenShapeValid(*user.Token))
	require.NotNil(t, user.GuestExpiresAt)
	require.NotNil(t, user.TokenExpiresAt)

	stored, ok := store.snapshot(user.ID)
	require.True(t, ok)
	assert.Equal(t, *user.Token, *stored.Token)
}

func TestValidate_MissingAndMalformedTokens(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), fakeVerifier{})

	_, err := svc.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = svc.Validate(context.Background(), "short")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = svc.Validate(context.Background(), "has spaces and illegal chars!!")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidate_UnknownToken(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), fakeVerifier{})

	token, _, err := security.IssueToken(time.Hour)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidate_ActiveSessionPerformsNoWrites(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})

	guest, err := svc.CreateGuest(context.Background())
	require.NoError(t, err)

	before, _ := store.snapshot(guest.ID)
	got, err := svc.Validate(context.Background(), *guest.Token)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, got.ID)

	after, _ := store.snapshot(guest.ID)
	assert.Equal(t, before, after)
}

func TestValidate_ExpiredMemberKeepsAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})
	member := seedMember(t, store, "ada", "ada@example.com", "correct-horse")
	token := *member.Token

	// Jump past the token expiry.
	svc.now = func() time.Time { return member.TokenExpiresAt.Add(time.Minute) }

	_, err := svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The account survives with its session cleared.
	stored, err := store.GetByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Token)
	assert.Nil(t, stored.TokenExpiresAt)

	// The stale token now reads as unknown, not expired.
	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidate_ExpiredGuestIsDeleted(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})

	guest, err := svc.CreateGuest(context.Background())
	require.NoError(t, err)

	svc.now = func() time.Time { return guest.TokenExpiresAt.Add(time.Minute) }

	_, err = svc.Validate(context.Background(), *guest.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = store.GetByID(context.Background(), guest.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestValidate_GuestCeilingIndependentOfToken(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})

	// A guest whose token is still valid but whose account ceiling has passed.
	token, expiresAt, err := security.IssueToken(48 * time.Hour)
	require.NoError(t, err)
	ceiling := time.Now().Add(-time.Minute)
	guest := models.User{
		ID:             "stale-guest",
		Role:           models.UserRoleGuest,
		Token:          &token,
		TokenExpiresAt: &expiresAt,
		GuestExpiresAt: &ceiling,
	}
	require.NoError(t, store.Create(context.Background(), guest))

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = store.GetByID(context.Background(), guest.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestLoginPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})
	member := seedMember(t, store, "grace", "grace@example.com", "hopper-machine")
	oldToken := *member.Token

	user, token, err := svc.LoginPassword(context.Background(), "grace", "hopper-machine")
	require.NoError(t, err)
	assert.Equal(t, member.ID, user.ID)
	assert.NotEqual(t, oldToken, token)

	// The rotated token works, the superseded one does not.
	_, err = svc.Validate(context.Background(), token)
	assert.NoError(t, err)
	_, err = svc.Validate(context.Background(), oldToken)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLoginPassword_ByEmailCaseInsensitive(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})
	member := seedMember(t, store, "linus", "linus@example.com", "penguin-kernel")

	user, _, err := svc.LoginPassword(context.Background(), "LINUS@Example.COM", "penguin-kernel")
	require.NoError(t, err)
	assert.Equal(t, member.ID, user.ID)
}

func TestLoginPassword_RejectionsAreUniform(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})
	seedMember(t, store, "ken", "ken@example.com", "plan9-forever")

	cases := map[string]struct {
		identity string
		password string
	}{
		"empty identity": {"", "plan9-forever"},
		"empty password": {"ken", ""},
		"unknown user":   {"nobody", "plan9-forever"},
		"wrong password": {"ken", "plan9-never"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.LoginPassword(context.Background(), tc.identity, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLoginPassword_GuestIdentityRejected(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})

	// A row with no password hash can never authenticate by password.
	username := "ghost"
	require.NoError(t, store.Create(context.Background(), models.User{
		ID:       "ghost-id",
		Role:     models.UserRoleMember,
		Username: &username,
	}))

	_, _, err := svc.LoginPassword(context.Background(), "ghost", "anything-at-all")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{})

	t.Run("guest row is deleted", func(t *testing.T) {
		guest, err := svc.CreateGuest(context.Background())
		require.NoError(t, err)

		require.NoError(t, svc.Logout(context.Background(), guest))
		_, err = store.GetByID(context.Background(), guest.ID)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("member keeps the account", func(t *testing.T) {
		member := seedMember(t, store, "rob", "rob@example.com", "gopher-pike-1")

		require.NoError(t, svc.Logout(context.Background(), member))
		stored, err := store.GetByID(context.Background(), member.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Token)
	})
}

func TestLoginGoogle_CreatesMember(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{identity: oauth.Identity{
		Subject:   "google-sub-1",
		Email:     "New.Person@Example.com",
		Name:      "New Person",
		AvatarURL: "https://example.com/p.png",
	}})

	user, token, err := svc.LoginGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleMember, user.Role)
	require.NotNil(t, user.Email)
	assert.Equal(t, "new.person@example.com", *user.Email)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-1", *user.GoogleID)

	got, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLoginGoogle_LinksExistingEmailAccount(t *testing.T) {
	store := newFakeUserStore()
	member := seedMember(t, store, "mary", "mary@example.com", "lovelace-notes")
	svc := newAuthService(store, fakeVerifier{identity: oauth.Identity{
		Subject: "google-sub-2",
		Email:   "mary@example.com",
		Name:    "Mary",
	}})

	user, _, err := svc.LoginGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, member.ID, user.ID)

	stored, err := store.GetByID(context.Background(), member.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.GoogleID)
	assert.Equal(t, "google-sub-2", *stored.GoogleID)
}

func TestLoginGoogle_ReusesLinkedAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store, fakeVerifier{identity: oauth.Identity{
		Subject: "google-sub-3",
		Email:   "repeat@example.com",
	}})

	first, _, err := svc.LoginGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	second, _, err := svc.LoginGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestLoginGoogle_VerifierFailure(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), fakeVerifier{err: oauth.ErrVerificationFailed})

	_, _, err := svc.LoginGoogle(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrProviderVerification)
}
