package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bizboost/api/internal/config"
	"bizboost/api/internal/ids"
	"bizboost/api/internal/models"
	"bizboost/api/internal/oauth"
	"bizboost/api/internal/repository"
	"bizboost/api/internal/security"
)

// UserStore is the slice of the user repository the auth services need.
// Defined here so tests can substitute an in-memory implementation.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByToken(ctx context.Context, token string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByIdentity(ctx context.Context, identity string) (models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	PromoteSession(ctx context.Context, id string, token string, expiresAt time.Time) error
	ClearSession(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	AttachGoogle(ctx context.Context, id string, googleID string, name string, avatarURL *string) error
}

type AuthService struct {
	users    UserStore
	verifier oauth.Verifier
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users UserStore, verifier oauth.Verifier, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// CreateGuest mints an anonymous time-boxed account with an active session.
// The guest lifetime is both the session window and the hard ceiling.
func (s *AuthService) CreateGuest(ctx context.Context) (models.User, error) {
	token, expiresAt, err := security.IssueToken(s.cfg.Auth.GuestLifetime)
	if err != nil {
		return models.User{}, err
	}

	guestExpiresAt := s.now().Add(s.cfg.Auth.GuestLifetime)
	user := models.User{
		ID:             ids.New(),
		Role:           models.UserRoleGuest,
		Token:          &token,
		TokenExpiresAt: &expiresAt,
		GuestExpiresAt: &guestExpiresAt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}
	return user, nil
}

// Validate resolves a presented token to an authenticated identity. The only
// writes it ever performs are the expiry cleanups: expired guests are
// deleted, expired member tokens are cleared. There is no sliding renewal.
func (s *AuthService) Validate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrNoSession
	}
	if !security.TokenShapeValid(token) {
		return models.User{}, ErrInvalidSession
	}

	user, err := s.users.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidSession
		}
		return models.User{}, err
	}

	now := s.now()
	if !user.SessionActive(now) {
		if err := s.endSession(ctx, user); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("expired session cleanup failed")
		}
		return models.User{}, ErrSessionExpired
	}

	// Guests have a second, independent ceiling on the account itself.
	if user.GuestExpired(now) {
		if err := s.users.Delete(ctx, user.ID); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("expired guest cleanup failed")
		}
		return models.User{}, ErrSessionExpired
	}

	return user, nil
}

// endSession is the single place the role variants diverge: a guest has no
// account to log back into, so the row goes away; a member only loses the
// token.
func (s *AuthService) endSession(ctx context.Context, user models.User) error {
	switch user.Role {
	case models.UserRoleGuest:
		err := s.users.Delete(ctx, user.ID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	default:
		err := s.users.ClearSession(ctx, user.ID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}
}

// Logout ends the caller's session using the same role dispatch as expiry.
func (s *AuthService) Logout(ctx context.Context, user models.User) error {
	return s.endSession(ctx, user)
}

// LoginPassword authenticates a member by username or email. Missing
// accounts and wrong passwords are indistinguishable to the caller.
func (s *AuthService) LoginPassword(ctx context.Context, identity string, password string) (models.User, string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || password == "" {
		return models.User{}, "", ErrInvalidCredentials
	}

	user, err := s.users.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	// Guests never have a password hash, so they fall out here too.
	if len(user.PasswordHash) == 0 {
		return models.User{}, "", ErrInvalidCredentials
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, "", ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// LoginGoogle verifies the provider assertion and links or creates the
// account. Lookup is by subject id first, then by email so an existing
// password account gets linked instead of duplicated.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (models.User, string, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("google token verification failed")
		return models.User{}, "", ErrProviderVerification
	}

	user, err := s.users.FindByGoogleID(ctx, identity.Subject)
	if err == nil {
		return s.issueSession(ctx, user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, "", err
	}

	user, err = s.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		var avatar *string
		if identity.AvatarURL != "" {
			avatar = &identity.AvatarURL
		}
		if err := s.users.AttachGoogle(ctx, user.ID, identity.Subject, identity.Name, avatar); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return models.User{}, "", ErrConflict
			}
			return models.User{}, "", err
		}
		return s.issueSession(ctx, user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, "", err
	}

	return s.createGoogleMember(ctx, identity)
}

func (s *AuthService) createGoogleMember(ctx context.Context, identity oauth.Identity) (models.User, string, error) {
	token, expiresAt, err := security.IssueToken(s.cfg.Auth.SessionLifetime)
	if err != nil {
		return models.User{}, "", err
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	var avatar *string
	if identity.AvatarURL != "" {
		avatar = &identity.AvatarURL
	}

	user := models.User{
		ID:             ids.New(),
		Role:           models.UserRoleMember,
		Email:          &email,
		Name:           identity.Name,
		AvatarURL:      avatar,
		GoogleID:       &identity.Subject,
		Token:          &token,
		TokenExpiresAt: &expiresAt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, "", ErrConflict
		}
		return models.User{}, "", err
	}
	return user, token, nil
}

// issueSession rotates the token and forces the member role. Any previous
// token stops validating from here on.
func (s *AuthService) issueSession(ctx context.Context, user models.User) (models.User, string, error) {
	token, expiresAt, err := security.IssueToken(s.cfg.Auth.SessionLifetime)
	if err != nil {
		return models.User{}, "", err
	}

	if err := s.users.PromoteSession(ctx, user.ID, token, expiresAt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, "", ErrConflict
		}
		return models.User{}, "", err
	}

	user.Role = models.UserRoleMember
	user.Token = &token
	user.TokenExpiresAt = &expiresAt
	user.GuestExpiresAt = nil
	return user, token, nil
}
