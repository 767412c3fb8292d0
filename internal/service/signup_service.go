package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bizboost/api/internal/config"
	"bizboost/api/internal/ids"
	"bizboost/api/internal/mailer"
	"bizboost/api/internal/models"
	"bizboost/api/internal/repository"
	"bizboost/api/internal/security"
	"bizboost/api/internal/signup"
)

type SignupService struct {
	users   UserStore
	pending signup.PendingStore
	mail    mailer.Mailer
	cfg     *config.AppConfig
	log     zerolog.Logger
	now     func() time.Time
}

func NewSignupService(users UserStore, pending signup.PendingStore, mail mailer.Mailer, cfg *config.AppConfig, log zerolog.Logger) *SignupService {
	return &SignupService{
		users:   users,
		pending: pending,
		mail:    mail,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// Start validates the registration, mails a one-time code and holds the
// hashed registration in the pending store. The mail goes out before the
// entry is stored: a failed dispatch leaves nothing behind, so there is
// never a pending entry whose code nobody received. A repeated Start for the
// same email overwrites the earlier entry, superseding its code.
func (s *SignupService) Start(ctx context.Context, username string, email string, password string) error {
	username = signup.NormalizeUsername(username)
	email = signup.NormalizeEmail(email)

	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(password) < s.cfg.Auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, s.cfg.Auth.MinPasswordLength)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}

	code, err := security.GenerateCode(s.cfg.Auth.SignupCodeDigits)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.mail.SendVerificationCode(ctx, email, code); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("verification mail failed")
		return ErrMailDispatch
	}

	s.pending.Put(email, signup.Pending{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Code:         code,
		ExpiresAt:    s.now().Add(s.cfg.Auth.SignupCodeTTL),
	})

	return nil
}

// Verify consumes the one-time code and promotes the pending registration to
// a durable member with an active session. The users table's unique indexes
// are the final arbiter against races; a violation there surfaces as the
// same conflict as the pre-check.
func (s *SignupService) Verify(ctx context.Context, email string, code string) (models.User, string, error) {
	email = signup.NormalizeEmail(email)

	pending, ok := s.pending.Get(email)
	if !ok {
		return models.User{}, "", ErrCodeExpired
	}
	if pending.Expired(s.now()) {
		s.pending.Delete(email)
		return models.User{}, "", ErrCodeExpired
	}
	if code != pending.Code {
		return models.User{}, "", ErrCodeInvalid
	}

	// A durable identity may have appeared since Start; this entry can never
	// succeed anymore, so drop it along with the rejection.
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, pending.Username, email)
	if err != nil {
		return models.User{}, "", err
	}
	if exists {
		s.pending.Delete(email)
		return models.User{}, "", ErrConflict
	}

	token, expiresAt, err := security.IssueToken(s.cfg.Auth.SessionLifetime)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		ID:             ids.New(),
		Role:           models.UserRoleMember,
		Username:       &pending.Username,
		Email:          &pending.Email,
		Name:           pending.Username,
		PasswordHash:   pending.PasswordHash,
		Token:          &token,
		TokenExpiresAt: &expiresAt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.pending.Delete(email)
			return models.User{}, "", ErrConflict
		}
		return models.User{}, "", err
	}

	s.pending.Delete(email)
	return user, token, nil
}
