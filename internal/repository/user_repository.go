package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizboost/api/internal/models"
)

const userColumns = `
	id, role, username, email, name, avatar_url, password_hash, google_id,
	token, token_expires_at, guest_expires_at, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Role,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.GoogleID,
		&user.Token,
		&user.TokenExpiresAt,
		&user.GuestExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, role, username, email, name, avatar_url, password_hash, google_id,
			token, token_expires_at, guest_expires_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Role,
		user.Username,
		user.Email,
		user.Name,
		user.AvatarURL,
		user.PasswordHash,
		user.GoogleID,
		user.Token,
		user.TokenExpiresAt,
		user.GuestExpiresAt,
	)
	return translateUnique(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByToken(ctx context.Context, token string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE token = $1`
	return scanUser(r.pool.QueryRow(ctx, query, token))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindByIdentity resolves a login identifier that may be either a username
// or an email address.
func (r *UserRepository) FindByIdentity(ctx context.Context, identity string) (models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)
		LIMIT 1
	`
	return scanUser(r.pool.QueryRow(ctx, query, identity))
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, googleID))
}

// ExistsByUsernameOrEmail reports whether any durable identity already
// claims either value. Used as the soft pre-check during signup; the unique
// indexes remain the hard check.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2)
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, username, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// PromoteSession installs a fresh token and expiry, forces the member role
// and lifts the guest lifetime ceiling in a single statement.
func (r *UserRepository) PromoteSession(ctx context.Context, id string, token string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET role = 'member',
		    token = $2,
		    token_expires_at = $3,
		    guest_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, token, expiresAt)
	if err != nil {
		return translateUnique(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ClearSession invalidates the token while keeping the account. Member
// expiry and logout both land here.
func (r *UserRepository) ClearSession(ctx context.Context, id string) error {
	const query = `
		UPDATE users
		SET token = NULL, token_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AttachGoogle links an external subject id to an existing account. A unique
// violation here means the subject is already linked elsewhere.
func (r *UserRepository) AttachGoogle(ctx context.Context, id string, googleID string, name string, avatarURL *string) error {
	const query = `
		UPDATE users
		SET google_id = $2,
		    name = CASE WHEN name = '' THEN $3 ELSE name END,
		    avatar_url = COALESCE(avatar_url, $4),
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, googleID, name, avatarURL)
	if err != nil {
		return translateUnique(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteExpiredGuests removes guest rows past their hard lifetime ceiling.
func (r *UserRepository) DeleteExpiredGuests(ctx context.Context, now time.Time) (int64, error) {
	const query = `
		DELETE FROM users
		WHERE role = 'guest' AND guest_expires_at IS NOT NULL AND guest_expires_at <= $1
	`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ClearExpiredSessions drops stale member tokens and deletes guests whose
// session lapsed, mirroring what lazy validation does one row at a time.
func (r *UserRepository) ClearExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const clearMembers = `
		UPDATE users
		SET token = NULL, token_expires_at = NULL, updated_at = NOW()
		WHERE role = 'member' AND token IS NOT NULL AND token_expires_at <= $1
	`
	const deleteGuests = `
		DELETE FROM users
		WHERE role = 'guest' AND token_expires_at IS NOT NULL AND token_expires_at <= $1
	`

	cleared, err := r.pool.Exec(ctx, clearMembers, now)
	if err != nil {
		return 0, err
	}
	deleted, err := r.pool.Exec(ctx, deleteGuests, now)
	if err != nil {
		return cleared.RowsAffected(), err
	}
	return cleared.RowsAffected() + deleted.RowsAffected(), nil
}
