package models

import "time"

type UserRole string

const (
	UserRoleGuest  UserRole = "guest"
	UserRoleMember UserRole = "member"
)

// User covers both ephemeral guest accounts and durable member accounts.
// Guests carry no credential and are removed outright once expired; members
// keep their row and only lose the session token.
type User struct {
	ID             string
	Role           UserRole
	Username       *string
	Email          *string
	Name           string
	AvatarURL      *string
	PasswordHash   []byte
	GoogleID       *string
	Token          *string
	TokenExpiresAt *time.Time
	GuestExpiresAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SessionActive reports whether the user holds a token that has not passed
// its expiry at the given instant.
func (u User) SessionActive(now time.Time) bool {
	return u.Token != nil && u.TokenExpiresAt != nil && now.Before(*u.TokenExpiresAt)
}

// GuestExpired reports whether a guest account has passed its hard lifetime
// ceiling. Always false for members.
func (u User) GuestExpired(now time.Time) bool {
	return u.Role == UserRoleGuest && u.GuestExpiresAt != nil && !now.Before(*u.GuestExpiresAt)
}
