package models

import "time"

// Review is a single user's rating of a business. The storage layer enforces
// one review per user per business with a unique index.
type Review struct {
	ID         string
	BusinessID string
	UserID     string
	Rating     int
	Title      string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReviewWithAuthor joins a review with the public fields of its author for
// listing endpoints.
type ReviewWithAuthor struct {
	Review
	AuthorName      string
	AuthorAvatarURL *string
	AuthorRole      UserRole
}
