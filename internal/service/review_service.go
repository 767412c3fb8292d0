package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"bizboost/api/internal/ids"
	"bizboost/api/internal/models"
	"bizboost/api/internal/repository"
)

const (
	maxReviewTitleLength = 60
	maxReviewBodyLength  = 1000
)

type ReviewStore interface {
	Create(ctx context.Context, review models.Review) error
	ExistsByBusinessAndUser(ctx context.Context, businessID string, userID string) (bool, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.ReviewWithAuthor, error)
}

type ReviewService struct {
	reviews    ReviewStore
	businesses BusinessStore
	onWrite    func(ctx context.Context)
	log        zerolog.Logger
}

// NewReviewService wires the review store with the business store used for
// existence checks. onWrite runs after a successful write so the caller can
// invalidate cached aggregates; it may be nil.
func NewReviewService(reviews ReviewStore, businesses BusinessStore, onWrite func(ctx context.Context), log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		businesses: businesses,
		onWrite:    onWrite,
		log:        log,
	}
}

func (s *ReviewService) ListByBusiness(ctx context.Context, businessID string) ([]models.ReviewWithAuthor, error) {
	if _, err := s.businesses.GetByID(ctx, businessID); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.reviews.ListByBusiness(ctx, businessID)
}

type CreateReviewInput struct {
	BusinessID string
	Title      string
	Body       string
	Rating     int
}

// Create posts one review per user per business. Guests are rejected before
// anything else; the unique index catches whatever the soft check misses.
func (s *ReviewService) Create(ctx context.Context, user models.User, input CreateReviewInput) (models.Review, error) {
	if user.Role == models.UserRoleGuest {
		return models.Review{}, ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)

	if title == "" {
		return models.Review{}, fmt.Errorf("%w: review title is required", ErrValidation)
	}
	if len(title) > maxReviewTitleLength {
		return models.Review{}, fmt.Errorf("%w: review title must be at most %d characters", ErrValidation, maxReviewTitleLength)
	}
	if len(body) > maxReviewBodyLength {
		return models.Review{}, fmt.Errorf("%w: review body must be at most %d characters", ErrValidation, maxReviewBodyLength)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return models.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	if _, err := s.businesses.GetByID(ctx, input.BusinessID); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return models.Review{}, ErrNotFound
		}
		return models.Review{}, err
	}

	exists, err := s.reviews.ExistsByBusinessAndUser(ctx, input.BusinessID, user.ID)
	if err != nil {
		return models.Review{}, err
	}
	if exists {
		return models.Review{}, ErrConflict
	}

	review := models.Review{
		ID:         ids.New(),
		BusinessID: input.BusinessID,
		UserID:     user.ID,
		Rating:     input.Rating,
		Title:      title,
		Body:       body,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Review{}, ErrConflict
		}
		return models.Review{}, err
	}

	if s.onWrite != nil {
		s.onWrite(ctx)
	}
	return review, nil
}
