package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizboost/api/internal/models"
	"bizboost/api/internal/repository"
)

type fakeBusinessStore struct {
	businesses map[string]models.Business
}

func (f *fakeBusinessStore) List(_ context.Context, ids []string) ([]models.Business, error) {
	out := make([]models.Business, 0, len(f.businesses))
	for _, b := range f.businesses {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBusinessStore) GetByID(_ context.Context, id string) (models.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return models.Business{}, repository.ErrBusinessNotFound
	}
	return b, nil
}

func (f *fakeBusinessStore) UpdateImage(_ context.Context, id string, slot string, url string) error {
	b, ok := f.businesses[id]
	if !ok {
		return repository.ErrBusinessNotFound
	}
	switch slot {
	case "banner":
		b.BannerImageURL = url
	default:
		b.LogoImageURL = url
	}
	f.businesses[id] = b
	return nil
}

type fakeReviewStore struct {
	reviews []models.Review
}

func (f *fakeReviewStore) Create(_ context.Context, review models.Review) error {
	for _, r := range f.reviews {
		if r.BusinessID == review.BusinessID && r.UserID == review.UserID {
			return repository.ErrDuplicate
		}
	}
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeReviewStore) ExistsByBusinessAndUser(_ context.Context, businessID string, userID string) (bool, error) {
	for _, r := range f.reviews {
		if r.BusinessID == businessID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewStore) ListByBusiness(_ context.Context, businessID string) ([]models.ReviewWithAuthor, error) {
	var out []models.ReviewWithAuthor
	for _, r := range f.reviews {
		if r.BusinessID == businessID {
			out = append(out, models.ReviewWithAuthor{Review: r})
		}
	}
	return out, nil
}

func newReviewFixture() (*ReviewService, *fakeReviewStore, *int) {
	businesses := &fakeBusinessStore{businesses: map[string]models.Business{
		"biz-1": {ID: "biz-1", Name: "Corner Bakery"},
	}}
	reviews := &fakeReviewStore{}
	invalidations := 0
	svc := NewReviewService(reviews, businesses, func(context.Context) { invalidations++ }, testLogger())
	return svc, reviews, &invalidations
}

func memberUser(id string) models.User {
	return models.User{ID: id, Role: models.UserRoleMember}
}

func TestReviewCreate(t *testing.T) {
	svc, reviews, invalidations := newReviewFixture()

	review, err := svc.Create(context.Background(), memberUser("u1"), CreateReviewInput{
		BusinessID: "biz-1",
		Title:      "  Great bread  ",
		Body:       "Best sourdough in town.",
		Rating:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Great bread", review.Title)
	assert.Len(t, reviews.reviews, 1)
	assert.Equal(t, 1, *invalidations)
}

func TestReviewCreate_GuestsForbidden(t *testing.T) {
	svc, _, _ := newReviewFixture()

	_, err := svc.Create(context.Background(), models.User{ID: "g1", Role: models.UserRoleGuest}, CreateReviewInput{
		BusinessID: "biz-1",
		Title:      "nope",
		Rating:     3,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewCreate_Validation(t *testing.T) {
	svc, _, invalidations := newReviewFixture()

	cases := map[string]CreateReviewInput{
		"empty title":    {BusinessID: "biz-1", Title: "   ", Rating: 3},
		"title too long": {BusinessID: "biz-1", Title: strings.Repeat("x", 61), Rating: 3},
		"body too long":  {BusinessID: "biz-1", Title: "ok", Body: strings.Repeat("x", 1001), Rating: 3},
		"rating low":     {BusinessID: "biz-1", Title: "ok", Rating: 0},
		"rating high":    {BusinessID: "biz-1", Title: "ok", Rating: 6},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), memberUser("u1"), input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Zero(t, *invalidations)
}

func TestReviewCreate_UnknownBusiness(t *testing.T) {
	svc, _, _ := newReviewFixture()

	_, err := svc.Create(context.Background(), memberUser("u1"), CreateReviewInput{
		BusinessID: "missing",
		Title:      "ok",
		Rating:     3,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewCreate_OnePerUserPerBusiness(t *testing.T) {
	svc, _, _ := newReviewFixture()

	_, err := svc.Create(context.Background(), memberUser("u1"), CreateReviewInput{
		BusinessID: "biz-1", Title: "first", Rating: 4,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), memberUser("u1"), CreateReviewInput{
		BusinessID: "biz-1", Title: "second", Rating: 2,
	})
	assert.ErrorIs(t, err, ErrConflict)

	// A different member can still review.
	_, err = svc.Create(context.Background(), memberUser("u2"), CreateReviewInput{
		BusinessID: "biz-1", Title: "mine", Rating: 5,
	})
	assert.NoError(t, err)
}

func TestReviewList_UnknownBusiness(t *testing.T) {
	svc, _, _ := newReviewFixture()

	_, err := svc.ListByBusiness(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
