package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"bizboost/api/internal/models"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, review models.Review) error {
	const query = `
		INSERT INTO reviews (id, business_id, user_id, rating, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.BusinessID,
		review.UserID,
		review.Rating,
		review.Title,
		review.Body,
	)
	return translateUnique(err)
}

func (r *ReviewRepository) ExistsByBusinessAndUser(ctx context.Context, businessID string, userID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE business_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, businessID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByBusiness returns reviews newest-first with the public author fields
// joined in.
func (r *ReviewRepository) ListByBusiness(ctx context.Context, businessID string) ([]models.ReviewWithAuthor, error) {
	const query = `
		SELECT
			rv.id, rv.business_id, rv.user_id, rv.rating, rv.title, rv.body,
			rv.created_at, rv.updated_at,
			u.name, u.avatar_url, u.role
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.business_id = $1
		ORDER BY rv.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]models.ReviewWithAuthor, 0)
	for rows.Next() {
		var rv models.ReviewWithAuthor
		if err := rows.Scan(
			&rv.ID,
			&rv.BusinessID,
			&rv.UserID,
			&rv.Rating,
			&rv.Title,
			&rv.Body,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&rv.AuthorName,
			&rv.AuthorAvatarURL,
			&rv.AuthorRole,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
