package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FavouriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavouriteRepository(pool *pgxpool.Pool) *FavouriteRepository {
	return &FavouriteRepository{pool: pool}
}

// ListByUser returns the business ids favourited by a user, most recent first.
func (r *FavouriteRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT business_id FROM user_favourites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *FavouriteRepository) IsFavourite(ctx context.Context, userID string, businessID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM user_favourites WHERE user_id = $1 AND business_id = $2
		)
	`
	var favourited bool
	if err := r.pool.QueryRow(ctx, query, userID, businessID).Scan(&favourited); err != nil {
		return false, err
	}
	return favourited, nil
}

// Toggle flips the favourite state and returns the resulting state. The
// insert-or-delete pair keeps concurrent toggles idempotent per state.
func (r *FavouriteRepository) Toggle(ctx context.Context, userID string, businessID string) (bool, error) {
	const insert = `
		INSERT INTO user_favourites (user_id, business_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, business_id) DO NOTHING
	`
	cmd, err := r.pool.Exec(ctx, insert, userID, businessID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}

	const remove = `DELETE FROM user_favourites WHERE user_id = $1 AND business_id = $2`
	if _, err := r.pool.Exec(ctx, remove, userID, businessID); err != nil {
		return true, err
	}
	return false, nil
}
