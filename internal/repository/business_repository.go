package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizboost/api/internal/models"
)

type BusinessRepository struct {
	pool *pgxpool.Pool
}

func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

// businessSelect joins per-business review and favourite aggregates so a
// single round trip serves the listing and detail endpoints.
const businessSelect = `
	SELECT
		b.id, b.name, b.short_description, b.long_description, b.categories,
		b.owner_name, b.contact_phone, b.contact_email, b.website_url, b.address,
		b.timetable, b.deals, b.banner_image_url, b.logo_image_url,
		b.created_at, b.updated_at,
		COALESCE(r.avg_rating, 0) AS avg_rating,
		COALESCE(r.review_count, 0) AS review_count,
		COALESCE(f.favourites_count, 0) AS favourites_count
	FROM businesses b
	LEFT JOIN (
		SELECT business_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count
		FROM reviews GROUP BY business_id
	) r ON r.business_id = b.id
	LEFT JOIN (
		SELECT business_id, COUNT(*) AS favourites_count
		FROM user_favourites GROUP BY business_id
	) f ON f.business_id = b.id
`

func scanBusiness(row pgx.Row) (models.Business, error) {
	var (
		b             models.Business
		timetableJSON []byte
		dealsJSON     []byte
	)
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.ShortDescription,
		&b.LongDescription,
		&b.Categories,
		&b.OwnerName,
		&b.ContactPhone,
		&b.ContactEmail,
		&b.WebsiteURL,
		&b.Address,
		&timetableJSON,
		&dealsJSON,
		&b.BannerImageURL,
		&b.LogoImageURL,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.AvgRating,
		&b.ReviewCount,
		&b.FavouritesCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Business{}, ErrBusinessNotFound
		}
		return models.Business{}, err
	}

	if err := json.Unmarshal(timetableJSON, &b.Timetable); err != nil {
		return models.Business{}, fmt.Errorf("decode timetable: %w", err)
	}
	if err := json.Unmarshal(dealsJSON, &b.Deals); err != nil {
		return models.Business{}, fmt.Errorf("decode deals: %w", err)
	}
	return b, nil
}

// List returns every business with aggregates. When ids is non-empty only
// those businesses are returned, preserving the requested order.
func (r *BusinessRepository) List(ctx context.Context, ids []string) ([]models.Business, error) {
	query := businessSelect + ` ORDER BY b.name`
	args := []any{}
	if len(ids) > 0 {
		query = businessSelect + ` WHERE b.id = ANY($1) ORDER BY array_position($1, b.id)`
		args = append(args, ids)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := make([]models.Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (models.Business, error) {
	const query = businessSelect + ` WHERE b.id = $1`
	return scanBusiness(r.pool.QueryRow(ctx, query, id))
}

func (r *BusinessRepository) Create(ctx context.Context, b models.Business) error {
	timetableJSON, err := json.Marshal(b.Timetable)
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	dealsJSON, err := json.Marshal(b.Deals)
	if err != nil {
		return fmt.Errorf("encode deals: %w", err)
	}

	const query = `
		INSERT INTO businesses (
			id, name, short_description, long_description, categories,
			owner_name, contact_phone, contact_email, website_url, address,
			timetable, deals, banner_image_url, logo_image_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW()
		)
	`
	_, err = r.pool.Exec(ctx, query,
		b.ID,
		b.Name,
		b.ShortDescription,
		b.LongDescription,
		b.Categories,
		b.OwnerName,
		b.ContactPhone,
		b.ContactEmail,
		b.WebsiteURL,
		b.Address,
		timetableJSON,
		dealsJSON,
		b.BannerImageURL,
		b.LogoImageURL,
	)
	return translateUnique(err)
}

// UpdateImage writes back a stored object URL for either the banner or the
// logo slot.
func (r *BusinessRepository) UpdateImage(ctx context.Context, id string, slot string, url string) error {
	var query string
	switch slot {
	case "banner":
		query = `UPDATE businesses SET banner_image_url = $2, updated_at = NOW() WHERE id = $1`
	case "logo":
		query = `UPDATE businesses SET logo_image_url = $2, updated_at = NOW() WHERE id = $1`
	default:
		return fmt.Errorf("unknown image slot %q", slot)
	}

	cmd, err := r.pool.Exec(ctx, query, id, url)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}
	return nil
}
