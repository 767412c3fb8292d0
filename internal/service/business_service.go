package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/rs/zerolog"

	"bizboost/api/internal/cache"
	"bizboost/api/internal/config"
	"bizboost/api/internal/models"
	"bizboost/api/internal/storage"
)

type BusinessStore interface {
	List(ctx context.Context, ids []string) ([]models.Business, error)
	GetByID(ctx context.Context, id string) (models.Business, error)
	UpdateImage(ctx context.Context, id string, slot string, url string) error
}

type BusinessService struct {
	businesses BusinessStore
	store      *storage.ObjectStore
	cache      *cache.JSONCache
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewBusinessService(businesses BusinessStore, store *storage.ObjectStore, jsonCache *cache.JSONCache, cfg *config.AppConfig, log zerolog.Logger) *BusinessService {
	return &BusinessService{
		businesses: businesses,
		store:      store,
		cache:      jsonCache,
		cfg:        cfg,
		log:        log,
	}
}

// List returns businesses with their read-time aggregates. The unfiltered
// listing is cached briefly; id-filtered requests (favourites pages) hit
// storage directly since the filter set is per user.
func (s *BusinessService) List(ctx context.Context, ids []string) ([]models.Business, error) {
	const cacheKey = "businesses:all"

	if len(ids) == 0 && s.cache != nil {
		var cached []models.Business
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			s.log.Warn().Err(err).Msg("business list cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	businesses, err := s.businesses.List(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range businesses {
		s.finalize(&businesses[i])
	}

	if len(ids) == 0 && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, businesses, s.cfg.Cache.BusinessTTL); err != nil {
			s.log.Warn().Err(err).Msg("business list cache write failed")
		}
	}
	return businesses, nil
}

func (s *BusinessService) Get(ctx context.Context, id string) (models.Business, error) {
	business, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		return models.Business{}, err
	}
	s.finalize(&business)
	return business, nil
}

// finalize normalizes read-time presentation: one-decimal ratings and a
// generated logo when none is stored.
func (s *BusinessService) finalize(b *models.Business) {
	b.AvgRating = math.Round(b.AvgRating*10) / 10
	b.LogoImageURL = withDefaultLogo(b.LogoImageURL, b.Name)
}

// InvalidateCache drops cached listings after a write that changes the
// aggregates, such as a new review.
func (s *BusinessService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "businesses:*"); err != nil {
		s.log.Warn().Err(err).Msg("business cache invalidation failed")
	}
}

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// UploadImage stores a banner or logo image in the object store and writes
// the public URL back to the business row. The content type is sniffed from
// the bytes, not trusted from the request.
func (s *BusinessService) UploadImage(ctx context.Context, businessID string, slot string, file io.Reader, size int64) (string, error) {
	if slot != "banner" && slot != "logo" {
		return "", fmt.Errorf("%w: image slot must be banner or logo", ErrValidation)
	}
	if _, err := s.businesses.GetByID(ctx, businessID); err != nil {
		return "", err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %s", ErrValidation, contentType)
	}

	key := fmt.Sprintf("businesses/%s/%s%s", businessID, slot, ext)
	body := io.MultiReader(bytes.NewReader(head), file)

	url, err := s.store.Put(ctx, key, body, size, contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	if err := s.businesses.UpdateImage(ctx, businessID, slot, url); err != nil {
		return "", err
	}

	s.InvalidateCache(ctx)
	return url, nil
}
