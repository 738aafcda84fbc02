package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ticket_hotels/internal/domain"
)

// Catalog keys carry the store version, so a write from any source moves
// readers to a fresh key and stale entries simply expire.
func hotelsAllKey(version string) string { return "hotels:all:" + version }

func hotelKey(id int64, version string) string { return fmt.Sprintf("hotel:%d:%s", id, version) }

type HotelService struct {
	access   *AccessService
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewHotelService wires the hotel read paths. A nil cache or a zero ttl
// disables catalog caching. Eligibility is evaluated on every call regardless.
func NewHotelService(a *AccessService, r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{access: a, repo: r, cache: c, cacheTTL: ttl}
}

func (s *HotelService) ListHotels(ctx context.Context, userID int64) ([]domain.Hotel, error) {
	if _, err := s.access.CheckEligibility(ctx, userID); err != nil {
		return nil, err
	}

	version, useCache := s.version(ctx)
	var hs []domain.Hotel
	if useCache && s.cached(ctx, hotelsAllKey(version), &hs) {
		return nonNilHotels(hs), nil
	}
	hs, err := s.repo.FindHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("find hotels: %w", err)
	}
	hs = nonNilHotels(hs)
	if useCache {
		s.store(ctx, hotelsAllKey(version), hs)
	}
	return hs, nil
}

func (s *HotelService) GetHotelWithRooms(ctx context.Context, userID, hotelID int64) (domain.Hotel, error) {
	if _, err := s.access.CheckEligibility(ctx, userID); err != nil {
		return domain.Hotel{}, err
	}
	if hotelID <= 0 {
		return domain.Hotel{}, domain.ErrNotFound
	}

	version, useCache := s.version(ctx)
	key := hotelKey(hotelID, version)
	var h domain.Hotel
	if useCache && s.cached(ctx, key, &h) {
		if h.Rooms == nil {
			h.Rooms = []domain.Room{}
		}
		return h, nil
	}
	h, err := s.repo.FindHotelByID(ctx, hotelID)
	if err != nil {
		return domain.Hotel{}, err
	}
	if h.Rooms == nil {
		h.Rooms = []domain.Room{}
	}
	if useCache {
		s.store(ctx, key, h)
	}
	return h, nil
}

// version reports the catalog version to key cache entries with. Without a
// cache, or when the version can't be read, reads go straight to the store.
func (s *HotelService) version(ctx context.Context) (string, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return "", false
	}
	v, err := s.repo.CatalogVersion(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog version unavailable, bypassing cache")
		return "", false
	}
	return v, true
}

func (s *HotelService) cached(ctx context.Context, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	return ok && err == nil
}

func (s *HotelService) store(ctx context.Context, key string, v any) {
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}

func nonNilHotels(hs []domain.Hotel) []domain.Hotel {
	if hs == nil {
		return []domain.Hotel{}
	}
	// copy so callers can't mutate a slice the repo may still hold
	out := make([]domain.Hotel, len(hs))
	copy(out, hs)
	return out
}
