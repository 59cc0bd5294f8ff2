package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
)

// PriceAll is the filter value meaning "no filter".
const PriceAll = "all"

// PriceFilterOptions are the choices offered by the listing page.
var PriceFilterOptions = []string{"10", "50", "100", PriceAll}

type ListingService struct {
	api   domain.HBnBClient
	store domain.Cache
	ttl   time.Duration
}

func NewListingService(api domain.HBnBClient, store domain.Cache, ttl time.Duration) *ListingService {
	return &ListingService{api: api, store: store, ttl: ttl}
}

func listingKey(sid string) string { return "listing:" + sid }

// Load fetches every place and keeps the result as the session's snapshot.
func (s *ListingService) Load(ctx context.Context, sid, token string) ([]domain.Place, error) {
	raw, err := s.api.ListPlaces(ctx, token)
	if err != nil {
		return nil, err
	}
	places := mapPlaces(raw)
	if sid != "" && s.store != nil {
		if err := s.store.Set(ctx, listingKey(sid), places, int(s.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Str("sid", sid).Msg("store listing snapshot failed")
		}
	}
	return places, nil
}

// Snapshot returns the last listing fetched for this session.
func (s *ListingService) Snapshot(ctx context.Context, sid string) ([]domain.Place, bool) {
	if sid == "" || s.store == nil {
		return nil, false
	}
	var places []domain.Place
	ok, err := s.store.Get(ctx, listingKey(sid), &places)
	if err != nil {
		log.Warn().Err(err).Str("sid", sid).Msg("read listing snapshot failed")
		return nil, false
	}
	return places, ok
}

// Browse renders the listing page's cards. A filter request re-uses the
// session snapshot and only falls back to the backend when none exists.
// On fetch failure the error is returned with an empty list.
func (s *ListingService) Browse(ctx context.Context, sid, token, maxPrice string) ([]domain.PlaceCard, error) {
	var places []domain.Place
	cached := false
	if maxPrice != "" {
		places, cached = s.Snapshot(ctx, sid)
	}
	if !cached {
		var err error
		if places, err = s.Load(ctx, sid, token); err != nil {
			return []domain.PlaceCard{}, err
		}
	}
	return Cards(FilterByPrice(places, maxPrice)), nil
}

// FilterByPrice keeps places priced at or below maxPrice. "all" and "" keep
// everything; a value without a leading integer keeps nothing.
func FilterByPrice(places []domain.Place, maxPrice string) []domain.Place {
	if maxPrice == "" || maxPrice == PriceAll {
		return append([]domain.Place(nil), places...)
	}
	limit, ok := leadingInt(maxPrice)
	out := make([]domain.Place, 0, len(places))
	if !ok {
		return out
	}
	for _, p := range places {
		if p.Price <= float64(limit) {
			out = append(out, p)
		}
	}
	return out
}

// leadingInt parses the integer prefix of s, the way form values like "50"
// or "50usd" are read.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func Cards(places []domain.Place) []domain.PlaceCard {
	out := make([]domain.PlaceCard, 0, len(places))
	for _, p := range places {
		out = append(out, domain.PlaceCard{
			ID:    p.ID,
			Title: p.Title,
			Price: p.Price,
			Image: ImageForTitle(p.Title),
		})
	}
	return out
}

// ImageForTitle picks a stock picture from keywords in the title.
func ImageForTitle(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "cozy") || strings.Contains(t, "apartment"):
		return "images/place1.jpg"
	case strings.Contains(t, "luxury") || strings.Contains(t, "villa"):
		return "images/place2.jpg"
	case strings.Contains(t, "beach") || strings.Contains(t, "house"):
		return "images/place3.jpg"
	default:
		return "images/place1.jpg"
	}
}
