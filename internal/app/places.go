package app

import (
	"context"
	"strings"

	"hbnb_web/internal/domain"
)

const (
	starFilled = "★"
	starEmpty  = "☆"
	maxRating  = 5
)

// placeholderHost stands in when the backend omits the owner.
var placeholderHost = domain.Owner{FirstName: "Admin", LastName: "HBnB", Email: "admin@hbnb.io"}

type PlaceService struct {
	api domain.HBnBClient
}

func NewPlaceService(api domain.HBnBClient) *PlaceService {
	return &PlaceService{api: api}
}

// Details loads one place. An empty id fails without calling the backend.
func (s *PlaceService) Details(ctx context.Context, token, id string) (domain.PlaceView, error) {
	if id == "" {
		return domain.PlaceView{}, missingPlaceID()
	}
	raw, err := s.api.GetPlace(ctx, token, id)
	if err != nil {
		if domain.IsAPIError(err) {
			return domain.PlaceView{}, &FormError{Msg: MsgPlaceLoadFailed, Err: err}
		}
		return domain.PlaceView{}, &FormError{Msg: MsgPlaceLoadError, Transport: true, Err: err}
	}
	return placeView(mapPlace(raw), id), nil
}

// Reviews loads a place's reviews, dropping repeated ids.
func (s *PlaceService) Reviews(ctx context.Context, token, placeID string) ([]domain.ReviewView, error) {
	if placeID == "" {
		return nil, missingPlaceID()
	}
	raw, err := s.api.ListPlaceReviews(ctx, token, placeID)
	if err != nil {
		if domain.IsAPIError(err) {
			return nil, &FormError{Msg: MsgReviewsLoadFailed, Err: err}
		}
		return nil, &FormError{Msg: MsgReviewsLoadError, Transport: true, Err: err}
	}

	reviews := make([]domain.Review, 0, len(raw))
	for _, r := range raw {
		reviews = append(reviews, mapReview(r))
	}
	reviews = DedupeReviews(reviews)

	out := make([]domain.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		filled, empty := Stars(r.Rating)
		out = append(out, domain.ReviewView{
			ID:          r.ID,
			Author:      ReviewAuthor(r),
			Text:        r.Text,
			Rating:      r.Rating,
			StarsFilled: filled,
			StarsEmpty:  empty,
		})
	}
	return out, nil
}

func placeView(p domain.Place, id string) domain.PlaceView {
	host := placeholderHost
	if p.Owner != nil {
		host = *p.Owner
	}
	if p.ID == "" {
		p.ID = id
	}
	desc := p.Description
	if desc == "" {
		desc = "No description available."
	}
	return domain.PlaceView{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: desc,
		Image:       ImageForTitle(p.Title),
		HostName:    strings.TrimSpace(host.FirstName + " " + host.LastName),
		HostEmail:   host.Email,
		Amenities:   p.Amenities,
	}
}

// DedupeReviews keeps the first review for each id. Reviews without an id
// are always kept.
func DedupeReviews(in []domain.Review) []domain.Review {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		if r.ID != "" {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

// Stars returns the filled and empty glyph runs for a 1–5 rating.
func Stars(rating int) (filled, empty string) {
	if rating < 0 {
		rating = 0
	}
	if rating > maxRating {
		rating = maxRating
	}
	return strings.Repeat(starFilled, rating), strings.Repeat(starEmpty, maxRating-rating)
}

// ReviewAuthor names the reviewer: embedded user first, then a shortened
// user id, then "Anonymous".
func ReviewAuthor(r domain.Review) string {
	if r.Author != nil && r.Author.FirstName != "" && r.Author.LastName != "" {
		return r.Author.FirstName + " " + r.Author.LastName
	}
	if r.UserID != "" {
		id := r.UserID
		if rs := []rune(id); len(rs) > 8 {
			id = string(rs[:8])
		}
		return "User " + id + "..."
	}
	return "Anonymous"
}
