package domain

import "context"

// HBnBClient is the REST backend. Payloads are returned loosely typed and
// mapped by the app layer. An empty token means the request is anonymous.
type HBnBClient interface {
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (map[string]any, error)
	ListPlaces(ctx context.Context, token string) ([]map[string]any, error)
	GetPlace(ctx context.Context, token, id string) (map[string]any, error)
	ListPlaceReviews(ctx context.Context, token, placeID string) ([]map[string]any, error)
	CreateReview(ctx context.Context, token string, r NewReview) error
}

// Cache holds per-session state (listing snapshots, flash flags).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models

type PlaceCard struct {
	ID    string
	Title string
	Price float64
	Image string
}

type PlaceView struct {
	ID          string
	Title       string
	Price       float64
	Description string
	Image       string
	HostName    string
	HostEmail   string
	Amenities   []string
}

type ReviewView struct {
	ID          string
	Author      string
	Text        string
	Rating      int
	StarsFilled string
	StarsEmpty  string
}
