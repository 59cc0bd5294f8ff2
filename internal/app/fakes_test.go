package app_test

import (
	"context"
	"encoding/json"

	"hbnb_web/internal/domain"
)

// ---- fakes ----

type fakeAPI struct {
	calls   []string
	tokens  []string
	token   string
	loginEr error
	user    map[string]any
	userErr error
	places  []map[string]any
	listErr error
	place   map[string]any
	getErr  error
	reviews []map[string]any
	revErr  error
	created []domain.NewReview
	postErr error
}

func (f *fakeAPI) record(call, token string) {
	f.calls = append(f.calls, call)
	f.tokens = append(f.tokens, token)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	f.record("login", "")
	return f.token, f.loginEr
}

func (f *fakeAPI) CurrentUser(ctx context.Context, token string) (map[string]any, error) {
	f.record("me", token)
	return f.user, f.userErr
}

func (f *fakeAPI) ListPlaces(ctx context.Context, token string) ([]map[string]any, error) {
	f.record("places", token)
	return f.places, f.listErr
}

func (f *fakeAPI) GetPlace(ctx context.Context, token, id string) (map[string]any, error) {
	f.record("place:"+id, token)
	return f.place, f.getErr
}

func (f *fakeAPI) ListPlaceReviews(ctx context.Context, token, placeID string) ([]map[string]any, error) {
	f.record("reviews:"+placeID, token)
	return f.reviews, f.revErr
}

func (f *fakeAPI) CreateReview(ctx context.Context, token string, r domain.NewReview) error {
	f.record("create", token)
	if f.postErr == nil {
		f.created = append(f.created, r)
	}
	return f.postErr
}

// fakeCache round-trips through JSON like the real stores do.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}
