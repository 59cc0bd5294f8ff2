package hbnb_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hbnb_web/internal/adapters/hbnb"
	"hbnb_web/internal/domain"
)

func newClient(t *testing.T, url string) *hbnb.Client {
	t.Helper()
	cl, err := hbnb.New(url, 100, time.Second) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_ListPlaces_AnonymousHasNoAuthorization(t *testing.T) {
	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotPath = r.Header.Get("Authorization"), r.URL.Path
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": "p1", "title": "Cozy", "price": 40}})
	}))
	defer ts.Close()

	out, err := newClient(t, ts.URL).ListPlaces(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 || out[0]["id"] != "p1" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
	if gotPath != "/places/" {
		t.Fatalf("expected trailing slash path, got %q", gotPath)
	}
}

func TestClient_GetPlace_SendsBearer(t *testing.T) {
	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotPath = r.Header.Get("Authorization"), r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p1"})
	}))
	defer ts.Close()

	if _, err := newClient(t, ts.URL).GetPlace(context.Background(), "tok", "p1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/places/p1" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestClient_Login(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if in["email"] != "a@b.c" || in["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Identifiants invalides"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "jwt-1"})
	}))
	defer ts.Close()
	cl := newClient(t, ts.URL)

	tok, err := cl.Login(context.Background(), "a@b.c", "pw")
	if err != nil || tok != "jwt-1" {
		t.Fatalf("login: tok=%q err=%v", tok, err)
	}

	_, err = cl.Login(context.Background(), "a@b.c", "nope")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	var ae *domain.APIError
	if !errors.As(err, &ae) || ae.StatusText != "Unauthorized" || ae.Message != "Identifiants invalides" {
		t.Fatalf("unexpected api error: %+v", ae)
	}
}

func TestClient_StatusTextPassedThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).ListPlaces(context.Background(), "")
	var ae *domain.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.StatusCode != 503 || ae.StatusText != "Service Unavailable" {
		t.Fatalf("unexpected api error: %+v", ae)
	}
}

func TestClient_NoRetryOnFailure(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := newClient(t, ts.URL).ListPlaces(context.Background(), ""); err == nil {
		t.Fatalf("expected error for 500")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly 1 call, got %d", n)
	}
}

func TestClient_CreateReview(t *testing.T) {
	var got domain.NewReview
	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotPath = r.Header.Get("Authorization"), r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r1"}`))
	}))
	defer ts.Close()

	in := domain.NewReview{Text: "Great", Rating: 4, UserID: "u1", PlaceID: "p1"}
	if err := newClient(t, ts.URL).CreateReview(context.Background(), "tok", in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != in || gotAuth != "Bearer tok" || gotPath != "/reviews/" {
		t.Fatalf("unexpected request: %+v auth=%q path=%q", got, gotAuth, gotPath)
	}
}

func TestClient_TransportFailureIsNotAPIError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newClient(t, url).ListPlaces(context.Background(), "")
	if err == nil {
		t.Fatalf("expected error from closed server")
	}
	if domain.IsAPIError(err) {
		t.Fatalf("transport failure must not be an APIError: %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := hbnb.New("", 1, time.Second); err == nil {
		t.Fatalf("expected error for empty base")
	}
}
