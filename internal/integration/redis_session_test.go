//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hbnb_web/internal/adapters/hbnb"
	server "hbnb_web/internal/adapters/http_server"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/app"
	"hbnb_web/internal/web"
)

// ---------- helpers ----------

func startRedis(t *testing.T) *redisad.Cache {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	cache := redisad.New(addr, "", 0)
	if err := pool.Retry(func() error { return cache.Ping(context.Background()) }); err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

// ---------- the test ----------

func TestRedisSession_SnapshotAndFlash(t *testing.T) {
	store := startRedis(t)

	var placeCalls atomic.Int32
	backend := http.NewServeMux()
	backend.HandleFunc("/places/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/places/":
			placeCalls.Add(1)
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": "p1", "title": "Cozy Apartment", "price": 40},
				{"id": "p2", "title": "Luxury Villa", "price": 300},
			})
		case "/places/p1":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "p1", "title": "Cozy Apartment", "price": 40})
		default:
			_ = json.NewEncoder(w).Encode([]map[string]any{})
		}
	})
	backend.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u1"})
	})
	backend.HandleFunc("/reviews/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r1"}`))
	})
	ts := httptest.NewServer(backend)
	defer ts.Close()

	api, err := hbnb.New(ts.URL, 100, time.Second)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	view, err := web.New()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Listings:      app.NewListingService(api, store, time.Minute),
		Auth:          app.NewAuthService(api),
		Places:        app.NewPlaceService(api),
		Reviews:       app.NewReviewService(api, store, time.Minute),
		View:          view,
		Sessions:      store,
		SessionTTL:    time.Minute,
		TokenMaxAge:   86400,
		RedirectDelay: 500 * time.Millisecond,
	})
	site := httptest.NewServer(srv.Mux())
	defer site.Close()

	res, err := http.Get(site.URL + "/login")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	res.Body.Close()
	var sid *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "sid" {
			sid = c
		}
	}
	if sid == nil {
		t.Fatalf("no session cookie issued")
	}
	token := &http.Cookie{Name: "token", Value: "opaque"}
	do := func(method, path, body string) string {
		t.Helper()
		req, _ := http.NewRequest(method, site.URL+path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		req.AddCookie(sid)
		req.AddCookie(token)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		defer res.Body.Close()
		b, err := io.ReadAll(res.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		return string(b)
	}

	do(http.MethodGet, "/", "")
	filtered := do(http.MethodGet, "/?max_price=50", "")
	if got := placeCalls.Load(); got != 1 {
		t.Fatalf("expected one backend listing call, got %d", got)
	}
	if strings.Contains(filtered, "Luxury Villa") || !strings.Contains(filtered, "Cozy Apartment") {
		t.Fatalf("filter not applied from redis snapshot")
	}

	if out := do(http.MethodPost, "/add_review?id=p1", "rating=5&review_text=Lovely"); !strings.Contains(out, "Review submitted successfully!") {
		t.Fatalf("submit failed: %s", out)
	}
	if out := do(http.MethodGet, "/place?id=p1", ""); !strings.Contains(out, "Review submitted successfully!") {
		t.Fatalf("flash missing from place page")
	}
	if out := do(http.MethodGet, "/place?id=p1", ""); strings.Contains(out, "Review submitted successfully!") {
		t.Fatalf("flash shown twice")
	}
}
