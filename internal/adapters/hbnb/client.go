// internal/adapters/hbnb/client.go
package hbnb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int, timeout time.Duration) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if rps <= 0 {
		rps = 20
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API (trailing slashes on collections avoid the backend's 308) ----

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "auth.login", "", body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("hbnb: login response has no access_token")
	}
	return out.AccessToken, nil
}

func (c *Client) CurrentUser(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodGet, "/auth/me", "auth.me", token, nil, &out)
}

func (c *Client) ListPlaces(ctx context.Context, token string) ([]map[string]any, error) {
	var out []map[string]any
	return out, c.do(ctx, http.MethodGet, "/places/", "places.list", token, nil, &out)
}

func (c *Client) GetPlace(ctx context.Context, token, id string) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(id), "places.get", token, nil, &out)
}

func (c *Client) ListPlaceReviews(ctx context.Context, token, placeID string) ([]map[string]any, error) {
	var out []map[string]any
	p := "/places/" + url.PathEscape(placeID) + "/reviews/"
	return out, c.do(ctx, http.MethodGet, p, "places.reviews", token, nil, &out)
}

func (c *Client) CreateReview(ctx context.Context, token string, r domain.NewReview) error {
	return c.do(ctx, http.MethodPost, "/reviews/", "reviews.create", token, r, nil)
}

// ---- Internals ----

// do sends one request with client-side rate limiting and decodes a success
// body into out (when non-nil). Non-success statuses come back as
// *domain.APIError; everything else is a transport failure. No retries.
func (c *Client) do(ctx context.Context, method, path, endpoint, token string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hbnb-web/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hbnb", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("hbnb", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		return nil

	case http.StatusNoContent:
		return nil

	default:
		// read a small error body for the user-facing message
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.APIError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Message:    errorMessage(b),
		}
	}
}

// statusText returns the reason phrase the server sent ("UNAUTHORIZED"),
// falling back to the canonical one.
func statusText(resp *http.Response) string {
	s := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if s == "" {
		return http.StatusText(resp.StatusCode)
	}
	return s
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a body.
func errorMessage(b []byte) string {
	var m map[string]any
	if len(b) == 0 || json.Unmarshal(b, &m) != nil {
		return ""
	}
	for _, k := range []string{"error", "message"} {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
