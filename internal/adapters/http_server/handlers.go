package httpserver

import (
	"bytes"
	"errors"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/web"
)

const tokenCookie = "token"

var ratingChoices = []string{"1", "2", "3", "4", "5"}

type Handlers struct {
	Listings *app.ListingService
	Auth     *app.AuthService
	Places   *app.PlaceService
	Reviews  *app.ReviewService
	View     *web.Renderer
	Sessions domain.Cache

	SessionTTL    time.Duration
	TokenMaxAge   int  // seconds
	CookieSecure  bool // Secure flag on token and sid cookies
	RedirectDelay time.Duration
	StaticDir     string // serves /images/* and /styles.css when set

	Now func() time.Time
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	if h.StaticDir != "" {
		fs := http.FileServer(http.Dir(h.StaticDir))
		s.mux.Handle("/images/*", fs)
		s.mux.Handle("/styles.css", fs)
	}

	s.mux.Group(func(r chi.Router) {
		r.Use(Session(h.Sessions, h.SessionTTL, h.CookieSecure))

		r.Get("/", h.index)
		r.Get("/index.html", h.index)

		r.Get("/login", h.loginForm)
		r.Get("/login.html", h.loginForm)
		r.Post("/login", h.login)
		r.Post("/login.html", h.login)
		r.Get("/logout", h.logout)

		r.Get("/place", h.place)
		r.Get("/place.html", h.place)

		r.Get("/add_review", h.reviewForm)
		r.Get("/add_review.html", h.reviewForm)
		r.Post("/add_review", h.addReview)
		r.Post("/add_review.html", h.addReview)
	})
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// token returns the bearer token from the cookie. A JWT whose exp has passed
// is dropped and its cookie cleared.
func (h *Handlers) token(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(tokenCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	if app.TokenExpired(c.Value, h.now()) {
		log.Info().Msg("token expired, clearing cookie")
		h.clearToken(w)
		return ""
	}
	return c.Value
}

func (h *Handlers) setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   h.TokenMaxAge,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.View.Render(&buf, page, data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("page", page).Msg("write page failed")
	}
}

func formOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case app.IsTransport(err):
		return "error"
	default:
		return "rejected"
	}
}

// ---- listing ----

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)
	maxPrice := r.URL.Query().Get("max_price")

	cards, err := h.Listings.Browse(r.Context(), sessionID(r), token, maxPrice)
	if err != nil {
		log.Error().Err(err).Msg("fetch places failed")
	}
	if maxPrice == "" {
		maxPrice = app.PriceAll
	}
	h.render(w, http.StatusOK, web.PageIndex, web.IndexPage{
		Nav:      web.Nav{Authenticated: token != ""},
		Places:   cards,
		MaxPrice: maxPrice,
		Options:  app.PriceFilterOptions,
	})
}

// ---- login ----

func (h *Handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)
	h.render(w, http.StatusOK, web.PageLogin, web.LoginPage{Nav: web.Nav{Authenticated: token != ""}})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, web.PageLogin, web.LoginPage{Error: app.MsgBothFields})
		return
	}
	email, password := r.PostFormValue("email"), r.PostFormValue("password")

	token, err := h.Auth.Login(r.Context(), email, password)
	observability.ObserveForm("login", formOutcome(err))
	if err != nil {
		if app.IsTransport(err) {
			log.Error().Err(err).Msg("login request failed")
		}
		h.render(w, http.StatusOK, web.PageLogin, web.LoginPage{
			Email: email,
			Error: app.Message(err, app.MsgUnexpected),
		})
		return
	}

	h.setToken(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.clearToken(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ---- place details ----

func (h *Handlers) place(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)
	id := r.URL.Query().Get("id")
	page := web.PlacePage{Nav: web.Nav{Authenticated: token != ""}}

	view, err := h.Places.Details(r.Context(), token, id)
	if err != nil {
		if app.IsTransport(err) {
			log.Error().Err(err).Str("place_id", id).Msg("fetch place failed")
		}
		page.Error = app.Message(err, app.MsgPlaceLoadFailed)
		h.render(w, http.StatusOK, web.PagePlace, page)
		return
	}
	page.Place = &view

	reviews, err := h.Places.Reviews(r.Context(), token, id)
	if err != nil {
		if app.IsTransport(err) {
			log.Error().Err(err).Str("place_id", id).Msg("fetch reviews failed")
		}
		page.ReviewsError = app.Message(err, app.MsgReviewsLoadFailed)
	}
	page.Reviews = reviews

	if h.Reviews.TakeSubmitted(r.Context(), sessionID(r)) {
		page.Flash = app.MsgReviewSubmitted
	}
	h.render(w, http.StatusOK, web.PagePlace, page)
}

// ---- add review ----

func (h *Handlers) reviewForm(w http.ResponseWriter, r *http.Request) {
	if h.token(w, r) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	id := r.URL.Query().Get("id")
	page := web.AddReviewPage{
		Nav:      web.Nav{Authenticated: true},
		PlaceID:  id,
		ShowForm: id != "",
		Ratings:  ratingChoices,
	}
	if id == "" {
		page.Message = &web.Message{Text: app.MsgInvalidPlaceID, Type: "error"}
	}
	h.render(w, http.StatusOK, web.PageAddReview, page)
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	token := h.token(w, r)
	if token == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	id := r.URL.Query().Get("id")
	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("parse review form failed")
	}
	form := app.ReviewForm{
		PlaceID: id,
		Rating:  r.PostFormValue("rating"),
		Text:    r.PostFormValue("review_text"),
	}
	page := web.AddReviewPage{
		Nav:     web.Nav{Authenticated: true},
		PlaceID: id,
		Ratings: ratingChoices,
	}

	err := h.Reviews.Submit(r.Context(), token, sessionID(r), form)
	observability.ObserveForm("review", formOutcome(err))
	if err != nil {
		if app.IsTransport(err) {
			log.Error().Err(err).Str("place_id", id).Msg("submit review failed")
		}
		page.Message = &web.Message{Text: app.Message(err, app.MsgReviewSubmitError), Type: "error"}
		page.ShowForm = !errors.Is(err, domain.ErrMissingPlaceID)
		page.Rating, page.Text = form.Rating, form.Text
		h.render(w, http.StatusOK, web.PageAddReview, page)
		return
	}

	page.Message = &web.Message{Text: app.MsgReviewSubmitted, Type: "success"}
	page.RedirectURL = "/place?id=" + url.QueryEscape(id)
	page.RedirectSeconds = redirectSeconds(h.RedirectDelay)
	h.render(w, http.StatusOK, web.PageAddReview, page)
}

// redirectSeconds rounds d up to whole seconds, since meta refresh has no
// finer resolution.
func redirectSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
