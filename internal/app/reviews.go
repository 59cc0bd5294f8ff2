package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
)

type ReviewService struct {
	api      domain.HBnBClient
	auth     *AuthService
	store    domain.Cache
	flashTTL time.Duration
}

func NewReviewService(api domain.HBnBClient, store domain.Cache, flashTTL time.Duration) *ReviewService {
	return &ReviewService{api: api, auth: NewAuthService(api), store: store, flashTTL: flashTTL}
}

func flashKey(sid string) string { return "review_submitted:" + sid }

// ReviewForm is what the add-review page posts.
type ReviewForm struct {
	PlaceID string
	Rating  string
	Text    string
}

// Validate checks the form without touching the backend.
func (f ReviewForm) Validate() (int, error) {
	if f.PlaceID == "" {
		return 0, missingPlaceID()
	}
	if f.Rating == "" {
		return 0, &FormError{Msg: MsgSelectRating}
	}
	rating, err := strconv.Atoi(f.Rating)
	if err != nil || rating < 1 || rating > maxRating {
		return 0, &FormError{Msg: MsgSelectRating}
	}
	if strings.TrimSpace(f.Text) == "" {
		return 0, &FormError{Msg: MsgEnterReview}
	}
	return rating, nil
}

// Submit validates the form, resolves the author from token and posts the
// review. On success the session is flagged so the place page can say so.
func (s *ReviewService) Submit(ctx context.Context, token, sid string, f ReviewForm) error {
	rating, err := f.Validate()
	if err != nil {
		return err
	}

	user, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("resolve current user failed")
		return &FormError{Msg: MsgNoUser, Err: err}
	}

	err = s.api.CreateReview(ctx, token, domain.NewReview{
		Text:    f.Text,
		Rating:  rating,
		UserID:  user.ID,
		PlaceID: f.PlaceID,
	})
	if err != nil {
		var ae *domain.APIError
		if errors.As(err, &ae) {
			if ae.Message != "" {
				return &FormError{Msg: ae.Message, Err: err}
			}
			return &FormError{Msg: MsgReviewFailedPrefix + ae.StatusText, Err: err}
		}
		return &FormError{Msg: MsgReviewSubmitError, Transport: true, Err: err}
	}

	if sid != "" && s.store != nil {
		if err := s.store.Set(ctx, flashKey(sid), true, int(s.flashTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("sid", sid).Msg("set review flag failed")
		}
	}
	return nil
}

// TakeSubmitted reports and clears the session's "review just submitted" flag.
func (s *ReviewService) TakeSubmitted(ctx context.Context, sid string) bool {
	if sid == "" || s.store == nil {
		return false
	}
	var flag bool
	ok, err := s.store.Get(ctx, flashKey(sid), &flag)
	if err != nil || !ok {
		return false
	}
	_ = s.store.Del(ctx, flashKey(sid))
	return flag
}
