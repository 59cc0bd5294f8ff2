package app

import (
	"context"
	"errors"

	"hbnb_web/internal/domain"
)

type AuthService struct {
	api domain.HBnBClient
}

func NewAuthService(api domain.HBnBClient) *AuthService {
	return &AuthService{api: api}
}

// Login exchanges credentials for a bearer token. Both fields must be
// non-empty; otherwise no request is made.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", &FormError{Msg: MsgBothFields}
	}

	tok, err := s.api.Login(ctx, email, password)
	if err == nil {
		return tok, nil
	}

	var ae *domain.APIError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "", &FormError{Msg: MsgInvalidCredentials, Err: err}
	case errors.Is(err, domain.ErrBadRequest):
		return "", &FormError{Msg: MsgBothFields, Err: err}
	case errors.As(err, &ae):
		return "", &FormError{Msg: MsgLoginFailedPrefix + ae.StatusText, Err: err}
	default:
		return "", &FormError{Msg: MsgUnexpected, Transport: true, Err: err}
	}
}

// CurrentUser resolves the profile behind token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	raw, err := s.api.CurrentUser(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	u := mapUser(raw)
	if u.ID == "" {
		return domain.User{}, errors.New("current user response has no id")
	}
	return u, nil
}
