package app

import (
	"errors"

	"hbnb_web/internal/domain"
)

// User-facing messages.
const (
	MsgBothFields         = "Please enter both email and password"
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginFailedPrefix  = "Login failed: "
	MsgUnexpected         = "An unexpected error occurred. Please try again."

	MsgInvalidPlaceID    = "Invalid place ID. Please return to the home page."
	MsgPlaceLoadFailed   = "Failed to load place details. Please try again later."
	MsgPlaceLoadError    = "An error occurred while loading place details. Please try again later."
	MsgReviewsLoadFailed = "Failed to load reviews. Please try again later."
	MsgReviewsLoadError  = "An error occurred while loading reviews. Please try again later."

	MsgSelectRating       = "Please select a rating"
	MsgEnterReview        = "Please enter your review"
	MsgNoUser             = "Could not get user information. Please log in again."
	MsgReviewFailedPrefix = "Failed to submit review: "
	MsgReviewSubmitError  = "An error occurred while submitting your review"
	MsgReviewSubmitted    = "Review submitted successfully!"
)

// FormError carries the message a page shows for a failed action.
// Transport marks failures that never got a backend status.
type FormError struct {
	Msg       string
	Transport bool
	Err       error
}

func (e *FormError) Error() string { return e.Msg }

func (e *FormError) Unwrap() error { return e.Err }

// Message returns the user-facing text for err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var fe *FormError
	if errors.As(err, &fe) && fe.Msg != "" {
		return fe.Msg
	}
	return fallback
}

// IsTransport reports whether err is a failure that never reached the backend.
func IsTransport(err error) bool {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Transport
	}
	return err != nil && !domain.IsAPIError(err)
}

func missingPlaceID() error {
	return &FormError{Msg: MsgInvalidPlaceID, Err: domain.ErrMissingPlaceID}
}
