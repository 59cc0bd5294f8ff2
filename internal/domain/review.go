package domain

type Review struct {
	ID     string
	Text   string
	Rating int
	UserID string
	Author *Owner // embedded user when the backend expands it
}

// NewReview is the write payload for POST /reviews/.
type NewReview struct {
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	UserID  string `json:"user_id"`
	PlaceID string `json:"place_id"`
}
