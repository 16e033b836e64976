// model/review.go
package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"bookId"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReviewAuthor struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ReviewWithAuthor is a review with its author's username resolved.
type ReviewWithAuthor struct {
	ID        uuid.UUID    `json:"id"`
	BookID    uuid.UUID    `json:"bookId"`
	User      ReviewAuthor `json:"user"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ReviewReq is the submit/update payload. Rating is decoded as a number so
// fractional input can be rejected instead of silently truncated.
// swagger:model ReviewReq
type ReviewReq struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment" validate:"max=2000"`
}

// RatingValue reports whether v is a whole number in [MinRating, MaxRating].
func RatingValue(v float64) (int, bool) {
	if math.IsNaN(v) || v != math.Trunc(v) || v < MinRating || v > MaxRating {
		return 0, false
	}
	return int(v), true
}
