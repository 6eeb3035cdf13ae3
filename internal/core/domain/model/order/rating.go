package order

import (
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinRatingScore is the lowest accepted rating score.
	MinRatingScore = 1
	// MaxRatingScore is the highest accepted rating score.
	MaxRatingScore = 5
)

// ErrRatingIsNotConstructed is returned when validating a Rating that was
// not created via NewRating.
var ErrRatingIsNotConstructed = errs.NewValueIsRequiredError(
	"rating must be created via NewRating constructor")

// Rating is a post-delivery score left by one party about the other.
// An order holds at most one per party and ratings are immutable once set.
type Rating struct {
	score    int
	feedback string
	ratedAt  time.Time
	guard    guard.ConstructorGuard
}

// NewRating creates a Rating with a score in [1, 5] and optional feedback.
func NewRating(score int, feedback string, ratedAt time.Time) (Rating, error) {
	if score < MinRatingScore || score > MaxRatingScore {
		return Rating{}, errs.NewValueIsOutOfRangeError("score", score, MinRatingScore, MaxRatingScore)
	}
	if ratedAt.IsZero() {
		return Rating{}, errs.NewValueIsRequiredError("ratedAt")
	}

	return Rating{
		score:    score,
		feedback: feedback,
		ratedAt:  ratedAt,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Rating was created through NewRating.
func (r Rating) Validate() error {
	return r.guard.Validate(ErrRatingIsNotConstructed)
}

// Score returns the rating score.
func (r Rating) Score() int {
	return r.score
}

// Feedback returns the free-form feedback, which may be empty.
func (r Rating) Feedback() string {
	return r.feedback
}

// RatedAt returns when the rating was left.
func (r Rating) RatedAt() time.Time {
	return r.ratedAt
}
