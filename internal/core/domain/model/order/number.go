package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"dispatch/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^CR\d{9}$`)

// GenerateNumber produces a human-facing order number of the form "CR"
// followed by nine digits: six from the millisecond timestamp and three
// random. Collisions are possible; callers must retry generation when the
// store reports a uniqueness conflict.
func GenerateNumber(now time.Time) string {
	return fmt.Sprintf("CR%06d%03d", now.UnixMilli()%1_000_000, rand.IntN(1000))
}

// ValidateNumber checks the "CR" + nine digits shape of an order number.
func ValidateNumber(number string) error {
	if !numberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("number is invalid",
			fmt.Errorf("%q does not match the CR######### format", number))
	}
	return nil
}
