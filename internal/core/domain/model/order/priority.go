package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Priority is the delivery priority class of an order. It drives the
// priority surcharge of the fare and nothing else.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	PriorityUnknown Priority = iota

	// PriorityStandard is the default class with no surcharge.
	PriorityStandard

	// PriorityExpress adds half the base fare as surcharge.
	PriorityExpress

	// PriorityUrgent adds the full base fare as surcharge.
	PriorityUrgent
)

func getValidPriorityStrings() map[Priority]string {
	//nolint:exhaustive // PriorityUnknown is intentionally excluded as it's invalid
	return map[Priority]string{
		PriorityStandard: "standard",
		PriorityExpress:  "express",
		PriorityUrgent:   "urgent",
	}
}

// ParsePriority converts a wire string into a Priority.
func ParsePriority(s string) (Priority, error) {
	for priority, label := range getValidPriorityStrings() {
		if label == s {
			return priority, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause(
		"priority is invalid",
		fmt.Errorf("%q is not a valid priority", s),
	)
}

// Validate checks if the Priority value is valid.
func (p Priority) Validate() error {
	if _, ok := getValidPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority is invalid", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// String returns the lowercase wire label of the priority.
func (p Priority) String() string {
	if str, ok := getValidPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// surchargeFactor is the fraction of the base fare added for the class.
func (p Priority) surchargeFactor() float64 {
	switch p {
	case PriorityExpress:
		return 0.5
	case PriorityUrgent:
		return 1.0
	default:
		return 0
	}
}
