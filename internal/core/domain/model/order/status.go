package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct delivery workflow.
//
// State transitions:
//
//	pending ──> assigned ──> picked_up ──> in_transit ──┬──> delivered
//	   │            │             │             │        └──> failed
//	   └────────────┴─────────────┴──> cancelled
//
// delivered, cancelled and failed are terminal states with no further
// transitions.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// Orders in this status are waiting to be claimed by a courier.
	Pending

	// Assigned indicates the order has been claimed by a courier who
	// has not yet collected the package.
	Assigned

	// PickedUp indicates the courier has collected the package at the
	// pickup waypoint.
	PickedUp

	// InTransit indicates the package is on its way to the delivery
	// waypoint.
	InTransit

	// Delivered indicates the package reached its destination.
	// This is a terminal state.
	Delivered

	// Cancelled indicates the order was cancelled before completion.
	// This is a terminal state.
	Cancelled

	// Failed indicates the delivery attempt did not succeed.
	// This is a terminal state.
	Failed
)

// getStatusStrings returns a map of Status values to their string
// representations. All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Failed:    "failed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation and parsing.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Failed:    "failed",
	}
}

// getStatusTransitions returns the allowed transitions per status.
// Terminal statuses have no entry.
func getStatusTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Assigned, Cancelled},
		Assigned:  {PickedUp, Cancelled},
		PickedUp:  {InTransit, Cancelled},
		InTransit: {Delivered, Failed},
	}
}

// ParseStatus converts a wire/persistence string into a Status.
// Returns an error for anything that is not one of the valid lowercase
// status labels.
func ParseStatus(s string) (Status, error) {
	for status, label := range getValidStatusStrings() {
		if label == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase wire label of the status.
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// CanTransitionTo reports whether moving from the current status to target
// is an allowed edge of the state machine, without performing the move.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getStatusTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo performs the state machine move to target.
//
// Returns:
//   - (target, nil) on a valid transition
//   - (0, *InvalidTransitionError) if the edge is not in the transition table
//
// This method is used by Order.Transition() and Order.Claim() to enforce
// the lifecycle; callers never mutate status directly.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(target) {
		return 0, NewInvalidTransitionError(s, target)
	}
	return target, nil
}

// ValidateCanHaveCourier validates the consistency between order status and
// courier assignment when restoring an order from persistence.
//
// Rules:
//   - pending orders must not have a courier
//   - assigned, picked_up, in_transit, delivered and failed orders must
//     have a courier
//   - cancelled orders may have one (cancelled after claim) or not
//     (cancelled while pending)
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s.String()),
		)
	}

	if !courier && s != Pending && s != Cancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s.String()),
		)
	}

	return nil
}
