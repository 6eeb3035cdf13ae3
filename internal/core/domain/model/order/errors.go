package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is the sentinel wrapped by InvalidTransitionError.
	// Use errors.Is to detect rejected lifecycle moves regardless of the
	// specific pair of statuses involved.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized is the sentinel wrapped by UnauthorizedError.
	ErrUnauthorized = errors.New("actor is not authorized for this action")

	// ErrAlreadyAssigned is returned when a courier tries to claim an order
	// that already left the pending status. Exactly one claim wins.
	ErrAlreadyAssigned = errors.New("order is already assigned to a courier")

	// ErrAlreadyRated is the sentinel wrapped by AlreadyRatedError.
	ErrAlreadyRated = errors.New("order is already rated by this party")

	// ErrOrderNotDelivered is returned when rating is attempted before the
	// order reaches the delivered status.
	ErrOrderNotDelivered = errors.New("order is not delivered yet")

	// ErrNoActiveAssignment is returned when a location report or proof
	// attachment arrives for an order that is not in an active status.
	ErrNoActiveAssignment = errors.New("order has no active courier assignment")
)

// InvalidTransitionError reports a rejected state machine move, naming both
// the current and the requested status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the edge
// from -> to.
func NewInvalidTransitionError(from Status, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// UnauthorizedError reports that an actor's role does not permit the
// attempted action on the order.
type UnauthorizedError struct {
	Role   Role
	Action Action
}

// NewUnauthorizedError creates an UnauthorizedError for the role/action pair.
func NewUnauthorizedError(role Role, action Action) *UnauthorizedError {
	return &UnauthorizedError{Role: role, Action: action}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: %s cannot %s", ErrUnauthorized, e.Role, e.Action)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// AlreadyRatedError reports a duplicate rating attempt by the given party.
type AlreadyRatedError struct {
	Role Role
}

// NewAlreadyRatedError creates an AlreadyRatedError for the party role.
func NewAlreadyRatedError(role Role) *AlreadyRatedError {
	return &AlreadyRatedError{Role: role}
}

func (e *AlreadyRatedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyRated, e.Role)
}

func (e *AlreadyRatedError) Unwrap() error {
	return ErrAlreadyRated
}
