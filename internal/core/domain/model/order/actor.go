package order

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Role identifies the kind of party acting on an order.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer is the party that placed the order.
	RoleCustomer

	// RoleCourier is the party delivering the order.
	RoleCourier

	// RoleAdmin is an operator with unrestricted access to order actions.
	RoleAdmin
)

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleCustomer: "customer",
		RoleCourier:  "courier",
		RoleAdmin:    "admin",
	}
}

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, error) {
	for role, label := range getValidRoleStrings() {
		if label == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"role is invalid",
		fmt.Errorf("%q is not a valid role", s),
	)
}

// Validate checks if the Role value is valid.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the lowercase wire label of the role.
func (r Role) String() string {
	if str, ok := getValidRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Action is a capability checked by Order.Authorize before a mutation.
type Action int

const (
	// ActionClaim is claiming a pending order for delivery.
	ActionClaim Action = iota + 1

	// ActionProgress is moving the delivery forward (picked_up, in_transit,
	// delivered).
	ActionProgress

	// ActionCancel is cancelling the order.
	ActionCancel

	// ActionFail is marking the delivery attempt as failed.
	ActionFail

	// ActionRate is leaving a rating after delivery.
	ActionRate

	// ActionReportLocation is reporting the courier's position against the
	// order's tracking history.
	ActionReportLocation

	// ActionAttachProof is attaching a proof-of-delivery reference.
	ActionAttachProof
)

func (a Action) String() string {
	switch a {
	case ActionClaim:
		return "claim the order"
	case ActionProgress:
		return "progress the delivery"
	case ActionCancel:
		return "cancel the order"
	case ActionFail:
		return "mark the delivery failed"
	case ActionRate:
		return "rate the order"
	case ActionReportLocation:
		return "report location"
	case ActionAttachProof:
		return "attach delivery proof"
	default:
		return "perform an unknown action"
	}
}

// Actor is a validated identity/role pair for authorization checks.
// The zero value is invalid; construct via NewActor.
type Actor struct {
	id   kernel.UUID
	role Role
}

// NewActor creates an Actor with a validated identity and role.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// ID returns the actor's identity.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// Validate checks both components of the actor.
func (a Actor) Validate() error {
	if err := a.id.Validate(); err != nil {
		return err
	}
	return a.role.Validate()
}
