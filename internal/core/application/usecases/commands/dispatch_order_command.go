package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand triggers one matching pass: pick the oldest pending
// order and claim it for the best-ranked nearby courier. It carries no data;
// the handler derives everything from current state.
type DispatchOrderCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOrderCommand creates a dispatch trigger command.
func NewDispatchOrderCommand() (DispatchOrderCommand, error) {
	return DispatchOrderCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}
