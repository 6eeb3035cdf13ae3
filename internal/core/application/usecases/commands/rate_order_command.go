package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand represents a post-delivery rating by one of the order's
// parties. Score bounds are enforced by the aggregate.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    order.Actor
	score    int
	feedback string

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates a rating command.
func NewRateOrderCommand(orderID kernel.UUID, actor order.Actor, score int, feedback string) (RateOrderCommand, error) {
	cmd := RateOrderCommand{
		score:    score,
		feedback: feedback,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return RateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

// OrderID returns the order to rate.
func (c RateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the rating party.
func (c RateOrderCommand) Actor() order.Actor {
	return c.actor
}

// Score returns the rating score.
func (c RateOrderCommand) Score() int {
	return c.score
}

// Feedback returns the optional free-form feedback.
func (c RateOrderCommand) Feedback() string {
	return c.feedback
}

func (c *RateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RateOrderCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
