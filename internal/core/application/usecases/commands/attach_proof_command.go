package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAttachProofCommandIsNotConstructed = errors.New(
	"AttachProofCommand must be created via NewAttachProofCommand constructor",
)

// AttachProofCommand represents attaching a proof-of-delivery reference to
// an order. The reference is opaque; media storage lives elsewhere.
type AttachProofCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor
	image   string

	guard guard.ConstructorGuard
}

// NewAttachProofCommand creates a proof attachment command.
func NewAttachProofCommand(orderID kernel.UUID, actor order.Actor, image string) (AttachProofCommand, error) {
	cmd := AttachProofCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setImage(image),
	); err != nil {
		return AttachProofCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AttachProofCommand) Validate() error {
	return c.guard.Validate(ErrAttachProofCommandIsNotConstructed)
}

// OrderID returns the order receiving the proof.
func (c AttachProofCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the attaching party.
func (c AttachProofCommand) Actor() order.Actor {
	return c.actor
}

// Image returns the opaque proof reference.
func (c AttachProofCommand) Image() string {
	return c.image
}

func (c *AttachProofCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AttachProofCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *AttachProofCommand) setImage(image string) error {
	if image == "" {
		return errs.NewValueIsRequiredError("image")
	}
	c.image = image
	return nil
}
