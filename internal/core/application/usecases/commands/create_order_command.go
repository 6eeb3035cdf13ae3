package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to register a new delivery order.
// The waypoints and package arrive as already-validated value objects; the
// command only binds them to the ordering customer.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID    kernel.UUID
	pickup        order.Waypoint
	delivery      order.Waypoint
	pack          order.Package
	priority      order.Priority
	paymentMethod string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	pickup order.Waypoint,
	delivery order.Waypoint,
	pack order.Package,
	priority order.Priority,
	paymentMethod string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		paymentMethod: paymentMethod,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setPickup(pickup),
		cmd.setDelivery(delivery),
		cmd.setPackage(pack),
		cmd.setPriority(priority),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Pickup returns the pickup waypoint.
func (c CreateOrderCommand) Pickup() order.Waypoint {
	return c.pickup
}

// Delivery returns the delivery waypoint.
func (c CreateOrderCommand) Delivery() order.Waypoint {
	return c.delivery
}

// Package returns the parcel description.
func (c CreateOrderCommand) Package() order.Package {
	return c.pack
}

// Priority returns the delivery priority class.
func (c CreateOrderCommand) Priority() order.Priority {
	return c.priority
}

// PaymentMethod returns the opaque payment method label.
func (c CreateOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setPickup(pickup order.Waypoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	c.pickup = pickup
	return nil
}

func (c *CreateOrderCommand) setDelivery(delivery order.Waypoint) error {
	if err := delivery.Validate(); err != nil {
		return err
	}
	c.delivery = delivery
	return nil
}

func (c *CreateOrderCommand) setPackage(pack order.Package) error {
	if err := pack.Validate(); err != nil {
		return err
	}
	c.pack = pack
	return nil
}

func (c *CreateOrderCommand) setPriority(priority order.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	c.priority = priority
	return nil
}
