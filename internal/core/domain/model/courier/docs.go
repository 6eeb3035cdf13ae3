// Package courier contains the Courier aggregate root and its vehicle
// value object.
//
// A courier is dispatchable when available and with a reported position.
// The vehicle type fixes the travel speed used for ETA estimation, and the
// aggregate maintains a rolling average of ratings received from customers.
package courier
