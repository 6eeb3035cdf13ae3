// Package services contains stateless domain services that coordinate
// multiple aggregates: the Dispatcher ranking couriers around a pickup
// point and the ETAEstimator computing travel estimates from distance and
// vehicle speed.
package services
