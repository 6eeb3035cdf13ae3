// Package order contains the Order aggregate root and its value objects.
//
// The aggregate owns the delivery lifecycle state machine (pending through
// delivered, cancelled or failed), actor authorization, the fare breakdown
// computed at creation, the append-only tracking history and post-delivery
// ratings. All mutations go through validated methods; the optimistic
// version field arbitrates concurrent persistence, most importantly the
// single-winner claim.
package order
