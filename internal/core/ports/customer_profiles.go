package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// CustomerProfiles is the collaborator holding customer profile data.
// Customer accounts live outside this service; the dispatch core only
// forwards side effects to them, currently the rating a courier leaves
// after a delivery.
type CustomerProfiles interface {
	// ApplyRating folds a courier's score into the customer's profile.
	ApplyRating(ctx context.Context, customerID kernel.UUID, score int) error
}
