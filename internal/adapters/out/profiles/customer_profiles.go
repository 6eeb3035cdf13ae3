// Package profiles adapts the customer profile collaborator. Customer
// accounts live in a separate service; until its API is wired in, ratings
// forwarded to customers are recorded in the log only.
package profiles

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
)

// LogCustomerProfiles acknowledges customer rating side effects by logging
// them. It stands in for the external customer profile service.
type LogCustomerProfiles struct {
	logger *slog.Logger
}

// NewLogCustomerProfiles creates the logging customer profile adapter.
func NewLogCustomerProfiles(logger *slog.Logger) *LogCustomerProfiles {
	return &LogCustomerProfiles{logger: logger.With("component", "customer_profiles")}
}

// ApplyRating records the forwarded customer rating.
func (p *LogCustomerProfiles) ApplyRating(ctx context.Context, customerID kernel.UUID, score int) error {
	p.logger.InfoContext(ctx, "customer rating forwarded",
		"customerId", customerID.String(),
		"score", score)
	return nil
}
