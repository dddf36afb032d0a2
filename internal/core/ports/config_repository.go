package ports

import (
	"context"

	"github.com/velora/shipping-engine/internal/core/domain"
)

// ConfigRepository loads vendor shipping configurations.
type ConfigRepository interface {
	// GetActiveConfig returns the vendor's active configuration.
	// A missing or inactive config yields domain.ErrConfigNotFound; the two
	// cases are indistinguishable to callers.
	GetActiveConfig(ctx context.Context, vendorID string) (*domain.ShippingConfig, error)
}
