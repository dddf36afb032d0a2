package ports

import (
	"context"

	"github.com/velora/shipping-engine/internal/core/domain"
)

// DistanceProvider computes road distance and travel time between two points
// by calling an external distance-matrix service. Implementations translate
// every non-success provider status into domain.ErrDistanceProvider; a failed
// lookup is never reported as a zero distance.
type DistanceProvider interface {
	GetDistance(ctx context.Context, origin, destination domain.Location) (*domain.DistanceResult, error)
}
