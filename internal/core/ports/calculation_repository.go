package ports

import (
	"context"
	"time"

	"github.com/velora/shipping-engine/internal/core/domain"
)

// AuditWriter appends calculation records. Writes are insert-only; records are
// never mutated afterwards and the storage layer expires them on its own.
type AuditWriter interface {
	Insert(ctx context.Context, rec *domain.CalculationRecord) error
}

// DistanceCacheReader looks up a recently fetched distance for the same
// vendor/destination pair so the external provider is not called again.
type DistanceCacheReader interface {
	// FindRecentDistance returns the newest distance recorded for the pair
	// since the given time, or (nil, nil) on a cache miss.
	FindRecentDistance(ctx context.Context, vendorID string, lat, lng float64, since time.Time) (*domain.DistanceResult, error)
}

// DistanceCacheWriter stores a freshly fetched distance. The mongo-backed
// cache satisfies this implicitly through record inserts; dedicated fast
// stores (redis) implement it explicitly.
type DistanceCacheWriter interface {
	StoreDistance(ctx context.Context, vendorID string, lat, lng float64, res domain.DistanceResult) error
}
