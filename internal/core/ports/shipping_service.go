package ports

import (
	"context"

	"github.com/velora/shipping-engine/internal/core/domain"
)

// DestinationInput identifies where the order should be delivered.
type DestinationInput struct {
	Address    string
	Latitude   float64
	Longitude  float64
	PostalCode string
}

// CalculateInput carries everything needed to price a single vendor's delivery.
type CalculateInput struct {
	VendorID    string
	RequesterID string
	OrderID     string
	Destination DestinationInput
	OrderValue  float64
	TotalWeight float64
	IsExpress   bool
}

// CalculateResult is returned after a successful calculation.
type CalculateResult struct {
	ShippingCost float64
	// EstimatedMinutes is the travel time estimate, traffic-aware when the
	// provider reported live traffic.
	EstimatedMinutes int
	EstimatedSeconds int
	DistanceKm       float64
	Breakdown        domain.CostBreakdown
}

// VendorEstimate is one vendor's outcome inside a multi-vendor estimate.
// Exactly one of Result / Err is set.
type VendorEstimate struct {
	VendorID string
	Result   *CalculateResult
	Err      error
}

// DeliveryTimeResult is the answer of the delivery-time-only path.
type DeliveryTimeResult struct {
	EstimatedMinutes int
	EstimatedSeconds int
	DistanceKm       float64
}

// ShippingService defines the engine's use-case operations.
type ShippingService interface {
	// Calculate prices one vendor's delivery and persists an audit record.
	Calculate(ctx context.Context, in CalculateInput) (*CalculateResult, error)
	// EstimateAll runs Calculate concurrently for every vendor and settles
	// all outcomes; it never fails as a whole and preserves input order.
	EstimateAll(ctx context.Context, vendorIDs []string, in CalculateInput) []VendorEstimate
	// EstimateDeliveryTime reuses the distance path without pricing or
	// persistence.
	EstimateDeliveryTime(ctx context.Context, vendorID string, destination DestinationInput) (*DeliveryTimeResult, error)
}
