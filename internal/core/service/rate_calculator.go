package service

import (
	"fmt"
	"math"
	"time"

	"github.com/velora/shipping-engine/internal/core/domain"
)

// ComputeBreakdown derives the itemized shipping cost for one delivery.
// It is pure: the same config, distance, order context, and clock reading
// always produce the same breakdown.
//
// area is the matched service-area entry, or nil when the vendor has no
// postal restriction; a positive CustomRate on the matched area replaces the
// config base rate.
func ComputeBreakdown(
	cfg *domain.ShippingConfig,
	area *domain.ServiceArea,
	distanceKm float64,
	orderValue float64,
	totalWeight float64,
	isExpress bool,
	now time.Time,
) domain.CostBreakdown {
	// Free shipping dominates every other rule. A zero threshold makes every
	// order ship free; vendors opt out with an unreachably high threshold.
	if orderValue >= cfg.FreeShippingThreshold {
		return domain.CostBreakdown{
			PeakHourMultiplier:  1.0,
			WeightMultiplier:    1.0,
			ExpressMultiplier:   1.0,
			FreeShippingApplied: true,
			Itemization: fmt.Sprintf("free shipping (order value %.2f >= threshold %.2f)",
				orderValue, cfg.FreeShippingThreshold),
		}
	}

	baseRate := cfg.BaseRate
	if area != nil && area.CustomRate > 0 {
		baseRate = area.CustomRate
	}
	distanceRate := distanceKm * cfg.PerKmRate

	peakMultiplier := 1.0
	for _, window := range cfg.PeakHours {
		if window.Contains(now) {
			peakMultiplier = cfg.PeakHourMultiplier
			break
		}
	}

	// The weight surcharge scales the whole subtotal: the extra-weight charge
	// is a fraction added to 1.0, not a flat add-on.
	weightMultiplier := 1.0
	if cfg.WeightBasedPricing.Enabled && totalWeight > cfg.WeightBasedPricing.BaseWeightKg {
		extraWeight := totalWeight - cfg.WeightBasedPricing.BaseWeightKg
		weightMultiplier = 1.0 + extraWeight*cfg.WeightBasedPricing.AdditionalRatePerKg
	}

	expressMultiplier := 1.0
	if isExpress && cfg.ExpressDelivery.Enabled {
		expressMultiplier = cfg.ExpressDelivery.Multiplier
	}

	subtotal := roundCurrency((baseRate + distanceRate) * peakMultiplier * weightMultiplier * expressMultiplier)
	finalAmount := subtotal

	return domain.CostBreakdown{
		BaseRate:           baseRate,
		DistanceRate:       distanceRate,
		PeakHourMultiplier: peakMultiplier,
		WeightMultiplier:   weightMultiplier,
		ExpressMultiplier:  expressMultiplier,
		Subtotal:           subtotal,
		FinalAmount:        finalAmount,
		Itemization: fmt.Sprintf(
			"(base %.2f + distance %.2f [%.1f km x %.2f/km]) x peak %.2f x weight %.2f x express %.2f = %.2f",
			baseRate, distanceRate, distanceKm, cfg.PerKmRate,
			peakMultiplier, weightMultiplier, expressMultiplier, finalAmount),
	}
}

// roundCurrency rounds half away from zero to two decimal places.
func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
