package domain

import "time"

// DistanceResult is the normalized answer from the distance provider.
// It is never persisted on its own; calculation records embed it, and those
// embedded copies double as the distance cache.
type DistanceResult struct {
	DistanceMeters           int       `json:"distance_meters" bson:"distance_meters"`
	DurationSeconds          int       `json:"duration_seconds" bson:"duration_seconds"`
	DurationInTrafficSeconds int       `json:"duration_in_traffic_seconds,omitempty" bson:"duration_in_traffic_seconds,omitempty"`
	FetchedAt                time.Time `json:"fetched_at" bson:"fetched_at"`
}

// DistanceKm returns the road distance in kilometers.
func (d DistanceResult) DistanceKm() float64 {
	return float64(d.DistanceMeters) / 1000.0
}

// EstimatedSeconds prefers the live-traffic duration when the provider
// reported one.
func (d DistanceResult) EstimatedSeconds() int {
	if d.DurationInTrafficSeconds > 0 {
		return d.DurationInTrafficSeconds
	}
	return d.DurationSeconds
}

// CostBreakdown itemizes every factor that contributed to the final amount so
// callers can render the full computation.
type CostBreakdown struct {
	BaseRate            float64 `json:"base_rate" bson:"base_rate"`
	DistanceRate        float64 `json:"distance_rate" bson:"distance_rate"`
	PeakHourMultiplier  float64 `json:"peak_hour_multiplier" bson:"peak_hour_multiplier"`
	WeightMultiplier    float64 `json:"weight_multiplier" bson:"weight_multiplier"`
	ExpressMultiplier   float64 `json:"express_multiplier" bson:"express_multiplier"`
	Subtotal            float64 `json:"subtotal" bson:"subtotal"`
	FinalAmount         float64 `json:"final_amount" bson:"final_amount"`
	FreeShippingApplied bool    `json:"free_shipping_applied" bson:"free_shipping_applied"`
	Itemization         string  `json:"itemization" bson:"itemization"`
}

// CalculationRecord is the append-only audit entry written for every
// calculation that passed all eligibility checks. Records expire after 24
// hours through a storage-level TTL index, not engine logic.
type CalculationRecord struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	VendorID    string         `json:"vendor_id" bson:"vendor_id"`
	RequesterID string         `json:"requester_id" bson:"requester_id"`
	OrderID     string         `json:"order_id,omitempty" bson:"order_id,omitempty"`
	Origin      Location       `json:"origin" bson:"origin"`
	Destination Location       `json:"destination" bson:"destination"`
	Distance    DistanceResult `json:"distance" bson:"distance"`
	Breakdown   CostBreakdown  `json:"breakdown" bson:"breakdown"`
	OrderValue  float64        `json:"order_value" bson:"order_value"`
	TotalWeight float64        `json:"total_weight" bson:"total_weight"`
	IsExpress   bool           `json:"is_express" bson:"is_express"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}
