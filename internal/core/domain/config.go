package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrConfigNotFound = errors.New("shipping configuration not found")
var ErrOutOfServiceArea = errors.New("destination outside service area")
var ErrDistanceProvider = errors.New("failed to calculate distance, try again")
var ErrValidation = errors.New("invalid calculation request")

// MaxDistanceError is returned when the destination lies beyond the vendor's
// configured delivery radius. It carries the radius so callers can render it.
type MaxDistanceError struct {
	MaxKm float64
}

func (e *MaxDistanceError) Error() string {
	return fmt.Sprintf("destination exceeds maximum delivery distance of %.0f km", e.MaxKm)
}

// Location is a vendor dispatch point or delivery destination.
type Location struct {
	Address    string  `json:"address" bson:"address"`
	Latitude   float64 `json:"latitude" bson:"latitude"`
	Longitude  float64 `json:"longitude" bson:"longitude"`
	PostalCode string  `json:"postal_code" bson:"postal_code"`
}

// PeakHour is a time-of-day window during which the peak multiplier applies.
// Start and End are "HH:MM" strings compared at minute-of-day granularity.
type PeakHour struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// Contains reports whether t falls inside the window, boundaries included.
// Windows are same-day: a window with Start > End never matches.
func (p PeakHour) Contains(t time.Time) bool {
	start, err := parseMinuteOfDay(p.Start)
	if err != nil {
		return false
	}
	end, err := parseMinuteOfDay(p.End)
	if err != nil {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	return start <= now && now <= end
}

func parseMinuteOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed hour %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed minute %q", s)
	}
	return h*60 + m, nil
}

// WeightBasedPricing scales the subtotal when the order weight exceeds the
// included base weight.
type WeightBasedPricing struct {
	Enabled             bool    `json:"enabled" bson:"enabled"`
	BaseWeightKg        float64 `json:"base_weight_kg" bson:"base_weight_kg"`
	AdditionalRatePerKg float64 `json:"additional_rate_per_kg" bson:"additional_rate_per_kg"`
}

// ExpressDelivery applies a flat multiplier for express orders.
type ExpressDelivery struct {
	Enabled    bool    `json:"enabled" bson:"enabled"`
	Multiplier float64 `json:"multiplier" bson:"multiplier"`
}

// ServiceArea is a postal code the vendor delivers to. CustomRate, when
// positive, replaces the config base rate for destinations in that area.
type ServiceArea struct {
	PostalCode string  `json:"postal_code" bson:"postal_code"`
	CustomRate float64 `json:"custom_rate,omitempty" bson:"custom_rate,omitempty"`
}

// ShippingConfig holds one vendor's active pricing and delivery rules.
// At most one active config exists per vendor; inactive configs are invisible
// to the engine.
type ShippingConfig struct {
	ID                    string             `json:"id" bson:"_id,omitempty"`
	VendorID              string             `json:"vendor_id" bson:"vendor_id"`
	BaseRate              float64            `json:"base_rate" bson:"base_rate"`
	PerKmRate             float64            `json:"per_km_rate" bson:"per_km_rate"`
	FreeShippingThreshold float64            `json:"free_shipping_threshold" bson:"free_shipping_threshold"`
	MaxDeliveryDistance   float64            `json:"max_delivery_distance" bson:"max_delivery_distance"`
	PeakHours             []PeakHour         `json:"peak_hours" bson:"peak_hours"`
	PeakHourMultiplier    float64            `json:"peak_hour_multiplier" bson:"peak_hour_multiplier"`
	WeightBasedPricing    WeightBasedPricing `json:"weight_based_pricing" bson:"weight_based_pricing"`
	ExpressDelivery       ExpressDelivery    `json:"express_delivery" bson:"express_delivery"`
	OriginLocation        Location           `json:"origin_location" bson:"origin_location"`
	ServiceAreas          []ServiceArea      `json:"service_areas" bson:"service_areas"`
	IsActive              bool               `json:"is_active" bson:"is_active"`
	CreatedAt             time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at" bson:"updated_at"`
}

// MatchServiceArea returns the service area matching the postal code exactly,
// or nil when no entry matches. An empty allow-list matches every destination;
// the distance ceiling is the only restriction then.
func (c *ShippingConfig) MatchServiceArea(postalCode string) (*ServiceArea, bool) {
	if len(c.ServiceAreas) == 0 {
		return nil, true
	}
	for i := range c.ServiceAreas {
		if c.ServiceAreas[i].PostalCode == postalCode {
			return &c.ServiceAreas[i], true
		}
	}
	return nil, false
}
