package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// --- Request types ---

type destinationRequest struct {
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"         validate:"required,latitude"`
	Lng        float64 `json:"lng"         validate:"required,longitude"`
	PostalCode string  `json:"postal_code" validate:"required"`
}

type calculateCostRequest struct {
	VendorID    string             `json:"vendor_id"    validate:"required"`
	OrderID     string             `json:"order_id"`
	Destination destinationRequest `json:"destination"  validate:"required"`
	OrderValue  float64            `json:"order_value"  validate:"required,gte=0"`
	// TotalWeight is optional; the engine assumes 1 kg when omitted.
	TotalWeight float64 `json:"total_weight" validate:"omitempty,gt=0"`
	IsExpress   bool    `json:"is_express"`
}

type multiEstimateRequest struct {
	VendorIDs   []string           `json:"vendor_ids"   validate:"required,min=1,dive,required"`
	Destination destinationRequest `json:"destination"  validate:"required"`
	OrderValue  float64            `json:"order_value"  validate:"required,gte=0"`
	TotalWeight float64            `json:"total_weight" validate:"omitempty,gt=0"`
	IsExpress   bool               `json:"is_express"`
}

type deliveryTimeRequest struct {
	VendorID    string             `json:"vendor_id"   validate:"required"`
	Destination destinationRequest `json:"destination" validate:"required"`
}

// --- Response types ---
// Response-only types owned by the transport layer, intentionally separate
// from ports/domain types so the JSON contract is not coupled to internal
// service changes.

type breakdownResponse struct {
	BaseRate            float64 `json:"base_rate"`
	DistanceRate        float64 `json:"distance_rate"`
	PeakHourMultiplier  float64 `json:"peak_hour_multiplier"`
	WeightMultiplier    float64 `json:"weight_multiplier"`
	ExpressMultiplier   float64 `json:"express_multiplier"`
	Subtotal            float64 `json:"subtotal"`
	FinalAmount         float64 `json:"final_amount"`
	FreeShippingApplied bool    `json:"free_shipping_applied"`
	Itemization         string  `json:"itemization"`
}

type calculateCostData struct {
	ShippingCost          float64           `json:"shipping_cost"`
	EstimatedDeliveryTime string            `json:"estimated_delivery_time"`
	EstimatedMinutes      int               `json:"estimated_minutes"`
	DistanceKm            float64           `json:"distance_km"`
	Breakdown             breakdownResponse `json:"breakdown"`
}

type calculateCostResponse struct {
	Success bool              `json:"success"`
	Data    calculateCostData `json:"data"`
}

// vendorEstimateResponse carries one vendor's outcome in a multi-vendor
// estimate. Failed vendors keep their slot with success=false.
type vendorEstimateResponse struct {
	VendorID string             `json:"vendor_id"`
	Success  bool               `json:"success"`
	Data     *calculateCostData `json:"data,omitempty"`
	Error    string             `json:"error,omitempty"`
}

type multiEstimateResponse struct {
	Estimates []vendorEstimateResponse `json:"estimates"`
}

type deliveryTimeResponse struct {
	EstimatedDeliveryTime string  `json:"estimated_delivery_time"`
	EstimatedMinutes      int     `json:"estimated_minutes"`
	DistanceKm            float64 `json:"distance_km"`
}
