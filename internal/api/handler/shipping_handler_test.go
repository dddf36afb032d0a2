package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/velora/shipping-engine/internal/core/domain"
	"github.com/velora/shipping-engine/internal/core/ports"
)

type stubShippingService struct {
	calculateResult *ports.CalculateResult
	calculateErr    error
	estimates       []ports.VendorEstimate
	deliveryResult  *ports.DeliveryTimeResult
	deliveryErr     error

	lastInput ports.CalculateInput
}

func (s *stubShippingService) Calculate(_ context.Context, in ports.CalculateInput) (*ports.CalculateResult, error) {
	s.lastInput = in
	return s.calculateResult, s.calculateErr
}

func (s *stubShippingService) EstimateAll(_ context.Context, vendorIDs []string, in ports.CalculateInput) []ports.VendorEstimate {
	s.lastInput = in
	return s.estimates
}

func (s *stubShippingService) EstimateDeliveryTime(_ context.Context, _ string, _ ports.DestinationInput) (*ports.DeliveryTimeResult, error) {
	return s.deliveryResult, s.deliveryErr
}

func newContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleResult() *ports.CalculateResult {
	return &ports.CalculateResult{
		ShippingCost:     100.00,
		EstimatedMinutes: 25,
		EstimatedSeconds: 1500,
		DistanceKm:       10,
		Breakdown: domain.CostBreakdown{
			BaseRate:          50,
			DistanceRate:      50,
			ExpressMultiplier: 1,
			FinalAmount:       100.00,
		},
	}
}

const validCostBody = `{
	"vendor_id": "vendor_1",
	"order_id": "order_1",
	"destination": {"address": "Calle 2", "lat": 19.0414, "lng": -98.2063, "postal_code": "72000"},
	"order_value": 500,
	"total_weight": 2
}`

func TestCalculateCost_Success(t *testing.T) {
	svc := &stubShippingService{calculateResult: sampleResult()}
	h := NewShippingHandler(svc)

	c, rec := newContext(t, validCostBody)
	c.Set("requester_id", "user_1")

	if err := h.CalculateCost(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp calculateCostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Data.ShippingCost != 100.00 {
		t.Errorf("expected cost 100.00, got %v", resp.Data.ShippingCost)
	}
	if resp.Data.EstimatedDeliveryTime != "25 min" {
		t.Errorf("unexpected delivery time %q", resp.Data.EstimatedDeliveryTime)
	}

	if svc.lastInput.VendorID != "vendor_1" {
		t.Errorf("vendor id not forwarded: %q", svc.lastInput.VendorID)
	}
	if svc.lastInput.RequesterID != "user_1" {
		t.Errorf("requester identity not forwarded: %q", svc.lastInput.RequesterID)
	}
	if svc.lastInput.Destination.PostalCode != "72000" {
		t.Errorf("destination not mapped: %+v", svc.lastInput.Destination)
	}
}

func TestCalculateCost_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing vendor", `{"destination":{"lat":19.0,"lng":-98.2,"postal_code":"72000"},"order_value":500}`},
		{"missing postal code", `{"vendor_id":"v1","destination":{"lat":19.0,"lng":-98.2},"order_value":500}`},
		{"missing coordinates", `{"vendor_id":"v1","destination":{"postal_code":"72000"},"order_value":500}`},
		{"latitude out of range", `{"vendor_id":"v1","destination":{"lat":95.0,"lng":-98.2,"postal_code":"72000"},"order_value":500}`},
		{"negative weight", `{"vendor_id":"v1","destination":{"lat":19.0,"lng":-98.2,"postal_code":"72000"},"order_value":500,"total_weight":-1}`},
	}

	svc := &stubShippingService{calculateResult: sampleResult()}
	h := NewShippingHandler(svc)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(t, tt.body)
			err := h.CalculateCost(c)
			var httpErr *echo.HTTPError
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestCalculateCost_ServiceErrorPassedThrough(t *testing.T) {
	svc := &stubShippingService{calculateErr: domain.ErrConfigNotFound}
	h := NewShippingHandler(svc)

	c, _ := newContext(t, validCostBody)
	err := h.CalculateCost(c)
	// Domain errors are left for the central error handler to translate.
	if !errors.Is(err, domain.ErrConfigNotFound) {
		t.Fatalf("expected the domain error untouched, got %v", err)
	}
}

func TestMultiEstimate_MixedOutcomes(t *testing.T) {
	svc := &stubShippingService{estimates: []ports.VendorEstimate{
		{VendorID: "vendor_a", Result: sampleResult()},
		{VendorID: "vendor_b", Err: domain.ErrConfigNotFound},
		{VendorID: "vendor_c", Err: &domain.MaxDistanceError{MaxKm: 100}},
	}}
	h := NewShippingHandler(svc)

	body := `{
		"vendor_ids": ["vendor_a", "vendor_b", "vendor_c"],
		"destination": {"lat": 19.0414, "lng": -98.2063, "postal_code": "72000"},
		"order_value": 500
	}`
	c, rec := newContext(t, body)

	if err := h.MultiEstimate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("mixed outcomes must still answer 200, got %d", rec.Code)
	}

	var resp multiEstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Estimates) != 3 {
		t.Fatalf("expected 3 estimates, got %d", len(resp.Estimates))
	}
	if !resp.Estimates[0].Success || resp.Estimates[0].Data == nil {
		t.Errorf("vendor_a must succeed: %+v", resp.Estimates[0])
	}
	if resp.Estimates[1].Success || resp.Estimates[1].Error == "" {
		t.Errorf("vendor_b must carry an error message: %+v", resp.Estimates[1])
	}
	if resp.Estimates[2].Error == "" || !strings.Contains(resp.Estimates[2].Error, "100") {
		t.Errorf("vendor_c error must name the radius: %+v", resp.Estimates[2])
	}
}

func TestMultiEstimate_EmptyVendorListRejected(t *testing.T) {
	h := NewShippingHandler(&stubShippingService{})

	body := `{
		"vendor_ids": [],
		"destination": {"lat": 19.0414, "lng": -98.2063, "postal_code": "72000"},
		"order_value": 500
	}`
	c, _ := newContext(t, body)

	err := h.MultiEstimate(c)
	var httpErr *echo.HTTPError
	if err == nil || !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestDeliveryTime_Success(t *testing.T) {
	svc := &stubShippingService{deliveryResult: &ports.DeliveryTimeResult{
		EstimatedMinutes: 25,
		EstimatedSeconds: 1500,
		DistanceKm:       10,
	}}
	h := NewShippingHandler(svc)

	body := `{
		"vendor_id": "vendor_1",
		"destination": {"lat": 19.0414, "lng": -98.2063, "postal_code": "72000"}
	}`
	c, rec := newContext(t, body)

	if err := h.DeliveryTime(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp deliveryTimeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.EstimatedDeliveryTime != "25 min" || resp.EstimatedMinutes != 25 {
		t.Errorf("unexpected delivery time: %+v", resp)
	}
	if resp.DistanceKm != 10 {
		t.Errorf("expected 10 km, got %v", resp.DistanceKm)
	}
}
