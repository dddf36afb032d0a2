package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/velora/shipping-engine/internal/core/domain"
	"github.com/velora/shipping-engine/internal/core/ports"
)

// ShippingHandler handles HTTP requests for shipping cost operations.
type ShippingHandler struct {
	service ports.ShippingService
}

func NewShippingHandler(service ports.ShippingService) *ShippingHandler {
	return &ShippingHandler{service: service}
}

// CalculateCost handles POST /v1/shipping/cost.
//
// @Summary      Calculate the shipping cost for one vendor
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      calculateCostRequest  true  "Calculation input"
// @Success      200   {object}  calculateCostResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/shipping/cost [post]
func (h *ShippingHandler) CalculateCost(c echo.Context) error {
	var req calculateCostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requesterID, _ := c.Get("requester_id").(string)

	result, err := h.service.Calculate(c.Request().Context(), ports.CalculateInput{
		VendorID:    req.VendorID,
		RequesterID: requesterID,
		OrderID:     req.OrderID,
		Destination: toDestination(req.Destination),
		OrderValue:  req.OrderValue,
		TotalWeight: req.TotalWeight,
		IsExpress:   req.IsExpress,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, calculateCostResponse{
		Success: true,
		Data:    toCostData(result),
	})
}

// MultiEstimate handles POST /v1/shipping/estimates.
//
// @Summary      Estimate shipping cost across several vendors
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      multiEstimateRequest  true  "Estimate input"
// @Success      200   {object}  multiEstimateResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/shipping/estimates [post]
func (h *ShippingHandler) MultiEstimate(c echo.Context) error {
	var req multiEstimateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requesterID, _ := c.Get("requester_id").(string)

	estimates := h.service.EstimateAll(c.Request().Context(), req.VendorIDs, ports.CalculateInput{
		RequesterID: requesterID,
		Destination: toDestination(req.Destination),
		OrderValue:  req.OrderValue,
		TotalWeight: req.TotalWeight,
		IsExpress:   req.IsExpress,
	})

	resp := multiEstimateResponse{Estimates: make([]vendorEstimateResponse, 0, len(estimates))}
	for _, est := range estimates {
		item := vendorEstimateResponse{VendorID: est.VendorID}
		if est.Err != nil {
			item.Error = estimateErrorMessage(est.Err)
		} else {
			item.Success = true
			data := toCostData(est.Result)
			item.Data = &data
		}
		resp.Estimates = append(resp.Estimates, item)
	}

	return c.JSON(http.StatusOK, resp)
}

// DeliveryTime handles POST /v1/shipping/delivery-time.
//
// @Summary      Estimate delivery time only, skipping cost calculation
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deliveryTimeRequest  true  "Delivery time input"
// @Success      200   {object}  deliveryTimeResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/shipping/delivery-time [post]
func (h *ShippingHandler) DeliveryTime(c echo.Context) error {
	var req deliveryTimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.EstimateDeliveryTime(c.Request().Context(), req.VendorID, toDestination(req.Destination))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deliveryTimeResponse{
		EstimatedDeliveryTime: formatMinutes(result.EstimatedMinutes),
		EstimatedMinutes:      result.EstimatedMinutes,
		DistanceKm:            result.DistanceKm,
	})
}

// --- Mapping helpers ---

func toDestination(d destinationRequest) ports.DestinationInput {
	return ports.DestinationInput{
		Address:    d.Address,
		Latitude:   d.Lat,
		Longitude:  d.Lng,
		PostalCode: d.PostalCode,
	}
}

func toCostData(r *ports.CalculateResult) calculateCostData {
	return calculateCostData{
		ShippingCost:          r.ShippingCost,
		EstimatedDeliveryTime: formatMinutes(r.EstimatedMinutes),
		EstimatedMinutes:      r.EstimatedMinutes,
		DistanceKm:            r.DistanceKm,
		Breakdown: breakdownResponse{
			BaseRate:            r.Breakdown.BaseRate,
			DistanceRate:        r.Breakdown.DistanceRate,
			PeakHourMultiplier:  r.Breakdown.PeakHourMultiplier,
			WeightMultiplier:    r.Breakdown.WeightMultiplier,
			ExpressMultiplier:   r.Breakdown.ExpressMultiplier,
			Subtotal:            r.Breakdown.Subtotal,
			FinalAmount:         r.Breakdown.FinalAmount,
			FreeShippingApplied: r.Breakdown.FreeShippingApplied,
			Itemization:         r.Breakdown.Itemization,
		},
	}
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

// estimateErrorMessage renders a per-vendor failure as the user-actionable
// message, mirroring the central error handler's taxonomy.
func estimateErrorMessage(err error) string {
	var maxDist *domain.MaxDistanceError
	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		return "vendor has no active shipping configuration"
	case errors.Is(err, domain.ErrOutOfServiceArea):
		return "destination outside service area"
	case errors.As(err, &maxDist):
		return maxDist.Error()
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, domain.ErrDistanceProvider):
		return "failed to calculate distance, try again"
	default:
		return "internal error"
	}
}
