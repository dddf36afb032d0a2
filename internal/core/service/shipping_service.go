package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/velora/shipping-engine/internal/api/metrics"
	"github.com/velora/shipping-engine/internal/core/domain"
	"github.com/velora/shipping-engine/internal/core/ports"
)

const (
	// distanceCacheWindow is how far back a recorded distance may be reused
	// instead of calling the external provider again.
	distanceCacheWindow = time.Hour

	// defaultTotalWeight is assumed when the caller omits the order weight.
	defaultTotalWeight = 1.0
)

// Deps bundles the collaborators of the shipping service.
type Deps struct {
	Configs  ports.ConfigRepository
	Provider ports.DistanceProvider
	Cache    ports.DistanceCacheReader
	// CacheStore is optional. When set (dedicated fast store), fresh distances
	// are written to it after each provider call; with the record-backed cache
	// the audit insert is the write.
	CacheStore ports.DistanceCacheWriter
	Audit      ports.AuditWriter
	// Now is the clock used for peak-hour evaluation and cache windows.
	// Defaults to time.Now.
	Now    func() time.Time
	Logger zerolog.Logger
}

// ShippingCalcService orchestrates config lookup, service-area checks,
// distance resolution, rate computation, and audit persistence for one
// vendor, and fans the same work out across vendors for multi-vendor
// estimates.
type ShippingCalcService struct {
	configs    ports.ConfigRepository
	provider   ports.DistanceProvider
	cache      ports.DistanceCacheReader
	cacheStore ports.DistanceCacheWriter
	audit      ports.AuditWriter
	now        func() time.Time
	log        zerolog.Logger
}

// NewShippingService wires a ShippingCalcService from its dependencies.
func NewShippingService(d Deps) *ShippingCalcService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &ShippingCalcService{
		configs:    d.Configs,
		provider:   d.Provider,
		cache:      d.Cache,
		cacheStore: d.CacheStore,
		audit:      d.Audit,
		now:        now,
		log:        d.Logger,
	}
}

// Calculate prices a single vendor's delivery. Each step may end the request
// early with a typed domain error; no record is persisted for rejected
// requests. A failed audit write is a hard failure: the caller must not trust
// a quote that could not be recorded.
func (s *ShippingCalcService) Calculate(ctx context.Context, in ports.CalculateInput) (*ports.CalculateResult, error) {
	start := s.now()
	result, err := s.calculate(ctx, in)
	elapsed := time.Since(start)

	if err != nil {
		metrics.CalculationsTotal.WithLabelValues(resultLabel(err)).Inc()
		metrics.CalculationDuration.WithLabelValues("error").Observe(elapsed.Seconds())
		return nil, err
	}
	metrics.CalculationsTotal.WithLabelValues("success").Inc()
	metrics.CalculationDuration.WithLabelValues("success").Observe(elapsed.Seconds())
	return result, nil
}

func (s *ShippingCalcService) calculate(ctx context.Context, in ports.CalculateInput) (*ports.CalculateResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.TotalWeight <= 0 {
		in.TotalWeight = defaultTotalWeight
	}

	cfg, err := s.configs.GetActiveConfig(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}

	// Coarse postal filter first: a postal-excluded destination never costs
	// an external provider call.
	area, serviceable := cfg.MatchServiceArea(in.Destination.PostalCode)
	if !serviceable {
		return nil, domain.ErrOutOfServiceArea
	}

	dist, err := s.resolveDistance(ctx, cfg, in.Destination)
	if err != nil {
		return nil, err
	}

	distanceKm := dist.DistanceKm()
	if distanceKm > cfg.MaxDeliveryDistance {
		return nil, &domain.MaxDistanceError{MaxKm: cfg.MaxDeliveryDistance}
	}

	now := s.now()
	breakdown := ComputeBreakdown(cfg, area, distanceKm, in.OrderValue, in.TotalWeight, in.IsExpress, now)

	rec := &domain.CalculationRecord{
		VendorID:    in.VendorID,
		RequesterID: in.RequesterID,
		OrderID:     in.OrderID,
		Origin:      cfg.OriginLocation,
		Destination: destinationLocation(in.Destination),
		Distance:    *dist,
		Breakdown:   breakdown,
		OrderValue:  in.OrderValue,
		TotalWeight: in.TotalWeight,
		IsExpress:   in.IsExpress,
		CreatedAt:   now.UTC(),
	}
	if err := s.audit.Insert(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("vendor_id", in.VendorID).Msg("failed to persist calculation record")
		return nil, fmt.Errorf("persist calculation record: %w", err)
	}

	s.log.Info().
		Str("vendor_id", in.VendorID).
		Str("requester_id", in.RequesterID).
		Float64("distance_km", distanceKm).
		Float64("final_amount", breakdown.FinalAmount).
		Bool("free_shipping", breakdown.FreeShippingApplied).
		Msg("shipping cost calculated")

	seconds := dist.EstimatedSeconds()
	return &ports.CalculateResult{
		ShippingCost:     breakdown.FinalAmount,
		EstimatedMinutes: minutesCeil(seconds),
		EstimatedSeconds: seconds,
		DistanceKm:       distanceKm,
		Breakdown:        breakdown,
	}, nil
}

// EstimateAll runs one calculation per vendor concurrently. Every vendor gets
// an outcome in input order; one vendor's failure never cancels the others
// (settle-all join, not fail-fast).
func (s *ShippingCalcService) EstimateAll(ctx context.Context, vendorIDs []string, in ports.CalculateInput) []ports.VendorEstimate {
	metrics.EstimateBatchSize.Observe(float64(len(vendorIDs)))

	estimates := make([]ports.VendorEstimate, len(vendorIDs))
	var wg sync.WaitGroup
	for i, vendorID := range vendorIDs {
		wg.Add(1)
		go func(i int, vendorID string) {
			defer wg.Done()
			vendorInput := in
			vendorInput.VendorID = vendorID
			result, err := s.Calculate(ctx, vendorInput)
			estimates[i] = ports.VendorEstimate{VendorID: vendorID, Result: result, Err: err}
		}(i, vendorID)
	}
	wg.Wait()

	return estimates
}

// EstimateDeliveryTime answers "how long would delivery take" without pricing
// the order and without writing an audit record. Serviceability checks still
// apply: an out-of-area destination gets no estimate.
func (s *ShippingCalcService) EstimateDeliveryTime(ctx context.Context, vendorID string, destination ports.DestinationInput) (*ports.DeliveryTimeResult, error) {
	if err := validateDestination(destination); err != nil {
		return nil, err
	}

	cfg, err := s.configs.GetActiveConfig(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	if _, serviceable := cfg.MatchServiceArea(destination.PostalCode); !serviceable {
		return nil, domain.ErrOutOfServiceArea
	}

	dist, err := s.resolveDistance(ctx, cfg, destination)
	if err != nil {
		return nil, err
	}

	distanceKm := dist.DistanceKm()
	if distanceKm > cfg.MaxDeliveryDistance {
		return nil, &domain.MaxDistanceError{MaxKm: cfg.MaxDeliveryDistance}
	}

	seconds := dist.EstimatedSeconds()
	return &ports.DeliveryTimeResult{
		EstimatedMinutes: minutesCeil(seconds),
		EstimatedSeconds: seconds,
		DistanceKm:       distanceKm,
	}, nil
}

// resolveDistance reuses a recently recorded distance for the same vendor and
// destination when one exists, calling the external provider only on a miss.
// A cache read failure is logged and treated as a miss; it must never fail
// the calculation on its own.
func (s *ShippingCalcService) resolveDistance(ctx context.Context, cfg *domain.ShippingConfig, destination ports.DestinationInput) (*domain.DistanceResult, error) {
	since := s.now().Add(-distanceCacheWindow)
	cached, err := s.cache.FindRecentDistance(ctx, cfg.VendorID, destination.Latitude, destination.Longitude, since)
	if err != nil {
		s.log.Warn().Err(err).Str("vendor_id", cfg.VendorID).Msg("distance cache lookup failed, fetching fresh")
	} else if cached != nil {
		metrics.DistanceCacheTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("vendor_id", cfg.VendorID).Msg("distance reused from recent record")
		return cached, nil
	}
	metrics.DistanceCacheTotal.WithLabelValues("miss").Inc()

	dist, err := s.provider.GetDistance(ctx, cfg.OriginLocation, destinationLocation(destination))
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if storeErr := s.cacheStore.StoreDistance(ctx, cfg.VendorID, destination.Latitude, destination.Longitude, *dist); storeErr != nil {
			s.log.Warn().Err(storeErr).Str("vendor_id", cfg.VendorID).Msg("failed to store distance in cache")
		}
	}
	return dist, nil
}

func validateInput(in ports.CalculateInput) error {
	if in.VendorID == "" {
		return fmt.Errorf("%w: vendor id is required", domain.ErrValidation)
	}
	if in.OrderValue < 0 {
		return fmt.Errorf("%w: order value must not be negative", domain.ErrValidation)
	}
	return validateDestination(in.Destination)
}

func validateDestination(d ports.DestinationInput) error {
	if d.Latitude == 0 && d.Longitude == 0 {
		return fmt.Errorf("%w: destination coordinates are required", domain.ErrValidation)
	}
	if d.PostalCode == "" {
		return fmt.Errorf("%w: destination postal code is required", domain.ErrValidation)
	}
	return nil
}

func destinationLocation(d ports.DestinationInput) domain.Location {
	return domain.Location{
		Address:    d.Address,
		Latitude:   d.Latitude,
		Longitude:  d.Longitude,
		PostalCode: d.PostalCode,
	}
}

func minutesCeil(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}

// resultLabel maps a calculation error to its metrics label.
func resultLabel(err error) string {
	var maxDist *domain.MaxDistanceError
	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		return "config_not_found"
	case errors.Is(err, domain.ErrOutOfServiceArea):
		return "out_of_service_area"
	case errors.As(err, &maxDist):
		return "exceeds_max_distance"
	case errors.Is(err, domain.ErrDistanceProvider):
		return "provider_error"
	case errors.Is(err, domain.ErrValidation):
		return "validation_error"
	default:
		return "persistence_error"
	}
}
