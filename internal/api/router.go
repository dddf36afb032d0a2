package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/velora/shipping-engine/docs"
	"github.com/velora/shipping-engine/internal/api/handler"
	"github.com/velora/shipping-engine/internal/api/middleware"
	"github.com/velora/shipping-engine/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc ports.ShippingService, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("shipping"))

	// --- Shipping routes ---
	shippingHandler := handler.NewShippingHandler(svc)
	requester := middleware.RequesterIdentity(jwtSecret)

	v1 := e.Group("/v1/shipping", requester)
	v1.POST("/cost", shippingHandler.CalculateCost)
	v1.POST("/estimates", shippingHandler.MultiEstimate)
	v1.POST("/delivery-time", shippingHandler.DeliveryTime)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
