package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/airrush/charter-api/internal/api/handler"
	"github.com/airrush/charter-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. Wiring happens in main; the
// router only registers routes.
type Deps struct {
	Cargo      *handler.CargoHandler
	Passengers *handler.PassengerHandler
	Mongo      *mongo.Database
	Redis      *redis.Client
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("charter"))

	// --- Cargo routes ---
	e.POST("/api/cargo", d.Cargo.Create)
	e.GET("/api/cargo", d.Cargo.List)
	e.GET("/api/cargo/track/:airwaybill", d.Cargo.Track)
	e.PUT("/api/cargo/track/:airwaybill", d.Cargo.Update)
	e.PUT("/api/cargo/track/:airwaybill/status", d.Cargo.Transition)
	e.PUT("/api/cargo/track/:airwaybill/withdraw", d.Cargo.Withdraw)
	e.DELETE("/api/cargo/:airwaybill", d.Cargo.Delete)
	e.GET("/api/cargo/:airwaybill/receipt", d.Cargo.Receipt)

	// --- Passenger routes ---
	e.POST("/api/passengers", d.Passengers.Create)
	e.GET("/api/passengers", d.Passengers.List)
	e.GET("/api/passengers/track/:airwaybill", d.Passengers.Track)
	e.PUT("/api/passengers/track/:airwaybill", d.Passengers.Update)
	e.POST("/api/passengers/track/:airwaybill/locations", d.Passengers.AddCheckpoint)
	e.DELETE("/api/passengers/track/:airwaybill", d.Passengers.Delete)

	// --- Health probes and metrics ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
