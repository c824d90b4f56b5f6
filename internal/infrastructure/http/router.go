package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/storefront/shop-api/internal/infrastructure/http/handlers"
)

// Ops describes what the operational endpoints report.
type Ops struct {
	Service       string
	Version       string
	APIPrefix     string
	Dependencies  []handlers.Dependency
	UserStoreMode string
	CatalogSource func() string
}

// RegisterOps mounts the service info, health, metrics and API docs routes.
func RegisterOps(e *echo.Echo, ops Ops) {
	infoHandler := handlers.NewInfoHandler(ops.Service, ops.Version, ops.APIPrefix)
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(ops.Dependencies, ops.UserStoreMode, ops.CatalogSource)

	e.GET("/", infoHandler.Info)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
