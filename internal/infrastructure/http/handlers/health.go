package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Dependency is an optional backing service. A nil Check means the
// dependency is not configured.
type Dependency struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Every dependency is optional: the service keeps answering when one is
// down, so readiness reports "degraded" with a 200.
type HealthDependenciesHandler struct {
	deps          []Dependency
	userStoreMode string
	catalogSource func() string
}

func NewHealthDependenciesHandler(deps []Dependency, userStoreMode string, catalogSource func() string) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		deps:          deps,
		userStoreMode: userStoreMode,
		catalogSource: catalogSource,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	UserStore    string                      `json:"userStore"`
	Catalog      string                      `json:"catalog"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true

	for _, d := range h.deps {
		if d.Check == nil {
			deps[d.Name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := d.Check(ctx); err != nil {
			deps[d.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[d.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	if !healthy {
		status = "degraded"
	}

	resp := readinessResponse{
		Status:       status,
		Dependencies: deps,
		UserStore:    h.userStoreMode,
	}
	if h.catalogSource != nil {
		resp.Catalog = h.catalogSource()
	}
	return c.JSON(http.StatusOK, resp)
}

// InfoHandler handles GET / with a short service description.
type InfoHandler struct {
	service string
	version string
	prefix  string
}

func NewInfoHandler(service, version, prefix string) *InfoHandler {
	return &InfoHandler{service: service, version: version, prefix: prefix}
}

func (h *InfoHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"service": h.service,
		"version": h.version,
		"api":     h.prefix,
		"health":  "/health",
		"docs":    "/swagger/index.html",
	})
}
