package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/api/handler"
	"github.com/storefront/shop-api/internal/api/middleware"
	"github.com/storefront/shop-api/internal/core/ports"
	infrahttp "github.com/storefront/shop-api/internal/infrastructure/http"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log zerolog.Logger
	// Prefix is where the API dispatcher is mounted, e.g. "/api".
	Prefix string
	// ExposeErrors adds the underlying error text to 5xx responses.
	ExposeErrors bool

	Auth     ports.AuthService
	Products ports.ProductService
	// LoginLimiter is optional; nil disables login rate limiting.
	LoginLimiter middleware.Limiter

	Ops infrahttp.Ops
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.ExposeErrors)

	// --- Global middleware ---
	e.Pre(middleware.CORS())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Log)
	productHandler := handler.NewProductHandler(deps.Products)
	orderHandler := handler.NewOrderHandler()

	var loginMiddleware []echo.MiddlewareFunc
	if deps.LoginLimiter != nil {
		loginMiddleware = append(loginMiddleware, middleware.LoginRateLimit(deps.LoginLimiter, deps.Log))
	}

	dispatcher, err := NewDispatcher(deps.Prefix, []Route{
		// --- Products ---
		{Resource: "products", Method: http.MethodGet, Handler: productHandler.List},
		{Resource: "products", Action: "search", Method: http.MethodGet, Handler: productHandler.List},
		{Resource: "products", Action: "category", Method: http.MethodGet, Handler: productHandler.ByCategory},
		{Resource: "products", Action: AnyAction, Method: http.MethodGet, Handler: productHandler.Get},

		// --- Auth ---
		{Resource: "auth", Action: "register", Method: http.MethodPost, Handler: authHandler.Register},
		{Resource: "auth", Action: "login", Method: http.MethodPost, Handler: authHandler.Login, Middleware: loginMiddleware},
		{Resource: "auth", Action: "user", Method: http.MethodGet, Handler: authHandler.GetUser},
		{Resource: "auth", Action: "user", Method: http.MethodPut, Handler: authHandler.UpdateProfile},
		{Resource: "auth", Action: "user", Method: http.MethodPatch, Handler: authHandler.UpdateProfile},

		// --- Orders ---
		{Resource: "orders", Method: http.MethodGet, Handler: orderHandler.List},
		{Resource: "orders", Action: AnyAction, Method: http.MethodGet, Handler: orderHandler.List},
	})
	if err != nil {
		return nil, err
	}
	dispatcher.Mount(e)

	// --- Service info, health probes, metrics, docs ---
	deps.Ops.APIPrefix = deps.Prefix
	infrahttp.RegisterOps(e, deps.Ops)

	return e, nil
}
