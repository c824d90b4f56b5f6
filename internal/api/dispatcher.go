package api

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/shop-api/internal/api/handler"
	"github.com/storefront/shop-api/internal/core/domain"
)

// AnyAction matches any non-empty second segment that has no exact route.
const AnyAction = "*"

// Route binds a resource (first path segment), an action (second segment,
// "" for none) and a method to a handler.
type Route struct {
	Resource   string
	Action     string
	Method     string
	Handler    echo.HandlerFunc
	Middleware []echo.MiddlewareFunc
}

var knownMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Dispatcher routes every request below prefix through an explicit table.
type Dispatcher struct {
	prefix    string
	routes    map[string][]Route
	resources []string
}

type notFoundDebug struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Resource string `json:"resource"`
}

type notFoundResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Debug     notFoundDebug `json:"debug"`
	Resources []string      `json:"resources"`
}

// NewDispatcher validates the table and wraps each handler in its middleware.
func NewDispatcher(prefix string, routes []Route) (*Dispatcher, error) {
	d := &Dispatcher{
		prefix: "/" + strings.Trim(prefix, "/"),
		routes: make(map[string][]Route),
	}

	seen := make(map[string]bool, len(routes))
	for i, r := range routes {
		switch {
		case r.Resource == "" || strings.Contains(r.Resource, "/"):
			return nil, fmt.Errorf("route %d: invalid resource %q", i, r.Resource)
		case strings.Contains(r.Action, "/"):
			return nil, fmt.Errorf("route %d: invalid action %q", i, r.Action)
		case !knownMethods[r.Method]:
			return nil, fmt.Errorf("route %d: unsupported method %q", i, r.Method)
		case r.Handler == nil:
			return nil, fmt.Errorf("route %d: nil handler", i)
		}

		key := r.Method + " " + r.Resource + "/" + r.Action
		if seen[key] {
			return nil, fmt.Errorf("route %d: duplicate route %s", i, key)
		}
		seen[key] = true

		h := r.Handler
		for j := len(r.Middleware) - 1; j >= 0; j-- {
			h = r.Middleware[j](h)
		}
		r.Handler = h

		if _, ok := d.routes[r.Resource]; !ok {
			d.resources = append(d.resources, r.Resource)
		}
		d.routes[r.Resource] = append(d.routes[r.Resource], r)
	}
	sort.Strings(d.resources)

	return d, nil
}

// Mount registers the dispatcher for the prefix and everything below it.
func (d *Dispatcher) Mount(e *echo.Echo) {
	e.Any(d.prefix, d.Handle)
	e.Any(strings.TrimSuffix(d.prefix, "/")+"/*", d.Handle)
}

// Resources lists the registered resource names in order.
func (d *Dispatcher) Resources() []string {
	return append([]string(nil), d.resources...)
}

func (d *Dispatcher) Handle(c echo.Context) error {
	req := c.Request()
	segs := d.segments(req.URL.EscapedPath())

	var resource, action string
	if len(segs) > 0 {
		resource = segs[0]
	}
	if len(segs) > 1 {
		action = segs[1]
	}

	routes, ok := d.routes[resource]
	if !ok {
		return c.JSON(http.StatusNotFound, notFoundResponse{
			Success:   false,
			Message:   "Endpoint not found",
			Debug:     notFoundDebug{Method: req.Method, Path: req.URL.Path, Resource: resource},
			Resources: d.Resources(),
		})
	}
	handler.SetRoute(c, resource, segs)

	candidates := matchAction(routes, action)
	for _, r := range candidates {
		if r.Method == req.Method {
			return r.Handler(c)
		}
	}

	if len(candidates) > 0 {
		methods := make([]string, 0, len(candidates))
		for _, r := range candidates {
			methods = append(methods, r.Method)
		}
		c.Response().Header().Set(echo.HeaderAllow, strings.Join(methods, ", "))
	}
	return domain.ErrMethodNotAllowed
}

// segments strips the prefix from the escaped path, drops empty parts and
// percent-decodes the rest. A segment that fails to decode is kept as is.
func (d *Dispatcher) segments(escaped string) []string {
	rest := strings.TrimPrefix(escaped, d.prefix)
	parts := strings.Split(rest, "/")

	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if dec, err := url.PathUnescape(p); err == nil {
			p = dec
		}
		segs = append(segs, p)
	}
	return segs
}

func matchAction(routes []Route, action string) []Route {
	var exact, wildcard []Route
	for _, r := range routes {
		switch {
		case r.Action == action:
			exact = append(exact, r)
		case r.Action == AnyAction && action != "":
			wildcard = append(wildcard, r)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return wildcard
}
