package handler

import "github.com/labstack/echo/v4"

const (
	ctxSegments = "segments"
	ctxResource = "resource"
)

// SetRoute stores the decoded path segments and the matched resource on the
// request context. The dispatcher calls it before invoking a handler.
func SetRoute(c echo.Context, resource string, segments []string) {
	c.Set(ctxResource, resource)
	c.Set(ctxSegments, segments)
}

// Segments returns the decoded path segments below the API prefix.
func Segments(c echo.Context) []string {
	segs, _ := c.Get(ctxSegments).([]string)
	return segs
}

// Resource returns the matched resource name, or "" when none matched.
func Resource(c echo.Context) string {
	r, _ := c.Get(ctxResource).(string)
	return r
}

// segment returns the i-th path segment or "".
func segment(c echo.Context, i int) string {
	segs := Segments(c)
	if i < 0 || i >= len(segs) {
		return ""
	}
	return segs[i]
}
