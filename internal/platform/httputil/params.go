// Package httputil holds request helpers shared by the echo handlers.
package httputil

import (
	"net/url"

	"github.com/labstack/echo/v4"
)

// PathParam returns the named path parameter decoded exactly once. Echo
// routes on the escaped path when the request has a RawPath, leaving
// parameters encoded; otherwise they are already decoded.
func PathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
