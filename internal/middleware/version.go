package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersion describes the served API version
type APIVersion struct {
	Version string `json:"version"`
	Status  string `json:"status"` // "active" or "deprecated"
	Message string `json:"message,omitempty"`
}

// VersionMiddleware stamps responses with the API version
type VersionMiddleware struct {
	current APIVersion
}

// NewVersionMiddleware creates a new version middleware instance
func NewVersionMiddleware(version string) *VersionMiddleware {
	return &VersionMiddleware{
		current: APIVersion{
			Version: version,
			Status:  "active",
			Message: "Current stable API version",
		},
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", vm.current.Version)
			if vm.current.Status == "deprecated" {
				c.Response().Header().Set("X-API-Deprecated", "true")
			}
			c.Response().Header().Set("X-API-Message", vm.current.Message)
			return next(c)
		}
	}
}

// Current returns the served API version
func (vm *VersionMiddleware) Current() APIVersion {
	return vm.current
}
