package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths are infrastructure endpoints that need neither a session
// nor a database connection.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
	"/metrics":   true,
}

// AuthSkipper returns true for requests whose route should skip session
// resolution.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}
