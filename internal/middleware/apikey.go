package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyHeader carries the caller API key.
const APIKeyHeader = "X-Api-Key"

// KeyVerifier checks a presented API key.
type KeyVerifier interface {
	Verify(key string) bool
}

// APIKey rejects requests whose X-Api-Key header does not match.
func APIKey(verifier KeyVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(APIKeyHeader)
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			if !verifier.Verify(key) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			}

			return next(c)
		}
	}
}
