package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports that the service is up.
func Health(c echo.Context) error {
	return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
}
