package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/siret-extractor/internal/config"
	"github.com/octobees/siret-extractor/internal/handler"
	middlewarepkg "github.com/octobees/siret-extractor/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Extract *handler.ExtractHandler
	Tools   *handler.ToolsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, verifier middlewarepkg.KeyVerifier, handlers Handlers) {
	e.GET("/healthz", handler.Health)

	e.POST("/extract", handlers.Extract.Extract,
		middlewarepkg.APIKey(verifier),
		middlewarepkg.RateLimiter(cfg.RateLimitExtract, "/extract"),
	)

	if handlers.Tools != nil {
		e.POST("/tools/dig", handlers.Tools.Dig)
	}
}
