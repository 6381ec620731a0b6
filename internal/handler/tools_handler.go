package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/siret-extractor/internal/dto"
)

// Digger answers DNS lookups for a website.
type Digger interface {
	Dig(ctx context.Context, website string) (string, error)
}

// ToolsHandler serves diagnostic utilities.
type ToolsHandler struct {
	digger Digger
}

// NewToolsHandler constructs a ToolsHandler.
func NewToolsHandler(digger Digger) *ToolsHandler {
	return &ToolsHandler{digger: digger}
}

// Dig returns the address records of the requested website as plain text.
func (h *ToolsHandler) Dig(c echo.Context) error {
	var req dto.WebsiteRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	website := strings.TrimSpace(req.Website)
	if website == "" {
		return Error(c, http.StatusBadRequest, "website is required")
	}

	answer, err := h.digger.Dig(c.Request().Context(), website)
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return c.String(http.StatusOK, answer)
}
