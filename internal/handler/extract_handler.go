package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/siret-extractor/internal/dto"
	"github.com/octobees/siret-extractor/internal/service"
)

// ExtractHandler exposes the identifier extraction endpoint.
type ExtractHandler struct {
	service service.Extractor
}

// NewExtractHandler constructs an ExtractHandler.
func NewExtractHandler(svc service.Extractor) *ExtractHandler {
	return &ExtractHandler{service: svc}
}

// Extract crawls the requested website and returns the extraction result
// as is, without the response envelope.
func (h *ExtractHandler) Extract(c echo.Context) error {
	var req dto.WebsiteRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	website := strings.TrimSpace(req.Website)
	if website == "" {
		return Error(c, http.StatusBadRequest, "website is required")
	}

	result, err := h.service.Extract(c.Request().Context(), website)
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
