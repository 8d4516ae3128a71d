package ai

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/apperror"
)

// Handler handles HTTP requests for AI writing tools. Handlers are thin:
// bind request, call service, render response.
type Handler struct {
	service AIService
}

// NewHandler creates a new AI handler backed by the given service.
func NewHandler(service AIService) *Handler {
	return &Handler{service: service}
}

// Generate produces a complete draft from a prompt
// (POST /api/v1/ai/generate). Admin only.
func (h *Handler) Generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return apperror.NewBadRequest("prompt is required")
	}

	draft, err := h.service.Generate(c.Request().Context(), req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft)
}

// Summarize condenses content into a short summary
// (POST /api/v1/ai/summarize). Admin only.
func (h *Handler) Summarize(c echo.Context) error {
	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	summary, err := h.service.Summarize(c.Request().Context(), req.Content, req.MaxLength)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SummarizeResponse{Summary: summary})
}
