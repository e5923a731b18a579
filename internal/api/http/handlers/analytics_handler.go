package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-desk/complaint-service/internal/api/dto"
	"github.com/campus-desk/complaint-service/internal/service"
	apperrors "github.com/campus-desk/complaint-service/pkg/util"
)

// AnalyticsHandler serves the dashboard aggregation endpoint.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Summarize GET /api/analytics?days=N. The window defaults to 30 days; an
// explicit value is passed through as-is so the service can reject bad input.
func (h *AnalyticsHandler) Summarize(c *fiber.Ctx) error {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("days must be a positive number", nil)
		}
		days = parsed
	}

	summary, err := h.analytics.Summarize(c.Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnalyticsResponse(summary))
}
