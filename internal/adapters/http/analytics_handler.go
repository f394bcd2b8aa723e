package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goalboard/core/internal/application/services"
	"github.com/goalboard/core/internal/infrastructure/logger"
	"github.com/goalboard/core/internal/ports"
)

// AnalyticsHandler handles stats, badge, and device preference requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	logger           *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetSummary returns the headline stats for a board
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	summary, err := h.analyticsService.Summary(c.Request().Context(), c.Param("slug"))
	if err != nil {
		h.logger.Error("Get summary failed", "error", err, "board", c.Param("slug"))
		return domainError(err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetStreaks returns the current and best completion streaks
func (h *AnalyticsHandler) GetStreaks(c echo.Context) error {
	streaks, err := h.analyticsService.Streaks(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, streaks)
}

// GetWeeklyData returns per-day counts for the trailing week
func (h *AnalyticsHandler) GetWeeklyData(c echo.Context) error {
	data, err := h.analyticsService.WeeklyData(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, data)
}

// GetCategoryBreakdown returns all-time per-section totals
func (h *AnalyticsHandler) GetCategoryBreakdown(c echo.Context) error {
	breakdown, err := h.analyticsService.CategoryBreakdown(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, breakdown)
}

// GetCompletionTrend returns the trailing 30-day completion rates
func (h *AnalyticsHandler) GetCompletionTrend(c echo.Context) error {
	trend, err := h.analyticsService.CompletionTrend(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, trend)
}

// GetDsaTimeStats returns aggregated practice-time stats
func (h *AnalyticsHandler) GetDsaTimeStats(c echo.Context) error {
	stats, err := h.analyticsService.DsaTimeStats(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

// GetTotalStats returns the all-time counters
func (h *AnalyticsHandler) GetTotalStats(c echo.Context) error {
	stats, err := h.analyticsService.TotalStats(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

// GetWeeklyComparison compares this week against last week
func (h *AnalyticsHandler) GetWeeklyComparison(c echo.Context) error {
	comparison, err := h.analyticsService.WeeklyComparison(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, comparison)
}

// GetBadges evaluates the badge catalogue for a board
func (h *AnalyticsHandler) GetBadges(c echo.Context) error {
	badges, err := h.analyticsService.Badges(c.Request().Context(), c.Param("slug"))
	if err != nil {
		h.logger.Error("Get badges failed", "error", err, "board", c.Param("slug"))
		return domainError(err)
	}

	return c.JSON(http.StatusOK, badges)
}

// MarkBadgesSeen acknowledges earned badges on this device
func (h *AnalyticsHandler) MarkBadgesSeen(c echo.Context) error {
	var req ports.MarkBadgesSeenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.analyticsService.MarkBadgesSeen(c.Request().Context(), c.Param("slug"), req.BadgeIDs); err != nil {
		h.logger.Error("Mark badges seen failed", "error", err, "board", c.Param("slug"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not mark badges seen")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Badges acknowledged"})
}

// GetTheme returns the device theme preference
func (h *AnalyticsHandler) GetTheme(c echo.Context) error {
	theme, err := h.analyticsService.Theme(c.Request().Context())
	if err != nil {
		h.logger.Error("Get theme failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not load theme")
	}

	return c.JSON(http.StatusOK, map[string]string{"theme": theme})
}

// SetTheme stores the device theme preference
func (h *AnalyticsHandler) SetTheme(c echo.Context) error {
	var req ports.SetThemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.analyticsService.SetTheme(c.Request().Context(), req.Theme); err != nil {
		h.logger.Error("Set theme failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not store theme")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Theme updated"})
}
