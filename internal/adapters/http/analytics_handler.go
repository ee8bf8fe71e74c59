package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// AnalyticsHandler records visits and client errors and serves the dashboard
type AnalyticsHandler struct {
	analyticsService ports.AnalyticsService
	logger           *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService ports.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RecordVisit stores a page view
// @Summary Record page view
// @Tags analytics
// @Accept json
// @Param visit body ports.VisitRequest true "Visited path"
// @Success 202
// @Router /visits [post]
func (h *AnalyticsHandler) RecordVisit(c echo.Context) error {
	var req ports.VisitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.analyticsService.RecordVisit(c.Request().Context(), req, c.Request().UserAgent(), c.RealIP()); err != nil {
		return errorStatus(err)
	}

	return c.NoContent(http.StatusAccepted)
}

// RecordError stores an error raised in the browser
// @Summary Report client error
// @Tags analytics
// @Accept json
// @Param report body ports.ErrorReportRequest true "Error details"
// @Success 202
// @Router /errors [post]
func (h *AnalyticsHandler) RecordError(c echo.Context) error {
	var req ports.ErrorReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.analyticsService.RecordError(c.Request().Context(), req, c.Request().UserAgent()); err != nil {
		return errorStatus(err)
	}

	return c.NoContent(http.StatusAccepted)
}

// Dashboard returns visit and order statistics
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} ports.Dashboard
// @Router /admin/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	days := 0
	if s := c.QueryParam("days"); s != "" {
		var err error
		days, err = strconv.Atoi(s)
		if err != nil || days < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid days parameter")
		}
	}

	dashboard, err := h.analyticsService.Dashboard(c.Request().Context(), days)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, dashboard)
}

// ListErrors lists reported client errors, newest first
// @Summary List client errors
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} ports.PaginatedResponse[entities.ErrorReport]
// @Router /admin/errors [get]
func (h *AnalyticsHandler) ListErrors(c echo.Context) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	reports, total, err := h.analyticsService.ListErrors(c.Request().Context(), limit, offset)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, paginated(reports, total, limit, offset))
}
