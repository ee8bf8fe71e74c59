package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/domain/shamsi"
	"github.com/sibstore/storefront/internal/ports"
)

// CalendarHandler exposes the Shamsi to Gregorian converter
type CalendarHandler struct{}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler() *CalendarHandler {
	return &CalendarHandler{}
}

// ToGregorian converts a YYYY/MM/DD Shamsi date
// @Summary Convert Shamsi date
// @Tags calendar
// @Produce json
// @Param date query string true "Shamsi date, YYYY/MM/DD"
// @Success 200 {object} ports.CalendarResponse
// @Failure 422 {object} ports.CalendarResponse
// @Router /calendar/gregorian [get]
func (h *CalendarHandler) ToGregorian(c echo.Context) error {
	input := c.QueryParam("date")

	if !shamsi.IsValid(input) {
		return c.JSON(http.StatusUnprocessableEntity, ports.CalendarResponse{Shamsi: input})
	}

	g, err := shamsi.ToGregorian(input)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ports.CalendarResponse{Shamsi: input})
	}

	return c.JSON(http.StatusOK, ports.CalendarResponse{
		Shamsi:    input,
		Gregorian: g.String(),
		Valid:     true,
	})
}
