package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// ContactHandler handles the contact page form
type ContactHandler struct {
	contactService ports.ContactService
	logger         *logger.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService ports.ContactService, logger *logger.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// Submit stores a contact message
// @Summary Send contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param message body ports.ContactRequest true "Message"
// @Success 201 {object} entities.ContactMessage
// @Failure 400 {object} ports.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ports.ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.contactService.Submit(c.Request().Context(), req)
	if err != nil {
		return errorStatus(err)
	}

	h.logger.Infow("Contact message received", "message_id", msg.ID)
	return c.JSON(http.StatusCreated, msg)
}

// List returns contact messages for the dashboard
// @Summary List contact messages
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} ports.PaginatedResponse[entities.ContactMessage]
// @Router /admin/contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}

	messages, total, err := h.contactService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, paginated(messages, total, limit, offset))
}
