package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// AuthHandler handles admin login and session requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Checks admin credentials and opens a session
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body ports.LoginRequest true "Admin credentials"
// @Success 200 {object} ports.AuthResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 401 {object} ports.ErrorResponse
// @Router /admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.Request().Context(), req, c.RealIP())
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, response)
}

// Logout ends the caller's session
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ports.MessageResponse
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := claimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	if err := h.authService.Logout(c.Request().Context(), claims.SessionID); err != nil {
		h.logger.Errorw("Logout failed", "error", err, "admin_id", claims.AdminID)
		return errorStatus(err)
	}

	h.logger.LogAdminAction(claims.AdminID.String(), "logout", nil)
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Logged out successfully"})
}

// Me returns the authenticated admin
// @Summary Current admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} entities.Admin
// @Router /admin/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims := claimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	admin, err := h.authService.GetAdmin(c.Request().Context(), claims.AdminID)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, admin)
}
