package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/ports"
)

// ChatHandler serves the storefront chat widget
type ChatHandler struct {
	chatService ports.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService ports.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Reply answers a chat message
// @Summary Chat with the store assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param chat body ports.ChatRequest true "Message and recent history"
// @Success 200 {object} ports.ChatResponse
// @Failure 503 {object} ports.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Reply(c echo.Context) error {
	var req ports.ChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.chatService.Reply(c.Request().Context(), req)
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(http.StatusOK, resp)
}
