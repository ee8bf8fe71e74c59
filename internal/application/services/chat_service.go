package services

import (
	"context"
	"fmt"

	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/infrastructure/metrics"
	"github.com/sibstore/storefront/internal/ports"
)

// ChatService forwards chat widget messages to the assistant backend
type ChatService struct {
	client       ports.ChatClient
	systemPrompt string
	historyLimit int
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

// NewChatService creates a chat service. A nil client disables chat.
func NewChatService(client ports.ChatClient, systemPrompt string, historyLimit int, logger *logger.Logger, m *metrics.Metrics) *ChatService {
	return &ChatService{
		client:       client,
		systemPrompt: systemPrompt,
		historyLimit: historyLimit,
		logger:       logger,
		metrics:      m,
	}
}

// Reply sends the system prompt, the most recent history and the new
// message. Backend failures are reported as ErrChatUnavailable.
func (s *ChatService) Reply(ctx context.Context, req ports.ChatRequest) (*ports.ChatResponse, error) {
	if s.client == nil {
		s.metrics.ChatRequest("disabled")
		return nil, entities.ErrChatUnavailable
	}

	history := req.History
	if s.historyLimit >= 0 && len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	messages := make([]ports.ChatMessage, 0, len(history)+2)
	if s.systemPrompt != "" {
		messages = append(messages, ports.ChatMessage{Role: "system", Content: s.systemPrompt})
	}
	messages = append(messages, history...)
	messages = append(messages, ports.ChatMessage{Role: "user", Content: req.Message})

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		s.metrics.ChatRequest("error")
		s.logger.Errorw("Chat backend failed", "error", err)
		return nil, fmt.Errorf("%w: %v", entities.ErrChatUnavailable, err)
	}

	s.metrics.ChatRequest("ok")
	return &ports.ChatResponse{Reply: reply}, nil
}
