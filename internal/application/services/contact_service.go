package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// ContactService stores messages left on the contact page
type ContactService struct {
	contactRepo ports.ContactRepository
	logger      *logger.Logger
}

// NewContactService creates a new contact service
func NewContactService(contactRepo ports.ContactRepository, logger *logger.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, logger: logger}
}

func (s *ContactService) Submit(ctx context.Context, req ports.ContactRequest) (*entities.ContactMessage, error) {
	msg := &entities.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	s.logger.Infow("Contact message received", "message_id", msg.ID)
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]*entities.ContactMessage, int, error) {
	messages, err := s.contactRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contactRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
