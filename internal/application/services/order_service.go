package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sibstore/storefront/internal/domain/credential"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/domain/shamsi"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/infrastructure/metrics"
	"github.com/sibstore/storefront/internal/ports"
)

// OrderService accepts customer orders and lets admins track them
type OrderService struct {
	orderRepo     ports.OrderRepository
	productRepo   ports.ProductRepository
	usedPhoneRepo ports.UsedPhoneRepository
	generator     *credential.Generator
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo ports.OrderRepository,
	productRepo ports.ProductRepository,
	usedPhoneRepo ports.UsedPhoneRepository,
	generator *credential.Generator,
	logger *logger.Logger,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		usedPhoneRepo: usedPhoneRepo,
		generator:     generator,
		logger:        logger,
		metrics:       m,
	}
}

// CreateAppleIDOrder validates the Shamsi birth date, converts it, generates
// the account credentials and stores the order as pending.
func (s *OrderService) CreateAppleIDOrder(ctx context.Context, req ports.AppleIDOrderRequest) (*entities.Order, error) {
	birthDate := strings.TrimSpace(req.BirthDateShamsi)
	if !shamsi.IsValid(birthDate) {
		return nil, fmt.Errorf("%w: %q is not a valid Shamsi date", entities.ErrInvalidBirthDate, req.BirthDateShamsi)
	}

	gregorian, err := shamsi.ToGregorian(birthDate)
	if err != nil {
		s.metrics.ConversionFailed()
		s.logger.Errorw("Birth date conversion failed", "birth_date_shamsi", birthDate, "error", err)
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidBirthDate, err)
	}
	gregorianStr := gregorian.String()

	password := s.generator.Password()
	questions := s.generator.SecurityQuestions(req.FullName)

	order := &entities.Order{
		Kind:               entities.OrderKindAppleID,
		Status:             entities.OrderStatusPending,
		FullName:           req.FullName,
		Phone:              req.Phone,
		Email:              req.Email,
		BirthDateShamsi:    &birthDate,
		BirthDateGregorian: &gregorianStr,
		GeneratedPassword:  &password,
		Question1:          &questions.Question1,
		Answer1:            &questions.Answer1,
		Question2:          &questions.Question2,
		Answer2:            &questions.Answer2,
		Question3:          &questions.Question3,
		Answer3:            &questions.Answer3,
		Note:               req.Note,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.metrics.OrderCreated(string(order.Kind))
	s.logger.Infow("Apple ID order created", "order_id", order.ID, "birth_date_gregorian", gregorianStr)
	return order, nil
}

// CreatePurchaseOrder records interest in exactly one active product or
// unsold used phone.
func (s *OrderService) CreatePurchaseOrder(ctx context.Context, req ports.PurchaseOrderRequest) (*entities.Order, error) {
	if (req.ProductID == nil) == (req.UsedPhoneID == nil) {
		return nil, entities.ErrInvalidOrderTarget
	}

	if req.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive || !product.InStock {
			return nil, entities.ErrProductUnavailable
		}
	} else {
		phone, err := s.usedPhoneRepo.GetByID(ctx, *req.UsedPhoneID)
		if err != nil {
			return nil, err
		}
		if phone.IsSold {
			return nil, entities.ErrUsedPhoneSold
		}
	}

	order := &entities.Order{
		Kind:        entities.OrderKindPurchase,
		Status:      entities.OrderStatusPending,
		FullName:    req.FullName,
		Phone:       req.Phone,
		ProductID:   req.ProductID,
		UsedPhoneID: req.UsedPhoneID,
		Note:        req.Note,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.metrics.OrderCreated(string(order.Kind))
	s.logger.Infow("Purchase order created", "order_id", order.ID, "product_id", order.ProductID, "used_phone_id", order.UsedPhoneID)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// UpdateStatus moves an order to any known status
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.OrderStatus) (*entities.Order, error) {
	if !status.Valid() {
		return nil, entities.ErrInvalidStatus
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Infow("Order status updated", "order_id", id, "status", status)
	return s.orderRepo.GetByID(ctx, id)
}

// ListOrders returns one page of orders and the total matching count
func (s *OrderService) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]*entities.Order, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, entities.ErrInvalidStatus
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// NewOrderView adds the Shamsi creation date to an order
func NewOrderView(order *entities.Order) ports.OrderView {
	return ports.OrderView{
		Order:           order,
		CreatedAtShamsi: shamsi.InTehran(order.CreatedAt).String(),
	}
}
