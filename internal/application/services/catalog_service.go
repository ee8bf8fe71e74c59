package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// CatalogService manages new products and used phone listings
type CatalogService struct {
	productRepo   ports.ProductRepository
	usedPhoneRepo ports.UsedPhoneRepository
	logger        *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo ports.ProductRepository, usedPhoneRepo ports.UsedPhoneRepository, logger *logger.Logger) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		usedPhoneRepo: usedPhoneRepo,
		logger:        logger,
	}
}

// CreateProduct adds a product. New products are active unless stated otherwise.
func (s *CatalogService) CreateProduct(ctx context.Context, req ports.CreateProductRequest) (*entities.Product, error) {
	product := &entities.Product{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		InStock:     req.InStock,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Infow("Product created", "product_id", product.ID, "name", product.Name, "price", product.Price)
	return product, nil
}

// GetProduct returns a product. With activeOnly set, hidden products are
// reported as not found.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID, activeOnly bool) (*entities.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activeOnly && !product.IsActive {
		return nil, entities.ErrProductNotFound
	}
	return product, nil
}

// UpdateProduct applies the non-nil fields of req
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req ports.UpdateProductRequest) (*entities.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Infow("Product updated", "product_id", product.ID)
	return product, nil
}

// UpdatePrice changes only the price of a product
func (s *CatalogService) UpdatePrice(ctx context.Context, id uuid.UUID, price int64) (*entities.Product, error) {
	if price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	if err := s.productRepo.UpdatePrice(ctx, id, price); err != nil {
		return nil, err
	}

	s.logger.Infow("Product price updated", "product_id", id, "price", price)
	return s.productRepo.GetByID(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("Product deleted", "product_id", id)
	return nil
}

// ListProducts returns one page of products and the total matching count
func (s *CatalogService) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]*entities.Product, int, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *CatalogService) CreateUsedPhone(ctx context.Context, req ports.CreateUsedPhoneRequest) (*entities.UsedPhone, error) {
	phone := &entities.UsedPhone{
		Model:         req.Model,
		StorageGB:     req.StorageGB,
		Color:         req.Color,
		BatteryHealth: req.BatteryHealth,
		Condition:     req.Condition,
		Price:         req.Price,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
	}

	if err := s.usedPhoneRepo.Create(ctx, phone); err != nil {
		return nil, fmt.Errorf("failed to create used phone: %w", err)
	}

	s.logger.Infow("Used phone listed", "used_phone_id", phone.ID, "model", phone.Model, "price", phone.Price)
	return phone, nil
}

func (s *CatalogService) GetUsedPhone(ctx context.Context, id uuid.UUID) (*entities.UsedPhone, error) {
	return s.usedPhoneRepo.GetByID(ctx, id)
}

// UpdateUsedPhone applies the non-nil fields of req
func (s *CatalogService) UpdateUsedPhone(ctx context.Context, id uuid.UUID, req ports.UpdateUsedPhoneRequest) (*entities.UsedPhone, error) {
	phone, err := s.usedPhoneRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Model != nil {
		phone.Model = *req.Model
	}
	if req.StorageGB != nil {
		phone.StorageGB = *req.StorageGB
	}
	if req.Color != nil {
		phone.Color = *req.Color
	}
	if req.BatteryHealth != nil {
		phone.BatteryHealth = *req.BatteryHealth
	}
	if req.Condition != nil {
		phone.Condition = *req.Condition
	}
	if req.Price != nil {
		phone.Price = *req.Price
	}
	if req.Description != nil {
		phone.Description = *req.Description
	}
	if req.ImageURL != nil {
		phone.ImageURL = *req.ImageURL
	}

	if err := s.usedPhoneRepo.Update(ctx, phone); err != nil {
		return nil, err
	}

	s.logger.Infow("Used phone updated", "used_phone_id", phone.ID)
	return phone, nil
}

// MarkUsedPhoneSold takes a listing off the storefront. Selling twice is an error.
func (s *CatalogService) MarkUsedPhoneSold(ctx context.Context, id uuid.UUID) (*entities.UsedPhone, error) {
	if err := s.usedPhoneRepo.MarkSold(ctx, id); err != nil {
		return nil, err
	}

	phone, err := s.usedPhoneRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Used phone sold", "used_phone_id", id)
	return phone, nil
}

func (s *CatalogService) DeleteUsedPhone(ctx context.Context, id uuid.UUID) error {
	if err := s.usedPhoneRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("Used phone deleted", "used_phone_id", id)
	return nil
}

func (s *CatalogService) ListUsedPhones(ctx context.Context, filter ports.UsedPhoneFilter) ([]*entities.UsedPhone, int, error) {
	phones, err := s.usedPhoneRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.usedPhoneRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return phones, total, nil
}
