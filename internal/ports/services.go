package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sibstore/storefront/internal/domain/entities"
)

// AuthService interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req LoginRequest, ip string) (*AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	CreateAdmin(ctx context.Context, username, password string) (*entities.Admin, error)
	SetPassword(ctx context.Context, username, password string) error
	SetActive(ctx context.Context, username string, active bool) error
	GetAdmin(ctx context.Context, id uuid.UUID) (*entities.Admin, error)
}

// CatalogService interface for products and used phones
type CatalogService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*entities.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID, activeOnly bool) (*entities.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*entities.Product, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price int64) (*entities.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter ProductFilter) ([]*entities.Product, int, error)

	CreateUsedPhone(ctx context.Context, req CreateUsedPhoneRequest) (*entities.UsedPhone, error)
	GetUsedPhone(ctx context.Context, id uuid.UUID) (*entities.UsedPhone, error)
	UpdateUsedPhone(ctx context.Context, id uuid.UUID, req UpdateUsedPhoneRequest) (*entities.UsedPhone, error)
	MarkUsedPhoneSold(ctx context.Context, id uuid.UUID) (*entities.UsedPhone, error)
	DeleteUsedPhone(ctx context.Context, id uuid.UUID) error
	ListUsedPhones(ctx context.Context, filter UsedPhoneFilter) ([]*entities.UsedPhone, int, error)
}

// OrderService interface for customer orders
type OrderService interface {
	CreateAppleIDOrder(ctx context.Context, req AppleIDOrderRequest) (*entities.Order, error)
	CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*entities.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*entities.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.OrderStatus) (*entities.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*entities.Order, int, error)
}

// AnalyticsService interface for visit tracking and the dashboard
type AnalyticsService interface {
	RecordVisit(ctx context.Context, req VisitRequest, userAgent, ip string) error
	RecordError(ctx context.Context, req ErrorReportRequest, userAgent string) error
	ListErrors(ctx context.Context, limit, offset int) ([]*entities.ErrorReport, int, error)
	Dashboard(ctx context.Context, days int) (*Dashboard, error)
}

// ContactService interface for the contact page
type ContactService interface {
	Submit(ctx context.Context, req ContactRequest) (*entities.ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]*entities.ContactMessage, int, error)
}

// ChatService interface for the chat widget
type ChatService interface {
	Reply(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Request/Response Types

// Auth related types
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Admin       *entities.Admin `json:"admin"`
}

type Claims struct {
	AdminID   uuid.UUID `json:"admin_id"`
	Username  string    `json:"username"`
	SessionID string    `json:"session_id"`
}

// Catalog related types
type CreateProductRequest struct {
	Name        string                   `json:"name" validate:"required,max=200"`
	Category    entities.ProductCategory `json:"category" validate:"required,oneof=iphone ipad mac watch airpods accessory"`
	Description string                   `json:"description" validate:"max=5000"`
	Price       int64                    `json:"price" validate:"min=0"`
	ImageURL    string                   `json:"image_url" validate:"omitempty,url,max=500"`
	InStock     bool                     `json:"in_stock"`
	IsActive    *bool                    `json:"is_active"`
}

type UpdateProductRequest struct {
	Name        *string                   `json:"name" validate:"omitempty,max=200"`
	Category    *entities.ProductCategory `json:"category" validate:"omitempty,oneof=iphone ipad mac watch airpods accessory"`
	Description *string                   `json:"description" validate:"omitempty,max=5000"`
	Price       *int64                    `json:"price" validate:"omitempty,min=0"`
	ImageURL    *string                   `json:"image_url" validate:"omitempty,url,max=500"`
	InStock     *bool                     `json:"in_stock"`
	IsActive    *bool                     `json:"is_active"`
}

type UpdatePriceRequest struct {
	Price *int64 `json:"price" validate:"required,min=0"`
}

type CreateUsedPhoneRequest struct {
	Model         string                  `json:"model" validate:"required,max=100"`
	StorageGB     int                     `json:"storage_gb" validate:"required,min=1"`
	Color         string                  `json:"color" validate:"max=50"`
	BatteryHealth int                     `json:"battery_health" validate:"min=0,max=100"`
	Condition     entities.PhoneCondition `json:"condition" validate:"required,oneof=like_new good fair"`
	Price         int64                   `json:"price" validate:"min=0"`
	Description   string                  `json:"description" validate:"max=5000"`
	ImageURL      string                  `json:"image_url" validate:"omitempty,url,max=500"`
}

type UpdateUsedPhoneRequest struct {
	Model         *string                  `json:"model" validate:"omitempty,max=100"`
	StorageGB     *int                     `json:"storage_gb" validate:"omitempty,min=1"`
	Color         *string                  `json:"color" validate:"omitempty,max=50"`
	BatteryHealth *int                     `json:"battery_health" validate:"omitempty,min=0,max=100"`
	Condition     *entities.PhoneCondition `json:"condition" validate:"omitempty,oneof=like_new good fair"`
	Price         *int64                   `json:"price" validate:"omitempty,min=0"`
	Description   *string                  `json:"description" validate:"omitempty,max=5000"`
	ImageURL      *string                  `json:"image_url" validate:"omitempty,url,max=500"`
}

// Order related types
type AppleIDOrderRequest struct {
	FullName        string  `json:"full_name" validate:"required,max=150"`
	Phone           string  `json:"phone" validate:"required,min=8,max=20"`
	Email           *string `json:"email" validate:"omitempty,email"`
	BirthDateShamsi string  `json:"birth_date_shamsi" validate:"required,shamsi"`
	Note            *string `json:"note" validate:"omitempty,max=1000"`
}

type PurchaseOrderRequest struct {
	FullName    string     `json:"full_name" validate:"required,max=150"`
	Phone       string     `json:"phone" validate:"required,min=8,max=20"`
	ProductID   *uuid.UUID `json:"product_id"`
	UsedPhoneID *uuid.UUID `json:"used_phone_id"`
	Note        *string    `json:"note" validate:"omitempty,max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status entities.OrderStatus `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

// OrderView decorates an order with its creation date in the Shamsi calendar
type OrderView struct {
	*entities.Order
	CreatedAtShamsi string `json:"created_at_shamsi"`
}

// Analytics related types
type VisitRequest struct {
	Path     string `json:"path" validate:"required,max=500"`
	Referrer string `json:"referrer" validate:"max=1000"`
}

type ErrorReportRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
	Stack   string `json:"stack" validate:"max=20000"`
	Path    string `json:"path" validate:"max=500"`
}

type Dashboard struct {
	Days           int                          `json:"days"`
	TotalVisits    int                          `json:"total_visits"`
	VisitsPerDay   []DailyVisits                `json:"visits_per_day"`
	TopPaths       []PathCount                  `json:"top_paths"`
	OrdersByStatus map[entities.OrderStatus]int `json:"orders_by_status"`
	ProductCount   int                          `json:"product_count"`
	UsedPhoneCount int                          `json:"used_phone_count"`
	ErrorCount     int                          `json:"error_count"`
	GeneratedAt    time.Time                    `json:"generated_at"`
}

// DailyVisits is the visit total of one Shamsi calendar day
type DailyVisits struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Contact related types
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Phone   string `json:"phone" validate:"required,min=8,max=20"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Chat related types
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type ChatRequest struct {
	Message string        `json:"message" validate:"required,max=2000"`
	History []ChatMessage `json:"history" validate:"omitempty,max=50,dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Calendar related types
type CalendarResponse struct {
	Shamsi    string `json:"shamsi"`
	Gregorian string `json:"gregorian"`
	Valid     bool   `json:"valid"`
}

// Response types for pagination and common structures
type PaginatedResponse[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
