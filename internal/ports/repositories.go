package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sibstore/storefront/internal/domain/entities"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	Update(ctx context.Context, product *entities.Product) error
	UpdatePrice(ctx context.Context, id uuid.UUID, price int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProductFilter) ([]*entities.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
}

// UsedPhoneRepository defines the interface for used phone listings
type UsedPhoneRepository interface {
	Create(ctx context.Context, phone *entities.UsedPhone) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.UsedPhone, error)
	Update(ctx context.Context, phone *entities.UsedPhone) error
	MarkSold(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter UsedPhoneFilter) ([]*entities.UsedPhone, error)
	Count(ctx context.Context, filter UsedPhoneFilter) (int, error)
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.OrderStatus) error
	List(ctx context.Context, filter OrderFilter) ([]*entities.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int, error)
	CountByStatus(ctx context.Context) (map[entities.OrderStatus]int, error)
}

// AnalyticsRepository stores visits and client error reports
type AnalyticsRepository interface {
	CreateVisit(ctx context.Context, visit *entities.Visit) error
	CountVisits(ctx context.Context, since time.Time) (int, error)
	VisitTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	TopPaths(ctx context.Context, since time.Time, limit int) ([]PathCount, error)
	CreateErrorReport(ctx context.Context, report *entities.ErrorReport) error
	ListErrorReports(ctx context.Context, limit, offset int) ([]*entities.ErrorReport, error)
	CountErrorReports(ctx context.Context) (int, error)
}

// ContactRepository stores contact page messages
type ContactRepository interface {
	Create(ctx context.Context, msg *entities.ContactMessage) error
	List(ctx context.Context, limit, offset int) ([]*entities.ContactMessage, error)
	Count(ctx context.Context) (int, error)
}

// AdminRepository is the credential store for dashboard operators
type AdminRepository interface {
	Create(ctx context.Context, admin *entities.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error)
	GetByUsername(ctx context.Context, username string) (*entities.Admin, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// SessionStore keeps server-issued admin sessions
type SessionStore interface {
	Create(ctx context.Context, session *entities.Session) error
	Get(ctx context.Context, id string) (*entities.Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// ChatClient talks to the third-party chat backend
type ChatClient interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Filter types for repository queries
type ProductFilter struct {
	Category   *entities.ProductCategory
	InStock    *bool
	ActiveOnly bool
	Search     *string
	Limit      int
	Offset     int
}

type UsedPhoneFilter struct {
	Model       *string
	IncludeSold bool
	MaxPrice    *int64
	Limit       int
	Offset      int
}

type OrderFilter struct {
	Kind   *entities.OrderKind
	Status *entities.OrderStatus
	Limit  int
	Offset int
}

// PathCount is a visit total for one path
type PathCount struct {
	Path  string `json:"path" db:"path"`
	Count int    `json:"count" db:"count"`
}
