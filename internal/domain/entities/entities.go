package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrUsedPhoneNotFound  = errors.New("used phone not found")
	ErrUsedPhoneSold      = errors.New("used phone is already sold")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInvalidBirthDate   = errors.New("invalid birth date")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidOrderTarget = errors.New("order must reference exactly one product or used phone")
	ErrProductUnavailable = errors.New("product is not available")
	ErrChatUnavailable    = errors.New("chat assistant is unavailable")
)

// Enums and types
type ProductCategory string

const (
	CategoryIPhone    ProductCategory = "iphone"
	CategoryIPad      ProductCategory = "ipad"
	CategoryMac       ProductCategory = "mac"
	CategoryWatch     ProductCategory = "watch"
	CategoryAirPods   ProductCategory = "airpods"
	CategoryAccessory ProductCategory = "accessory"
)

// Valid reports whether c is a known category.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryIPhone, CategoryIPad, CategoryMac, CategoryWatch, CategoryAirPods, CategoryAccessory:
		return true
	}
	return false
}

type PhoneCondition string

const (
	ConditionLikeNew PhoneCondition = "like_new"
	ConditionGood    PhoneCondition = "good"
	ConditionFair    PhoneCondition = "fair"
)

type OrderKind string

const (
	OrderKindAppleID  OrderKind = "apple_id"
	OrderKindPurchase OrderKind = "purchase"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Product is a new device or accessory in the catalog. Prices are in Toman.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    ProductCategory `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	Price       int64           `json:"price" db:"price"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	InStock     bool            `json:"in_stock" db:"in_stock"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// UsedPhone is a second-hand phone listing.
type UsedPhone struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Model         string         `json:"model" db:"model"`
	StorageGB     int            `json:"storage_gb" db:"storage_gb"`
	Color         string         `json:"color" db:"color"`
	BatteryHealth int            `json:"battery_health" db:"battery_health"`
	Condition     PhoneCondition `json:"condition" db:"phone_condition"`
	Price         int64          `json:"price" db:"price"`
	Description   string         `json:"description" db:"description"`
	ImageURL      string         `json:"image_url" db:"image_url"`
	IsSold        bool           `json:"is_sold" db:"is_sold"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Order is either an Apple ID provisioning request or a purchase request.
// Credential fields are only set for Apple ID orders.
type Order struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	Kind               OrderKind   `json:"kind" db:"kind"`
	Status             OrderStatus `json:"status" db:"status"`
	FullName           string      `json:"full_name" db:"full_name"`
	Phone              string      `json:"phone" db:"phone"`
	Email              *string     `json:"email,omitempty" db:"email"`
	BirthDateShamsi    *string     `json:"birth_date_shamsi,omitempty" db:"birth_date_shamsi"`
	BirthDateGregorian *string     `json:"birth_date_gregorian,omitempty" db:"birth_date_gregorian"`
	GeneratedPassword  *string     `json:"generated_password,omitempty" db:"generated_password"`
	Question1          *string     `json:"question1,omitempty" db:"question1"`
	Answer1            *string     `json:"answer1,omitempty" db:"answer1"`
	Question2          *string     `json:"question2,omitempty" db:"question2"`
	Answer2            *string     `json:"answer2,omitempty" db:"answer2"`
	Question3          *string     `json:"question3,omitempty" db:"question3"`
	Answer3            *string     `json:"answer3,omitempty" db:"answer3"`
	ProductID          *uuid.UUID  `json:"product_id,omitempty" db:"product_id"`
	UsedPhoneID        *uuid.UUID  `json:"used_phone_id,omitempty" db:"used_phone_id"`
	Note               *string     `json:"note,omitempty" db:"note"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// Visit is a single page view reported by the storefront.
type Visit struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	Referrer  string    `json:"referrer" db:"referrer"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	IP        string    `json:"ip" db:"ip"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ErrorReport is a client-side error captured by the storefront.
type ErrorReport struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Message   string    `json:"message" db:"message"`
	Stack     string    `json:"stack" db:"stack"`
	Path      string    `json:"path" db:"path"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactMessage is a message left on the contact page.
type ContactMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Admin is a dashboard operator.
type Admin struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Session is a server-issued admin session.
type Session struct {
	ID        string    `json:"id"`
	AdminID   uuid.UUID `json:"admin_id"`
	Username  string    `json:"username"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the session is expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
