package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/ports"
)

// ContactRepositoryImpl implements the ContactRepository interface
type ContactRepositoryImpl struct {
	db *sqlx.DB
}

// NewContactRepository creates a new contact message repository
func NewContactRepository(db *sqlx.DB) ports.ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

func (r *ContactRepositoryImpl) Create(ctx context.Context, msg *entities.ContactMessage) error {
	query := r.db.Rebind(`
		INSERT INTO contact_messages (id, name, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.Name, msg.Phone, msg.Message, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}

	return nil
}

func (r *ContactRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*entities.ContactMessage, error) {
	query, args := paginate(`
		SELECT id, name, phone, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id`, nil, limit, offset)

	messages := []*entities.ContactMessage{}
	if err := r.db.SelectContext(ctx, &messages, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	return messages, nil
}

func (r *ContactRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contact_messages`); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}

	return count, nil
}
