package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/ports"
)

const adminColumns = `id, username, password_hash, is_active, last_login_at, created_at, updated_at`

// AdminRepositoryImpl implements the AdminRepository interface
type AdminRepositoryImpl struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *sqlx.DB) ports.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *entities.Admin) error {
	query := r.db.Rebind(`
		INSERT INTO admins (` + adminColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		admin.ID, admin.Username, admin.PasswordHash, admin.IsActive, admin.LastLoginAt,
		admin.CreatedAt, admin.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrAdminExists
		}
		return fmt.Errorf("create admin: %w", err)
	}

	return nil
}

func (r *AdminRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
}

func (r *AdminRepositoryImpl) GetByUsername(ctx context.Context, username string) (*entities.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = ?`, username)
}

func (r *AdminRepositoryImpl) getOne(ctx context.Context, query string, arg interface{}) (*entities.Admin, error) {
	var admin entities.Admin
	err := r.db.GetContext(ctx, &admin, r.db.Rebind(query), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}

	return &admin, nil
}

func (r *AdminRepositoryImpl) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := r.db.Rebind(`UPDATE admins SET last_login_at = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, at.UTC(), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	return expectOneRow(result, entities.ErrAdminNotFound)
}

func (r *AdminRepositoryImpl) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := r.db.Rebind(`UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}

	return expectOneRow(result, entities.ErrAdminNotFound)
}

func (r *AdminRepositoryImpl) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := r.db.Rebind(`UPDATE admins SET is_active = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set admin active: %w", err)
	}

	return expectOneRow(result, entities.ErrAdminNotFound)
}

// isUniqueViolation recognises duplicate-key errors from both supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
