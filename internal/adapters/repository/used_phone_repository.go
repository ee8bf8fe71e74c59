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
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/ports"
)

const usedPhoneColumns = `id, model, storage_gb, color, battery_health, phone_condition, price,
	description, image_url, is_sold, created_at, updated_at`

// UsedPhoneRepositoryImpl implements the UsedPhoneRepository interface
type UsedPhoneRepositoryImpl struct {
	db *sqlx.DB
}

// NewUsedPhoneRepository creates a new used phone repository
func NewUsedPhoneRepository(db *sqlx.DB) ports.UsedPhoneRepository {
	return &UsedPhoneRepositoryImpl{db: db}
}

func (r *UsedPhoneRepositoryImpl) Create(ctx context.Context, phone *entities.UsedPhone) error {
	query := r.db.Rebind(`
		INSERT INTO used_phones (` + usedPhoneColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if phone.ID == uuid.Nil {
		phone.ID = uuid.New()
	}
	now := time.Now().UTC()
	phone.CreatedAt = now
	phone.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		phone.ID, phone.Model, phone.StorageGB, phone.Color, phone.BatteryHealth, phone.Condition,
		phone.Price, phone.Description, phone.ImageURL, phone.IsSold, phone.CreatedAt, phone.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create used phone: %w", err)
	}

	return nil
}

func (r *UsedPhoneRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.UsedPhone, error) {
	query := r.db.Rebind(`SELECT ` + usedPhoneColumns + ` FROM used_phones WHERE id = ?`)

	var phone entities.UsedPhone
	err := r.db.GetContext(ctx, &phone, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUsedPhoneNotFound
		}
		return nil, fmt.Errorf("get used phone by id: %w", err)
	}

	return &phone, nil
}

func (r *UsedPhoneRepositoryImpl) Update(ctx context.Context, phone *entities.UsedPhone) error {
	query := r.db.Rebind(`
		UPDATE used_phones
		SET model = ?, storage_gb = ?, color = ?, battery_health = ?, phone_condition = ?,
			price = ?, description = ?, image_url = ?, is_sold = ?, updated_at = ?
		WHERE id = ?`)

	phone.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		phone.Model, phone.StorageGB, phone.Color, phone.BatteryHealth, phone.Condition,
		phone.Price, phone.Description, phone.ImageURL, phone.IsSold, phone.UpdatedAt, phone.ID,
	)
	if err != nil {
		return fmt.Errorf("update used phone: %w", err)
	}

	return expectOneRow(result, entities.ErrUsedPhoneNotFound)
}

// MarkSold flips an unsold listing to sold in a single statement, so only one
// of several concurrent callers can succeed.
func (r *UsedPhoneRepositoryImpl) MarkSold(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`UPDATE used_phones SET is_sold = ?, updated_at = ? WHERE id = ? AND is_sold = ?`)

	result, err := r.db.ExecContext(ctx, query, true, time.Now().UTC(), id, false)
	if err != nil {
		return fmt.Errorf("mark used phone sold: %w", err)
	}

	err = expectOneRow(result, entities.ErrUsedPhoneSold)
	if !errors.Is(err, entities.ErrUsedPhoneSold) {
		return err
	}

	if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
		return lookupErr
	}
	return entities.ErrUsedPhoneSold
}

func (r *UsedPhoneRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM used_phones WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete used phone: %w", err)
	}

	return expectOneRow(result, entities.ErrUsedPhoneNotFound)
}

func (r *UsedPhoneRepositoryImpl) List(ctx context.Context, filter ports.UsedPhoneFilter) ([]*entities.UsedPhone, error) {
	where, args := usedPhoneWhere(filter)
	query := `SELECT ` + usedPhoneColumns + ` FROM used_phones` + where + ` ORDER BY created_at DESC, id`
	query, args = paginate(query, args, filter.Limit, filter.Offset)

	phones := []*entities.UsedPhone{}
	if err := r.db.SelectContext(ctx, &phones, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list used phones: %w", err)
	}

	return phones, nil
}

func (r *UsedPhoneRepositoryImpl) Count(ctx context.Context, filter ports.UsedPhoneFilter) (int, error) {
	where, args := usedPhoneWhere(filter)
	query := r.db.Rebind(`SELECT COUNT(*) FROM used_phones` + where)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count used phones: %w", err)
	}

	return count, nil
}

func usedPhoneWhere(filter ports.UsedPhoneFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if !filter.IncludeSold {
		conditions = append(conditions, "is_sold = ?")
		args = append(args, false)
	}
	if filter.Model != nil && *filter.Model != "" {
		conditions = append(conditions, "LOWER(model) LIKE ?")
		args = append(args, "%"+strings.ToLower(*filter.Model)+"%")
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	return whereClause(conditions), args
}
