package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/ports"
)

const orderColumns = `id, kind, status, full_name, phone, email, birth_date_shamsi, birth_date_gregorian,
	generated_password, question1, answer1, question2, answer2, question3, answer3,
	product_id, used_phone_id, note, created_at, updated_at`

// OrderRepositoryImpl implements the OrderRepository interface
type OrderRepositoryImpl struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sqlx.DB) ports.OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entities.Order) error {
	query := r.db.Rebind(`
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = entities.OrderStatusPending
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.Kind, order.Status, order.FullName, order.Phone, order.Email,
		order.BirthDateShamsi, order.BirthDateGregorian, order.GeneratedPassword,
		order.Question1, order.Answer1, order.Question2, order.Answer2, order.Question3, order.Answer3,
		order.ProductID, order.UsedPhoneID, order.Note, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	query := r.db.Rebind(`SELECT ` + orderColumns + ` FROM orders WHERE id = ?`)

	var order entities.Order
	err := r.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	return &order, nil
}

func (r *OrderRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.OrderStatus) error {
	query := r.db.Rebind(`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	return expectOneRow(result, entities.ErrOrderNotFound)
}

func (r *OrderRepositoryImpl) List(ctx context.Context, filter ports.OrderFilter) ([]*entities.Order, error) {
	where, args := orderWhere(filter)
	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY created_at DESC, id`
	query, args = paginate(query, args, filter.Limit, filter.Offset)

	orders := []*entities.Order{}
	if err := r.db.SelectContext(ctx, &orders, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepositoryImpl) Count(ctx context.Context, filter ports.OrderFilter) (int, error) {
	where, args := orderWhere(filter)
	query := r.db.Rebind(`SELECT COUNT(*) FROM orders` + where)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return count, nil
}

// CountByStatus returns a total for every known status, including zeroes.
func (r *OrderRepositoryImpl) CountByStatus(ctx context.Context) (map[entities.OrderStatus]int, error) {
	var rows []struct {
		Status entities.OrderStatus `db:"status"`
		Count  int                  `db:"count"`
	}
	query := `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}

	counts := make(map[entities.OrderStatus]int, len(entities.OrderStatuses))
	for _, s := range entities.OrderStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func orderWhere(filter ports.OrderFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, *filter.Kind)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}

	return whereClause(conditions), args
}
