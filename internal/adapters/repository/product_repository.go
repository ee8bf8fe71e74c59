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

const productColumns = `id, name, category, description, price, image_url, in_stock, is_active, created_at, updated_at`

// ProductRepositoryImpl implements the ProductRepository interface
type ProductRepositoryImpl struct {
	db *sqlx.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sqlx.DB) ports.ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entities.Product) error {
	query := r.db.Rebind(`
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Category, product.Description, product.Price,
		product.ImageURL, product.InStock, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)

	var product entities.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return &product, nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entities.Product) error {
	query := r.db.Rebind(`
		UPDATE products
		SET name = ?, category = ?, description = ?, price = ?, image_url = ?,
			in_stock = ?, is_active = ?, updated_at = ?
		WHERE id = ?`)

	product.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		product.Name, product.Category, product.Description, product.Price, product.ImageURL,
		product.InStock, product.IsActive, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return expectOneRow(result, entities.ErrProductNotFound)
}

func (r *ProductRepositoryImpl) UpdatePrice(ctx context.Context, id uuid.UUID, price int64) error {
	query := r.db.Rebind(`UPDATE products SET price = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, price, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update product price: %w", err)
	}

	return expectOneRow(result, entities.ErrProductNotFound)
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM products WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	return expectOneRow(result, entities.ErrProductNotFound)
}

func (r *ProductRepositoryImpl) List(ctx context.Context, filter ports.ProductFilter) ([]*entities.Product, error) {
	where, args := productWhere(filter)
	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY created_at DESC, id`
	query, args = paginate(query, args, filter.Limit, filter.Offset)

	products := []*entities.Product{}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, filter ports.ProductFilter) (int, error) {
	where, args := productWhere(filter)
	query := r.db.Rebind(`SELECT COUNT(*) FROM products` + where)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func productWhere(filter ports.ProductFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.InStock != nil {
		conditions = append(conditions, "in_stock = ?")
		args = append(args, *filter.InStock)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = ?")
		args = append(args, true)
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		pattern := "%" + strings.ToLower(*filter.Search) + "%"
		args = append(args, pattern, pattern)
	}

	return whereClause(conditions), args
}
