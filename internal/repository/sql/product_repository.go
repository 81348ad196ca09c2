package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog-service/internal/model"
	"github.com/iyhunko/product-catalog-service/internal/repository"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, price, stock_quantity, active, created_at, updated_at`

const (
	saveProductQuery = `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock_quantity = EXCLUDED.stock_quantity,
			active = products.active AND EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + productColumns

	findProductByIDQuery     = `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND active = TRUE`
	findAllProductsQuery     = `SELECT ` + productColumns + ` FROM products WHERE active = TRUE ORDER BY created_at DESC, id DESC`
	findProductPageQuery     = `SELECT ` + productColumns + ` FROM products WHERE active = TRUE ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	countActiveProductsQuery = `SELECT COUNT(*) FROM products WHERE active = TRUE`
	existsProductQuery       = `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`
	existsActiveProductQuery = `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND active = TRUE)`
	deactivateProductQuery   = `UPDATE products SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
)

// ProductRepository stores products in PostgreSQL.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Save inserts the product or replaces the stored row with the same id, and returns the stored form.
// A deactivated row stays deactivated whatever the saved product says.
func (r *ProductRepository) Save(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product.ID == uuid.Nil {
		product.InitMeta()
	}

	stmt, err := r.getExecutor().PrepareContext(ctx, saveProductQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx,
		product.ID, product.Name, product.Description, product.Price, product.StockQuantity,
		product.Active, product.CreatedAt, product.UpdatedAt,
	)
	saved, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return saved, nil
}

// FindByID retrieves a single active product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	stmt, err := r.getExecutor().PrepareContext(ctx, findProductByIDQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, repository.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

// FindAll retrieves all active products, newest first.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*model.Product, error) {
	return r.queryProducts(ctx, findAllProductsQuery)
}

// FindPage retrieves one page of active products together with the total active count.
func (r *ProductRepository) FindPage(ctx context.Context, page repository.PageRequest) (*repository.PageResult, error) {
	var total int64
	if err := r.queryScalar(ctx, countActiveProductsQuery, &total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if page.OffsetOverflows() {
		return repository.NewPageResult([]*model.Product{}, total, page.Size), nil
	}

	products, err := r.queryProducts(ctx, findProductPageQuery, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}

	return repository.NewPageResult(products, total, page.Size), nil
}

// ExistsByID reports whether a row with the id exists, active or not.
func (r *ProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.queryScalar(ctx, existsProductQuery, &exists, id); err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// ExistsActiveByID reports whether an active row with the id exists.
func (r *ProductRepository) ExistsActiveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.queryScalar(ctx, existsActiveProductQuery, &exists, id); err != nil {
		return false, fmt.Errorf("failed to check active product existence: %w", err)
	}
	return exists, nil
}

// DeactivateByID soft deletes an active product.
func (r *ProductRepository) DeactivateByID(ctx context.Context, id uuid.UUID) error {
	stmt, err := r.getExecutor().PrepareContext(ctx, deactivateProductQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare deactivate statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, repository.ErrRecordNotFound)
	}

	return nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*model.Product, error) {
	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) queryScalar(ctx context.Context, query string, dest any, args ...any) error {
	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	return stmt.QueryRowContext(ctx, args...).Scan(dest)
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		id                   uuid.UUID
		name, description    string
		price                decimal.Decimal
		stockQuantity        int
		active               sql.NullBool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &description, &price, &stockQuantity, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var activePtr *bool
	if active.Valid {
		activePtr = &active.Bool
	}

	return model.ReconstituteProduct(id, name, description, price, stockQuantity, activePtr, createdAt, updatedAt)
}
