package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/emporium/internal/database"
	"github.com/BradenHooton/emporium/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, product_name, product_price, product_stock, created_at, updated_at`

// PostgresProductRepository stores products in the products table.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresProductRepository(db *database.DB) *PostgresProductRepository {
	return &PostgresProductRepository{pool: db.Pool, now: time.Now}
}

func scanProductRow(scanner rowScanner) (*models.Product, error) {
	var p models.Product
	if err := scanner.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

func scanProductRows(rows pgx.Rows) ([]*models.Product, error) {
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	return scanProductRow(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *PostgresProductRepository) List(ctx context.Context, q models.ListQuery) ([]*models.Product, int64, error) {
	where, args := "", []any{}
	if col := resolveSearch(q, productSearchFields); col != "" {
		where = ` WHERE ` + col + ` ILIKE $1`
		args = append(args, "%"+escapeLike(q.SearchValue)+"%")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	sortCol, desc := resolveSort(q, productSortFields, defaultProductSort)
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		productColumns, where, sortCol, dir, len(args)+1, len(args)+2)
	args = append(args, q.PageSize, q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := scanProductRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	now := r.now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO products (id, product_name, product_price, product_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	return scanProductRow(r.pool.QueryRow(ctx, query, p.ID, p.Name, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt))
}

func (r *PostgresProductRepository) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	query := `
		UPDATE products SET product_price = $1, product_stock = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + productColumns

	return scanProductRow(r.pool.QueryRow(ctx, query, upd.Price, upd.Stock, r.now().UTC(), id))
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrNotFound
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
