package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stridekart/catalog/internal/domain"
	"github.com/stridekart/catalog/internal/repository"
	"github.com/stridekart/catalog/pkg/database"
	apperrors "github.com/stridekart/catalog/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
//
// A product is persisted as a whole JSONB document (including its embedded
// review list) alongside denormalized columns used only for filtering and
// ordering. Each save replaces the entire document, so readers never observe
// a partially applied review mutation; the version column carries the
// compare-and-swap token for SaveIfVersion.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product doc: %w", err)
	}

	query := `
		INSERT INTO products (id, name, brand, category, footwear_type, price, rating, doc, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Brand,
		p.Category,
		p.FootwearType,
		p.Price,
		p.Rating,
		doc,
		p.Version,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT doc, version FROM products WHERE id = $1`

	var (
		doc     []byte
		version int64
	)

	err := r.db.QueryRow(ctx, query, id).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return unmarshalProduct(doc, version)
}

// List returns products matching the given filter with the total match count.
// Results come back in insertion order (created_at, then id for stability).
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter, limit, skip int) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("lower(category) = lower($%d)", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.FootwearType != nil {
		conditions = append(conditions, fmt.Sprintf("footwear_type = $%d", argIndex))
		args = append(args, *filter.FootwearType)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	if len(filter.Brands) > 0 {
		conditions = append(conditions, fmt.Sprintf("brand = ANY($%d)", argIndex))
		args = append(args, filter.Brands)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() yields the total match count in the same query.
	query := fmt.Sprintf(`
		SELECT doc, version, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	args = append(args, limit, skip)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, totalCount, err := scanProductRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

// ListTopRated returns the n highest-rated products. Ties break by insertion
// order so repeated calls are deterministic.
func (r *ProductRepository) ListTopRated(ctx context.Context, n int) ([]domain.Product, error) {
	query := `
		SELECT doc, version, count(*) OVER() AS total_count
		FROM products
		ORDER BY rating DESC, created_at, id
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("list top rated products: %w", err)
	}
	defer rows.Close()

	products, _, err := scanProductRows(rows)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// Update replaces the product document unconditionally, bumping the version.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	p.Version++

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product doc: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, brand = $2, category = $3, footwear_type = $4,
		    price = $5, rating = $6, doc = $7, version = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		p.Name,
		p.Brand,
		p.Category,
		p.FootwearType,
		p.Price,
		p.Rating,
		doc,
		p.Version,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// SaveIfVersion replaces the product document only if the stored version still
// equals expectedVersion. Reports false without error on a version mismatch;
// the caller reloads and retries.
func (r *ProductRepository) SaveIfVersion(ctx context.Context, p *domain.Product, expectedVersion int64) (bool, error) {
	p.UpdatedAt = time.Now().UTC()
	p.Version = expectedVersion + 1

	doc, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("marshal product doc: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, brand = $2, category = $3, footwear_type = $4,
		    price = $5, rating = $6, doc = $7, version = $8
		WHERE id = $9 AND version = $10`

	ct, err := r.db.Exec(ctx, query,
		p.Name,
		p.Brand,
		p.Category,
		p.FootwearType,
		p.Price,
		p.Rating,
		doc,
		p.Version,
		p.ID,
		expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("save product: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// unmarshalProduct decodes a stored document and attaches the version column.
func unmarshalProduct(doc []byte, version int64) (*domain.Product, error) {
	var p domain.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product doc: %w", err)
	}
	p.Version = version
	return &p, nil
}

// scanProductRows reads (doc, version, total_count) rows.
func scanProductRows(rows pgx.Rows) ([]domain.Product, int, error) {
	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var (
			doc     []byte
			version int64
		)

		if err := rows.Scan(&doc, &version, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		p, err := unmarshalProduct(doc, version)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}
