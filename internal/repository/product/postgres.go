package product

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"giftshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id::text, name, COALESCE(description, ''), price_cents, category, stock, status, COALESCE(merchant_id, ''), COALESCE(sku, ''), COALESCE(image_url, ''), created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListActive(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + productColumns + ` FROM products WHERE status = 'active'`)
	var args []interface{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		sb.WriteString(` AND category = $` + strconv.Itoa(len(args)))
	}
	if filter.MinPriceCents > 0 {
		args = append(args, filter.MinPriceCents)
		sb.WriteString(` AND price_cents >= $` + strconv.Itoa(len(args)))
	}
	if filter.MaxPriceCents > 0 {
		args = append(args, filter.MaxPriceCents)
		sb.WriteString(` AND price_cents <= $` + strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		sb.WriteString(` AND (name ILIKE $` + n + ` OR description ILIKE $` + n + `)`)
	}
	sb.WriteString(` ORDER BY created_at DESC`)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result, err := scanProducts(rows)
	if err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) ListActiveWithinBudget(ctx context.Context, budgetCents int64) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE status = 'active' AND price_cents <= $1
`
	rows, err := r.pool.Query(ctx, q, budgetCents)
	if err != nil {
		r.logger.Printf("product repo: list within budget=%d error=%v", budgetCents, err)
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByNameFold(ctx context.Context, name string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE lower(name) = lower($1)
ORDER BY created_at ASC
LIMIT 1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get by name=%q error=%v", name, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT category
FROM products
WHERE status = 'active'
ORDER BY category
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: categories error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) Insert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price_cents, category, stock, status, merchant_id, sku, image_url)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
RETURNING id::text, created_at
`
	res := p
	err := r.pool.QueryRow(ctx, q,
		p.Name,
		p.Description,
		p.PriceCents,
		p.Category,
		p.Stock,
		p.Status,
		p.MerchantID,
		p.SKU,
		p.ImageURL,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: insert name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: inserted id=%s name=%q category=%s", res.ID, res.Name, res.Category)
	return &res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Category, &p.Stock, &p.Status, &p.MerchantID, &p.SKU, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}
