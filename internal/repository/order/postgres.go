package order

import (
	"context"
	"errors"
	"io"
	"log"

	"giftshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

// Create decrements stock for every line and inserts the order in one
// transaction. The conditional UPDATE is the no-oversell guard: under
// concurrent checkouts the first committer wins and the loser sees zero
// rows affected, which surfaces as InsufficientStockError.
func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, line := range in.Lines {
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, line.ProductID, line.Quantity)
		if err != nil {
			r.logger.Printf("order repo: decrement product=%s qty=%d error=%v", line.ProductID, line.Quantity, err)
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var name string
			var available int
			err := tx.QueryRow(ctx, `
SELECT name, stock FROM products WHERE id = $1
`, line.ProductID).Scan(&name, &available)
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &domain.ProductNotFoundError{ProductID: line.ProductID}
			}
			if err != nil {
				return nil, err
			}
			r.logger.Printf("order repo: insufficient stock product=%s available=%d requested=%d", line.ProductID, available, line.Quantity)
			return nil, &domain.InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: name,
				Available:   available,
				Requested:   line.Quantity,
			}
		}
	}

	var orderID string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (customer_id, status, payment_method, payment_status, ship_street, ship_city, ship_state, ship_postal_code, ship_country, subtotal_cents, tax_cents, shipping_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id::text
`,
		in.CustomerID,
		in.Status,
		in.PaymentMethod,
		in.PaymentStatus,
		in.ShippingAddress.Street,
		in.ShippingAddress.City,
		in.ShippingAddress.State,
		in.ShippingAddress.PostalCode,
		in.ShippingAddress.Country,
		in.SubtotalCents,
		in.TaxCents,
		in.ShippingCents,
		in.TotalCents,
	).Scan(&orderID)
	if err != nil {
		r.logger.Printf("order repo: insert customer=%s error=%v", in.CustomerID, err)
		return nil, err
	}

	for i, line := range in.Lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, product_id, merchant_id, quantity, unit_price_cents, total_cents, position)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
`, orderID, line.ProductID, line.MerchantID, line.Quantity, line.UnitPriceCents, line.UnitPriceCents*int64(line.Quantity), i); err != nil {
			r.logger.Printf("order repo: insert line order=%s product=%s error=%v", orderID, line.ProductID, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s customer=%s lines=%d total=%d", orderID, in.CustomerID, len(in.Lines), in.TotalCents)

	return r.GetByID(ctx, orderID)
}

const orderColumns = `id::text, customer_id, status, payment_method, payment_status, COALESCE(ship_street, ''), COALESCE(ship_city, ''), COALESCE(ship_state, ''), COALESCE(ship_postal_code, ''), COALESCE(ship_country, ''), subtotal_cents, tax_cents, shipping_cents, total_cents, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	if err := r.attachLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		r.logger.Printf("order repo: list customer=%s error=%v", customerID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.attachLines(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) attachLines(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT l.id::text, l.order_id::text, l.product_id::text, COALESCE(l.merchant_id, ''), l.quantity, l.unit_price_cents, l.total_cents,
       p.name, COALESCE(p.description, ''), p.price_cents, p.category, p.stock, p.status, COALESCE(p.image_url, ''), p.created_at
FROM order_lines l
JOIN products p ON p.id = l.product_id
WHERE l.order_id = $1
ORDER BY l.position ASC
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		r.logger.Printf("order repo: lines order=%s error=%v", o.ID, err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		var p domain.Product
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.MerchantID,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
			&p.Name,
			&p.Description,
			&p.PriceCents,
			&p.Category,
			&p.Stock,
			&p.Status,
			&p.ImageURL,
			&p.CreatedAt,
		); err != nil {
			return err
		}
		p.ID = line.ProductID
		line.Product = &p
		o.Lines = append(o.Lines, line)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Status,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.ShippingAddress.Street,
		&o.ShippingAddress.City,
		&o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country,
		&o.SubtotalCents,
		&o.TaxCents,
		&o.ShippingCents,
		&o.TotalCents,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
