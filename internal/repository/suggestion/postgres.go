package suggestion

import (
	"context"
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

// Create inserts the suggestion and its ordered product references in one
// transaction. The position column preserves presentation order.
func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Suggestion, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	s := domain.Suggestion{
		UserID:          in.UserID,
		Occasion:        in.Occasion,
		BudgetCents:     in.BudgetCents,
		Relation:        in.Relation,
		RecipientAge:    in.RecipientAge,
		RecipientGender: in.RecipientGender,
		ProductIDs:      in.ProductIDs,
		AIResponse:      in.AIResponse,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO suggestions (user_id, occasion, budget_cents, relation, recipient_age, recipient_gender, ai_response)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
RETURNING id::text, created_at
`,
		in.UserID,
		in.Occasion,
		in.BudgetCents,
		in.Relation,
		in.RecipientAge,
		in.RecipientGender,
		in.AIResponse,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		r.logger.Printf("suggestion repo: insert user=%s error=%v", in.UserID, err)
		return nil, err
	}

	for i, productID := range in.ProductIDs {
		if _, err := tx.Exec(ctx, `
INSERT INTO suggestion_products (suggestion_id, product_id, position)
VALUES ($1, $2, $3)
`, s.ID, productID, i); err != nil {
			r.logger.Printf("suggestion repo: insert ref suggestion=%s product=%s error=%v", s.ID, productID, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("suggestion repo: created id=%s user=%s products=%d", s.ID, in.UserID, len(in.ProductIDs))
	return &s, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Suggestion, error) {
	const q = `
SELECT id::text, user_id, occasion, budget_cents, relation, recipient_age, recipient_gender, COALESCE(ai_response, ''), created_at
FROM suggestions
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("suggestion repo: list user=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Suggestion
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.ID, &s.UserID, &s.Occasion, &s.BudgetCents, &s.Relation, &s.RecipientAge, &s.RecipientGender, &s.AIResponse, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.attachProducts(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) attachProducts(ctx context.Context, s *domain.Suggestion) error {
	const q = `
SELECT p.id::text, p.name, COALESCE(p.description, ''), p.price_cents, p.category, p.stock, p.status, COALESCE(p.merchant_id, ''), COALESCE(p.sku, ''), COALESCE(p.image_url, ''), p.created_at
FROM suggestion_products sp
JOIN products p ON p.id = sp.product_id
WHERE sp.suggestion_id = $1
ORDER BY sp.position ASC
`
	rows, err := r.pool.Query(ctx, q, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Category, &p.Stock, &p.Status, &p.MerchantID, &p.SKU, &p.ImageURL, &p.CreatedAt); err != nil {
			return err
		}
		s.Products = append(s.Products, p)
		s.ProductIDs = append(s.ProductIDs, p.ID)
	}
	return rows.Err()
}
