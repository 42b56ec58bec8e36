package suggestion

import (
	"context"
	"os"
	"testing"

	"giftshop/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE suggestion_products, suggestions, order_lines, orders, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, price_cents, category, stock, status)
VALUES ($1, 1000, 'Test', 10, 'active')
RETURNING id::text
`, name).Scan(&id)
	if err != nil {
		t.Fatalf("insert product %s: %v", name, err)
	}
	return id
}

func TestPostgres_CreatePreservesOrder(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	// Insertion order deliberately differs from reference order.
	novelID := insertProduct(ctx, t, pool, "Novel")
	candleID := insertProduct(ctx, t, pool, "Candle")
	watchID := insertProduct(ctx, t, pool, "Watch")
	wantIDs := []string{watchID, novelID, candleID}

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateInput{
		UserID:          "u1",
		Occasion:        "birthday",
		BudgetCents:     500000,
		Relation:        "friend",
		RecipientAge:    25,
		RecipientGender: "female",
		ProductIDs:      wantIDs,
		AIResponse:      "Existing product found: Watch",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected ID set")
	}

	listed, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(listed))
	}
	got := listed[0]
	if len(got.ProductIDs) != 3 {
		t.Fatalf("expected 3 product refs, got %d", len(got.ProductIDs))
	}
	for i, id := range wantIDs {
		if got.ProductIDs[i] != id {
			t.Fatalf("product ids out of order: got %v, want %v", got.ProductIDs, wantIDs)
		}
	}
	if got.Products[0].Name != "Watch" || got.Products[2].Name != "Candle" {
		t.Fatalf("attached products out of order: %+v", got.Products)
	}
	if got.AIResponse != "Existing product found: Watch" {
		t.Fatalf("audit trail not round-tripped: %q", got.AIResponse)
	}
}

func TestPostgres_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	for _, occasion := range []string{"birthday", "anniversary"} {
		if _, err := repo.Create(ctx, CreateInput{
			UserID:          "u1",
			Occasion:        occasion,
			BudgetCents:     1000,
			Relation:        "friend",
			RecipientAge:    30,
			RecipientGender: "male",
		}); err != nil {
			t.Fatalf("Create %s: %v", occasion, err)
		}
	}

	listed, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(listed))
	}
	if !listed[0].CreatedAt.After(listed[1].CreatedAt) && !listed[0].CreatedAt.Equal(listed[1].CreatedAt) {
		t.Fatalf("expected newest first: %v then %v", listed[0].CreatedAt, listed[1].CreatedAt)
	}
	// An empty item set still persists a record with no product refs.
	if len(listed[0].ProductIDs) != 0 {
		t.Fatalf("expected no product refs, got %v", listed[0].ProductIDs)
	}

	other, err := repo.ListByUser(ctx, "u2")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no suggestions for u2, got %d", len(other))
	}
}
