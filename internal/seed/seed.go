package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Category    string
	Stock       int
	SKU         string
}

// Apply inserts a small demo catalog for manual testing. It is idempotent:
// products are matched by case-insensitive name and updated in place.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Smart Watch Pro X",
			Description: "Fitness tracking smartwatch with heart-rate monitor and AMOLED display",
			PriceCents:  499900,
			Category:    "Electronics",
			Stock:       25,
			SKU:         "SKU-WATCH-PROX",
		},
		{
			Name:        "Wireless Noise-Cancelling Headphones",
			Description: "Over-ear headphones with active noise cancellation and 30h battery",
			PriceCents:  399900,
			Category:    "Electronics",
			Stock:       40,
			SKU:         "SKU-HEADPHONES-NC",
		},
		{
			Name:        "Premium Leather Wallet",
			Description: "Handcrafted genuine leather wallet with RFID protection",
			PriceCents:  149900,
			Category:    "Fashion",
			Stock:       60,
			SKU:         "SKU-WALLET-LTHR",
		},
		{
			Name:        "Scented Candle Gift Set",
			Description: "Set of four soy wax candles in lavender, vanilla, rose and sandalwood",
			PriceCents:  129900,
			Category:    "Home & Living",
			Stock:       80,
			SKU:         "SKU-CANDLE-SET4",
		},
		{
			Name:        "Kids Smart Watch",
			Description: "Colorful kids watch with games, camera and parental controls",
			PriceCents:  249900,
			Category:    "Kids",
			Stock:       30,
			SKU:         "SKU-WATCH-KIDS",
		},
		{
			Name:        "Illustrated Story Collection",
			Description: "Hardcover anthology of classic short stories with illustrations",
			PriceCents:  89900,
			Category:    "Books & Stationery",
			Stock:       50,
			SKU:         "SKU-BOOK-STORIES",
		},
		{
			Name:        "Yoga Mat Deluxe",
			Description: "Non-slip 6mm yoga mat with carrying strap",
			PriceCents:  119900,
			Category:    "Fitness Equipment",
			Stock:       45,
			SKU:         "SKU-YOGA-MAT",
		},
		{
			Name:        "Watercolor Paint Kit",
			Description: "36-color watercolor set with brushes and mixing palette",
			PriceCents:  79900,
			Category:    "Art & Craft",
			Stock:       70,
			SKU:         "SKU-PAINT-WC36",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const update = `
UPDATE products
SET description = $2, price_cents = $3, category = $4, stock = $5, sku = $6, status = 'active'
WHERE lower(name) = lower($1)
`
	cmd, err := pool.Exec(ctx, update, p.Name, p.Description, p.PriceCents, p.Category, p.Stock, p.SKU)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	const insert = `
INSERT INTO products (name, description, price_cents, category, stock, status, sku)
VALUES ($1, $2, $3, $4, $5, 'active', $6)
`
	_, err = pool.Exec(ctx, insert, p.Name, p.Description, p.PriceCents, p.Category, p.Stock, p.SKU)
	return err
}
