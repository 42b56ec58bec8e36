package product

import (
	"context"

	"giftshop/internal/domain"
)

// ListFilter narrows catalog browsing. Zero values mean "no filter"; price
// bounds are in cents.
type ListFilter struct {
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
	Search        string
}

type Repository interface {
	ListActive(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	ListActiveWithinBudget(ctx context.Context, budgetCents int64) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByNameFold(ctx context.Context, name string) (*domain.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
