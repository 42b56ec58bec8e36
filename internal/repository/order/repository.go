package order

import (
	"context"

	"giftshop/internal/domain"
)

type LineInput struct {
	ProductID      string
	MerchantID     string
	Quantity       int
	UnitPriceCents int64
}

type CreateOrderInput struct {
	CustomerID      string
	Lines           []LineInput
	Status          string
	PaymentMethod   string
	PaymentStatus   string
	ShippingAddress domain.Address
	SubtotalCents   int64
	TaxCents        int64
	ShippingCents   int64
	TotalCents      int64
}

// Repository persists orders. Create is the checkout commit unit: every
// line's stock decrement and the order insert succeed or fail together.
type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
