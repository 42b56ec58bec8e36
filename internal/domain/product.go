package domain

import "time"

// Product statuses. Only active products are sellable and suggestible.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	MerchantID  string    `json:"merchantId,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
