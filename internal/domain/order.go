package domain

import "time"

// Order statuses. The checkout pipeline only ever writes processing; later
// transitions belong to merchant/admin tooling.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customerId"`
	Lines           []OrderLine `json:"products"`
	Status          string      `json:"status"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	PaymentStatus   string      `json:"paymentStatus"`
	SubtotalCents   int64       `json:"subtotalCents"`
	TaxCents        int64       `json:"taxCents"`
	ShippingCents   int64       `json:"shippingCents"`
	TotalCents      int64       `json:"totalAmountCents"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderLine is immutable after creation; UnitPriceCents is the catalog price
// captured at commit time, not the client's claim.
type OrderLine struct {
	ID             string   `json:"id"`
	OrderID        string   `json:"orderId"`
	ProductID      string   `json:"productId"`
	MerchantID     string   `json:"merchantId"`
	Quantity       int      `json:"quantity"`
	UnitPriceCents int64    `json:"unitPriceCents"`
	TotalCents     int64    `json:"totalCents"`
	Product        *Product `json:"product,omitempty"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
