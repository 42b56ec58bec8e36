package checkout

import (
	"context"
	"errors"
	"io"
	"log"

	"giftshop/internal/domain"
	orderrepo "giftshop/internal/repository/order"
)

const defaultPaymentMethod = "demo_card"

// Validation errors surfaced to the client as user-actionable.
var (
	ErrEmptyCart       = errors.New("at least one line item required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Line is one client cart line. PriceCents is the client's claimed unit
// price; it is accepted in the payload but never trusted. The live catalog
// price at commit time is authoritative.
type Line struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
	MerchantID string `json:"merchantId"`
}

type Input struct {
	Lines           []Line         `json:"products"`
	ShippingAddress domain.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type orderRepoIface interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

// Service converts a client cart into a persisted order. Stock is validated
// for every line before any mutation, and the repo commit is all-or-nothing:
// no order without decremented stock, no decremented stock without an order.
type Service struct {
	products       productRepo
	orders         orderRepoIface
	taxRatePercent int
	logger         *log.Logger
}

func New(products productRepo, orders orderrepo.Repository, taxRatePercent int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		products:       products,
		orders:         orders,
		taxRatePercent: taxRatePercent,
		logger:         logger,
	}
}

// Checkout validates every line, recomputes all money server-side and
// commits atomically. Payment is mocked as always successful. Stock
// shortfalls surface as *domain.InsufficientStockError and are never retried
// here; the shopper has to amend quantities.
func (s *Service) Checkout(ctx context.Context, customerID string, in Input) (*domain.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, line := range in.Lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	var lines []orderrepo.LineInput
	var subtotal int64
	for _, line := range in.Lines {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, err
		}
		if p.Stock < line.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   line.Quantity,
			}
		}
		if line.PriceCents != 0 && line.PriceCents != p.PriceCents {
			s.logger.Printf("checkout: client price %d differs from catalog price %d for product=%s, using catalog", line.PriceCents, p.PriceCents, p.ID)
		}

		merchantID := line.MerchantID
		if merchantID == "" {
			merchantID = p.MerchantID
		}
		subtotal += p.PriceCents * int64(line.Quantity)
		lines = append(lines, orderrepo.LineInput{
			ProductID:      p.ID,
			MerchantID:     merchantID,
			Quantity:       line.Quantity,
			UnitPriceCents: p.PriceCents,
		})
	}

	tax := subtotal * int64(s.taxRatePercent) / 100
	var shipping int64 // free shipping
	total := subtotal + tax + shipping

	method := in.PaymentMethod
	if method == "" {
		method = defaultPaymentMethod
	}

	order, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
		CustomerID:      customerID,
		Lines:           lines,
		Status:          domain.OrderStatusProcessing,
		PaymentMethod:   method,
		PaymentStatus:   domain.PaymentStatusCompleted,
		ShippingAddress: in.ShippingAddress,
		SubtotalCents:   subtotal,
		TaxCents:        tax,
		ShippingCents:   shipping,
		TotalCents:      total,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("checkout: customer=%s order=%s lines=%d total=%d", customerID, order.ID, len(order.Lines), order.TotalCents)
	return order, nil
}

// Order returns one order by id.
func (s *Service) Order(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// OrdersByCustomer returns the customer's orders, newest first.
func (s *Service) OrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}
