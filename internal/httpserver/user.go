package httpserver

import (
	"errors"
	"net/http"

	"giftshop/internal/domain"
	"giftshop/internal/service/checkout"
	"giftshop/internal/service/suggest"
	"github.com/gin-gonic/gin"
)

type questionnaireRequest struct {
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Occasion string `json:"occasion"`
	Budget   int64  `json:"budget"` // cents
	Relation string `json:"relation"`
}

type questionnaireResponse struct {
	domain.Suggestion
	Items []suggest.Item `json:"items"`
}

func questionnaireHandler(svc suggestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req questionnaireRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		if req.Budget <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "budget must be positive"})
			return
		}

		record, items, err := svc.GetSuggestions(c.Request.Context(), c.GetString(userIDKey), suggest.Preferences{
			Age:         req.Age,
			Gender:      req.Gender,
			Occasion:    req.Occasion,
			Relation:    req.Relation,
			BudgetCents: req.Budget,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing questionnaire"})
			return
		}
		if items == nil {
			items = []suggest.Item{}
		}
		// An empty item list is a valid "no matches" result, not an error.
		c.JSON(http.StatusCreated, questionnaireResponse{Suggestion: *record, Items: items})
	}
}

func suggestionsHandler(svc suggestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		suggestions, err := svc.History(c.Request.Context(), c.GetString(userIDKey))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if suggestions == nil {
			suggestions = []domain.Suggestion{}
		}
		c.JSON(http.StatusOK, suggestions)
	}
}

func userOrdersHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.OrdersByCustomer(c.Request.Context(), c.GetString(userIDKey))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

type checkoutRequest struct {
	Products        []checkoutLineRequest `json:"products"`
	ShippingAddress domain.Address        `json:"shippingAddress"`
	PaymentDetails  paymentDetailsRequest `json:"paymentDetails"`
}

type checkoutLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"` // cents, client claim only
	Merchant  string `json:"merchant"`
}

type paymentDetailsRequest struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

func checkoutHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}

		lines := make([]checkout.Line, 0, len(req.Products))
		for _, p := range req.Products {
			lines = append(lines, checkout.Line{
				ProductID:  p.ProductID,
				Quantity:   p.Quantity,
				PriceCents: p.Price,
				MerchantID: p.Merchant,
			})
		}

		order, err := svc.Checkout(c.Request.Context(), c.GetString(userIDKey), checkout.Input{
			Lines:           lines,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentDetails.Method,
		})
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func writeCheckoutError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   stockErr.Error(),
			"productId": stockErr.ProductID,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}
	var notFound *domain.ProductNotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if errors.Is(err, checkout.ErrEmptyCart) || errors.Is(err, checkout.ErrInvalidQuantity) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	// Storage failure: fully rolled back, the client may retry from scratch.
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing checkout"})
}
