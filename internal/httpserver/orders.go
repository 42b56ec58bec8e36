package httpserver

import (
	"errors"
	"net/http"

	"giftshop/internal/domain"
	"github.com/gin-gonic/gin"
)

func getOrderHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Order(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if c.GetString(userRoleKey) != roleAdmin && order.CustomerID != c.GetString(userIDKey) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
