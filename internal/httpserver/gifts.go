package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"giftshop/internal/domain"
	productrepo "giftshop/internal/repository/product"
	"github.com/gin-gonic/gin"
)

func listGiftsHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := productrepo.ListFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
		}
		if v := c.Query("minPrice"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid minPrice"})
				return
			}
			filter.MinPriceCents = n
		}
		if v := c.Query("maxPrice"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid maxPrice"})
				return
			}
			filter.MaxPriceCents = n
		}

		gifts, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching gifts"})
			return
		}
		if gifts == nil {
			gifts = []domain.Product{}
		}
		c.JSON(http.StatusOK, gifts)
	}
}

func categoriesHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.Categories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching categories"})
			return
		}
		if categories == nil {
			categories = []string{}
		}
		c.JSON(http.StatusOK, categories)
	}
}

func getGiftHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
