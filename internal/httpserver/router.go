package httpserver

import (
	"context"
	"log"

	"giftshop/internal/domain"
	productrepo "giftshop/internal/repository/product"
	"giftshop/internal/service/checkout"
	"giftshop/internal/service/suggest"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogService interface {
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type suggestService interface {
	GetSuggestions(ctx context.Context, userID string, prefs suggest.Preferences) (*domain.Suggestion, []suggest.Item, error)
	History(ctx context.Context, userID string) ([]domain.Suggestion, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, customerID string, in checkout.Input) (*domain.Order, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	OrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

// Deps carries the services the router exposes.
type Deps struct {
	Catalog  catalogService
	Suggest  suggestService
	Checkout checkoutService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", userIDHeader, userRoleHeader},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	gifts := router.Group("/api/gifts")
	{
		gifts.GET("", listGiftsHandler(deps.Catalog))
		gifts.GET("/categories", categoriesHandler(deps.Catalog))
		gifts.GET("/:id", getGiftHandler(deps.Catalog))
	}

	user := router.Group("/api/user", identityMiddleware(), requireRole(roleUser))
	{
		user.POST("/questionnaire", questionnaireHandler(deps.Suggest))
		user.GET("/suggestions", suggestionsHandler(deps.Suggest))
		user.GET("/orders", userOrdersHandler(deps.Checkout))
		user.POST("/checkout", checkoutHandler(deps.Checkout))
	}

	orders := router.Group("/api/orders", identityMiddleware())
	{
		orders.GET("/:id", getOrderHandler(deps.Checkout))
	}

	return router
}
