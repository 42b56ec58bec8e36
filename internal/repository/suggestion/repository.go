package suggestion

import (
	"context"

	"giftshop/internal/domain"
)

type CreateInput struct {
	UserID          string
	Occasion        string
	BudgetCents     int64
	Relation        string
	RecipientAge    int
	RecipientGender string
	ProductIDs      []string
	AIResponse      string
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Suggestion, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Suggestion, error)
}
