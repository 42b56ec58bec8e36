package domain

import "time"

// Suggestion is an append-only record of one questionnaire submission.
// Product references keep presentation order.
type Suggestion struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Occasion        string    `json:"occasion"`
	BudgetCents     int64     `json:"budgetCents"`
	Relation        string    `json:"relation"`
	RecipientAge    int       `json:"recipientAge"`
	RecipientGender string    `json:"recipientGender"`
	ProductIDs      []string  `json:"suggestedProductIds"`
	Products        []Product `json:"suggestedProducts,omitempty"`
	AIResponse      string    `json:"aiResponse,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
