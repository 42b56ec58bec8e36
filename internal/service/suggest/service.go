package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	"giftshop/internal/domain"
	productrepo "giftshop/internal/repository/product"
	suggestionrepo "giftshop/internal/repository/suggestion"
	"github.com/google/uuid"
)

const maxSuggestions = 5

// defaultStock is assigned to products materialized from generative output.
const defaultStock = 10

const placeholderImage = "/images/products/placeholder.jpg"

// Preferences is the questionnaire input. Age, gender, occasion and relation
// are free-form and only feed prompt construction and description templates.
type Preferences struct {
	Age         int
	Gender      string
	Occasion    string
	Relation    string
	BudgetCents int64
}

// Item is one suggestion as presented to the shopper.
type Item struct {
	ProductName string `json:"productName"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	Category    string `json:"category"`
}

type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type productRepo interface {
	ListActive(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	ListActiveWithinBudget(ctx context.Context, budgetCents int64) ([]domain.Product, error)
	GetByNameFold(ctx context.Context, name string) (*domain.Product, error)
	Insert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type suggestionRepo interface {
	Create(ctx context.Context, in suggestionrepo.CreateInput) (*domain.Suggestion, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Suggestion, error)
}

// Service is the recommendation orchestrator: generative client first,
// deterministic catalog sampler when the model is unavailable or unparsable.
type Service struct {
	products    productRepo
	suggestions suggestionRepo
	gen         generator
	genTimeout  time.Duration
	logger      *log.Logger
}

// New builds the orchestrator. gen may be nil, in which case every request
// takes the fallback path.
func New(products productrepo.Repository, suggestions suggestionrepo.Repository, gen generator, genTimeout time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if genTimeout <= 0 {
		genTimeout = 15 * time.Second
	}
	return &Service{
		products:    products,
		suggestions: suggestions,
		gen:         gen,
		genTimeout:  genTimeout,
		logger:      logger,
	}
}

// GetSuggestions runs one questionnaire submission end to end: obtain up to
// five items, resolve each against the catalog (materializing unknown
// products as new active catalog entries), and persist an immutable
// Suggestion record in presentation order. Upstream failures are recovered
// via the fallback sampler and never surface to the caller; an empty item
// set is a valid result.
func (s *Service) GetSuggestions(ctx context.Context, userID string, prefs Preferences) (*domain.Suggestion, []Item, error) {
	if prefs.BudgetCents <= 0 {
		return nil, nil, errors.New("budget must be positive")
	}

	items := withinBudget(s.generativeItems(ctx, prefs), prefs.BudgetCents)
	if len(items) == 0 {
		fallback, err := s.fallbackItems(ctx, prefs)
		if err != nil {
			return nil, nil, err
		}
		items = fallback
	}
	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}

	productIDs, audit, err := s.resolveProducts(ctx, userID, items)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.suggestions.Create(ctx, suggestionrepo.CreateInput{
		UserID:          userID,
		Occasion:        prefs.Occasion,
		BudgetCents:     prefs.BudgetCents,
		Relation:        prefs.Relation,
		RecipientAge:    prefs.Age,
		RecipientGender: prefs.Gender,
		ProductIDs:      productIDs,
		AIResponse:      strings.Join(audit, ", "),
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Printf("suggest: user=%s items=%d suggestion=%s", userID, len(items), record.ID)
	return record, items, nil
}

// History returns the user's previous suggestion records, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Suggestion, error) {
	return s.suggestions.ListByUser(ctx, userID)
}

// generativeItems returns nil on any upstream or parse failure; those are
// recovered failures, logged and routed to the fallback sampler. Exactly one
// upstream attempt is made per request.
func (s *Service) generativeItems(ctx context.Context, prefs Preferences) []Item {
	if s.gen == nil {
		return nil
	}
	catalog, err := s.products.ListActive(ctx, productrepo.ListFilter{})
	if err != nil {
		s.logger.Printf("suggest: load catalog for prompt: %v", err)
		return nil
	}
	if len(catalog) == 0 {
		return nil
	}

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	raw, err := s.gen.Generate(genCtx, buildPrompt(prefs, catalog))
	if err != nil {
		s.logger.Printf("suggest: generative call failed, using fallback: %v", err)
		return nil
	}
	items, err := parseSuggestions(raw)
	if err != nil {
		s.logger.Printf("suggest: %v, using fallback", err)
		return nil
	}
	return items
}

func (s *Service) fallbackItems(ctx context.Context, prefs Preferences) ([]Item, error) {
	products, err := s.products.ListActiveWithinBudget(ctx, prefs.BudgetCents)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return sampleDiverse(products, prefs, rng), nil
}

// resolveProducts maps each item to a catalog product by case-insensitive
// name. Unknown names become new minimal active products: this is how novel
// generative suggestions enter the catalog. The audit trail records which
// path each item took.
func (s *Service) resolveProducts(ctx context.Context, userID string, items []Item) ([]string, []string, error) {
	var productIDs []string
	var audit []string
	for _, item := range items {
		p, err := s.products.GetByNameFold(ctx, item.ProductName)
		switch {
		case err == nil:
			audit = append(audit, "Existing product found: "+item.ProductName)
		case errors.Is(err, domain.ErrNotFound):
			p, err = s.products.Insert(ctx, domain.Product{
				Name:        item.ProductName,
				Description: item.Description,
				PriceCents:  item.PriceCents,
				Category:    item.Category,
				Stock:       defaultStock,
				Status:      domain.ProductStatusActive,
				MerchantID:  userID,
				SKU:         "SKU-" + strings.ToUpper(uuid.NewString()[:8]),
				ImageURL:    placeholderImage,
			})
			if err != nil {
				return nil, nil, err
			}
			audit = append(audit, "New product added: "+item.ProductName)
		default:
			return nil, nil, err
		}
		productIDs = append(productIDs, p.ID)
	}
	return productIDs, audit, nil
}

func withinBudget(items []Item, budgetCents int64) []Item {
	kept := items[:0]
	for _, item := range items {
		if item.PriceCents <= budgetCents {
			kept = append(kept, item)
		}
	}
	return kept
}

func buildPrompt(prefs Preferences, catalog []domain.Product) string {
	var lines []string
	for _, p := range catalog {
		lines = append(lines, fmt.Sprintf("%s (%s) - ₹%s - %s", p.Name, p.Category, formatPrice(p.PriceCents), p.Description))
	}

	budget := formatPrice(prefs.BudgetCents)
	return fmt.Sprintf(`You are a gift recommendation expert. I need gift suggestions for a %d year old %s for %s.
The budget is ₹%s and they are my %s.

Here is our product catalog:
%s

Please suggest 5 specific gift ideas from our catalog that best match the following criteria:
1. Within the budget of ₹%s
2. Appropriate for the age and gender
3. Suitable for the occasion
4. Consider the relationship between the gift giver and recipient
5. Prioritize products with good descriptions and clear value proposition
6. Ensure diversity across different product categories
7. Consider seasonal relevance and current trends
8. Include at least one unique or unexpected suggestion that still fits the criteria

For each suggestion, provide:
1. The exact product name from the catalog
2. A personalized description explaining why this gift would be perfect for this specific recipient, considering their age, gender, the occasion, and your relationship
3. The exact price from the catalog
4. The product category

Format the response EXACTLY as a JSON array with these fields: productName, description, price, category.
The suggestions MUST be from the provided product catalog only.
Return ONLY the JSON array without any additional text or explanation.
Each suggestion MUST be from a different category unless there are no other options available.
Make the descriptions personal and engaging, explaining why each gift is perfect for this specific situation.`,
		prefs.Age, prefs.Gender, prefs.Occasion, budget, prefs.Relation,
		strings.Join(lines, "\n"), budget)
}

func formatPrice(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("%d", cents/100)
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
