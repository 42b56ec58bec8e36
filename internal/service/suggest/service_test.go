package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"giftshop/internal/domain"
	productrepo "giftshop/internal/repository/product"
	suggestionrepo "giftshop/internal/repository/suggestion"
)

type stubProductRepo struct {
	active       []domain.Product
	withinBudget []domain.Product
	byName       map[string]domain.Product
	inserted     []domain.Product
	activeErr    error
	withinErr    error
	insertErr    error
}

func (s *stubProductRepo) ListActive(_ context.Context, _ productrepo.ListFilter) ([]domain.Product, error) {
	return s.active, s.activeErr
}

func (s *stubProductRepo) ListActiveWithinBudget(_ context.Context, budgetCents int64) ([]domain.Product, error) {
	if s.withinErr != nil {
		return nil, s.withinErr
	}
	var result []domain.Product
	for _, p := range s.withinBudget {
		if p.PriceCents <= budgetCents {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) DistinctCategories(_ context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubProductRepo) GetByNameFold(_ context.Context, name string) (*domain.Product, error) {
	if p, ok := s.byName[strings.ToLower(name)]; ok {
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) Insert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	p.ID = fmt.Sprintf("new-%d", len(s.inserted)+1)
	s.inserted = append(s.inserted, p)
	return &p, nil
}

type stubSuggestionRepo struct {
	lastCreate suggestionrepo.CreateInput
	created    int
	createErr  error
	history    []domain.Suggestion
}

func (s *stubSuggestionRepo) Create(_ context.Context, in suggestionrepo.CreateInput) (*domain.Suggestion, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastCreate = in
	s.created++
	return &domain.Suggestion{
		ID:          "sug-1",
		UserID:      in.UserID,
		Occasion:    in.Occasion,
		BudgetCents: in.BudgetCents,
		ProductIDs:  in.ProductIDs,
		AIResponse:  in.AIResponse,
	}, nil
}

func (s *stubSuggestionRepo) ListByUser(_ context.Context, _ string) ([]domain.Suggestion, error) {
	return s.history, nil
}

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func catalogProduct(id, name, category string, priceCents int64) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       name,
		Category:   category,
		PriceCents: priceCents,
		Stock:      10,
		Status:     domain.ProductStatusActive,
	}
}

func testPrefs() Preferences {
	return Preferences{Age: 25, Gender: "female", Occasion: "birthday", Relation: "friend", BudgetCents: 500000}
}

func TestGetSuggestionsBudgetValidation(t *testing.T) {
	svc := New(&stubProductRepo{}, &stubSuggestionRepo{}, nil, 0, nil)
	if _, _, err := svc.GetSuggestions(context.Background(), "u1", Preferences{BudgetCents: 0}); err == nil {
		t.Fatal("expected error for non-positive budget")
	}
}

func TestGetSuggestionsGenerativePath(t *testing.T) {
	watch := catalogProduct("p1", "Smart Watch Pro X", "Electronics", 499900)
	wallet := catalogProduct("p2", "Premium Leather Wallet", "Fashion", 149900)
	products := &stubProductRepo{
		active: []domain.Product{watch, wallet},
		byName: map[string]domain.Product{
			"smart watch pro x":      watch,
			"premium leather wallet": wallet,
		},
	}
	suggestions := &stubSuggestionRepo{}
	gen := &stubGenerator{text: `[
		{"productName": "Premium Leather Wallet", "description": "Classy", "price": 1499, "category": "Fashion"},
		{"productName": "Smart Watch Pro X", "description": "Sporty", "price": 4999, "category": "Electronics"}
	]`}

	svc := New(products, suggestions, gen, 0, nil)
	record, items, err := svc.GetSuggestions(context.Background(), "u1", testPrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", gen.calls)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Presentation order is preserved in the persisted record.
	wantIDs := []string{"p2", "p1"}
	for i, id := range wantIDs {
		if suggestions.lastCreate.ProductIDs[i] != id {
			t.Fatalf("expected product ids %v, got %v", wantIDs, suggestions.lastCreate.ProductIDs)
		}
	}
	if !strings.Contains(record.AIResponse, "Existing product found: Premium Leather Wallet") {
		t.Fatalf("audit trail missing existing-product note: %q", record.AIResponse)
	}
	if len(products.inserted) != 0 {
		t.Fatalf("no products should be materialized, got %d", len(products.inserted))
	}
}

func TestGetSuggestionsMaterializesNovelProduct(t *testing.T) {
	products := &stubProductRepo{
		active: []domain.Product{catalogProduct("p1", "Novel", "Books", 89900)},
		byName: map[string]domain.Product{},
	}
	suggestions := &stubSuggestionRepo{}
	gen := &stubGenerator{text: `[{"productName": "Star Projector Lamp", "description": "Dreamy night lamp", "price": 1999, "category": "Home"}]`}

	svc := New(products, suggestions, gen, 0, nil)
	record, _, err := svc.GetSuggestions(context.Background(), "u1", testPrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products.inserted) != 1 {
		t.Fatalf("expected 1 materialized product, got %d", len(products.inserted))
	}
	created := products.inserted[0]
	if created.Status != domain.ProductStatusActive || created.Stock != defaultStock {
		t.Fatalf("materialized product must be active with default stock, got %+v", created)
	}
	if created.MerchantID != "u1" {
		t.Fatalf("materialized product merchant should be requesting user, got %q", created.MerchantID)
	}
	if !strings.Contains(record.AIResponse, "New product added: Star Projector Lamp") {
		t.Fatalf("audit trail missing new-product note: %q", record.AIResponse)
	}
}

func TestGetSuggestionsTruncatesToFive(t *testing.T) {
	var entries []string
	products := &stubProductRepo{byName: map[string]domain.Product{}}
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("Gift %d", i)
		entries = append(entries, fmt.Sprintf(`{"productName": %q, "description": "d", "price": 100, "category": "Cat%d"}`, name, i))
		products.active = append(products.active, catalogProduct(fmt.Sprintf("p%d", i), name, fmt.Sprintf("Cat%d", i), 10000))
	}
	gen := &stubGenerator{text: "[" + strings.Join(entries, ",") + "]"}

	svc := New(products, &stubSuggestionRepo{}, gen, 0, nil)
	_, items, err := svc.GetSuggestions(context.Background(), "u1", testPrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected truncation to 5 items, got %d", len(items))
	}
}

func TestGetSuggestionsDropsOverBudgetItems(t *testing.T) {
	products := &stubProductRepo{
		active: []domain.Product{catalogProduct("p1", "Cheap Pen", "Stationery", 500)},
		byName: map[string]domain.Product{"cheap pen": catalogProduct("p1", "Cheap Pen", "Stationery", 500)},
	}
	gen := &stubGenerator{text: `[
		{"productName": "Cheap Pen", "description": "d", "price": 5, "category": "Stationery"},
		{"productName": "Gold Bar", "description": "d", "price": 999999, "category": "Luxury"}
	]`}

	svc := New(products, &stubSuggestionRepo{}, gen, 0, nil)
	_, items, err := svc.GetSuggestions(context.Background(), "u1", Preferences{Age: 30, BudgetCents: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ProductName != "Cheap Pen" {
		t.Fatalf("expected only in-budget item, got %+v", items)
	}
}

func TestGetSuggestionsFallsBackWhenAllItemsOverBudget(t *testing.T) {
	// The model answers, parses cleanly, and every item busts the budget.
	// An in-budget product still exists, so the sampler must take over
	// instead of returning an empty set.
	novel := catalogProduct("p1", "Novel", "Books", 500)
	products := &stubProductRepo{
		active:       []domain.Product{novel},
		withinBudget: []domain.Product{novel},
		byName:       map[string]domain.Product{"novel": novel},
	}
	gen := &stubGenerator{text: `[{"productName": "Gold Bar", "description": "d", "price": 999999, "category": "Luxury"}]`}

	svc := New(products, &stubSuggestionRepo{}, gen, 0, nil)
	_, items, err := svc.GetSuggestions(context.Background(), "u1", Preferences{Age: 30, BudgetCents: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ProductName != "Novel" {
		t.Fatalf("expected fallback item from catalog, got %+v", items)
	}
	if len(products.inserted) != 0 {
		t.Fatalf("over-budget generative items must not be materialized, got %d", len(products.inserted))
	}
}

func TestGetSuggestionsFallsBackOnGeneratorError(t *testing.T) {
	novel := catalogProduct("p1", "Novel", "Books", 89900)
	products := &stubProductRepo{
		active:       []domain.Product{novel},
		withinBudget: []domain.Product{novel},
		byName:       map[string]domain.Product{"novel": novel},
	}
	gen := &stubGenerator{err: errors.New("upstream timeout")}

	svc := New(products, &stubSuggestionRepo{}, gen, 0, nil)
	_, items, err := svc.GetSuggestions(context.Background(), "u1", testPrefs())
	if err != nil {
		t.Fatalf("upstream failure must be recovered, got error: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("no upstream retries allowed, got %d calls", gen.calls)
	}
	if len(items) != 1 || items[0].ProductName != "Novel" {
		t.Fatalf("expected fallback item from catalog, got %+v", items)
	}
}

func TestGetSuggestionsFallsBackOnUnparsableOutput(t *testing.T) {
	novel := catalogProduct("p1", "Novel", "Books", 89900)
	products := &stubProductRepo{
		active:       []domain.Product{novel},
		withinBudget: []domain.Product{novel},
		byName:       map[string]domain.Product{"novel": novel},
	}
	gen := &stubGenerator{text: "I'm sorry, I can't produce JSON today."}

	svc := New(products, &stubSuggestionRepo{}, gen, 0, nil)
	_, items, err := svc.GetSuggestions(context.Background(), "u1", testPrefs())
	if err != nil {
		t.Fatalf("parse failure must be recovered, got error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected fallback items, got %d", len(items))
	}
}

func TestGetSuggestionsEmptyCatalog(t *testing.T) {
	products := &stubProductRepo{byName: map[string]domain.Product{}}
	suggestions := &stubSuggestionRepo{}

	svc := New(products, suggestions, nil, 0, nil)
	record, items, err := svc.GetSuggestions(context.Background(), "u1", testPrefs())
	if err != nil {
		t.Fatalf("empty catalog is not an error, got: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty item set, got %d", len(items))
	}
	if suggestions.created != 1 || record == nil {
		t.Fatal("an empty result must still persist a suggestion record")
	}
}
