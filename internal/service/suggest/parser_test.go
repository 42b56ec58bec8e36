package suggest

import (
	"errors"
	"testing"
)

func TestParseSuggestionsWholeArray(t *testing.T) {
	raw := `[
		{"productName": "Smart Watch Pro X", "description": "Great for him", "price": 4999, "category": "Electronics"},
		{"productName": "Premium Leather Wallet", "description": "Classic gift", "price": 1499.50, "category": "Fashion"}
	]`
	items, err := parseSuggestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ProductName != "Smart Watch Pro X" || items[0].PriceCents != 499900 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].PriceCents != 149950 {
		t.Fatalf("expected fractional price converted to cents, got %d", items[1].PriceCents)
	}
}

func TestParseSuggestionsEmbeddedArray(t *testing.T) {
	raw := "Here are my suggestions:\n```json\n[{\"productName\": \"Yoga Mat Deluxe\", \"description\": \"Stay [active] daily\", \"price\": 1199, \"category\": \"Fitness Equipment\"}]\n```\nEnjoy!"
	items, err := parseSuggestions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Description != "Stay [active] daily" {
		t.Fatalf("brackets inside strings must not break extraction, got %q", items[0].Description)
	}
}

func TestParseSuggestionsPlainText(t *testing.T) {
	_, err := parseSuggestions("Sorry, I cannot help with gift ideas right now.")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseSuggestionsMalformedArrayIsAtomic(t *testing.T) {
	raw := `[{"productName": "Good", "price": 10, "category": "Books"}, {"productName": "", "price": 5, "category": ""}]`
	_, err := parseSuggestions(raw)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected all-or-nothing failure on invalid entry, got %v", err)
	}
}

func TestParseSuggestionsNegativePrice(t *testing.T) {
	raw := `[{"productName": "Odd", "description": "x", "price": -5, "category": "Books"}]`
	if _, err := parseSuggestions(raw); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestParseSuggestionsUnbalancedBrackets(t *testing.T) {
	_, err := parseSuggestions(`here is a [ broken fragment`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
