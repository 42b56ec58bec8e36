package suggest

import (
	"encoding/json"
	"math"
	"strings"
)

// ParseError means no usable JSON array could be extracted from the model
// output. The caller routes it to the fallback sampler.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse suggestions: " + e.Reason
}

type rawItem struct {
	ProductName string      `json:"productName"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
}

// parseSuggestions extracts a suggestion array from raw model text. It tries
// the whole string first, then the first balanced [...] span. A malformed
// array fails atomically; there is no partial-record recovery.
func parseSuggestions(raw string) ([]Item, error) {
	trimmed := strings.TrimSpace(raw)
	if items, err := decodeItems(trimmed); err == nil {
		return items, nil
	}

	span, ok := firstArraySpan(trimmed)
	if ok {
		if items, err := decodeItems(span); err == nil {
			return items, nil
		}
	}
	return nil, &ParseError{Reason: "no valid JSON array in model output"}
}

func decodeItems(s string) ([]Item, error) {
	var raws []rawItem
	if err := json.Unmarshal([]byte(s), &raws); err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, &ParseError{Reason: "empty array"}
	}

	items := make([]Item, 0, len(raws))
	for _, r := range raws {
		name := strings.TrimSpace(r.ProductName)
		category := strings.TrimSpace(r.Category)
		if name == "" || category == "" {
			return nil, &ParseError{Reason: "entry missing productName or category"}
		}
		price, err := r.Price.Float64()
		if err != nil || price < 0 {
			return nil, &ParseError{Reason: "entry has invalid price"}
		}
		items = append(items, Item{
			ProductName: name,
			Description: strings.TrimSpace(r.Description),
			PriceCents:  int64(math.Round(price * 100)),
			Category:    category,
		})
	}
	return items, nil
}

// firstArraySpan returns the first balanced top-level [...] substring,
// skipping brackets inside JSON string literals.
func firstArraySpan(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
