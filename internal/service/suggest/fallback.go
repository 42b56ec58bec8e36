package suggest

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"giftshop/internal/domain"
)

var occasionPhrases = map[string]string{
	"birthday":     "perfect birthday gift",
	"anniversary":  "wonderful anniversary celebration",
	"wedding":      "special wedding day",
	"graduation":   "academic achievement",
	"housewarming": "new home",
	"other":        "special occasion",
}

var relationPhrases = map[string]string{
	"family":    "family member",
	"friend":    "friend",
	"colleague": "colleague",
	"partner":   "partner",
	"other":     "special someone",
}

func agePhrase(age int) string {
	switch {
	case age < 18:
		return "young"
	case age < 30:
		return "young adult"
	case age < 50:
		return "adult"
	default:
		return "mature"
	}
}

// sampleDiverse picks up to five in-budget products, one per category while
// categories last. Category order is shuffled on every call so repeated
// questionnaires do not return a stale, identical set. Backfill slots prefer
// categories not yet used and reuse a category only once the rest of the
// catalog is exhausted.
func sampleDiverse(products []domain.Product, prefs Preferences, rng *rand.Rand) []Item {
	if len(products) == 0 {
		return nil
	}

	byCategory := make(map[string][]int)
	for i, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], i)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	rng.Shuffle(len(categories), func(i, j int) {
		categories[i], categories[j] = categories[j], categories[i]
	})

	picked := make(map[int]bool)
	used := make(map[string]bool)
	var chosen []int

	for _, c := range categories {
		if len(chosen) == maxSuggestions {
			break
		}
		idxs := byCategory[c]
		i := idxs[rng.Intn(len(idxs))]
		chosen = append(chosen, i)
		picked[i] = true
		used[c] = true
	}

	if len(chosen) < maxSuggestions {
		remaining := make([]int, 0, len(products))
		for i := range products {
			if !picked[i] {
				remaining = append(remaining, i)
			}
		}
		rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
		// Pass 0 takes unused categories only; pass 1 reuses categories.
		for pass := 0; pass < 2 && len(chosen) < maxSuggestions; pass++ {
			for _, i := range remaining {
				if len(chosen) == maxSuggestions {
					break
				}
				if picked[i] {
					continue
				}
				if pass == 0 && used[products[i].Category] {
					continue
				}
				chosen = append(chosen, i)
				picked[i] = true
				used[products[i].Category] = true
			}
		}
	}

	items := make([]Item, 0, len(chosen))
	for _, i := range chosen {
		p := products[i]
		items = append(items, Item{
			ProductName: p.Name,
			Description: personalizedDescription(p, prefs),
			PriceCents:  p.PriceCents,
			Category:    p.Category,
		})
	}
	return items
}

func personalizedDescription(p domain.Product, prefs Preferences) string {
	occasion, ok := occasionPhrases[strings.ToLower(prefs.Occasion)]
	if !ok {
		occasion = "perfect gift"
	}
	relation, ok := relationPhrases[strings.ToLower(prefs.Relation)]
	if !ok {
		relation = "special someone"
	}
	return fmt.Sprintf("This %s would make a %s for your %s. %s It's especially suitable for a %s %s, making it a thoughtful choice for this occasion.",
		strings.ToLower(p.Category), occasion, relation, p.Description, agePhrase(prefs.Age), prefs.Gender)
}
