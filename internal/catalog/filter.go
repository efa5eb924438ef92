// Package catalog provides the remote product source and the pure
// filter/sort pipeline that derives a display list from the raw catalog.
//
// The pipeline is referentially transparent: same catalog and criteria
// always produce the same output, and the input slice is never mutated.
// Filtering applies in a fixed order — search, then category, then sort.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNone       SortKey = ""
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortRatingDesc SortKey = "rating-desc"
)

// ParseSortKey maps a query-parameter value to a SortKey.
// Unknown values fall back to SortNone (catalog order).
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortRatingDesc:
		return SortKey(s)
	default:
		return SortNone
	}
}

// AllCategories is the sentinel category meaning "no category filter".
const AllCategories = "all"

// Criteria are the user-chosen filter inputs.
type Criteria struct {
	Search   string
	Category string
	Sort     SortKey
}

// titleCollator performs locale-aware, case-insensitive title comparison
// for the name sort keys. Collators are not safe for concurrent use, so
// name sorts take collatorMu for the duration of the sort.
var (
	titleCollator = collate.New(language.English, collate.Loose)
	collatorMu    sync.Mutex
)

// Filter derives the display list: search filter, then category filter,
// then a stable sort by the selected key. The input slice is not modified;
// sorting operates on a copy.
func Filter(products []model.Product, c Criteria) []model.Product {
	filtered := products

	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" {
		kept := make([]model.Product, 0, len(filtered))
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Title), term) ||
				strings.Contains(strings.ToLower(p.Description), term) ||
				strings.Contains(strings.ToLower(p.Category), term) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if c.Category != "" && !strings.EqualFold(c.Category, AllCategories) {
		kept := make([]model.Product, 0, len(filtered))
		for _, p := range filtered {
			if strings.EqualFold(p.Category, c.Category) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	sorted := make([]model.Product, len(filtered))
	copy(sorted, filtered)

	var less func(a, b model.Product) bool
	switch c.Sort {
	case SortPriceAsc:
		less = func(a, b model.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b model.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b model.Product) bool {
			return titleCollator.CompareString(a.Title, b.Title) < 0
		}
	case SortNameDesc:
		less = func(a, b model.Product) bool {
			return titleCollator.CompareString(a.Title, b.Title) > 0
		}
	case SortRatingDesc:
		less = func(a, b model.Product) bool { return a.Rating.Rate > b.Rating.Rate }
	default:
		// SortNone and unknown keys preserve catalog order.
		return sorted
	}

	if c.Sort == SortNameAsc || c.Sort == SortNameDesc {
		collatorMu.Lock()
		defer collatorMu.Unlock()
	}
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}

// Categories returns the category vocabulary for the given catalog:
// the "all" sentinel followed by each distinct category in first-seen order.
func Categories(products []model.Product) []string {
	out := []string{AllCategories}
	seen := make(map[string]bool)
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}
