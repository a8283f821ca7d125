package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortTitle     SortKey = "title"
	SortPriceAsc  SortKey = "price-low"
	SortPriceDesc SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// Criteria is recomputed per invocation and never persisted. A zero
// Criteria keeps everything: MaxPrice <= 0 means no price cap.
type Criteria struct {
	Category  string
	MaxPrice  float64
	MinRating float64
	Query     string
	Sort      SortKey
}

var titleCollator = collate.New(language.Spanish)

// Filter applies every facet of c to products and stable-sorts the
// survivors. Pure: the input slice is never reordered or mutated.
func Filter(products []Product, c Criteria) []Product {
	out := make([]Product, 0, len(products))
	query := strings.ToLower(strings.TrimSpace(c.Query))
	for _, p := range products {
		if c.Category != "" && !p.HasCategory(c.Category) {
			continue
		}
		if c.MaxPrice > 0 && p.Price > c.MaxPrice {
			continue
		}
		if p.Rating < c.MinRating {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, c.Sort)
	return out
}

func matchesQuery(p Product, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Title), lowered) ||
		strings.Contains(strings.ToLower(p.Author), lowered)
}

// sortProducts is stable so that equal keys keep their catalog order.
func sortProducts(ps []Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price < ps[j].Price })
	case SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price > ps[j].Price })
	case SortRating:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rating > ps[j].Rating })
	case SortTitle:
		sort.SliceStable(ps, func(i, j int) bool {
			return titleCollator.CompareString(ps[i].Title, ps[j].Title) < 0
		})
	default:
		// unknown key: keep catalog order
	}
}
