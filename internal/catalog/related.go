package catalog

import "strings"

const (
	relatedLimit  = 4
	suggestLimit  = 5
	suggestMinLen = 2
)

// Related returns up to four other products sharing the author or at
// least one category tag with p, in catalog order.
func Related(products []Product, p Product) []Product {
	out := make([]Product, 0, relatedLimit)
	for _, cand := range products {
		if cand.ID == p.ID {
			continue
		}
		if cand.Author != p.Author && !sharesCategory(cand, p) {
			continue
		}
		out = append(out, cand)
		if len(out) == relatedLimit {
			break
		}
	}
	return out
}

func sharesCategory(a, b Product) bool {
	for _, c := range a.Category {
		if b.HasCategory(c) {
			return true
		}
	}
	return false
}

// Suggest returns up to five title/author substring matches for the
// search-as-you-type dropdown. Queries shorter than two characters
// yield nothing.
func Suggest(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < suggestMinLen {
		return nil
	}
	out := make([]Product, 0, suggestLimit)
	for _, p := range products {
		if !matchesQuery(p, q) {
			continue
		}
		out = append(out, p)
		if len(out) == suggestLimit {
			break
		}
	}
	return out
}

// ReviewsFor filters the provider's review records down to one product.
func ReviewsFor(reviews []Review, productID string) []Review {
	var out []Review
	for _, r := range reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}
