package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
)

// AllCategories selects every product.
const AllCategories = "all"

// Filter narrows a product list the way the catalog page does.
type Filter struct {
	Search   string
	Category string
}

// Active reports whether the filter excludes anything.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || !isAll(f.Category)
}

// Apply returns the products whose name or description contains the
// search term, ignoring case, and whose category matches. Order is kept.
func Apply(products []apiclient.Product, f Filter) []apiclient.Product {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(f.Search))
	category := strings.TrimSpace(f.Category)

	out := make([]apiclient.Product, 0, len(products))
	for _, p := range products {
		if term != "" &&
			!strings.Contains(fold.String(p.Name), term) &&
			!strings.Contains(fold.String(p.Description), term) {
			continue
		}
		if !isAll(category) && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns "all" followed by each distinct non-empty category in
// order of first appearance.
func Categories(products []apiclient.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{AllCategories}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, dup := seen[p.Category]; dup {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func isAll(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, AllCategories)
}
