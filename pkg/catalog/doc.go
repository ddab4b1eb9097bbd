// Package catalog serves the product list, product details, and the
// search and category filtering used by the catalog page.
//
// Filtering is a linear scan over the cached list: a product matches when
// its name or description contains the search term (case-insensitively)
// and its category equals the selected one, or the selection is "all".
package catalog
