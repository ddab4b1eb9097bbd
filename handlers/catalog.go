package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/catalog"
	"github.com/dmitrymomot/storefront/pkg/toast"
	"github.com/dmitrymomot/storefront/views"
)

// Products is the product source behind the catalog pages.
// *catalog.Service implements it.
type Products interface {
	Featured(ctx context.Context) ([]apiclient.Product, error)
	Search(ctx context.Context, f catalog.Filter) ([]apiclient.Product, []string, error)
	Product(ctx context.Context, id apiclient.ID) (*apiclient.Product, error)
}

// Catalog serves the home page, the product listing and product details.
type Catalog struct {
	products Products
}

func NewCatalog(products Products) *Catalog {
	return &Catalog{products: products}
}

func (h *Catalog) Routes(r storefront.Router) {
	r.GET("/products/{id}", h.product)
	r.POST("/newsletter", h.subscribe)

	r.Group(func(r storefront.Router) {
		r.Use(requireSession())
		r.GET("/", h.home)
		r.GET("/products", h.list)
	})
}

// home shows the featured products. A catalog outage leaves the section
// empty rather than failing the page.
func (h *Catalog) home(c storefront.Context) error {
	p := newPage(c, "Home")
	featured, err := h.products.Featured(c)
	if err != nil {
		c.LogWarn("load featured products", "error", err)
		t := failure(err, toast.NetworkError)
		p.Toast = &t
	}
	return c.Render(http.StatusOK, views.HomePage(p, featured))
}

// list renders the catalog filtered by ?search= and ?category=.
// The search form swaps only the grid.
func (h *Catalog) list(c storefront.Context) error {
	f := catalog.Filter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.QueryDefault("category", catalog.AllCategories)),
	}
	products, categories, err := h.products.Search(c, f)
	if err != nil {
		return storefront.ErrBadGateway("We couldn't load the products. Please try again.", storefront.WithErrorCause(err))
	}

	l := views.Listing{Products: products, Categories: categories, Filter: f}
	if c.IsPartial() {
		return c.Render(http.StatusOK, views.ProductGrid(l))
	}
	return c.Render(http.StatusOK, views.ProductsPage(newPage(c, "Products"), l))
}

func (h *Catalog) product(c storefront.Context) error {
	p, err := h.products.Product(c, apiclient.ID(c.Param("id")))
	if missing(err) {
		return redirectWith(c, "/products", toast.Get(toast.ProductMissing))
	}
	if err != nil {
		return storefront.ErrBadGateway("We couldn't load this product. Please try again.", storefront.WithErrorCause(err))
	}
	return c.Render(http.StatusOK, views.ProductPage(newPage(c, p.Name), p))
}

// subscribe acknowledges the newsletter form. There is no mailing list
// behind it.
func (h *Catalog) subscribe(c storefront.Context) error {
	t := toast.Get(toast.Subscribed)
	if c.IsHTMX() {
		return toastOnly(c, t)
	}
	return redirectWith(c, "/", t)
}

// missing reports whether the API said the product does not exist. A
// malformed id comes back as a 400 and is treated the same way.
func missing(err error) bool {
	if errors.Is(err, apiclient.ErrNotFound) {
		return true
	}
	var apiErr *apiclient.Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}
