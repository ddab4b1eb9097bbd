package views_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/catalog"
	"github.com/dmitrymomot/storefront/pkg/toast"
	"github.com/dmitrymomot/storefront/views"
)

func html(t *testing.T, fn func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(&buf))
	return buf.String()
}

var lamp = apiclient.Product{
	ID:          "p1",
	Name:        "Desk Lamp",
	Description: "A **bright** lamp<script>alert(1)</script>",
	Price:       1234.5,
	Rating:      3.6,
	Stock:       2,
	Category:    "Accessories",
	Reviews:     []apiclient.Review{{Name: "Bob", Rating: 5, Comment: "<b>Great</b>"}},
	NumReviews:  1,
}

func TestPages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("layout shows cart badge for signed-in visitor", func(t *testing.T) {
		t.Parallel()

		p := views.Page{Title: "Home", User: &apiclient.User{ID: "u1", Name: "Ann"}, CartCount: 3}
		out := html(t, func(b *bytes.Buffer) error { return views.HomePage(p, []apiclient.Product{lamp}).Render(ctx, b) })

		require.Contains(t, out, "<title>Home · GameStore</title>")
		require.Contains(t, out, `id="cart-badge"`)
		require.Contains(t, out, ">3</span>")
		require.Contains(t, out, "Ann")
		require.NotContains(t, out, "Join Us")
		require.Contains(t, out, "/products?category=consoles")
		require.Contains(t, out, "$1,234.50")
		require.Contains(t, out, "★★★★☆")
	})

	t.Run("signed-out layout offers login", func(t *testing.T) {
		t.Parallel()

		out := html(t, func(b *bytes.Buffer) error { return views.HomePage(views.Page{}, nil).Render(ctx, b) })
		require.Contains(t, out, `href="/login"`)
		require.Contains(t, out, "No products yet.")
	})

	t.Run("product page sanitizes description and reviews", func(t *testing.T) {
		t.Parallel()

		out := html(t, func(b *bytes.Buffer) error { return views.ProductPage(views.Page{}, &lamp).Render(ctx, b) })
		require.Contains(t, out, "<strong>bright</strong>")
		require.NotContains(t, out, "<script>alert")
		require.NotContains(t, out, "<b>Great</b>")
		require.Contains(t, out, "2 in stock")
	})

	t.Run("listing marks the selected category", func(t *testing.T) {
		t.Parallel()

		l := views.Listing{
			Products:   []apiclient.Product{lamp},
			Categories: []string{"all", "Accessories"},
			Filter:     catalog.Filter{Search: "lamp", Category: "accessories"},
		}
		out := html(t, func(b *bytes.Buffer) error { return views.ProductsPage(views.Page{}, l).Render(ctx, b) })
		require.Contains(t, out, `<option value="accessories" selected>Accessories</option>`)
		require.Contains(t, out, `value="lamp"`)
	})

	t.Run("empty grid", func(t *testing.T) {
		t.Parallel()

		out := html(t, func(b *bytes.Buffer) error { return views.ProductGrid(views.Listing{}).Render(ctx, b) })
		require.Contains(t, out, `id="product-grid"`)
		require.Contains(t, out, "No products match your search.")
	})

	t.Run("login form keeps next and email", func(t *testing.T) {
		t.Parallel()

		f := views.LoginForm{Email: "a@b.com", Next: "/cart", Error: "Invalid credentials"}
		out := html(t, func(b *bytes.Buffer) error { return views.LoginPage(views.Page{}, f).Render(ctx, b) })
		require.Contains(t, out, `name="next" value="/cart"`)
		require.Contains(t, out, `value="a@b.com"`)
		require.Contains(t, out, "Invalid credentials")
	})

	t.Run("page toast", func(t *testing.T) {
		t.Parallel()

		tt := toast.Get(toast.LogoutOK)
		out := html(t, func(b *bytes.Buffer) error { return views.LoginPage(views.Page{Toast: &tt}, views.LoginForm{}).Render(ctx, b) })
		require.Contains(t, out, "toast-info")
		require.Contains(t, out, tt.Message)
	})
}

func TestCartPanel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("lines and server total", func(t *testing.T) {
		t.Parallel()

		cart := &apiclient.Cart{
			Items: []apiclient.CartItem{{ID: "i1", ProductID: "p1", Name: "Lamp", Price: 5, Quantity: 2}},
			Total: 9.99,
		}
		out := html(t, func(b *bytes.Buffer) error { return views.CartPanel(cart).Render(ctx, b) })
		require.Contains(t, out, `/cart/items/i1/decrement`)
		require.Contains(t, out, `/cart/items/i1/increment`)
		require.Contains(t, out, `/cart/items/i1/delete`)
		require.Contains(t, out, "$9.99")
		require.Contains(t, out, "Proceed to Checkout")
	})

	t.Run("nil cart is empty", func(t *testing.T) {
		t.Parallel()

		out := html(t, func(b *bytes.Buffer) error { return views.CartPanel(nil).Render(ctx, b) })
		require.Contains(t, out, "Your cart is empty")
	})
}

func TestFragments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	badge := html(t, func(b *bytes.Buffer) error { return views.CartBadge(0, true).Render(ctx, b) })
	require.Contains(t, badge, `hx-swap-oob="true"`)
	require.Contains(t, badge, "hidden")

	note := html(t, func(b *bytes.Buffer) error { return views.Toast(toast.Get(toast.CartAdded), true).Render(ctx, b) })
	require.Contains(t, note, `hx-swap-oob="beforeend:#toasts"`)
	require.Contains(t, note, "toast-success")

	problem := html(t, func(b *bytes.Buffer) error {
		return views.ErrorContent(views.Problem{Code: 502, Message: "Catalog is unavailable"}).Render(ctx, b)
	})
	require.Contains(t, problem, "Error 502")
	require.Contains(t, problem, "Catalog is unavailable")

	loading := html(t, func(b *bytes.Buffer) error { return views.Loading().Render(ctx, b) })
	require.Contains(t, loading, "Loading...")
}
