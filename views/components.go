package views

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/catalog"
	"github.com/dmitrymomot/storefront/pkg/toast"
)

// Category is a tile on the home page.
type Category struct {
	Name        string
	Image       string
	Description string
}

// Categories shown on the home page. Each links to the filtered listing.
var Categories = []Category{
	{Name: "Games", Image: "https://images.unsplash.com/photo-1592155931584-901ac15763e3?ixlib=rb-4.0.3", Description: "Latest titles and classic games"},
	{Name: "Consoles", Image: "https://images.unsplash.com/photo-1606144042614-b2417e99c4e3?ixlib=rb-4.0.3", Description: "Next-gen gaming systems"},
	{Name: "Accessories", Image: "https://images.unsplash.com/photo-1600861194942-f883de0dfe96?ixlib=rb-4.0.3", Description: "Enhance your gaming setup"},
}

// HomePage is the landing page with featured products.
func HomePage(p Page, featured []apiclient.Product) templ.Component {
	return page("home", p, struct {
		Featured   []apiclient.Product
		Categories []Category
	}{featured, Categories})
}

// Listing is the data behind the product listing.
type Listing struct {
	Products   []apiclient.Product
	Categories []string
	Filter     catalog.Filter
}

// ProductsPage is the full product listing with search and category filter.
func ProductsPage(p Page, l Listing) templ.Component {
	return page("products", p, l)
}

// ProductGrid is the listing results, swapped in by the search form.
func ProductGrid(l Listing) templ.Component {
	return fragment("product-grid", l)
}

// ProductPage shows one product.
func ProductPage(p Page, product *apiclient.Product) templ.Component {
	return page("product", p, product)
}

// CartPage shows the visitor's cart.
func CartPage(p Page, cart *apiclient.Cart) templ.Component {
	return page("cart", p, cart)
}

// CartPanel is the cart lines and summary, re-rendered after each cart
// action.
func CartPanel(cart *apiclient.Cart) templ.Component {
	return fragment("cart-panel", cart)
}

// CartBadge is the item counter in the header. With oob set it replaces
// the header badge out of band.
func CartBadge(count int, oob bool) templ.Component {
	return fragment("cart-badge", badge{Count: count, OOB: oob})
}

// AddedToCart is the button state after a product was added from a card.
func AddedToCart(productID apiclient.ID) templ.Component {
	return fragment("added-to-cart", productID)
}

// CheckoutPage shows the order summary before the order is placed.
func CheckoutPage(p Page, cart *apiclient.Cart) templ.Component {
	return page("checkout", p, cart)
}

// CheckoutSuccessPage confirms the order.
func CheckoutSuccessPage(p Page) templ.Component {
	return page("checkout-success", p, nil)
}

// LoginForm is the login form state.
type LoginForm struct {
	Email string
	Next  string
	Error string
}

// LoginPage renders the login form.
func LoginPage(p Page, f LoginForm) templ.Component {
	return page("login", p, f)
}

// RegisterForm is the registration form state. The password is never
// echoed back.
type RegisterForm struct {
	Name  string
	Email string
	Error string
}

// RegisterPage renders the sign-up form.
func RegisterPage(p Page, f RegisterForm) templ.Component {
	return page("register", p, f)
}

// ProfilePage shows the signed-in user.
func ProfilePage(p Page) templ.Component {
	return page("profile", p, nil)
}

// Loading is shown while the visitor's session is being resolved.
func Loading() templ.Component {
	return fragment("loading", nil)
}

// Problem describes an error for the error page.
type Problem struct {
	Title   string
	Message string
	Code    int
}

// ErrorPage is the full-page error view.
func ErrorPage(p Page, e Problem) templ.Component {
	return page("error", p, e)
}

// ErrorContent is the error view swapped into the page for htmx requests.
func ErrorContent(e Problem) templ.Component {
	return fragment("error-content", e)
}

// Toast renders a notification. With oob set it is appended to the toast
// stack out of band.
func Toast(t toast.Toast, oob bool) templ.Component {
	return fragment("toast", notice{Toast: t, OOB: oob})
}
