package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/middlewares"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cart"
	"github.com/dmitrymomot/storefront/pkg/htmx"
	"github.com/dmitrymomot/storefront/pkg/toast"
	"github.com/dmitrymomot/storefront/pkg/visitor"
	"github.com/dmitrymomot/storefront/views"
)

// Cart serves the cart page and the cart actions.
type Cart struct{}

func NewCart() *Cart {
	return &Cart{}
}

// Routes declares the cart routes. Adding to the cart is reachable from
// the public product page, so it answers signed-out visitors itself.
func (h *Cart) Routes(r storefront.Router) {
	r.POST("/cart/items", h.add)

	r.Group(func(r storefront.Router) {
		r.Use(requireSession())
		r.GET("/cart", h.view)
		r.Route("/cart/items/{id}", func(r storefront.Router) {
			r.POST("/increment", h.increment)
			r.POST("/decrement", h.decrement)
			r.POST("/delete", h.remove)
		})
	})
}

func (h *Cart) view(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}

	p := newPage(c, "Cart")
	if v.Cart.Cart() == nil {
		if err := v.Cart.Refresh(c); err != nil {
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return err
			}
			t := failure(err, toast.CartLoadFailed)
			p.Toast = &t
		}
	}
	return c.Render(http.StatusOK, views.CartPage(p, v.Cart.Cart()))
}

// add puts a product into the cart. Signed-out visitors are sent to log in
// and come back to the product afterwards.
func (h *Cart) add(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}

	productID := apiclient.ID(strings.TrimSpace(c.Form("product_id")))
	if productID == "" {
		return storefront.ErrBadRequest("Missing product")
	}
	quantity := 1
	if raw := strings.TrimSpace(c.Form("quantity")); raw != "" {
		if quantity, err = strconv.Atoi(raw); err != nil {
			return storefront.ErrBadRequest("Invalid quantity")
		}
	}

	err = v.Cart.AddToCart(c, productID, quantity)
	switch {
	case errors.Is(err, cart.ErrNotAuthenticated):
		return redirectWith(c, middlewares.LoginURL("/products/"+productID.String()), toast.Get(toast.LoginRequired))
	case errors.Is(err, cart.ErrInvalidQuantity):
		return storefront.ErrBadRequest("Quantity must be at least 1", storefront.WithErrorCause(err))
	case errors.Is(err, apiclient.ErrUnauthorized):
		return err
	case err != nil:
		t := failure(err, toast.CartAddFailed)
		if c.IsHTMX() {
			return toastOnly(c, t)
		}
		return redirectWith(c, middlewares.ReturnPath(c.Request()), t)
	}

	added := toast.Get(toast.CartAdded)
	if !c.IsHTMX() {
		return redirectWith(c, middlewares.ReturnPath(c.Request()), added)
	}
	return c.Render(http.StatusOK, views.AddedToCart(productID),
		htmx.WithOOB(views.CartBadge(v.Cart.Count(), true), views.Toast(added, true)),
	)
}

func (h *Cart) increment(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	id := apiclient.ID(c.Param("id"))
	item, _ := v.Cart.Cart().Item(id)
	err = v.Cart.UpdateCartItem(c, id, item.Quantity, true)
	return h.respond(c, v, err, nil, toast.CartUpdateFail)
}

// decrement lowers a line by one. A line at quantity one is removed
// instead, since the API never holds zero-quantity lines.
func (h *Cart) decrement(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	id := apiclient.ID(c.Param("id"))
	item, ok := v.Cart.Cart().Item(id)
	if ok && item.Quantity <= 1 {
		return h.removeLine(c, v, id)
	}
	err = v.Cart.UpdateCartItem(c, id, item.Quantity, false)
	return h.respond(c, v, err, nil, toast.CartUpdateFail)
}

func (h *Cart) remove(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	return h.removeLine(c, v, apiclient.ID(c.Param("id")))
}

func (h *Cart) removeLine(c storefront.Context, v *visitor.Visitor, id apiclient.ID) error {
	err := v.Cart.RemoveFromCart(c, id)
	removed := toast.Get(toast.CartRemoved)
	return h.respond(c, v, err, &removed, toast.CartRemoveFail)
}

// respond answers a cart line action: the re-rendered cart panel for htmx,
// a redirect to the cart page otherwise. On failure the toast for
// failKey replaces ok.
func (h *Cart) respond(c storefront.Context, v *visitor.Visitor, err error, ok *toast.Toast, failKey string) error {
	if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, cart.ErrNotAuthenticated) {
		return apiclient.ErrUnauthorized
	}
	note := ok
	if err != nil {
		t := failure(err, failKey)
		note = &t
	}

	if !c.IsHTMX() {
		if note != nil {
			notify(c, *note)
		}
		return c.Redirect(http.StatusSeeOther, "/cart")
	}

	oob := []htmx.Option{htmx.WithOOB(views.CartBadge(v.Cart.Count(), true))}
	if note != nil {
		oob = append(oob, htmx.WithOOB(views.Toast(*note, true)))
	}
	return c.Render(http.StatusOK, views.CartPanel(v.Cart.Cart()), oob...)
}
