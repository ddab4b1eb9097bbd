package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/toast"
	"github.com/dmitrymomot/storefront/views"
)

// Checkout shows the order summary and places the order. Payment is not
// collected; placing the order empties the cart.
type Checkout struct{}

func NewCheckout() *Checkout {
	return &Checkout{}
}

func (h *Checkout) Routes(r storefront.Router) {
	r.Route("/checkout", func(r storefront.Router) {
		r.Use(requireSession())
		r.GET("/", h.summary)
		r.POST("/", h.place)
		r.GET("/success", h.success)
	})
}

func (h *Checkout) summary(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	snap := v.Cart.Cart()
	if snap.IsEmpty() {
		return redirectWith(c, "/cart", toast.Get(toast.CartEmpty))
	}
	return c.Render(http.StatusOK, views.CheckoutPage(newPage(c, "Checkout"), snap))
}

func (h *Checkout) place(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	if v.Cart.Cart().IsEmpty() {
		return redirectWith(c, "/cart", toast.Get(toast.CartEmpty))
	}

	if err := v.Cart.Clear(c); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return err
		}
		c.LogWarn("place order", "error", err)
		return redirectWith(c, "/checkout", failure(err, toast.CartUpdateFail))
	}
	return redirectWith(c, "/checkout/success", toast.Get(toast.OrderPlaced))
}

func (h *Checkout) success(c storefront.Context) error {
	return c.Render(http.StatusOK, views.CheckoutSuccessPage(newPage(c, "Order placed")))
}
