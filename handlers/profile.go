package handlers

import (
	"net/http"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/views"
)

// Profile shows the signed-in visitor's account.
type Profile struct{}

func NewProfile() *Profile {
	return &Profile{}
}

func (h *Profile) Routes(r storefront.Router) {
	r.GET("/profile", h.show, requireSession())
}

func (h *Profile) show(c storefront.Context) error {
	return c.Render(http.StatusOK, views.ProfilePage(newPage(c, "Profile")))
}
