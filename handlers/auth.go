package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/middlewares"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/session"
	"github.com/dmitrymomot/storefront/pkg/toast"
	"github.com/dmitrymomot/storefront/views"
)

// Auth serves login, registration and logout.
type Auth struct{}

func NewAuth() *Auth {
	return &Auth{}
}

func (h *Auth) Routes(r storefront.Router) {
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/register", h.registerForm)
	r.POST("/register", h.register)
	r.POST("/logout", h.logout)
}

func (h *Auth) loginForm(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	if v.Session.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, middlewares.SafeNext(c.Query("next"), "/"))
	}
	form := views.LoginForm{Next: middlewares.SafeNext(c.Query("next"), "")}
	return c.Render(http.StatusOK, views.LoginPage(newPage(c, "Login"), form))
}

// login signs the visitor in and returns them to the page they came from.
func (h *Auth) login(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}

	email := c.Form("email")
	next := middlewares.SafeNext(c.Form("next"), "")

	err = v.Session.Login(c, email, c.Form("password"))
	if err == nil {
		return redirectWith(c, middlewares.SafeNext(next, "/"), toast.Get(toast.LoginSuccess))
	}

	status := http.StatusUnauthorized
	msg := session.Message(err, toast.Get(toast.LoginFailed).Message)
	if errors.Is(err, session.ErrValidation) {
		status = http.StatusUnprocessableEntity
		msg = toast.Get(toast.LoginMissing).Message
	}
	form := views.LoginForm{Email: strings.TrimSpace(email), Next: next, Error: msg}
	return c.Render(status, views.LoginPage(newPage(c, "Login"), form))
}

func (h *Auth) registerForm(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	if v.Session.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, views.RegisterPage(newPage(c, "Register"), views.RegisterForm{}))
}

// register creates the account. When the API signs the visitor in straight
// away they go to the home page, otherwise to the login form.
func (h *Auth) register(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}

	reg := apiclient.Registration{
		Name:     c.Form("name"),
		Email:    c.Form("email"),
		Password: c.Form("password"),
	}
	loggedIn, err := v.Session.Register(c, reg)
	if err != nil {
		form := views.RegisterForm{
			Name:  strings.TrimSpace(reg.Name),
			Email: strings.TrimSpace(reg.Email),
			Error: session.Message(err, toast.Get(toast.RegisterFailed).Message),
		}
		return c.Render(http.StatusUnprocessableEntity, views.RegisterPage(newPage(c, "Register"), form))
	}
	if loggedIn {
		return redirectWith(c, "/", toast.Get(toast.LoginSuccess))
	}
	return redirectWith(c, middlewares.LoginPath, toast.Get(toast.RegisterOK))
}

func (h *Auth) logout(c storefront.Context) error {
	v, err := current(c)
	if err != nil {
		return err
	}
	v.Session.Logout(c)
	return redirectWith(c, middlewares.LoginPath, toast.Get(toast.LogoutOK))
}
