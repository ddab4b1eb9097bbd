package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/handlers"
	"github.com/dmitrymomot/storefront/middlewares"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/catalog"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/htmx"
)

const goodToken = "t1"

type line struct {
	ID        string  `json:"_id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// fakeAPI is an in-memory e-commerce API. It records every call as
// "METHOD /path" without the /api prefix.
type fakeAPI struct {
	mu           sync.Mutex
	calls        []string
	lines        []line
	rejectWrites bool
}

var products = []map[string]any{
	{"_id": "p1", "name": "Desk Lamp", "description": "A bright lamp", "price": 25, "category": "Accessories", "countInStock": 4, "rating": 4},
	{"_id": "p2", "name": "Gamepad", "description": "Wireless controller", "price": 60, "category": "Consoles", "countInStock": 0, "rating": 5},
}

func (f *fakeAPI) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, call)
}

func (f *fakeAPI) cart() map[string]any {
	total := 0.0
	for _, l := range f.lines {
		total += l.Price * float64(l.Quantity)
	}
	items := f.lines
	if items == nil {
		items = []line{}
	}
	return map[string]any{"items": items, "total": total}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	f.calls = append(f.calls, r.Method+" "+path)
	authed := r.Header.Get("Authorization") == "Bearer "+goodToken

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	unauthorized := func() { reply(http.StatusUnauthorized, map[string]string{"message": "Token expired"}) }

	switch {
	case path == "/auth/login":
		var creds struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			reply(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		reply(http.StatusOK, map[string]any{"token": goodToken, "user": map[string]any{"_id": 1, "name": "A", "email": creds.Email}})

	case path == "/auth/verify":
		if !authed {
			unauthorized()
			return
		}
		reply(http.StatusOK, map[string]any{"user": map[string]any{"_id": 1, "name": "A", "email": "a@b.com"}})

	case path == "/products":
		reply(http.StatusOK, products)

	case strings.HasPrefix(path, "/products/"):
		id := strings.TrimPrefix(path, "/products/")
		for _, p := range products {
			if p["_id"] == id {
				reply(http.StatusOK, p)
				return
			}
		}
		reply(http.StatusNotFound, map[string]string{"message": "Product not found"})

	case strings.HasPrefix(path, "/cart"):
		if !authed || (f.rejectWrites && r.Method != http.MethodGet) {
			unauthorized()
			return
		}
		f.serveCart(w, r, path, reply)

	default:
		reply(http.StatusNotFound, map[string]string{"message": "no route"})
	}
}

func (f *fakeAPI) serveCart(_ http.ResponseWriter, r *http.Request, path string, reply func(int, any)) {
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "/cart"), "/")
	id, action, _ := strings.Cut(rest, "/")

	switch {
	case r.Method == http.MethodGet && rest == "":
	case r.Method == http.MethodPost && rest == "add":
		var body struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lines = append(f.lines, line{ID: "i-" + body.ProductID, ProductID: body.ProductID, Name: "Desk Lamp", Price: 25, Quantity: body.Quantity})
	case r.Method == http.MethodPut:
		for i := range f.lines {
			if f.lines[i].ID != id {
				continue
			}
			if action == "increment" {
				f.lines[i].Quantity++
			} else {
				f.lines[i].Quantity--
			}
		}
	case r.Method == http.MethodDelete && rest == "":
		f.lines = nil
		reply(http.StatusOK, map[string]string{"message": "Cart cleared"})
		return
	case r.Method == http.MethodDelete:
		f.lines = slices.DeleteFunc(f.lines, func(l line) bool { return l.ID == id })
		reply(http.StatusOK, map[string]string{"message": "Item removed"})
		return
	}
	reply(http.StatusOK, f.cart())
}

type shop struct {
	api *fakeAPI
	app http.Handler
	jar *cookie.Manager
}

func newShop(t *testing.T, lines ...line) *shop {
	t.Helper()

	api := &fakeAPI{lines: lines}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)
	jar, err := cookie.New(strings.Repeat("s", 32))
	require.NoError(t, err)

	app := storefront.New(
		storefront.WithCookieManager(jar),
		storefront.WithMiddleware(middlewares.Visitor(client)),
		storefront.WithHandlers(
			handlers.NewAuth(),
			handlers.NewCatalog(catalog.NewService(client)),
			handlers.NewCart(),
			handlers.NewCheckout(),
			handlers.NewProfile(),
		),
		storefront.WithErrorHandler(handlers.ErrorHandler),
		storefront.WithNotFoundHandler(handlers.NotFound),
	)
	return &shop{api: api, app: app, jar: jar}
}

func (s *shop) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.app.ServeHTTP(w, req)
	return w
}

// signIn attaches a sealed token cookie to req.
func (s *shop) signIn(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, s.jar.SetSealed(w, middlewares.DefaultTokenCookie, goodToken, 60))
	req.AddCookie(w.Result().Cookies()[0])
	return req
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func post(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// fromPage marks req as an htmx request issued from page.
func fromPage(req *http.Request, page string) *http.Request {
	req.Header.Set(htmx.HeaderRequest, "true")
	req.Header.Set(htmx.HeaderCurrentURL, "http://example.com"+page)
	return req
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
