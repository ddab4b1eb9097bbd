package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// ID is a resource identifier. The API emits both string (document) ids
// and numeric ids, so both JSON forms decode into the same string value.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("apiclient: id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("apiclient: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// User is the profile record returned by the auth endpoints.
type User struct {
	ID    ID     `json:"id"              validate:"required"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		DocID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.DocID
	}
	return nil
}

// DisplayName returns the name, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up request body.
type Registration struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token" validate:"required"`
	User  User   `json:"user"`
}

// RegisterResponse is returned by a successful registration.
// Some deployments log the new user in straight away and include a token.
type RegisterResponse struct {
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

type verifyResponse struct {
	User User `json:"user"`
}

// CartItem is a single line of a cart snapshot.
// Name, Price and Image are denormalized copies of the product fields.
type CartItem struct {
	ID        ID      `json:"id"        validate:"required"`
	ProductID ID      `json:"productId" validate:"required"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"     validate:"gte=0"`
	Quantity  int     `json:"quantity"  validate:"min=1"`
}

// Subtotal is the line price times quantity, for display only.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

func (i *CartItem) UnmarshalJSON(data []byte) error {
	type plain CartItem
	var aux struct {
		plain
		DocID   ID              `json:"_id"`
		Product json.RawMessage `json:"product"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = CartItem(aux.plain)
	if i.ID == "" {
		i.ID = aux.DocID
	}

	// "product" is either a bare id or the populated product document.
	ref := bytes.TrimSpace(aux.Product)
	switch {
	case len(ref) == 0 || bytes.Equal(ref, []byte("null")):
	case ref[0] == '{':
		var p Product
		if err := json.Unmarshal(ref, &p); err != nil {
			return err
		}
		if i.ProductID == "" {
			i.ProductID = p.ID
		}
		if i.Name == "" {
			i.Name = p.Name
		}
		if i.Image == "" {
			i.Image = p.Image
		}
		if i.Price == 0 {
			i.Price = p.Price
		}
	default:
		var id ID
		if err := id.UnmarshalJSON(ref); err != nil {
			return err
		}
		if i.ProductID == "" {
			i.ProductID = id
		}
	}
	return nil
}

// Cart is the server-authoritative cart snapshot.
// Total is computed by the server and never recalculated locally.
type Cart struct {
	Items []CartItem `json:"items" validate:"dive"`
	Total float64    `json:"total" validate:"gte=0"`
}

// Clone returns a deep copy of the snapshot.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	return &Cart{Items: slices.Clone(c.Items), Total: c.Total}
}

// Without returns a copy of the cart with the given line filtered out.
// Total is left untouched.
func (c *Cart) Without(itemID ID) *Cart {
	if c == nil {
		return nil
	}
	out := &Cart{Total: c.Total, Items: make([]CartItem, 0, len(c.Items))}
	for _, it := range c.Items {
		if it.ID != itemID {
			out.Items = append(out.Items, it)
		}
	}
	return out
}

// Item returns the line with the given id.
func (c *Cart) Item(itemID ID) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, it := range c.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return CartItem{}, false
}

// Count returns the number of units across all lines.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Review is a customer review attached to a product.
type Review struct {
	CreatedAt time.Time `json:"createdAt,omitempty"`
	Name      string    `json:"name,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Rating    float64   `json:"rating"              validate:"gte=0,lte=5"`
}

// Product is a catalog record. Products are read-only for the storefront.
type Product struct {
	ID          ID       `json:"id"                    validate:"required"`
	Name        string   `json:"name"                  validate:"required"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Category    string   `json:"category,omitempty"`
	Reviews     []Review `json:"reviews,omitempty"     validate:"dive"`
	Price       float64  `json:"price"                 validate:"gte=0"`
	Rating      float64  `json:"rating"                validate:"gte=0,lte=5"`
	NumReviews  int      `json:"numReviews"            validate:"gte=0"`
	Stock       int      `json:"stock"                 validate:"gte=0"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var aux struct {
		plain
		DocID        ID   `json:"_id"`
		CountInStock *int `json:"countInStock"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Product(aux.plain)
	if p.ID == "" {
		p.ID = aux.DocID
	}
	if p.Stock == 0 && aux.CountInStock != nil {
		p.Stock = *aux.CountInStock
	}
	if p.NumReviews == 0 {
		p.NumReviews = len(p.Reviews)
	}
	return nil
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductQuery holds the optional filters accepted by the product listing.
type ProductQuery struct {
	Search   string
	Category string
}
