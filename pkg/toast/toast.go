// Package toast defines the transient notifications shown to visitors.
//
// Messages live in messages.yaml and are looked up by key, so handlers never
// hard-code user-facing text:
//
//	c.SetFlash("toast", toast.Get(toast.CartAdded))
package toast

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Kind selects the visual style of a toast.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Toast is a single notification.
type Toast struct {
	Kind    Kind   `json:"kind"    yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Keys of the built-in messages.
const (
	LoginSuccess   = "login.success"
	LoginRequired  = "login.required"
	LoginFailed    = "login.failed"
	LoginMissing   = "login.missing"
	RegisterOK     = "register.success"
	RegisterFailed = "register.failed"
	LogoutOK       = "logout.success"
	SessionExpired = "session.expired"
	NetworkError   = "network.error"
	CartAdded      = "cart.added"
	CartAddFailed  = "cart.add_failed"
	CartLoadFailed = "cart.load_failed"
	CartUpdateFail = "cart.update_failed"
	CartRemoved    = "cart.removed"
	CartRemoveFail = "cart.remove_failed"
	OrderPlaced    = "checkout.placed"
	CartEmpty      = "checkout.empty"
	ProductMissing = "product.not_found"
	Subscribed     = "newsletter.subscribed"
)

//go:embed messages.yaml
var builtin []byte

// Catalog maps keys to toasts.
type Catalog map[string]Toast

// Parse decodes a YAML catalog and checks every entry.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("toast: parse catalog: %w", err)
	}
	for key, t := range c {
		switch t.Kind {
		case Success, Error, Info:
		default:
			return nil, fmt.Errorf("toast: %s: unknown kind %q", key, t.Kind)
		}
		if t.Message == "" {
			return nil, fmt.Errorf("toast: %s: empty message", key)
		}
	}
	return c, nil
}

var defaults = sync.OnceValue(func() Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
})

// Get returns the built-in toast for key. Unknown keys render the key
// itself as an info toast.
func Get(key string) Toast {
	if t, ok := defaults()[key]; ok {
		return t
	}
	return Toast{Kind: Info, Message: key}
}

// Errorf builds an error toast with a custom message, e.g. one returned
// by the API.
func Errorf(format string, args ...any) Toast {
	return Toast{Kind: Error, Message: fmt.Sprintf(format, args...)}
}
