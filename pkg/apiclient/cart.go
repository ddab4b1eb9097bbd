package apiclient

import (
	"context"
	"net/http"
)

type addToCartRequest struct {
	ProductID ID  `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Cart fetches the visitor's cart snapshot.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	return c.cartCall(ctx, http.MethodGet, "/cart", nil)
}

// AddToCart adds quantity units of a product and returns the new snapshot.
func (c *Client) AddToCart(ctx context.Context, productID ID, quantity int) (*Cart, error) {
	return c.cartCall(ctx, http.MethodPost, "/cart/add", addToCartRequest{ProductID: productID, Quantity: quantity})
}

// IncrementItem bumps a cart line by one and returns the new snapshot.
func (c *Client) IncrementItem(ctx context.Context, itemID ID) (*Cart, error) {
	return c.cartCall(ctx, http.MethodPut, "/cart/"+segment(itemID)+"/increment", nil)
}

// DecrementItem lowers a cart line by one and returns the new snapshot.
func (c *Client) DecrementItem(ctx context.Context, itemID ID) (*Cart, error) {
	return c.cartCall(ctx, http.MethodPut, "/cart/"+segment(itemID)+"/decrement", nil)
}

// RemoveItem deletes a cart line. The response body is ignored.
func (c *Client) RemoveItem(ctx context.Context, itemID ID) error {
	return c.do(ctx, http.MethodDelete, "/cart/"+segment(itemID), nil, nil, nil)
}

// ClearCart deletes every line of the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil, nil)
}

func (c *Client) cartCall(ctx context.Context, method, path string, body any) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, method, path, nil, body, &cart); err != nil {
		return nil, err
	}
	if err := c.check(&cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	return &cart, nil
}
