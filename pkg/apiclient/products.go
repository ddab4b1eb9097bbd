package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Products lists the catalog. Empty query fields are not sent.
// The API may answer with a bare array or with {"products": [...]}.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &raw); err != nil {
		return nil, err
	}

	var products []Product
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Products []Product `json:"products"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		products = wrapped.Products
	} else if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	for i := range products {
		if err := c.check(&products[i]); err != nil {
			return nil, err
		}
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Product fetches a single product. A missing product yields an error
// matching ErrNotFound.
func (c *Client) Product(ctx context.Context, id ID) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, "/products/"+segment(id), nil, nil, &p); err != nil {
		return nil, err
	}
	if err := c.check(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
