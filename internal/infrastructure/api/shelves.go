package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/erp/console/internal/domain/warehouse"
)

// ShelfClient talks to /shelves, including the shelf-product relationship endpoints.
type ShelfClient struct {
	resource[warehouse.Shelf, warehouse.ShelfPayload]
}

// NewShelfClient creates a ShelfClient on c.
func NewShelfClient(c *Client) *ShelfClient {
	return &ShelfClient{resource[warehouse.Shelf, warehouse.ShelfPayload]{client: c, name: "shelves"}}
}

// AddProduct links productID to shelfID.
func (s *ShelfClient) AddProduct(ctx context.Context, shelfID, productID string) (bool, error) {
	return s.edge(ctx, http.MethodPost, shelfID, productID)
}

// RemoveProduct unlinks productID from shelfID.
func (s *ShelfClient) RemoveProduct(ctx context.Context, shelfID, productID string) (bool, error) {
	return s.edge(ctx, http.MethodDelete, shelfID, productID)
}

func (s *ShelfClient) edge(ctx context.Context, method, shelfID, productID string) (bool, error) {
	if shelfID == "" || productID == "" {
		return false, warehouse.ErrMissingIdentity
	}
	return doJSON[bool](ctx, s.client, Request{
		Method:   method,
		Path:     "/shelves/" + url.PathEscape(shelfID) + "/products/" + url.PathEscape(productID),
		Route:    "/shelves/{id}/products/{productId}",
		Resource: s.name,
	})
}

// SearchProducts matches products stored on one shelf by keyword.
func (s *ShelfClient) SearchProducts(ctx context.Context, shelfID, keyword string) ([]warehouse.Product, error) {
	if shelfID == "" {
		return nil, warehouse.ErrMissingIdentity
	}
	result, err := doJSON[[]warehouse.Product](ctx, s.client, Request{
		Method:   http.MethodGet,
		Path:     "/shelves/" + url.PathEscape(shelfID) + "/products/search",
		Route:    "/shelves/{id}/products/search",
		Resource: s.name,
		Query:    url.Values{"keyword": {keyword}},
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []warehouse.Product{}
	}
	return result, nil
}
