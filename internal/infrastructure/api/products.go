package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/erp/console/internal/domain/warehouse"
)

// ProductClient talks to /products and the product name search.
type ProductClient struct {
	resource[warehouse.Product, warehouse.ProductPayload]
}

// NewProductClient creates a ProductClient on c.
func NewProductClient(c *Client) *ProductClient {
	return &ProductClient{resource[warehouse.Product, warehouse.ProductPayload]{client: c, name: "products"}}
}

// Search matches products by name. The result is not paginated.
func (p *ProductClient) Search(ctx context.Context, keyword string) ([]warehouse.Product, error) {
	result, err := doJSON[[]warehouse.Product](ctx, p.client, Request{
		Method:   http.MethodGet,
		Path:     "/search/products/name",
		Resource: "search",
		Query:    url.Values{"q": {keyword}},
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []warehouse.Product{}
	}
	return result, nil
}
