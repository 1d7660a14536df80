package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erp/console/internal/domain/warehouse"
)

// payload is a write body that may carry the identity of an existing record.
type payload interface {
	Identity() string
}

// resource implements the list/get/create/update/delete contract shared by
// every backend collection. T is the read model, P the write body.
type resource[T any, P payload] struct {
	client *Client
	name   string // path segment and metric label
}

// GetAll fetches one zero-based page. Out-of-range arguments are rejected before any call.
func (r resource[T, P]) GetAll(ctx context.Context, page, size int) (*warehouse.Page[T], error) {
	if err := warehouse.ValidatePageRequest(page, size); err != nil {
		return nil, err
	}
	result, err := doJSON[warehouse.Page[T]](ctx, r.client, Request{
		Method:   http.MethodGet,
		Path:     "/" + r.name,
		Resource: r.name,
		Query: url.Values{
			"page": {strconv.Itoa(page)},
			"size": {strconv.Itoa(size)},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Content == nil {
		result.Content = []T{}
	}
	return &result, nil
}

// GetByID fetches a single record. An unknown id surfaces as a RequestFailedError.
func (r resource[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, warehouse.ErrMissingIdentity
	}
	result, err := doJSON[T](ctx, r.client, Request{
		Method:   http.MethodGet,
		Path:     "/" + r.name + "/" + url.PathEscape(id),
		Route:    "/" + r.name + "/{id}",
		Resource: r.name,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create posts a new record. The server assigns identity and timestamps.
func (r resource[T, P]) Create(ctx context.Context, p P) (bool, error) {
	return doJSON[bool](ctx, r.client, Request{
		Method:   http.MethodPost,
		Path:     "/" + r.name,
		Resource: r.name,
		Body:     p,
	})
}

// Update replaces the sent fields of an existing record.
func (r resource[T, P]) Update(ctx context.Context, p P) (bool, error) {
	if p.Identity() == "" {
		return false, warehouse.ErrMissingIdentity
	}
	return doJSON[bool](ctx, r.client, Request{
		Method:   http.MethodPut,
		Path:     "/" + r.name,
		Resource: r.name,
		Body:     p,
	})
}

// Delete removes a record by id.
func (r resource[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, warehouse.ErrMissingIdentity
	}
	return doJSON[bool](ctx, r.client, Request{
		Method:   http.MethodDelete,
		Path:     "/" + r.name,
		Resource: r.name,
		Query:    url.Values{"id": {id}},
	})
}
