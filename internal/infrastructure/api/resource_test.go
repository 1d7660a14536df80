package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/erp/console/internal/testutil/fakebackend"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_GetAll(t *testing.T) {
	backend := fakebackend.New(t)
	seeded := backend.SeedProducts(23)
	products := NewProductClient(newTestClient(t, backend.URL(), nil))

	page, err := products.GetAll(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(23), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Number)
	require.Len(t, page.Content, 3)
	assert.Equal(t, seeded[20].ID, page.Content[0].ID)
	assert.Equal(t, seeded[20].Price.Display(), page.Content[0].Price.Display())
}

func TestResource_GetAll_RejectsBadPageLocally(t *testing.T) {
	backend := fakebackend.New(t)
	robots := NewRobotClient(newTestClient(t, backend.URL(), nil))

	_, err := robots.GetAll(context.Background(), -1, 10)
	assert.ErrorIs(t, err, warehouse.ErrInvalidPageRequest)
	_, err = robots.GetAll(context.Background(), 0, 0)
	assert.ErrorIs(t, err, warehouse.ErrInvalidPageRequest)

	assert.Equal(t, 0, backend.TotalCalls())
}

func TestResource_GetByID(t *testing.T) {
	backend := fakebackend.New(t)
	robot := backend.SeedRobots(1)[0]
	robots := NewRobotClient(newTestClient(t, backend.URL(), nil))

	got, err := robots.GetByID(context.Background(), robot.ID)
	require.NoError(t, err)
	assert.Equal(t, robot.Name, got.Name)

	_, err = robots.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRequestFailed)

	_, err = robots.GetByID(context.Background(), "")
	assert.ErrorIs(t, err, warehouse.ErrMissingIdentity)
}

func TestResource_CreateUpdateDelete(t *testing.T) {
	backend := fakebackend.New(t)
	products := NewProductClient(newTestClient(t, backend.URL(), nil))
	ctx := context.Background()

	ok, err := products.Create(ctx, warehouse.ProductPayload{
		Name:            "Widget",
		Price:           warehouse.NewPrice(decimal.RequireFromString("9.99")),
		Category:        "TOYS",
		QuantityInStock: 3,
		Available:       true,
		Tags:            []string{"blue"},
		Descriptions:    json.RawMessage(`[]`),
		LocalizedNames:  map[string]string{},
		ImageBase64List: []string{warehouse.PlaceholderImage},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(backend.LastBody(http.MethodPost, "/products"), &sent))
	assert.NotContains(t, sent, "id")
	assert.Equal(t, 9.99, sent["price"])

	stored := backend.Products()
	require.Len(t, stored, 1)
	id := stored[0].ID

	_, err = products.Update(ctx, warehouse.ProductPayload{Name: "x"})
	assert.ErrorIs(t, err, warehouse.ErrMissingIdentity)
	assert.Equal(t, 0, backend.Calls(http.MethodPut, "/products"))

	ok, err = products.Update(ctx, warehouse.ProductPayload{ID: id, Name: "Widget 2", Category: "TOYS"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Widget 2", backend.Products()[0].Name)

	ok, err = products.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, backend.Products())

	_, err = products.Delete(ctx, id)
	var failed *RequestFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, http.StatusNotFound, failed.StatusCode)
}

func TestProductClient_Search(t *testing.T) {
	backend := fakebackend.New(t)
	backend.PutProduct(warehouse.Product{ID: "p1", Name: "Blue Widget"})
	backend.PutProduct(warehouse.Product{ID: "p2", Name: "Red Gadget"})
	products := NewProductClient(newTestClient(t, backend.URL(), nil))

	got, err := products.Search(context.Background(), "widget")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	got, err = products.Search(context.Background(), "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestShelfClient_Edges(t *testing.T) {
	backend := fakebackend.New(t)
	shelf := backend.SeedShelves(1)[0]
	backend.PutProduct(warehouse.Product{ID: "p1", Name: "Bolt"})
	backend.PutProduct(warehouse.Product{ID: "p2", Name: "Nut"})
	shelves := NewShelfClient(newTestClient(t, backend.URL(), nil))
	ctx := context.Background()

	ok, err := shelves.AddProduct(ctx, shelf.ID, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = shelves.AddProduct(ctx, shelf.ID, "p2")
	require.NoError(t, err)

	found, err := shelves.SearchProducts(ctx, shelf.ID, "bol")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p1", found[0].ID)

	_, err = shelves.RemoveProduct(ctx, shelf.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, backend.Shelves()[0].ProductIDs)

	_, err = shelves.AddProduct(ctx, "", "p1")
	assert.ErrorIs(t, err, warehouse.ErrMissingIdentity)
	assert.Equal(t, 2, backend.Calls(http.MethodPost, "/shelves/:id/products/:productId"))
}

func TestRobotClient_OmitsEmptyShelf(t *testing.T) {
	backend := fakebackend.New(t)
	robots := NewRobotClient(newTestClient(t, backend.URL(), nil))

	_, err := robots.Create(context.Background(), warehouse.RobotPayload{Name: "MP400-Unit-01", Status: "IDLE", Available: true})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(backend.LastBody(http.MethodPost, "/robots"), &sent))
	assert.NotContains(t, sent, "currentShelfId")
	assert.Nil(t, backend.Robots()[0].CurrentShelfID)
}

func TestResource_InjectedFailure(t *testing.T) {
	backend := fakebackend.New(t)
	backend.SeedShelves(3)
	backend.Fail(http.MethodGet, "/shelves", http.StatusInternalServerError)
	shelves := NewShelfClient(newTestClient(t, backend.URL(), nil))

	_, err := shelves.GetAll(context.Background(), 0, 10)
	require.Error(t, err)
	assert.Equal(t, "API Error: Internal Server Error", err.Error())

	backend.Recover(http.MethodGet, "/shelves")
	page, err := shelves.GetAll(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, page.Content, 3)
}
