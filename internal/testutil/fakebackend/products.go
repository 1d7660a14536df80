package fakebackend

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/gin-gonic/gin"
)

// SeedProducts inserts n generated products and returns them.
func (b *Backend) SeedProducts(n int) []warehouse.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]warehouse.Product, 0, n)
	for range n {
		p := warehouse.Product{
			ID:              newID(),
			Name:            b.faker.ProductName(),
			Price:           randomPrice(b.faker),
			Category:        warehouse.Categories[b.faker.Number(0, len(warehouse.Categories)-1)],
			Tags:            []string{b.faker.Word(), b.faker.Word()},
			QuantityInStock: b.faker.Number(0, 500),
			Available:       b.faker.Bool(),
			LocalizedNames:  map[string]string{},
			ImageURLs:       []string{warehouse.PlaceholderImage},
			CreatedAt:       now(),
			UpdatedAt:       now(),
		}
		b.products = append(b.products, p)
		out = append(out, p)
	}
	return out
}

// PutProduct inserts or replaces p as is.
func (b *Backend) PutProduct(p warehouse.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := findIndex(b.products, productID, p.ID); i >= 0 {
		b.products[i] = p
		return
	}
	b.products = append(b.products, p)
}

// Products returns a copy of the stored products.
func (b *Backend) Products() []warehouse.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]warehouse.Product(nil), b.products...)
}

func productID(p warehouse.Product) string { return p.ID }

func (b *Backend) listProducts(c *gin.Context) {
	b.mu.Lock()
	items := append([]warehouse.Product(nil), b.products...)
	b.mu.Unlock()
	paginate(c, items)
}

func (b *Backend) getProduct(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.products, productID, c.Param("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	respond(c, b.products[i])
}

func (b *Backend) saveProduct(c *gin.Context) {
	var p warehouse.ProductPayload
	if err := json.Unmarshal(bodyOf(c), &p); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	record := warehouse.Product{
		Name:            p.Name,
		Descriptions:    p.Descriptions,
		Price:           p.Price,
		Category:        p.Category,
		Tags:            p.Tags,
		QuantityInStock: p.QuantityInStock,
		Available:       p.Available,
		LocalizedNames:  p.LocalizedNames,
		ImageURLs:       p.ImageBase64List,
		UpdatedAt:       now(),
	}
	if c.Request.Method == http.MethodPost {
		record.ID = newID()
		record.CreatedAt = record.UpdatedAt
		b.products = append(b.products, record)
		respond(c, true)
		return
	}

	i := findIndex(b.products, productID, p.ID)
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	record.ID = p.ID
	record.CreatedAt = b.products[i].CreatedAt
	b.products[i] = record
	respond(c, true)
}

func (b *Backend) deleteProduct(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.products, productID, c.Query("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	b.products = append(b.products[:i], b.products[i+1:]...)
	respond(c, true)
}

func (b *Backend) searchProducts(c *gin.Context) {
	q := strings.ToLower(c.Query("q"))
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := []warehouse.Product{}
	for _, p := range b.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matches = append(matches, p)
		}
	}
	respond(c, matches)
}
