package fakebackend

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/gin-gonic/gin"
)

// SeedShelves inserts n generated shelves and returns them.
func (b *Backend) SeedShelves(n int) []warehouse.Shelf {
	b.mu.Lock()
	defer b.mu.Unlock()
	warehouseID := b.faker.UUID()
	out := make([]warehouse.Shelf, 0, n)
	for range n {
		s := warehouse.Shelf{
			ID:          newID(),
			WarehouseID: warehouseID,
			XCoord:      b.faker.Number(0, 40),
			YCoord:      b.faker.Number(0, 40),
			Level:       b.faker.Number(0, 5),
			Available:   b.faker.Bool(),
			Status:      string(warehouse.ShelfStatuses[b.faker.Number(0, len(warehouse.ShelfStatuses)-1)]),
			ProductIDs:  []string{},
			CreatedAt:   now(),
			UpdatedAt:   now(),
		}
		b.shelves = append(b.shelves, s)
		out = append(out, s)
	}
	return out
}

// PutShelf inserts or replaces s as is.
func (b *Backend) PutShelf(s warehouse.Shelf) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := findIndex(b.shelves, shelfID, s.ID); i >= 0 {
		b.shelves[i] = s
		return
	}
	b.shelves = append(b.shelves, s)
}

// Shelves returns a copy of the stored shelves.
func (b *Backend) Shelves() []warehouse.Shelf {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]warehouse.Shelf(nil), b.shelves...)
}

func shelfID(s warehouse.Shelf) string { return s.ID }

func (b *Backend) listShelves(c *gin.Context) {
	b.mu.Lock()
	items := append([]warehouse.Shelf(nil), b.shelves...)
	b.mu.Unlock()
	paginate(c, items)
}

func (b *Backend) getShelf(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.shelves, shelfID, c.Param("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	respond(c, b.shelves[i])
}

func (b *Backend) saveShelf(c *gin.Context) {
	var p warehouse.ShelfPayload
	if err := json.Unmarshal(bodyOf(c), &p); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	record := warehouse.Shelf{
		WarehouseID: p.WarehouseID,
		XCoord:      p.XCoord,
		YCoord:      p.YCoord,
		Level:       p.Level,
		Available:   p.Available,
		Status:      p.Status,
		ProductIDs:  p.ProductIDs,
		UpdatedAt:   now(),
	}
	if c.Request.Method == http.MethodPost {
		record.ID = newID()
		record.CreatedAt = record.UpdatedAt
		b.shelves = append(b.shelves, record)
		respond(c, true)
		return
	}

	i := findIndex(b.shelves, shelfID, p.ID)
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	record.ID = p.ID
	record.CreatedAt = b.shelves[i].CreatedAt
	b.shelves[i] = record
	respond(c, true)
}

func (b *Backend) deleteShelf(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.shelves, shelfID, c.Query("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	b.shelves = append(b.shelves[:i], b.shelves[i+1:]...)
	respond(c, true)
}

func (b *Backend) linkProduct(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.shelves, shelfID, c.Param("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	pid := c.Param("productId")
	if !slices.Contains(b.shelves[i].ProductIDs, pid) {
		b.shelves[i].ProductIDs = append(b.shelves[i].ProductIDs, pid)
	}
	respond(c, true)
}

func (b *Backend) unlinkProduct(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.shelves, shelfID, c.Param("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	pid := c.Param("productId")
	b.shelves[i].ProductIDs = slices.DeleteFunc(b.shelves[i].ProductIDs, func(id string) bool { return id == pid })
	respond(c, true)
}

func (b *Backend) searchShelfProducts(c *gin.Context) {
	keyword := strings.ToLower(c.Query("keyword"))
	b.mu.Lock()
	defer b.mu.Unlock()
	i := findIndex(b.shelves, shelfID, c.Param("id"))
	if i < 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	matches := []warehouse.Product{}
	for _, p := range b.products {
		if slices.Contains(b.shelves[i].ProductIDs, p.ID) && strings.Contains(strings.ToLower(p.Name), keyword) {
			matches = append(matches, p)
		}
	}
	respond(c, matches)
}
