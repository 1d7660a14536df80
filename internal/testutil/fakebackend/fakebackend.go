// Package fakebackend is an in-memory stand-in for the warehouse backend REST
// API. It speaks the same envelope and paging shapes, counts calls per route
// and can be told to fail or stall individual routes.
package fakebackend

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/erp/console/internal/domain/warehouse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Backend is a running fake. All methods are safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	products []warehouse.Product
	shelves  []warehouse.Shelf
	robots   []warehouse.Robot

	calls    map[string]int
	bodies   map[string][]byte
	failures map[string]int
	gates    map[string]chan struct{}

	faker  *gofakeit.Faker
	server *httptest.Server
}

// New starts a fake backend that is closed when t finishes.
func New(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		calls:    make(map[string]int),
		bodies:   make(map[string][]byte),
		failures: make(map[string]int),
		gates:    make(map[string]chan struct{}),
		faker:    gofakeit.New(42),
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(func() {
		b.releaseAll()
		b.server.Close()
	})
	return b
}

// URL is the fake's base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

const bodyKey = "body"

func bodyOf(c *gin.Context) []byte {
	raw, _ := c.Get(bodyKey)
	b, _ := raw.([]byte)
	return b
}

func key(method, route string) string {
	return method + " " + route
}

// Calls returns how many requests reached method+route, where route is the
// gin template such as "/products" or "/shelves/:id/products/:productId".
func (b *Backend) Calls(method, route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key(method, route)]
}

// TotalCalls counts every request served.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// MutatingCalls counts POST, PUT and DELETE requests.
func (b *Backend) MutatingCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for k, c := range b.calls {
		if !strings.HasPrefix(k, http.MethodGet+" ") {
			n += c
		}
	}
	return n
}

// ResetCalls zeroes the call counters.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = make(map[string]int)
	b.bodies = make(map[string][]byte)
}

// LastBody returns the last request body sent to method+route.
func (b *Backend) LastBody(method, route string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key(method, route)]
}

// Fail makes method+route answer with status until Recover is called.
func (b *Backend) Fail(method, route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key(method, route)] = status
}

// Recover clears an injected failure.
func (b *Backend) Recover(method, route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, key(method, route))
}

// Stall blocks requests to method+route until the returned release func is
// called or the client gives up.
func (b *Backend) Stall(method, route string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.gates[key(method, route)] = ch
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.gates[key(method, route)] == ch {
				delete(b.gates, key(method, route))
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Backend) releaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, ch := range b.gates {
		close(ch)
		delete(b.gates, k)
	}
}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(b.intercept)

	r.GET("/products", b.listProducts)
	r.GET("/products/:id", b.getProduct)
	r.POST("/products", b.saveProduct)
	r.PUT("/products", b.saveProduct)
	r.DELETE("/products", b.deleteProduct)
	r.GET("/search/products/name", b.searchProducts)

	r.GET("/shelves", b.listShelves)
	r.GET("/shelves/:id", b.getShelf)
	r.POST("/shelves", b.saveShelf)
	r.PUT("/shelves", b.saveShelf)
	r.DELETE("/shelves", b.deleteShelf)
	r.POST("/shelves/:id/products/:productId", b.linkProduct)
	r.DELETE("/shelves/:id/products/:productId", b.unlinkProduct)
	r.GET("/shelves/:id/products/search", b.searchShelfProducts)

	r.GET("/robots", b.listRobots)
	r.GET("/robots/:id", b.getRobot)
	r.POST("/robots", b.saveRobot)
	r.PUT("/robots", b.saveRobot)
	r.DELETE("/robots", b.deleteRobot)
	return r
}

// intercept counts the call, records the body and applies stalls and failures.
func (b *Backend) intercept(c *gin.Context) {
	k := key(c.Request.Method, c.FullPath())

	var body []byte
	if c.Request.Body != nil {
		if raw, err := c.GetRawData(); err == nil && len(raw) > 0 {
			body = raw
			c.Set(bodyKey, raw)
		}
	}

	b.mu.Lock()
	b.calls[k]++
	if body != nil {
		b.bodies[k] = body
	}
	gate := b.gates[k]
	status := b.failures[k]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	if status != 0 {
		c.AbortWithStatus(status)
		return
	}
	c.Next()
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, warehouse.Envelope[any]{
		Data:      data,
		Status:    http.StatusOK,
		Message:   "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func paginate[T any](c *gin.Context, items []T) {
	page, err1 := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, err2 := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err1 != nil || err2 != nil || page < 0 || size <= 0 {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	start := min(page*size, total)
	end := min(start+size, total)

	content := make([]T, end-start)
	copy(content, items[start:end])
	respond(c, warehouse.Page[T]{
		Content:       content,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func findIndex[T any](items []T, id func(T) string, want string) int {
	return slices.IndexFunc(items, func(t T) bool { return id(t) == want })
}

func (b *Backend) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("fakebackend{products:%d shelves:%d robots:%d}", len(b.products), len(b.shelves), len(b.robots))
}

func randomPrice(f *gofakeit.Faker) warehouse.Price {
	return warehouse.NewPrice(decimal.NewFromFloat(f.Price(1, 1000)).Round(2))
}

func newID() string {
	return uuid.NewString()
}
