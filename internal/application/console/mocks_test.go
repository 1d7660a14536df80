package console

import (
	"context"
	"sync"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/stretchr/testify/mock"
)

// MockProductAPI implements ProductAPI for testing
type MockProductAPI struct {
	mock.Mock
}

func (m *MockProductAPI) GetAll(ctx context.Context, page, size int) (*warehouse.Page[warehouse.Product], error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Page[warehouse.Product]), args.Error(1)
}

func (m *MockProductAPI) GetByID(ctx context.Context, id string) (*warehouse.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Product), args.Error(1)
}

func (m *MockProductAPI) Create(ctx context.Context, p warehouse.ProductPayload) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductAPI) Update(ctx context.Context, p warehouse.ProductPayload) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductAPI) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductAPI) Search(ctx context.Context, keyword string) ([]warehouse.Product, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]warehouse.Product), args.Error(1)
}

// MockShelfAPI implements ShelfAPI for testing
type MockShelfAPI struct {
	mock.Mock
}

func (m *MockShelfAPI) GetAll(ctx context.Context, page, size int) (*warehouse.Page[warehouse.Shelf], error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Page[warehouse.Shelf]), args.Error(1)
}

func (m *MockShelfAPI) GetByID(ctx context.Context, id string) (*warehouse.Shelf, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Shelf), args.Error(1)
}

func (m *MockShelfAPI) Create(ctx context.Context, p warehouse.ShelfPayload) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockShelfAPI) Update(ctx context.Context, p warehouse.ShelfPayload) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockShelfAPI) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockRobotAPI implements RobotAPI for testing
type MockRobotAPI struct {
	mock.Mock
}

func (m *MockRobotAPI) GetAll(ctx context.Context, page, size int) (*warehouse.Page[warehouse.Robot], error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Page[warehouse.Robot]), args.Error(1)
}

func (m *MockRobotAPI) GetByID(ctx context.Context, id string) (*warehouse.Robot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Robot), args.Error(1)
}

func (m *MockRobotAPI) Create(ctx context.Context, p warehouse.RobotPayload) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockRobotAPI) Update(ctx context.Context, p warehouse.RobotPayload) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockRobotAPI) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// countingAlerts records AlertRaised calls
type countingAlerts struct {
	mu    sync.Mutex
	views []string
}

func (a *countingAlerts) AlertRaised(view string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.views = append(a.views, view)
}

func (a *countingAlerts) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.views)
}

func productPage(number, totalPages int, total int64, ids ...string) *warehouse.Page[warehouse.Product] {
	content := make([]warehouse.Product, 0, len(ids))
	for _, id := range ids {
		content = append(content, warehouse.Product{ID: id, Name: "Product " + id})
	}
	return &warehouse.Page[warehouse.Product]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          10,
		Number:        number,
	}
}

func acceptAll(string) bool  { return true }
func declineAll(string) bool { return false }
