package console

import (
	"github.com/erp/console/internal/domain/warehouse"
	"go.uber.org/zap"
)

// ProductsView lists products with paging, name search and the product form.
type ProductsView struct {
	*listView[warehouse.Product, *ProductForm]
}

// NewProductsView creates the products controller.
func NewProductsView(api ProductAPI, pageSize int, log *zap.Logger, alerts AlertRecorder) *ProductsView {
	return &ProductsView{newListView(listConfig[warehouse.Product, *ProductForm]{
		name:    "products",
		noun:    "product",
		size:    pageSize,
		api:     api,
		remove:  api.Delete,
		search:  api.Search,
		idOf:    func(p warehouse.Product) string { return p.ID },
		newForm: func(p *warehouse.Product) *ProductForm { return NewProductForm(api, p) },
		log:     log,
		alerts:  alerts,
	})}
}

// ShelvesView lists shelves with paging and the shelf form.
type ShelvesView struct {
	*listView[warehouse.Shelf, *ShelfForm]
}

// NewShelvesView creates the shelves controller.
func NewShelvesView(api ShelfAPI, pageSize int, log *zap.Logger, alerts AlertRecorder) *ShelvesView {
	return &ShelvesView{newListView(listConfig[warehouse.Shelf, *ShelfForm]{
		name:    "shelves",
		noun:    "shelf",
		size:    pageSize,
		api:     api,
		remove:  api.Delete,
		idOf:    func(s warehouse.Shelf) string { return s.ID },
		newForm: func(s *warehouse.Shelf) *ShelfForm { return NewShelfForm(api, s) },
		log:     log,
		alerts:  alerts,
	})}
}

// RobotsView lists robots with paging and the robot form.
type RobotsView struct {
	*listView[warehouse.Robot, *RobotForm]
}

// NewRobotsView creates the robots controller.
func NewRobotsView(api RobotAPI, pageSize int, log *zap.Logger, alerts AlertRecorder) *RobotsView {
	return &RobotsView{newListView(listConfig[warehouse.Robot, *RobotForm]{
		name:    "robots",
		noun:    "robot",
		size:    pageSize,
		api:     api,
		remove:  api.Delete,
		idOf:    func(r warehouse.Robot) string { return r.ID },
		newForm: func(r *warehouse.Robot) *RobotForm { return NewRobotForm(api, r) },
		log:     log,
		alerts:  alerts,
	})}
}
