package handler

import (
	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/domain/warehouse"
	"github.com/gin-gonic/gin"
)

// ShelfHandler serves the shelves view.
type ShelfHandler struct {
	listHandler[warehouse.Shelf, *console.ShelfForm, *console.ShelvesView]
}

// NewShelfHandler creates a new ShelfHandler
func NewShelfHandler(limits Limits) *ShelfHandler {
	return &ShelfHandler{listHandler[warehouse.Shelf, *console.ShelfForm, *console.ShelvesView]{
		view:     console.ViewShelves,
		base:     "/shelves",
		template: "shelves.tmpl",
		limits:   limits,
		bind: func(c *gin.Context, f *console.ShelfForm) error {
			var d console.ShelfDraft
			if err := c.ShouldBind(&d); err != nil {
				return err
			}
			f.SetDraft(d)
			return nil
		},
	}}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ShelfHandler) RegisterRoutes(rg *gin.RouterGroup) {
	list, form := h.groups()
	list.RegisterRoutes(rg)
	form.RegisterRoutes(rg)
}
