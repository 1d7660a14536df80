package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/domain/warehouse"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler serves the products view: the paged list, name search, the
// product form and its image uploads.
type ProductHandler struct {
	listHandler[warehouse.Product, *console.ProductForm, *console.ProductsView]
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(limits Limits) *ProductHandler {
	return &ProductHandler{listHandler[warehouse.Product, *console.ProductForm, *console.ProductsView]{
		view:     console.ViewProducts,
		base:     "/products",
		template: "products.tmpl",
		limits:   limits,
		bind:     bindProductDraft,
	}}
}

func bindProductDraft(c *gin.Context, f *console.ProductForm) error {
	var d console.ProductDraft
	if err := c.ShouldBind(&d); err != nil {
		return err
	}
	f.SetDraft(d)
	return nil
}

// Search filters the list by name. An empty term returns to the paged list.
func (h *ProductHandler) Search(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	_ = ctrl.Search(c.Request.Context(), c.PostForm("q"))
	h.seeOther(c, h.location(ctrl))
}

// AddImages reads the uploaded "images" files into the open form. The typed
// draft travels with the upload so it is not lost.
func (h *ProductHandler) AddImages(c *gin.Context) {
	ctrl, form, ok := h.openForm(c)
	if !ok {
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		h.renderList(c, http.StatusBadRequest, ctrl, "No images were uploaded.")
		return
	}
	files := mf.File["images"]
	sources := make([]console.ImageSource, 0, len(files))
	for _, fh := range files {
		sources = append(sources, console.ImageSource{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	if err := form.AddImages(c.Request.Context(), sources); err != nil {
		logger.GetGinLogger(c).Warn("Some images were rejected", zap.Int("files", len(files)), zap.Error(err))
		h.renderList(c, http.StatusUnprocessableEntity, ctrl, "Some files were not added: "+err.Error())
		return
	}
	h.seeOther(c, h.location(ctrl))
}

// RemoveImage drops one image from the open form.
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	ctrl, form, ok := h.openForm(c)
	if !ok {
		return
	}
	i, err := strconv.Atoi(c.Param("index"))
	if err == nil {
		err = form.RemoveImage(i)
	}
	if err != nil {
		h.renderList(c, http.StatusBadRequest, ctrl, "That image is no longer in the form.")
		return
	}
	h.seeOther(c, h.location(ctrl))
}

// openForm returns the open form with the posted draft applied. Without an
// open form it redirects to the list.
func (h *ProductHandler) openForm(c *gin.Context) (*console.ProductsView, *console.ProductForm, bool) {
	ctrl, ok := h.controller(c)
	if !ok {
		return nil, nil, false
	}
	form, open := ctrl.Form()
	if !open {
		h.seeOther(c, h.location(ctrl))
		return nil, nil, false
	}
	if err := bindProductDraft(c, form); err != nil {
		h.renderList(c, http.StatusBadRequest, ctrl, "The form could not be read.")
		return nil, nil, false
	}
	return ctrl, form, true
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	list, form := h.groups()
	list.POST("/search", h.Search)
	form.POST("/images", h.AddImages)
	form.POST("/images/:index/delete", h.RemoveImage)

	list.RegisterRoutes(rg)
	form.RegisterRoutes(rg)
}
