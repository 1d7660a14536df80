package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/erp/console/internal/interfaces/http/middleware"
	"github.com/erp/console/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listController is the surface of console.ProductsView, ShelvesView and
// RobotsView the list pages drive.
type listController[T any, F any] interface {
	console.Controller
	State() console.ListState[T]
	Reload(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	GoTo(ctx context.Context, page int) error
	DeletePrompt() string
	Delete(ctx context.Context, id string, confirm console.Confirm) (bool, error)
	OpenCreate() F
	OpenEdit(ctx context.Context, id string) (F, error)
	Form() (F, bool)
	CloseForm(ctx context.Context) error
	SubmitForm(ctx context.Context) error
}

// Limits bounds request bodies.
type Limits struct {
	Body   int64 // every console form
	Upload int64 // forms that may carry images
}

// ListPage is the content of a list page.
type ListPage[T any] struct {
	Base       string
	State      console.ListState[T]
	PageNumber int // one-based
	PageCount  int
	Form       any // nil while no form is open
	Notice     string
}

// ConfirmPage is the content of a delete confirmation page.
type ConfirmPage struct {
	Prompt string
	Action string
	Cancel string
}

// listHandler serves one paginated view: rendering, paging, the form modal and deletes.
type listHandler[T any, F any, C listController[T, F]] struct {
	BaseHandler
	view     console.View
	base     string
	template string
	limits   Limits
	bind     func(c *gin.Context, form F) error
}

func (h *listHandler[T, F, C]) controller(c *gin.Context) (C, bool) {
	var zero C
	ctrl, ok := h.navigate(c, h.view)
	if !ok {
		return zero, false
	}
	typed, ok := ctrl.(C)
	if !ok {
		logger.GetGinLogger(c).Error("Unexpected controller for view", zap.String("view", string(h.view)))
		c.AbortWithStatus(http.StatusInternalServerError)
		return zero, false
	}
	return typed, true
}

// location is where a mutation redirects to: the current page, or the bare
// list while a search is active.
func (h *listHandler[T, F, C]) location(ctrl C) string {
	s := ctrl.State()
	if s.SearchTerm != "" || s.Page == 0 {
		return h.base
	}
	return h.base + "?page=" + strconv.Itoa(s.Page+1)
}

func (h *listHandler[T, F, C]) renderList(c *gin.Context, status int, ctrl C, notice string) {
	s := ctrl.State()
	page := ListPage[T]{
		Base:       h.base,
		State:      s,
		PageNumber: s.Page + 1,
		PageCount:  max(s.TotalPages, 1),
		Notice:     notice,
	}
	if f, open := ctrl.Form(); open {
		page.Form = f
	}
	h.render(c, status, h.template, h.view, ctrl, page)
}

// List renders the current page. ?page=N (one-based) jumps to page N.
func (h *listHandler[T, F, C]) List(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if p := c.Query("page"); p != "" && ctrl.State().SearchTerm == "" {
		if n, err := strconv.Atoi(p); err == nil {
			_ = ctrl.GoTo(c.Request.Context(), n-1)
		}
	}
	h.renderList(c, http.StatusOK, ctrl, "")
}

// Next moves one page forward.
func (h *listHandler[T, F, C]) Next(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	_ = ctrl.Next(c.Request.Context())
	h.seeOther(c, h.location(ctrl))
}

// Prev moves one page back.
func (h *listHandler[T, F, C]) Prev(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	_ = ctrl.Prev(c.Request.Context())
	h.seeOther(c, h.location(ctrl))
}

// Refresh reloads the current page.
func (h *listHandler[T, F, C]) Refresh(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	_ = ctrl.Reload(c.Request.Context())
	h.seeOther(c, h.location(ctrl))
}

// New opens an empty form.
func (h *listHandler[T, F, C]) New(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.OpenCreate()
	h.renderList(c, http.StatusOK, ctrl, "")
}

// Edit opens the form for one record.
func (h *listHandler[T, F, C]) Edit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if _, err := ctrl.OpenEdit(c.Request.Context(), c.Param("id")); err != nil {
		h.renderList(c, statusFor(err), ctrl, "This record could not be loaded.")
		return
	}
	h.renderList(c, http.StatusOK, ctrl, "")
}

// Submit saves the open form. Invalid drafts re-render with field errors;
// backend failures re-render with the alert.
func (h *listHandler[T, F, C]) Submit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	form, open := ctrl.Form()
	if !open {
		h.seeOther(c, h.location(ctrl))
		return
	}
	if err := h.bind(c, form); err != nil {
		logger.GetGinLogger(c).Warn("Unreadable form post", zap.Error(err))
		h.renderList(c, http.StatusBadRequest, ctrl, "The form could not be read.")
		return
	}

	err := ctrl.SubmitForm(c.Request.Context())
	var invalid console.ValidationErrors
	switch {
	case err == nil:
		h.seeOther(c, h.location(ctrl))
	case errors.As(err, &invalid):
		h.renderList(c, http.StatusUnprocessableEntity, ctrl, "")
	default:
		h.renderList(c, statusFor(err), ctrl, "")
	}
}

// Cancel closes the form without saving.
func (h *listHandler[T, F, C]) Cancel(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	_ = ctrl.CloseForm(c.Request.Context())
	h.seeOther(c, h.location(ctrl))
}

// ConfirmDelete asks before deleting.
func (h *listHandler[T, F, C]) ConfirmDelete(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "confirm.tmpl", h.view, ctrl, ConfirmPage{
		Prompt: ctrl.DeletePrompt(),
		Action: h.base + "/" + c.Param("id") + "/delete",
		Cancel: h.location(ctrl),
	})
}

// Delete removes a record when the post carries confirm=yes.
func (h *listHandler[T, F, C]) Delete(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	confirmed := c.PostForm("confirm") == "yes"
	_, _ = ctrl.Delete(c.Request.Context(), c.Param("id"), func(string) bool { return confirmed })
	h.seeOther(c, h.location(ctrl))
}

// groups builds the routes shared by every list view. The form group gets the
// upload limit so image posts fit.
func (h *listHandler[T, F, C]) groups() (list, form *router.DomainGroup) {
	list = router.NewDomainGroup(string(h.view), h.base).Use(middleware.BodyLimit(h.limits.Body))
	list.GET("", h.List)
	list.POST("/page/next", h.Next)
	list.POST("/page/prev", h.Prev)
	list.POST("/refresh", h.Refresh)
	list.GET("/new", h.New)
	list.GET("/:id/edit", h.Edit)
	list.GET("/:id/delete", h.ConfirmDelete)
	list.POST("/:id/delete", h.Delete)

	form = router.NewDomainGroup(string(h.view)+"-form", h.base+"/form").Use(middleware.BodyLimit(h.limits.Upload))
	form.POST("", h.Submit)
	form.POST("/cancel", h.Cancel)
	return list, form
}
