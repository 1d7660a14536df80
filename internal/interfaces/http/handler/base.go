// Package handler renders the console's pages and turns form posts into
// controller calls. Every mutation answers with a redirect so a browser reload
// never repeats it.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/infrastructure/api"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/erp/console/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// PageData is what every page template receives.
type PageData struct {
	Title   string
	Nav     []NavItem
	Alert   string
	Content any
}

// NavItem is one entry of the sidebar.
type NavItem struct {
	Title  string
	Href   string
	Active bool
}

func navFor(active console.View) []NavItem {
	items := make([]NavItem, 0, len(console.Views))
	for _, v := range console.Views {
		items = append(items, NavItem{
			Title:  v.Title(),
			Href:   "/" + string(v),
			Active: v == active,
		})
	}
	return items
}

// render writes a full page. The controller's pending alert, if any, is taken
// and shown once.
func (h *BaseHandler) render(c *gin.Context, status int, name string, view console.View, ctrl console.Controller, content any) {
	alert := ""
	if ctrl != nil {
		alert = ctrl.TakeAlert()
	}
	c.HTML(status, name, PageData{
		Title:   view.Title(),
		Nav:     navFor(view),
		Alert:   alert,
		Content: content,
	})
}

// navigate makes view active in the session's shell and returns its controller.
// A failed mount is not fatal: the controller has logged it and renders what it has.
func (h *BaseHandler) navigate(c *gin.Context, view console.View) (console.Controller, bool) {
	sess := middleware.GetSession(c)
	if sess == nil {
		logger.GetGinLogger(c).Error("No console session bound to request")
		c.AbortWithStatus(http.StatusInternalServerError)
		return nil, false
	}
	ctrl, err := sess.Shell.Navigate(c.Request.Context(), view)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.GetGinLogger(c).Debug("View mounted without data", zap.String("view", string(view)), zap.Error(err))
	}
	return ctrl, true
}

// seeOther redirects after a POST.
func (h *BaseHandler) seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// statusFor picks the response status for a failed backend call.
func statusFor(err error) int {
	var failed *api.RequestFailedError
	if errors.As(err, &failed) && failed.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
