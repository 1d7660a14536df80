package handler

import (
	"net/http"

	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the landing page with the warehouse totals.
type DashboardHandler struct {
	BaseHandler
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) dashboard(c *gin.Context) (*console.Dashboard, bool) {
	ctrl, ok := h.navigate(c, console.ViewDashboard)
	if !ok {
		return nil, false
	}
	d, ok := ctrl.(*console.Dashboard)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return nil, false
	}
	return d, true
}

// Index sends the browser to the dashboard.
func (h *DashboardHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard")
}

// Show renders the stats as of the last refresh.
func (h *DashboardHandler) Show(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "dashboard.tmpl", console.ViewDashboard, d, d.State())
}

// Refresh fetches the stats again.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	_ = d.Refresh(c.Request.Context())
	h.seeOther(c, "/dashboard")
}

// RegisterRoutes implements router.RouteRegistrar
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Index)

	g := router.NewDomainGroup("dashboard", "/dashboard")
	g.GET("", h.Show)
	g.POST("/refresh", h.Refresh)
	g.RegisterRoutes(rg)
}
