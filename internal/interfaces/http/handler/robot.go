package handler

import (
	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/domain/warehouse"
	"github.com/gin-gonic/gin"
)

// RobotHandler serves the robots view.
type RobotHandler struct {
	listHandler[warehouse.Robot, *console.RobotForm, *console.RobotsView]
}

// NewRobotHandler creates a new RobotHandler
func NewRobotHandler(limits Limits) *RobotHandler {
	return &RobotHandler{listHandler[warehouse.Robot, *console.RobotForm, *console.RobotsView]{
		view:     console.ViewRobots,
		base:     "/robots",
		template: "robots.tmpl",
		limits:   limits,
		bind: func(c *gin.Context, f *console.RobotForm) error {
			var d console.RobotDraft
			if err := c.ShouldBind(&d); err != nil {
				return err
			}
			f.SetDraft(d)
			return nil
		},
	}}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *RobotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	list, form := h.groups()
	list.RegisterRoutes(rg)
	form.RegisterRoutes(rg)
}
