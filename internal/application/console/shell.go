package console

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// View names one of the console's screens.
type View string

// Views
const (
	ViewDashboard View = "dashboard"
	ViewProducts  View = "products"
	ViewShelves   View = "shelves"
	ViewRobots    View = "robots"
)

// Views lists the views in navigation order.
var Views = []View{ViewDashboard, ViewProducts, ViewShelves, ViewRobots}

// ParseView maps a string to a View. Anything unknown is the dashboard.
func ParseView(s string) View {
	switch v := View(s); v {
	case ViewProducts, ViewShelves, ViewRobots:
		return v
	default:
		return ViewDashboard
	}
}

// Title is the navigation label.
func (v View) Title() string {
	switch v {
	case ViewProducts:
		return "Products"
	case ViewShelves:
		return "Shelves"
	case ViewRobots:
		return "Robots"
	default:
		return "Dashboard"
	}
}

// Controller is a mounted view.
type Controller interface {
	Mount(ctx context.Context) error
	Dispose()
	TakeAlert() string
}

// Factory builds a fresh controller for a view.
type Factory func(View) Controller

// Deps are the collaborators the default factory wires into controllers.
type Deps struct {
	Products    ProductAPI
	Shelves     ShelfAPI
	Robots      RobotAPI
	PageSize    int
	RobotSample int
	BackendURL  string
	Logger      *zap.Logger
	Alerts      AlertRecorder
}

// NewFactory returns the factory used in production.
func NewFactory(d Deps) Factory {
	return func(v View) Controller {
		switch v {
		case ViewProducts:
			return NewProductsView(d.Products, d.PageSize, d.Logger, d.Alerts)
		case ViewShelves:
			return NewShelvesView(d.Shelves, d.PageSize, d.Logger, d.Alerts)
		case ViewRobots:
			return NewRobotsView(d.Robots, d.PageSize, d.Logger, d.Alerts)
		default:
			return NewDashboard(DashboardConfig{
				Products:    d.Products,
				Shelves:     d.Shelves,
				Robots:      d.Robots,
				RobotSample: d.RobotSample,
				BackendURL:  d.BackendURL,
				Logger:      d.Logger,
			})
		}
	}
}

// Shell holds the active view of one session. Switching views disposes the old
// controller before the new one is mounted.
type Shell struct {
	factory Factory

	mu      sync.Mutex
	active  View
	current Controller
}

// NewShell creates a shell with nothing mounted.
func NewShell(factory Factory) *Shell {
	return &Shell{factory: factory}
}

// Navigate makes view the active one and returns its controller. Navigating to
// the view already shown returns it untouched. A mount failure is returned
// alongside the controller, which stays mounted with empty state.
func (s *Shell) Navigate(ctx context.Context, view View) (Controller, error) {
	s.mu.Lock()
	if s.current != nil && s.active == view {
		c := s.current
		s.mu.Unlock()
		return c, nil
	}
	if s.current != nil {
		s.current.Dispose()
	}
	c := s.factory(view)
	s.active, s.current = view, c
	s.mu.Unlock()

	return c, c.Mount(ctx)
}

// Active returns the active view and its controller, nil before the first Navigate.
func (s *Shell) Active() (View, Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.current
}

// Close disposes the active controller.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Dispose()
		s.current = nil
	}
}
