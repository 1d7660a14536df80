package console

import (
	"context"
	"sync"
	"time"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/erp/console/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats are the dashboard counters.
type Stats struct {
	TotalProducts   int64
	TotalShelves    int64
	TotalRobots     int64
	AvailableRobots int
}

// DashboardState is a copy of the dashboard for rendering.
type DashboardState struct {
	Stats
	Loading     bool
	Loaded      bool
	Connected   bool
	BackendURL  string
	RefreshedAt time.Time
}

// Status is "Connected" after a successful refresh and "Unreachable" otherwise.
func (s DashboardState) Status() string {
	if s.Connected {
		return "Connected"
	}
	return "Unreachable"
}

// Dashboard reads one-element pages of each collection for their totals and a
// sample of robots to count the available ones. It refreshes on mount only.
type Dashboard struct {
	products    Lister[warehouse.Product]
	shelves     Lister[warehouse.Shelf]
	robots      Lister[warehouse.Robot]
	robotSample int
	backendURL  string
	log         *zap.Logger
	life        lifetime

	mu          sync.Mutex
	seq         uint64
	inFlight    int
	stats       Stats
	loaded      bool
	connected   bool
	refreshedAt time.Time
}

// DashboardConfig configures a Dashboard.
type DashboardConfig struct {
	Products    Lister[warehouse.Product]
	Shelves     Lister[warehouse.Shelf]
	Robots      Lister[warehouse.Robot]
	RobotSample int
	BackendURL  string
	Logger      *zap.Logger
}

// NewDashboard creates the dashboard controller.
func NewDashboard(cfg DashboardConfig) *Dashboard {
	if cfg.RobotSample <= 0 {
		cfg.RobotSample = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Dashboard{
		products:    cfg.Products,
		shelves:     cfg.Shelves,
		robots:      cfg.Robots,
		robotSample: cfg.RobotSample,
		backendURL:  cfg.BackendURL,
		log:         cfg.Logger.With(zap.String("view", "dashboard")),
		life:        newLifetime(),
	}
}

// Mount refreshes the stats.
func (d *Dashboard) Mount(ctx context.Context) error {
	return d.Refresh(ctx)
}

// Dispose cancels a refresh in flight.
func (d *Dashboard) Dispose() {
	d.life.end()
}

// Refresh runs the three reads in parallel and waits for all of them. Any
// failure keeps the previous stats. When refreshes overlap only the latest
// one is applied.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	if !d.life.alive() {
		d.mu.Unlock()
		return ErrDisposed
	}
	d.seq++
	seq := d.seq
	d.inFlight++
	d.mu.Unlock()

	bound, cancel := d.life.bind(ctx)
	defer cancel()
	bound, span := telemetry.StartSpan(bound, "dashboard.refresh", telemetry.WithAttribute(telemetry.AttrView, "dashboard"))
	defer span.End()

	var (
		products *warehouse.Page[warehouse.Product]
		shelves  *warehouse.Page[warehouse.Shelf]
		robots   *warehouse.Page[warehouse.Robot]
	)
	g, gctx := errgroup.WithContext(bound)
	g.Go(func() (err error) {
		products, err = d.products.GetAll(gctx, 0, 1)
		return err
	})
	g.Go(func() (err error) {
		shelves, err = d.shelves.GetAll(gctx, 0, 1)
		return err
	})
	g.Go(func() (err error) {
		robots, err = d.robots.GetAll(gctx, 0, d.robotSample)
		return err
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--

	if !d.life.alive() {
		return ErrDisposed
	}
	if seq != d.seq {
		logger.WithLogger(ctx, d.log).Debug("Discarding stale stats", zap.Uint64("seq", seq), zap.Uint64("latest", d.seq))
		return nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		d.connected = false
		logger.WithLogger(ctx, d.log).Warn("Failed to load stats", zap.Error(err))
		return err
	}

	available := 0
	for _, r := range robots.Content {
		if r.Available {
			available++
		}
	}
	d.stats = Stats{
		TotalProducts:   products.TotalElements,
		TotalShelves:    shelves.TotalElements,
		TotalRobots:     robots.TotalElements,
		AvailableRobots: available,
	}
	d.loaded = true
	d.connected = true
	d.refreshedAt = time.Now()
	return nil
}

// State returns a snapshot for rendering.
func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DashboardState{
		Stats:       d.stats,
		Loading:     d.inFlight > 0,
		Loaded:      d.loaded,
		Connected:   d.connected,
		BackendURL:  d.backendURL,
		RefreshedAt: d.refreshedAt,
	}
}

// TakeAlert always returns "": the dashboard never mutates.
func (d *Dashboard) TakeAlert() string { return "" }
