package console

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/erp/console/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrNoForm is returned when a form action arrives while no form is open.
var ErrNoForm = errors.New("console: no form is open")

// ErrSearchUnsupported is returned by Search on views without a search endpoint.
var ErrSearchUnsupported = errors.New("console: view has no search")

// form is the part of a create/update form the owning view drives.
type form interface {
	Submit(ctx context.Context) error
	FailureMessage() string
}

// ListState is a copy of a view's state for rendering.
type ListState[T any] struct {
	Records    []T
	Page       int // zero-based
	TotalPages int
	Loading    bool
	Loaded     bool
	SearchTerm string
}

// HasPrev reports whether Prev would move.
func (s ListState[T]) HasPrev() bool { return s.Page > 0 }

// HasNext reports whether Next would move.
func (s ListState[T]) HasNext() bool { return s.Page < s.TotalPages-1 }

// listView is the paginated list controller shared by the products, shelves
// and robots views. The view never edits its records locally: every mutation
// is followed by a fetch of the current page.
//
// Each fetch takes a sequence number when it starts. Only the most recently
// started fetch may write its result, and nothing is written after Dispose.
type listView[T any, F form] struct {
	name    string
	noun    string // singular, for prompts and alerts
	size    int
	api     Lister[T]
	remove  func(ctx context.Context, id string) (bool, error)
	search  func(ctx context.Context, term string) ([]T, error)
	idOf    func(T) string
	newForm func(record *T) F
	log     *zap.Logger
	alerts  AlertRecorder
	life    lifetime

	mu         sync.Mutex
	page       int
	shown      int // index of the last page fetched successfully
	totalPages int
	records    []T
	inFlight   int
	loaded     bool
	seq        uint64
	term       string
	form       F
	formOpen   bool
	alert      string
}

type listConfig[T any, F form] struct {
	name    string
	noun    string
	size    int
	api     Lister[T]
	remove  func(ctx context.Context, id string) (bool, error)
	search  func(ctx context.Context, term string) ([]T, error)
	idOf    func(T) string
	newForm func(record *T) F
	log     *zap.Logger
	alerts  AlertRecorder
}

func newListView[T any, F form](cfg listConfig[T, F]) *listView[T, F] {
	if cfg.size <= 0 {
		cfg.size = 10
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	if cfg.alerts == nil {
		cfg.alerts = nopAlertRecorder{}
	}
	return &listView[T, F]{
		name:    cfg.name,
		noun:    cfg.noun,
		size:    cfg.size,
		api:     cfg.api,
		remove:  cfg.remove,
		search:  cfg.search,
		idOf:    cfg.idOf,
		newForm: cfg.newForm,
		log:     cfg.log.With(zap.String("view", cfg.name)),
		alerts:  cfg.alerts,
		life:    newLifetime(),
		records: []T{},
	}
}

// Mount loads the current page.
func (v *listView[T, F]) Mount(ctx context.Context) error {
	return v.Reload(ctx)
}

// Dispose cancels in-flight fetches and stops any later result from landing.
func (v *listView[T, F]) Dispose() {
	v.life.end()
}

// State returns a snapshot for rendering.
func (v *listView[T, F]) State() ListState[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ListState[T]{
		Records:    append([]T(nil), v.records...),
		Page:       v.page,
		TotalPages: v.totalPages,
		Loading:    v.inFlight > 0,
		Loaded:     v.loaded,
		SearchTerm: v.term,
	}
}

// Reload fetches the current page again, or re-runs the active search.
func (v *listView[T, F]) Reload(ctx context.Context) error {
	// A shrunken collection can leave the index past the end; clamp and fetch
	// again. Each clamp lowers the index, so this stops by page 0.
	for {
		refetch, err := v.load(ctx)
		if err != nil || !refetch {
			return err
		}
	}
}

// load performs one fetch. It reports whether the page index was clamped and
// the fetch should be repeated. A failed fetch moves the index back to the page
// whose records are still shown.
func (v *listView[T, F]) load(ctx context.Context) (bool, error) {
	v.mu.Lock()
	if !v.life.alive() {
		v.mu.Unlock()
		return false, ErrDisposed
	}
	v.seq++
	seq, page, term := v.seq, v.page, v.term
	v.inFlight++
	v.mu.Unlock()

	ctx, cancel := v.life.bind(ctx)
	defer cancel()
	ctx, span := telemetry.StartSpan(ctx, v.name+".load",
		telemetry.WithAttribute(telemetry.AttrView, v.name),
		telemetry.WithAttribute("page", page),
	)
	defer span.End()

	var result *warehouse.Page[T]
	var err error
	if term != "" {
		var items []T
		items, err = v.search(ctx, term)
		if err == nil {
			result = warehouse.SinglePage(items)
		}
	} else {
		result, err = v.api.GetAll(ctx, page, v.size)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.inFlight--

	if !v.life.alive() {
		return false, ErrDisposed
	}
	if seq != v.seq {
		logger.WithLogger(ctx, v.log).Debug("Discarding stale result", zap.Uint64("seq", seq), zap.Uint64("latest", v.seq))
		return false, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		msg := "Failed to load " + v.name
		if term != "" {
			msg = "Search failed"
		}
		logger.WithLogger(ctx, v.log).Warn(msg, zap.Int("page", page), zap.String("term", term), zap.Error(err))
		v.page = v.shown
		return false, err
	}

	v.records = result.Content
	v.totalPages = result.TotalPages
	v.loaded = true

	if term == "" {
		if clamped := warehouse.ClampPage(v.page, v.totalPages); clamped != v.page {
			logger.WithLogger(ctx, v.log).Debug("Page index out of range, refetching",
				zap.Int("page", v.page), zap.Int("clamped", clamped), zap.Int("total_pages", v.totalPages))
			v.page = clamped
			v.shown = clamped
			return true, nil
		}
	}
	v.shown = v.page
	return false, nil
}

// moveTo sets the page index and invalidates fetches still in flight. v.mu must be held.
func (v *listView[T, F]) moveTo(page int) {
	v.page = page
	v.seq++
}

// Next moves one page forward. On the last page it does nothing.
func (v *listView[T, F]) Next(ctx context.Context) error {
	v.mu.Lock()
	if v.page >= v.totalPages-1 {
		v.mu.Unlock()
		return nil
	}
	v.moveTo(v.page + 1)
	v.mu.Unlock()
	return v.Reload(ctx)
}

// Prev moves one page back. On the first page it does nothing.
func (v *listView[T, F]) Prev(ctx context.Context) error {
	v.mu.Lock()
	if v.page <= 0 {
		v.mu.Unlock()
		return nil
	}
	v.moveTo(v.page - 1)
	v.mu.Unlock()
	return v.Reload(ctx)
}

// GoTo jumps to a zero-based page, clamped into range. Staying on the same page does nothing.
func (v *listView[T, F]) GoTo(ctx context.Context, page int) error {
	v.mu.Lock()
	target := warehouse.ClampPage(page, v.totalPages)
	if target == v.page {
		v.mu.Unlock()
		return nil
	}
	v.moveTo(target)
	v.mu.Unlock()
	return v.Reload(ctx)
}

// Search sets the search term and reloads. A blank term returns to the paged list
// at the current page index.
func (v *listView[T, F]) Search(ctx context.Context, term string) error {
	if v.search == nil {
		return ErrSearchUnsupported
	}
	v.mu.Lock()
	v.term = strings.TrimSpace(term)
	v.seq++
	v.mu.Unlock()
	return v.Reload(ctx)
}

// DeletePrompt is the confirmation question for a delete.
func (v *listView[T, F]) DeletePrompt() string {
	return "Are you sure you want to delete this " + v.noun + "?"
}

// Delete removes id after confirm agrees, then reloads the current page whatever
// the outcome. It returns whether the record was deleted.
func (v *listView[T, F]) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if confirm == nil || !confirm(v.DeletePrompt()) {
		return false, nil
	}
	if !v.life.alive() {
		return false, ErrDisposed
	}

	bound, cancel := v.life.bind(ctx)
	_, err := v.remove(bound, id)
	cancel()
	if err != nil {
		logger.WithLogger(ctx, v.log).Error("Failed to delete "+v.noun, zap.String("id", id), zap.Error(err))
		v.raise("Failed to delete " + v.noun + ". Please try again.")
	}

	// Load failures are logged inside Reload and leave the stale page in place.
	_ = v.Reload(ctx)
	return err == nil, err
}

// OpenCreate opens an empty form.
func (v *listView[T, F]) OpenCreate() F {
	f := v.newForm(nil)
	v.mu.Lock()
	v.form, v.formOpen = f, true
	v.mu.Unlock()
	return f
}

// OpenEdit opens a form seeded from the record with id. The loaded page is
// searched first; a record not on it is fetched.
func (v *listView[T, F]) OpenEdit(ctx context.Context, id string) (F, error) {
	var zero F
	record, ok := v.find(id)
	if !ok {
		bound, cancel := v.life.bind(ctx)
		fetched, err := v.api.GetByID(bound, id)
		cancel()
		if err != nil {
			logger.WithLogger(ctx, v.log).Warn("Failed to load "+v.noun, zap.String("id", id), zap.Error(err))
			return zero, err
		}
		record = *fetched
	}

	f := v.newForm(&record)
	v.mu.Lock()
	v.form, v.formOpen = f, true
	v.mu.Unlock()
	return f, nil
}

func (v *listView[T, F]) find(id string) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.records {
		if v.idOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Form returns the open form, if any.
func (v *listView[T, F]) Form() (F, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form, v.formOpen
}

// CloseForm discards the form and reloads the current page. It makes no write call.
func (v *listView[T, F]) CloseForm(ctx context.Context) error {
	var zero F
	v.mu.Lock()
	v.form, v.formOpen = zero, false
	v.mu.Unlock()
	return v.Reload(ctx)
}

// SubmitForm submits the open form. Success closes it, which reloads the page.
// Validation failures keep the form open without an alert; backend failures
// keep it open and raise one.
func (v *listView[T, F]) SubmitForm(ctx context.Context) error {
	f, ok := v.Form()
	if !ok {
		return ErrNoForm
	}
	if !v.life.alive() {
		return ErrDisposed
	}

	bound, cancel := v.life.bind(ctx)
	err := f.Submit(bound)
	cancel()

	var invalid ValidationErrors
	switch {
	case errors.As(err, &invalid):
		return err
	case err != nil:
		logger.WithLogger(ctx, v.log).Error("Failed to save "+v.noun, zap.Error(err))
		v.raise(f.FailureMessage())
		return err
	}
	return v.CloseForm(ctx)
}

func (v *listView[T, F]) raise(msg string) {
	v.mu.Lock()
	v.alert = msg
	v.mu.Unlock()
	v.alerts.AlertRaised(v.name)
}

// TakeAlert returns the pending alert and clears it.
func (v *listView[T, F]) TakeAlert() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	msg := v.alert
	v.alert = ""
	return msg
}
