package console

import (
	"context"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/erp/console/internal/domain/warehouse"
)

// ShelfDraft is the shelf form as typed.
type ShelfDraft struct {
	WarehouseID string `form:"warehouseId" validate:"required"`
	XCoord      string `form:"xCoord" validate:"required,count"`
	YCoord      string `form:"yCoord" validate:"required,count"`
	Level       string `form:"level" validate:"required,count"`
	Status      string `form:"status" validate:"required,shelfstatus"`
	Available   bool   `form:"available"`
	ProductIDs  string `form:"productIds"` // comma separated
}

// ShelfForm is the create/update form for one shelf.
type ShelfForm struct {
	api      Writer[warehouse.ShelfPayload]
	original *warehouse.Shelf

	mu     sync.Mutex
	draft  ShelfDraft
	errors ValidationErrors
}

// NewShelfForm seeds the form from record, or with defaults when record is nil.
func NewShelfForm(api Writer[warehouse.ShelfPayload], record *warehouse.Shelf) *ShelfForm {
	f := &ShelfForm{api: api}
	if record == nil {
		f.draft = ShelfDraft{
			XCoord:    "0",
			YCoord:    "0",
			Level:     "0",
			Status:    string(warehouse.ShelfStatusAvailable),
			Available: true,
		}
		return f
	}
	rec := *record
	f.original = &rec
	f.draft = ShelfDraft{
		WarehouseID: rec.WarehouseID,
		XCoord:      strconv.Itoa(rec.XCoord),
		YCoord:      strconv.Itoa(rec.YCoord),
		Level:       strconv.Itoa(rec.Level),
		Status:      rec.Status,
		Available:   rec.Available,
		ProductIDs:  strings.Join(rec.ProductIDs, ", "),
	}
	return f
}

// IsEdit reports whether the form updates an existing shelf.
func (f *ShelfForm) IsEdit() bool { return f.original != nil }

// ID is the id of the edited shelf, "" when creating.
func (f *ShelfForm) ID() string {
	if f.original == nil {
		return ""
	}
	return f.original.ID
}

// Draft returns the current draft.
func (f *ShelfForm) Draft() ShelfDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft replaces the draft with what the operator typed.
func (f *ShelfForm) SetDraft(d ShelfDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// Errors returns the field errors of the last submit.
func (f *ShelfForm) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// Payload validates the draft and builds the request body. A new shelf with
// no product ids gets the placeholder id; an edited shelf sends its list as is.
func (f *ShelfForm) Payload() (warehouse.ShelfPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := f.draft
	d.WarehouseID = strings.TrimSpace(d.WarehouseID)
	if errs := validateDraft(d); errs != nil {
		f.errors = errs
		return warehouse.ShelfPayload{}, errs
	}
	f.errors = nil

	x, _ := parseCount(d.XCoord)
	y, _ := parseCount(d.YCoord)
	level, _ := parseCount(d.Level)

	ids := splitList(d.ProductIDs)
	if f.original == nil && len(ids) == 0 {
		ids = []string{warehouse.PlaceholderProductID}
	}

	p := warehouse.ShelfPayload{
		WarehouseID: d.WarehouseID,
		XCoord:      x,
		YCoord:      y,
		Level:       level,
		Status:      d.Status,
		Available:   d.Available,
		ProductIDs:  ids,
	}
	if f.original != nil {
		p.ID = f.original.ID
	}
	return p, nil
}

// Submit validates and sends the draft as a create or an update.
func (f *ShelfForm) Submit(ctx context.Context) error {
	p, err := f.Payload()
	if err != nil {
		return err
	}
	if f.IsEdit() {
		_, err = f.api.Update(ctx, p)
	} else {
		_, err = f.api.Create(ctx, p)
	}
	return err
}

// FailureMessage is the alert shown when the backend rejects the save.
func (f *ShelfForm) FailureMessage() string {
	return "Failed to save shelf. Please try again."
}
