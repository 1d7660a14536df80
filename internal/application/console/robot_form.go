package console

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/erp/console/internal/domain/warehouse"
)

// RobotDraft is the robot form as typed.
type RobotDraft struct {
	Name           string `form:"name" validate:"required,max=255"`
	Status         string `form:"status" validate:"required,robotstatus"`
	Available      bool   `form:"available"`
	CurrentShelfID string `form:"currentShelfId"`
}

// RobotForm is the create/update form for one robot.
type RobotForm struct {
	api      Writer[warehouse.RobotPayload]
	original *warehouse.Robot

	mu     sync.Mutex
	draft  RobotDraft
	errors ValidationErrors
}

// NewRobotForm seeds the form from record, or with defaults when record is nil.
func NewRobotForm(api Writer[warehouse.RobotPayload], record *warehouse.Robot) *RobotForm {
	f := &RobotForm{api: api}
	if record == nil {
		f.draft = RobotDraft{Status: string(warehouse.RobotStatusIdle), Available: true}
		return f
	}
	rec := *record
	f.original = &rec
	f.draft = RobotDraft{
		Name:           rec.Name,
		Status:         rec.Status,
		Available:      rec.Available,
		CurrentShelfID: rec.ShelfID(),
	}
	return f
}

// IsEdit reports whether the form updates an existing robot.
func (f *RobotForm) IsEdit() bool { return f.original != nil }

// ID is the id of the edited robot, "" when creating.
func (f *RobotForm) ID() string {
	if f.original == nil {
		return ""
	}
	return f.original.ID
}

// Draft returns the current draft.
func (f *RobotForm) Draft() RobotDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft replaces the draft with what the operator typed.
func (f *RobotForm) SetDraft(d RobotDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// Errors returns the field errors of the last submit.
func (f *RobotForm) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// Payload validates the draft and builds the request body. An empty shelf id is left out.
func (f *RobotForm) Payload() (warehouse.RobotPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := f.draft
	d.Name = strings.TrimSpace(d.Name)
	if errs := validateDraft(d); errs != nil {
		f.errors = errs
		return warehouse.RobotPayload{}, errs
	}
	f.errors = nil

	p := warehouse.RobotPayload{
		Name:      d.Name,
		Status:    d.Status,
		Available: d.Available,
	}
	if shelf := strings.TrimSpace(d.CurrentShelfID); shelf != "" {
		p.CurrentShelfID = &shelf
	}
	if f.original != nil {
		p.ID = f.original.ID
	}
	return p, nil
}

// Submit validates and sends the draft as a create or an update.
func (f *RobotForm) Submit(ctx context.Context) error {
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
func (f *RobotForm) FailureMessage() string {
	return "Failed to save robot. Please check all required fields."
}
