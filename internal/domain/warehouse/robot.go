package warehouse

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RobotStatus is the activity state of a robot.
type RobotStatus string

// Robot statuses. RobotStatusCharchingLegacy is a misspelling older backends still report.
const (
	RobotStatusIdle            RobotStatus = "IDLE"
	RobotStatusBusy            RobotStatus = "BUSY"
	RobotStatusCharging        RobotStatus = "CHARGING"
	RobotStatusCharchingLegacy RobotStatus = "CHARCHING"
	RobotStatusMaintenance     RobotStatus = "MAINTENANCE"
)

// RobotStatuses lists the statuses offered in the robot form.
var RobotStatuses = []RobotStatus{RobotStatusIdle, RobotStatusBusy, RobotStatusCharging, RobotStatusMaintenance}

// Tone selects the badge colour a status is rendered with.
type Tone string

// Badge tones
const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// IsValid reports whether s is a status the console may send, the legacy spelling included.
func (s RobotStatus) IsValid() bool {
	switch s.normalized() {
	case RobotStatusIdle, RobotStatusBusy, RobotStatusCharging, RobotStatusCharchingLegacy, RobotStatusMaintenance:
		return true
	}
	return false
}

// IsCharging is true for both spellings of the charging state.
func (s RobotStatus) IsCharging() bool {
	n := s.normalized()
	return n == RobotStatusCharging || n == RobotStatusCharchingLegacy
}

// Label returns the display label. Both charging spellings render as "Charging".
func (s RobotStatus) Label() string {
	if s.normalized() == RobotStatusCharchingLegacy {
		return "Charging"
	}
	if s == "" {
		return ""
	}
	raw := string(s)
	_, size := utf8.DecodeRuneInString(raw)
	return raw[:size] + cases.Lower(language.English).String(raw[size:])
}

// Tone returns the badge tone for the status.
func (s RobotStatus) Tone() Tone {
	switch n := s.normalized(); {
	case n == RobotStatusIdle:
		return ToneSuccess
	case n == RobotStatusBusy:
		return ToneWarning
	case s.IsCharging():
		return ToneInfo
	case n == RobotStatusMaintenance:
		return ToneDanger
	default:
		return ToneNeutral
	}
}

func (s RobotStatus) normalized() RobotStatus {
	return RobotStatus(strings.ToUpper(string(s)))
}

// Robot is a fleet member.
type Robot struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Available      bool    `json:"available"`
	Status         string  `json:"status"`
	CurrentShelfID *string `json:"currentShelfId,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ShortID is the id prefix shown in tables.
func (r Robot) ShortID() string {
	return shortID(r.ID)
}

// StatusLabel is a template helper for RobotStatus(r.Status).Label().
func (r Robot) StatusLabel() string {
	return RobotStatus(r.Status).Label()
}

// StatusTone is a template helper for RobotStatus(r.Status).Tone().
func (r Robot) StatusTone() Tone {
	return RobotStatus(r.Status).Tone()
}

// ShelfID returns the current shelf or "".
func (r Robot) ShelfID() string {
	if r.CurrentShelfID == nil {
		return ""
	}
	return *r.CurrentShelfID
}

// RobotPayload is the body of POST/PUT /robots. An empty shelf id is omitted.
type RobotPayload struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Available      bool    `json:"available"`
	CurrentShelfID *string `json:"currentShelfId,omitempty"`
}

// Identity returns the id the payload updates, "" for a create.
func (p RobotPayload) Identity() string { return p.ID }
