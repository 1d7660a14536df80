package warehouse

import (
	"strings"

	"github.com/google/uuid"
)

// ShelfStatus is the operational state of a shelf.
type ShelfStatus string

// Shelf statuses
const (
	ShelfStatusAvailable   ShelfStatus = "available"
	ShelfStatusInUse       ShelfStatus = "in-use"
	ShelfStatusMaintenance ShelfStatus = "maintenance"
)

// ShelfStatuses lists the statuses in display order.
var ShelfStatuses = []ShelfStatus{ShelfStatusAvailable, ShelfStatusInUse, ShelfStatusMaintenance}

// PlaceholderProductID fills productIds when a shelf is created without any product.
var PlaceholderProductID = uuid.Nil.String()

// IsValid reports whether s is a known shelf status.
func (s ShelfStatus) IsValid() bool {
	switch s {
	case ShelfStatusAvailable, ShelfStatusInUse, ShelfStatusMaintenance:
		return true
	}
	return false
}

// Label returns "In Use" for in-use and so on.
func (s ShelfStatus) Label() string {
	return titleWords(strings.Split(strings.ToLower(string(s)), "-"))
}

// Tone returns the badge tone for the status.
func (s ShelfStatus) Tone() Tone {
	switch s {
	case ShelfStatusAvailable:
		return ToneSuccess
	case ShelfStatusInUse:
		return ToneWarning
	case ShelfStatusMaintenance:
		return ToneDanger
	default:
		return ToneNeutral
	}
}

// Shelf is a storage location inside a warehouse.
type Shelf struct {
	ID          string   `json:"id"`
	WarehouseID string   `json:"warehouseId"`
	XCoord      int      `json:"xCoord"`
	YCoord      int      `json:"yCoord"`
	Level       int      `json:"level"`
	Available   bool     `json:"available"`
	Status      string   `json:"status"`
	ProductIDs  []string `json:"productIds"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// ShortID is the id prefix shown in tables.
func (s Shelf) ShortID() string {
	return shortID(s.ID)
}

// ShortWarehouseID is the warehouse id prefix shown in tables.
func (s Shelf) ShortWarehouseID() string {
	return shortID(s.WarehouseID)
}

// StatusLabel is a template helper for ShelfStatus(s.Status).Label().
func (s Shelf) StatusLabel() string {
	return ShelfStatus(s.Status).Label()
}

// StatusTone is a template helper for ShelfStatus(s.Status).Tone().
func (s Shelf) StatusTone() Tone {
	return ShelfStatus(s.Status).Tone()
}

// ProductCount is the number of real products on the shelf; the placeholder id is not counted.
func (s Shelf) ProductCount() int {
	n := 0
	for _, id := range s.ProductIDs {
		if id != PlaceholderProductID {
			n++
		}
	}
	return n
}

// ShelfPayload is the body of POST/PUT /shelves.
type ShelfPayload struct {
	ID          string   `json:"id,omitempty"`
	WarehouseID string   `json:"warehouseId"`
	XCoord      int      `json:"xCoord"`
	YCoord      int      `json:"yCoord"`
	Level       int      `json:"level"`
	Status      string   `json:"status"`
	Available   bool     `json:"available"`
	ProductIDs  []string `json:"productIds"`
}

// Identity returns the id the payload updates, "" for a create.
func (p ShelfPayload) Identity() string { return p.ID }
