// Package console holds the per-session state of the warehouse console: one
// controller per view, the create/update forms, the dashboard aggregator and
// the shell that switches between them.
package console

import (
	"context"

	"github.com/erp/console/internal/domain/warehouse"
)

// Lister reads pages and single records of one backend collection.
type Lister[T any] interface {
	GetAll(ctx context.Context, page, size int) (*warehouse.Page[T], error)
	GetByID(ctx context.Context, id string) (*T, error)
}

// Writer creates, updates and deletes records of one backend collection.
type Writer[P any] interface {
	Create(ctx context.Context, payload P) (bool, error)
	Update(ctx context.Context, payload P) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ProductAPI is the product endpoint surface the console uses.
type ProductAPI interface {
	Lister[warehouse.Product]
	Writer[warehouse.ProductPayload]
	Search(ctx context.Context, keyword string) ([]warehouse.Product, error)
}

// ShelfAPI is the shelf endpoint surface the console uses.
type ShelfAPI interface {
	Lister[warehouse.Shelf]
	Writer[warehouse.ShelfPayload]
}

// RobotAPI is the robot endpoint surface the console uses.
type RobotAPI interface {
	Lister[warehouse.Robot]
	Writer[warehouse.RobotPayload]
}

// AlertRecorder is told about every alert raised to an operator.
type AlertRecorder interface {
	AlertRaised(view string)
}

type nopAlertRecorder struct{}

func (nopAlertRecorder) AlertRaised(string) {}

// Confirm asks the operator a yes/no question. Returning false cancels the action.
type Confirm func(prompt string) bool
