package console

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/erp/console/internal/domain/warehouse"
)

// ProductDraft is the product form as typed. Numbers stay text until submit.
type ProductDraft struct {
	Name            string `form:"name" validate:"required,max=255"`
	Price           string `form:"price" validate:"required,amount"`
	Category        string `form:"category" validate:"required,category"`
	QuantityInStock string `form:"quantityInStock" validate:"required,count"`
	Available       bool   `form:"available"`
	Tags            string `form:"tags"` // comma separated
}

func (d *ProductDraft) trim() {
	d.Name = strings.TrimSpace(d.Name)
	d.Price = strings.TrimSpace(d.Price)
	d.QuantityInStock = strings.TrimSpace(d.QuantityInStock)
}

// ProductForm is the create/update form for one product.
type ProductForm struct {
	api      Writer[warehouse.ProductPayload]
	original *warehouse.Product
	maxImage int64

	mu       sync.Mutex
	draft    ProductDraft
	images   []string // sent as imageBase64List
	previews []string // shown in the form
	errors   ValidationErrors
}

// NewProductForm seeds the form from record, or with defaults when record is nil.
func NewProductForm(api Writer[warehouse.ProductPayload], record *warehouse.Product) *ProductForm {
	f := &ProductForm{api: api, maxImage: MaxImageSize}
	if record == nil {
		f.draft = ProductDraft{
			Price:           "0",
			Category:        warehouse.DefaultCategory,
			QuantityInStock: "0",
			Available:       true,
		}
		return f
	}

	rec := *record
	f.original = &rec
	f.draft = ProductDraft{
		Name:            rec.Name,
		Price:           rec.Price.String(),
		Category:        rec.Category,
		QuantityInStock: fmt.Sprint(rec.QuantityInStock),
		Available:       rec.Available,
		Tags:            strings.Join(rec.Tags, ", "),
	}
	// Kept images go back on update as the URLs the backend returned. The
	// backend stores imageBase64List entries verbatim, so a URL survives the save.
	f.images = append([]string(nil), rec.ImageURLs...)
	f.previews = append([]string(nil), rec.ImageURLs...)
	return f
}

// IsEdit reports whether the form updates an existing product.
func (f *ProductForm) IsEdit() bool { return f.original != nil }

// ID is the id of the edited product, "" when creating.
func (f *ProductForm) ID() string {
	if f.original == nil {
		return ""
	}
	return f.original.ID
}

// Draft returns the current draft.
func (f *ProductForm) Draft() ProductDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft replaces the draft with what the operator typed.
func (f *ProductForm) SetDraft(d ProductDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// Previews returns the images shown in the form.
func (f *ProductForm) Previews() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.previews...)
}

// Errors returns the field errors of the last submit.
func (f *ProductForm) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// AddImages reads the uploads concurrently and appends each to both image lists.
// Files that fail are skipped and reported; the rest are still added.
func (f *ProductForm) AddImages(ctx context.Context, sources []ImageSource) error {
	return readImages(ctx, sources, f.maxImage, func(uri string) {
		f.mu.Lock()
		f.images = append(f.images, uri)
		f.previews = append(f.previews, uri)
		f.mu.Unlock()
	})
}

// RemoveImage drops image i from both lists.
func (f *ProductForm) RemoveImage(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.images) {
		return fmt.Errorf("image index %d out of range", i)
	}
	f.images = append(f.images[:i], f.images[i+1:]...)
	f.previews = append(f.previews[:i], f.previews[i+1:]...)
	return nil
}

// Payload validates the draft and builds the request body.
func (f *ProductForm) Payload() (warehouse.ProductPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := f.draft
	d.trim()
	if errs := validateDraft(d); errs != nil {
		f.errors = errs
		return warehouse.ProductPayload{}, errs
	}
	f.errors = nil

	price, _ := parseAmount(d.Price)
	qty, _ := parseCount(d.QuantityInStock)

	images := append([]string(nil), f.images...)
	if len(images) == 0 {
		images = []string{warehouse.PlaceholderImage}
	}

	p := warehouse.ProductPayload{
		Name:            d.Name,
		Price:           warehouse.NewPrice(price),
		Category:        d.Category,
		QuantityInStock: qty,
		Available:       d.Available,
		Tags:            splitList(d.Tags),
		Descriptions:    json.RawMessage(`[]`),
		LocalizedNames:  map[string]string{},
		ImageBase64List: images,
	}
	if f.original != nil {
		p.ID = f.original.ID
		if len(f.original.Descriptions) > 0 {
			p.Descriptions = f.original.Descriptions
		}
		if f.original.LocalizedNames != nil {
			p.LocalizedNames = maps.Clone(f.original.LocalizedNames)
		}
	}
	return p, nil
}

// Submit validates and sends the draft as a create or an update.
func (f *ProductForm) Submit(ctx context.Context) error {
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
func (f *ProductForm) FailureMessage() string {
	return "Failed to save product. Please try again."
}
