package warehouse

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlaceholderImage is the 1x1 PNG sent when a product is saved without any image.
const PlaceholderImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

// DefaultCategory is preselected when creating a product.
const DefaultCategory = "ELECTRONICS"

// Categories lists the category tags the backend accepts, in display order.
var Categories = []string{
	"ELECTRONICS",
	"COMPUTERS",
	"MOBILE_PHONES",
	"CLOTHING",
	"FOOTWEAR",
	"HOME_APPLIANCES",
	"FURNITURE",
	"BOOKS",
	"TOYS",
	"GROCERY",
	"HEALTH",
	"BEAUTY",
	"SPORTS",
	"OUTDOORS",
	"AUTOMOTIVE",
	"JEWELRY",
	"OFFICE_SUPPLIES",
	"MUSIC",
	"PET_SUPPLIES",
	"BABY_PRODUCTS",
	"VIDEO_GAMES",
	"STATIONERY",
	"GARDEN",
	"ART_SUPPLIES",
	"DIY_TOOLS",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

// acronyms keep their casing when a tag is turned into a label.
var acronyms = map[string]string{"diy": "DIY"}

// IsCategory reports whether tag is a known category.
func IsCategory(tag string) bool {
	_, ok := categorySet[tag]
	return ok
}

// CategoryLabel turns a tag such as MOBILE_PHONES into "Mobile Phones".
func CategoryLabel(tag string) string {
	return titleWords(strings.Split(strings.ToLower(tag), "_"))
}

func titleWords(words []string) string {
	caser := cases.Title(language.English)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if a, ok := acronyms[w]; ok {
			out = append(out, a)
			continue
		}
		out = append(out, caser.String(w))
	}
	return strings.Join(out, " ")
}

// Price is a non-negative decimal amount. It travels as a bare JSON number.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a decimal.
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// MarshalJSON writes the amount unquoted.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and numeric strings.
func (p *Price) UnmarshalJSON(b []byte) error {
	return p.Decimal.UnmarshalJSON(b)
}

// Display formats the amount with two decimals.
func (p Price) Display() string {
	return "$" + p.StringFixed(2)
}

// Product is the backend's catalog entry.
type Product struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Descriptions       json.RawMessage   `json:"descriptions,omitempty"`
	Price              Price             `json:"price"`
	Category           string            `json:"category"`
	Tags               []string          `json:"tags"`
	QuantityInStock    int               `json:"quantityInStock"`
	Available          bool              `json:"available"`
	AverageRating      float64           `json:"averageRating"`
	NumberOfReviews    int               `json:"numberOfReviews"`
	LocalizedNames     map[string]string `json:"localizedNames"`
	ImageURLs          []string          `json:"imageUrls"`
	DiscountPercentage float64           `json:"discountPercentage"`
	OnSale             bool              `json:"onSale"`
	SaleStart          *string           `json:"saleStart,omitempty"`
	SaleEnd            *string           `json:"saleEnd,omitempty"`
	CreatedAt          string            `json:"createdAt"`
	UpdatedAt          string            `json:"updatedAt"`
}

// ShortID is the id prefix shown under the product name.
func (p Product) ShortID() string {
	return shortID(p.ID)
}

// Thumbnail returns the first image, or "" when the product has none.
func (p Product) Thumbnail() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// ProductPayload is the body of POST/PUT /products. Only user-editable fields are sent.
type ProductPayload struct {
	ID              string            `json:"id,omitempty"`
	Name            string            `json:"name"`
	Price           Price             `json:"price"`
	Category        string            `json:"category"`
	QuantityInStock int               `json:"quantityInStock"`
	Available       bool              `json:"available"`
	Tags            []string          `json:"tags"`
	Descriptions    json.RawMessage   `json:"descriptions"`
	LocalizedNames  map[string]string `json:"localizedNames"`
	ImageBase64List []string          `json:"imageBase64List"`
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// Identity returns the id the payload updates, "" for a create.
func (p ProductPayload) Identity() string { return p.ID }
