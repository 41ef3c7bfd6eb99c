package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Every localized string has its own field.
type Product struct {
	ID            string          `json:"id"`
	NameHe        string          `json:"name_he"`
	NameEn        string          `json:"name_en"`
	DescriptionHe string          `json:"description_he"`
	DescriptionEn string          `json:"description_en"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Category      string          `json:"category"`
	InStock       bool            `json:"in_stock"`
	Featured      bool            `json:"featured"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewProduct holds the caller supplied fields of a Product.
// A nil InStock means true, a nil Featured means false.
type NewProduct struct {
	NameHe        string          `json:"name_he"`
	NameEn        string          `json:"name_en"`
	DescriptionHe string          `json:"description_he"`
	DescriptionEn string          `json:"description_en"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Category      string          `json:"category"`
	InStock       *bool           `json:"in_stock,omitempty"`
	Featured      *bool           `json:"featured,omitempty"`
}

// Build applies the creation defaults and stamps id and creation time.
func (n NewProduct) Build(id string, now time.Time) *Product {
	return &Product{
		ID:            id,
		NameHe:        n.NameHe,
		NameEn:        n.NameEn,
		DescriptionHe: n.DescriptionHe,
		DescriptionEn: n.DescriptionEn,
		Price:         n.Price,
		ImageURL:      n.ImageURL,
		Category:      n.Category,
		InStock:       boolOr(n.InStock, true),
		Featured:      boolOr(n.Featured, false),
		CreatedAt:     now,
	}
}

// Name returns the product name for the given language, "he" or "en".
func (p *Product) Name(lang string) string {
	if lang == LangEnglish {
		return p.NameEn
	}
	return p.NameHe
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// MarshalJSON renders the price with exactly two fraction digits.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), p.Price.StringFixed(2)})
}
