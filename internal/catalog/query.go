// Package catalog filters and orders product listings for the store page.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fjod/dhnaturally/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort modes accepted by Apply.
const (
	SortFeatured  = "featured"
	SortPopular   = "popular"
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Query describes one store page request.
type Query struct {
	Category string
	Search   string
	Sort     string
	Lang     string
}

// Apply returns the products matching q in display order. The input slice
// is not modified.
func Apply(products []*domain.Product, q Query) []*domain.Product {
	category := strings.TrimSpace(q.Category)
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, comparator(q))
	return out
}

func matches(p *domain.Product, needle string) bool {
	for _, field := range []string{p.NameHe, p.NameEn, p.DescriptionHe, p.DescriptionEn} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func comparator(q Query) func(a, b *domain.Product) int {
	switch q.Sort {
	case SortPopular:
		return func(a, b *domain.Product) int {
			return cmp.Compare(popularity(b), popularity(a))
		}
	case SortNewest:
		return func(a, b *domain.Product) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return inStockFirst(a, b)
		}
	case SortPriceAsc:
		return func(a, b *domain.Product) int {
			if c := inStockFirst(a, b); c != 0 {
				return c
			}
			return a.Price.Cmp(b.Price)
		}
	case SortPriceDesc:
		return func(a, b *domain.Product) int {
			if c := inStockFirst(a, b); c != 0 {
				return c
			}
			return b.Price.Cmp(a.Price)
		}
	case SortName:
		lang := normalizeLang(q.Lang)
		col := collate.New(language.Make(lang), collate.Loose, collate.Numeric)
		return func(a, b *domain.Product) int {
			if c := inStockFirst(a, b); c != 0 {
				return c
			}
			return col.CompareString(a.Name(lang), b.Name(lang))
		}
	default:
		return func(a, b *domain.Product) int {
			if c := trueFirst(a.Featured, b.Featured); c != 0 {
				return c
			}
			if c := inStockFirst(a, b); c != 0 {
				return c
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// popularity stands in for sales data: featured and in-stock items rank
// first, newer items break ties.
func popularity(p *domain.Product) float64 {
	var score float64
	if p.Featured {
		score += 100
	}
	if p.InStock {
		score += 50
	}
	return score + float64(p.CreatedAt.UnixMilli())/1e6
}

func inStockFirst(a, b *domain.Product) int {
	return trueFirst(a.InStock, b.InStock)
}

func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func normalizeLang(lang string) string {
	if lang == domain.LangEnglish {
		return domain.LangEnglish
	}
	return domain.LangHebrew
}
