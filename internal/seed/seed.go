// Package seed loads the fixed bootstrap catalog into a store at startup.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/storage"
)

//go:embed data/*.json
var data embed.FS

// Products returns the bootstrap product catalog.
func Products() ([]domain.NewProduct, error) {
	var products []domain.NewProduct
	if err := decode("data/products.json", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Articles returns the bootstrap articles.
func Articles() ([]domain.NewArticle, error) {
	var articles []domain.NewArticle
	if err := decode("data/articles.json", &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func decode(name string, v any) error {
	raw, err := data.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode seed %s: %w", name, err)
	}
	return nil
}

// Load inserts the bootstrap products and articles. A collection that
// already has rows is left alone, so restarting on a persistent backend
// does not duplicate the catalog.
func Load(ctx context.Context, s storage.Storage) error {
	existingProducts, err := s.GetAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if len(existingProducts) == 0 {
		products, err := Products()
		if err != nil {
			return err
		}
		for _, p := range products {
			if _, err := s.CreateProduct(ctx, p); err != nil {
				return fmt.Errorf("seed product %q: %w", p.NameEn, err)
			}
		}
		log.Printf("Seeded %d products", len(products))
	}

	existingArticles, err := s.GetAllArticles(ctx)
	if err != nil {
		return fmt.Errorf("count articles: %w", err)
	}
	if len(existingArticles) == 0 {
		articles, err := Articles()
		if err != nil {
			return err
		}
		for _, a := range articles {
			if _, err := s.CreateArticle(ctx, a); err != nil {
				return fmt.Errorf("seed article %q: %w", a.TitleEn, err)
			}
		}
		log.Printf("Seeded %d articles", len(articles))
	}

	return nil
}
