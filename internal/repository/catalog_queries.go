package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/dhnaturally/internal/domain"
)

const productColumns = `id, name_he, name_en, description_he, description_en, price,
	image_url, category, in_stock, featured, created_at`

const articleColumns = `id, title_he, title_en, excerpt_he, excerpt_en, content_he,
	content_en, image_url, category, read_time, featured, created_at`

func scanProduct(row scanner) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID,
		&p.NameHe,
		&p.NameEn,
		&p.DescriptionHe,
		&p.DescriptionEn,
		&p.Price,
		&p.ImageURL,
		&p.Category,
		&p.InStock,
		&p.Featured,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanArticle(row scanner) (*domain.Article, error) {
	a := &domain.Article{}
	err := row.Scan(
		&a.ID,
		&a.TitleHe,
		&a.TitleEn,
		&a.ExcerptHe,
		&a.ExcerptEn,
		&a.ContentHe,
		&a.ContentEn,
		&a.ImageURL,
		&a.Category,
		&a.ReadTime,
		&a.Featured,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) queryProducts(ctx context.Context, where string, args ...any) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ` + where + ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.queryProducts(ctx, "")
}

func (r *Repository) GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.queryProducts(ctx, "WHERE category = $1", category)
}

func (r *Repository) GetFeaturedProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.queryProducts(ctx, "WHERE featured = $1", true)
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error) {
	p := product.Build(newID(), r.now())

	query := `INSERT INTO products (` + productColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.NameHe,
		p.NameEn,
		p.DescriptionHe,
		p.DescriptionEn,
		p.Price,
		p.ImageURL,
		p.Category,
		p.InStock,
		p.Featured,
		p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repository) queryArticles(ctx context.Context, where string, args ...any) ([]*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ` + where + ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*domain.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return articles, nil
}

func (r *Repository) GetAllArticles(ctx context.Context) ([]*domain.Article, error) {
	return r.queryArticles(ctx, "")
}

func (r *Repository) GetArticlesByCategory(ctx context.Context, category string) ([]*domain.Article, error) {
	return r.queryArticles(ctx, "WHERE category = $1", category)
}

func (r *Repository) GetFeaturedArticles(ctx context.Context) ([]*domain.Article, error) {
	return r.queryArticles(ctx, "WHERE featured = $1", true)
}

func (r *Repository) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query article by id: %w", err)
	}
	return a, nil
}

func (r *Repository) CreateArticle(ctx context.Context, article domain.NewArticle) (*domain.Article, error) {
	a := article.Build(newID(), r.now())

	query := `INSERT INTO articles (` + articleColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TitleHe,
		a.TitleEn,
		a.ExcerptHe,
		a.ExcerptEn,
		a.ContentHe,
		a.ContentEn,
		a.ImageURL,
		a.Category,
		a.ReadTime,
		a.Featured,
		a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return a, nil
}
