package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/shopspring/decimal"
)

const cartItemColumns = `id, session_id, product_id, quantity, created_at`

func scanCartItem(row scanner) (*domain.CartItem, error) {
	item := &domain.CartItem{}
	if err := row.Scan(&item.ID, &item.SessionID, &item.ProductID, &item.Quantity, &item.CreatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

// GetCartItems left-joins products so a dangling reference shows up as a
// row with NULL product columns instead of disappearing.
func (r *Repository) GetCartItems(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	query := `
		SELECT c.id, c.session_id, c.product_id, c.quantity, c.created_at,
		       p.id, p.name_he, p.name_en, p.description_he, p.description_en, p.price,
		       p.image_url, p.category, p.in_stock, p.featured, p.created_at
		FROM cart_items c
		LEFT JOIN products p ON p.id = c.product_id
		WHERE c.session_id = $1
		ORDER BY c.created_at, c.id
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		var (
			line                        domain.CartLine
			pID, nameHe, nameEn, descHe sql.NullString
			descEn, imageURL, category  sql.NullString
			price                       decimal.NullDecimal
			inStock, featured           sql.NullBool
			productCreatedAt            sql.NullTime
		)
		err := rows.Scan(
			&line.ID, &line.SessionID, &line.ProductID, &line.Quantity, &line.CreatedAt,
			&pID, &nameHe, &nameEn, &descHe, &descEn, &price,
			&imageURL, &category, &inStock, &featured, &productCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if !pID.Valid {
			return nil, &storage.MissingProductError{CartItemID: line.ID, ProductID: line.ProductID}
		}
		line.Product = domain.Product{
			ID:            pID.String,
			NameHe:        nameHe.String,
			NameEn:        nameEn.String,
			DescriptionHe: descHe.String,
			DescriptionEn: descEn.String,
			Price:         price.Decimal,
			ImageURL:      imageURL.String,
			Category:      category.String,
			InStock:       inStock.Bool,
			Featured:      featured.Bool,
			CreatedAt:     productCreatedAt.Time,
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}

func (r *Repository) GetCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1`, id)
	item, err := scanCartItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cart item by id: %w", err)
	}
	return item, nil
}

// AddToCart relies on the unique (session_id, product_id) index: the upsert
// either inserts the row or increments the existing one in one statement.
func (r *Repository) AddToCart(ctx context.Context, item domain.NewCartItem) (*domain.CartItem, error) {
	quantity := item.EffectiveQuantity()
	if quantity < 1 {
		return nil, storage.ErrInvalidQuantity
	}

	query := `
		INSERT INTO cart_items (` + cartItemColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + excluded.quantity
		RETURNING ` + cartItemColumns

	row := r.db.QueryRowContext(ctx, query, newID(), item.SessionID, item.ProductID, quantity, r.now())
	saved, err := scanCartItem(row)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return saved, nil
}

func (r *Repository) UpdateCartItem(ctx context.Context, id string, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, storage.ErrInvalidQuantity
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 RETURNING `+cartItemColumns,
		quantity, id)
	item, err := scanCartItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return item, nil
}

func (r *Repository) RemoveFromCart(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete cart item rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ClearCart(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
