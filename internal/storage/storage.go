package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/dhnaturally/internal/domain"
)

// Common errors returned by Storage implementations
var (
	ErrMissingProduct  = errors.New("cart item references a missing product")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUsernameTaken   = errors.New("username already taken")
)

// MissingProductError reports the dangling reference found while joining a
// cart with the product collection. It matches ErrMissingProduct.
type MissingProductError struct {
	CartItemID string
	ProductID  string
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("product not found: %q (cart item %s)", e.ProductID, e.CartItemID)
}

func (e *MissingProductError) Is(target error) bool {
	return target == ErrMissingProduct
}

// Storage owns every entity collection and is the only place ids are
// generated. Lookups that find nothing return a nil record and a nil error;
// a non-nil error always means the operation itself failed.
type Storage interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// CreateUser fails with ErrUsernameTaken when the username is in use.
	CreateUser(ctx context.Context, user domain.NewUser) (*domain.User, error)

	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error)

	GetAllArticles(ctx context.Context) ([]*domain.Article, error)
	GetArticle(ctx context.Context, id string) (*domain.Article, error)
	GetArticlesByCategory(ctx context.Context, category string) ([]*domain.Article, error)
	GetFeaturedArticles(ctx context.Context) ([]*domain.Article, error)
	CreateArticle(ctx context.Context, article domain.NewArticle) (*domain.Article, error)

	CreateContactSubmission(ctx context.Context, submission domain.NewContactSubmission) (*domain.ContactSubmission, error)

	// GetCartItems joins every item of the session with its product.
	// A dangling product reference fails the whole call with a
	// *MissingProductError instead of dropping the row.
	GetCartItems(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	GetCartItem(ctx context.Context, id string) (*domain.CartItem, error)
	// AddToCart increments the existing row for the (session, product) pair
	// or creates a new one.
	AddToCart(ctx context.Context, item domain.NewCartItem) (*domain.CartItem, error)
	// UpdateCartItem overwrites the quantity. It returns nil when the item
	// does not exist.
	UpdateCartItem(ctx context.Context, id string, quantity int) (*domain.CartItem, error)
	// RemoveFromCart reports whether an item was removed.
	RemoveFromCart(ctx context.Context, id string) (bool, error)
	// ClearCart removes every item of the session. Clearing an empty cart
	// is not an error.
	ClearCart(ctx context.Context, sessionID string) error

	Close() error
}
