// Package storagetest holds the behaviour every storage.Storage
// implementation must share. Backends call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. Cleanup is the caller's job, usually via
// t.Cleanup.
type Factory func(t *testing.T) storage.Storage

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"CreateProduct_GetProduct_RoundTrip", testCreateProductRoundTrip},
		{"CreateProduct_AppliesDefaults", testCreateProductDefaults},
		{"GetProduct_Missing_ReturnsNil", testGetProductMissing},
		{"GetProductsByCategory", testProductsByCategory},
		{"GetFeaturedProducts_IsSubsetOfAll", testFeaturedProductsSubset},
		{"Articles", testArticles},
		{"Users", testUsers},
		{"CreateContactSubmission_Phone", testContactPhone},
		{"AddToCart_Twice_MergesRow", testAddToCartMerges},
		{"AddToCart_DefaultQuantity", testAddToCartDefaultQuantity},
		{"AddToCart_NegativeQuantity", testAddToCartNegativeQuantity},
		{"AddToCart_SessionsAreIsolated", testCartSessionsIsolated},
		{"UpdateCartItem_Overwrites", testUpdateOverwrites},
		{"UpdateCartItem_Missing_ReturnsNil", testUpdateMissing},
		{"UpdateCartItem_InvalidQuantity", testUpdateInvalidQuantity},
		{"RemoveFromCart", testRemoveFromCart},
		{"ClearCart", testClearCart},
		{"GetCartItems_MissingProduct_Fails", testMissingProduct},
		{"GetCartItem", testGetCartItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

// SampleProduct returns a fully populated insert shape.
func SampleProduct(category string, featured bool) domain.NewProduct {
	return domain.NewProduct{
		NameHe:        "ארניקה מונטנה",
		NameEn:        "Arnica Montana",
		DescriptionHe: "תרופה הומיאופתית",
		DescriptionEn: "A homeopathic remedy",
		Price:         decimal.RequireFromString("150.00"),
		ImageURL:      "/assets/product.png",
		Category:      category,
		InStock:       boolPtr(true),
		Featured:      boolPtr(featured),
	}
}

func testCreateProductRoundTrip(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateProduct(ctx, SampleProduct("pain", true))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.NameHe, got.NameHe)
	assert.Equal(t, created.NameEn, got.NameEn)
	assert.Equal(t, created.DescriptionHe, got.DescriptionHe)
	assert.Equal(t, created.DescriptionEn, got.DescriptionEn)
	assert.True(t, created.Price.Equal(got.Price), "price %s != %s", created.Price, got.Price)
	assert.Equal(t, created.ImageURL, got.ImageURL)
	assert.Equal(t, created.Category, got.Category)
	assert.Equal(t, created.InStock, got.InStock)
	assert.Equal(t, created.Featured, got.Featured)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
}

func testCreateProductDefaults(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	np := SampleProduct("sleep", false)
	np.InStock = nil
	np.Featured = nil

	p, err := s.CreateProduct(ctx, np)
	require.NoError(t, err)
	assert.True(t, p.InStock)
	assert.False(t, p.Featured)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.InStock)
	assert.False(t, got.Featured)
}

func testGetProductMissing(t *testing.T, s storage.Storage) {
	p, err := s.GetProduct(context.Background(), "nonexistent-id")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func testProductsByCategory(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	immunity, err := s.CreateProduct(ctx, SampleProduct("immunity", true))
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, SampleProduct("digestion", false))
	require.NoError(t, err)

	got, err := s.GetProductsByCategory(ctx, "immunity")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, immunity.ID, got[0].ID)

	none, err := s.GetProductsByCategory(ctx, "no-such-category")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	featured, err := s.GetFeaturedProducts(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(featured), immunity.ID)
}

func testFeaturedProductsSubset(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	for i, featured := range []bool{true, false, true, false, false} {
		_, err := s.CreateProduct(ctx, SampleProduct([]string{"a", "b"}[i%2], featured))
		require.NoError(t, err)
	}

	all, err := s.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	featured, err := s.GetFeaturedProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	allIDs := ids(all)
	for _, p := range featured {
		assert.True(t, p.Featured)
		assert.Contains(t, allIDs, p.ID)
	}
	for _, p := range all {
		if p.Featured {
			assert.Contains(t, ids(featured), p.ID)
		}
	}
}

func testArticles(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	a, err := s.CreateArticle(ctx, domain.NewArticle{
		TitleHe:   "כותרת",
		TitleEn:   "How to Naturally Strengthen Your Immune System",
		ExcerptHe: "תקציר",
		ExcerptEn: "Excerpt",
		ContentHe: "תוכן",
		ContentEn: "Content",
		ImageURL:  "https://example.com/a.jpg",
		Category:  "immunity",
		ReadTime:  7,
		Featured:  boolPtr(true),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)

	b, err := s.CreateArticle(ctx, domain.NewArticle{TitleEn: "Digestion", Category: "digestion", ReadTime: 5})
	require.NoError(t, err)
	assert.False(t, b.Featured)

	got, err := s.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.TitleEn, got.TitleEn)
	assert.Equal(t, 7, got.ReadTime)
	assert.True(t, got.Featured)

	missing, err := s.GetArticle(ctx, "nonexistent-id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := s.GetAllArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCategory, err := s.GetArticlesByCategory(ctx, "digestion")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, b.ID, byCategory[0].ID)

	featured, err := s.GetFeaturedArticles(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, a.ID, featured[0].ID)
}

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	u, err := s.CreateUser(ctx, domain.NewUser{Username: "dana", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dana", got.Username)
	assert.Equal(t, "secret", got.Password)

	byName, err := s.GetUserByUsername(ctx, "dana")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	missing, err := s.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = s.GetUser(ctx, "nonexistent-id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.CreateUser(ctx, domain.NewUser{Username: "dana", Password: "other"})
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func testContactPhone(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	base := domain.NewContactSubmission{
		FirstName: "Dana",
		LastName:  "Levi",
		Email:     "dana@example.com",
		Subject:   "Consultation",
		Message:   "I would like a consultation.",
	}

	withoutPhone, err := s.CreateContactSubmission(ctx, base)
	require.NoError(t, err)
	assert.NotEmpty(t, withoutPhone.ID)
	assert.Nil(t, withoutPhone.Phone)
	assert.False(t, withoutPhone.CreatedAt.IsZero())

	base.Phone = strPtr("")
	emptyPhone, err := s.CreateContactSubmission(ctx, base)
	require.NoError(t, err)
	assert.Nil(t, emptyPhone.Phone)

	base.Phone = strPtr("050-1234567")
	withPhone, err := s.CreateContactSubmission(ctx, base)
	require.NoError(t, err)
	require.NotNil(t, withPhone.Phone)
	assert.Equal(t, "050-1234567", *withPhone.Phone)
	assert.NotEqual(t, withoutPhone.ID, withPhone.ID)
}

func testAddToCartMerges(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("immunity", false))
	require.NoError(t, err)

	first, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	lines, err := s.GetCartItems(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, p.ID, lines[0].Product.ID)
	assert.Equal(t, p.NameEn, lines[0].Product.NameEn)
}

func testAddToCartDefaultQuantity(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("sleep", false))
	require.NoError(t, err)

	item, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultQuantity, item.Quantity)
	assert.Equal(t, "abc", item.SessionID)
	assert.False(t, item.CreatedAt.IsZero())

	item, err = s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
}

func testAddToCartNegativeQuantity(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("sleep", false))
	require.NoError(t, err)

	_, err = s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID, Quantity: -2})
	assert.ErrorIs(t, err, storage.ErrInvalidQuantity)

	lines, err := s.GetCartItems(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func testCartSessionsIsolated(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("pain", false))
	require.NoError(t, err)

	a, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "session-a", ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	b, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "session-b", ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	lines, err := s.GetCartItems(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func testUpdateOverwrites(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("immunity", true))
	require.NoError(t, err)

	item, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	updated, err := s.UpdateCartItem(ctx, item.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 5, updated.Quantity)

	lines, err := s.GetCartItems(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func testUpdateMissing(t *testing.T, s storage.Storage) {
	item, err := s.UpdateCartItem(context.Background(), "nonexistent-id", 4)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func testUpdateInvalidQuantity(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("immunity", true))
	require.NoError(t, err)
	item, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID})
	require.NoError(t, err)

	_, err = s.UpdateCartItem(ctx, item.ID, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuantity)

	got, err := s.GetCartItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func testRemoveFromCart(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("immunity", true))
	require.NoError(t, err)
	q, err := s.CreateProduct(ctx, SampleProduct("pain", false))
	require.NoError(t, err)

	removed, err := s.RemoveFromCart(ctx, "never-created")
	require.NoError(t, err)
	assert.False(t, removed)

	keep, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID})
	require.NoError(t, err)
	drop, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: q.ID})
	require.NoError(t, err)

	removed, err = s.RemoveFromCart(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveFromCart(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	lines, err := s.GetCartItems(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, keep.ID, lines[0].ID)
}

func testClearCart(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("immunity", true))
	require.NoError(t, err)
	q, err := s.CreateProduct(ctx, SampleProduct("pain", false))
	require.NoError(t, err)

	for _, id := range []string{p.ID, q.ID} {
		_, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: id})
		require.NoError(t, err)
	}
	other, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "other", ProductID: p.ID})
	require.NoError(t, err)

	require.NoError(t, s.ClearCart(ctx, "abc"))

	lines, err := s.GetCartItems(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// a session that never had items
	require.NoError(t, s.ClearCart(ctx, "never-used"))
	lines, err = s.GetCartItems(ctx, "never-used")
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = s.GetCartItems(ctx, "other")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, other.ID, lines[0].ID)
}

func testMissingProduct(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("immunity", true))
	require.NoError(t, err)

	_, err = s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID})
	require.NoError(t, err)
	ghost, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: "P-does-not-exist"})
	require.NoError(t, err)

	lines, err := s.GetCartItems(ctx, "abc")
	assert.Nil(t, lines)
	require.ErrorIs(t, err, storage.ErrMissingProduct)

	var missing *storage.MissingProductError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "P-does-not-exist", missing.ProductID)
	assert.Equal(t, ghost.ID, missing.CartItemID)
}

func testGetCartItem(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, SampleProduct("immunity", true))
	require.NoError(t, err)

	item, err := s.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	got, err := s.GetCartItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.SessionID)
	assert.Equal(t, p.ID, got.ProductID)
	assert.Equal(t, 2, got.Quantity)

	missing, err := s.GetCartItem(ctx, "nonexistent-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func ids(products []*domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
