package seed_test

import (
	"context"
	"testing"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/seed"
	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_Decode(t *testing.T) {
	products, err := seed.Products()
	require.NoError(t, err)
	assert.Len(t, products, 35)

	for _, p := range products {
		assert.NotEmpty(t, p.NameHe)
		assert.NotEmpty(t, p.NameEn)
		assert.NotEmpty(t, p.Category)
		assert.Equal(t, "150", p.Price.String())
		require.NotNil(t, p.InStock)
		require.NotNil(t, p.Featured)
	}
}

func TestArticles_Decode(t *testing.T) {
	articles, err := seed.Articles()
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, 7, articles[0].ReadTime)
	assert.Equal(t, "immunity", articles[0].Category)
}

func TestLoad_ImmunityFeaturedScenario(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, seed.Load(ctx, store))

	immunity, err := store.GetProductsByCategory(ctx, "immunity")
	require.NoError(t, err)
	featured, err := store.GetFeaturedProducts(ctx)
	require.NoError(t, err)

	var target *domain.Product
	for _, p := range immunity {
		if p.Featured {
			target = p
		}
	}
	require.NotNil(t, target, "seed must contain a featured immunity product")
	assert.Equal(t, "Arsenicum Album", target.NameEn)

	var found bool
	for _, p := range featured {
		if p.ID == target.ID {
			found = true
		}
	}
	assert.True(t, found)
	assert.Len(t, featured, 9)
}

func TestLoad_SkipsPopulatedCollections(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, seed.Load(ctx, store))
	require.NoError(t, seed.Load(ctx, store))

	products, err := store.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 35)

	articles, err := store.GetAllArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, articles, 3)
}
