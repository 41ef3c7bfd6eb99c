package storage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/fjod/dhnaturally/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *storage.MemoryStore {
	store := storage.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return setupStore(t)
	})
}

func TestMemoryStore_ListingsKeepInsertionOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	var want []string
	for _, category := range []string{"stress", "sleep", "digestion", "detox"} {
		p, err := store.CreateProduct(ctx, storagetest.SampleProduct(category, false))
		require.NoError(t, err)
		want = append(want, p.ID)
	}

	all, err := store.GetAllProducts(ctx)
	require.NoError(t, err)

	got := make([]string, len(all))
	for i, p := range all {
		got[i] = p.ID
	}
	assert.Equal(t, want, got)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	p, err := store.CreateProduct(ctx, storagetest.SampleProduct("pain", false))
	require.NoError(t, err)
	p.Category = "mutated"

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "pain", got.Category)

	item, err := store.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID})
	require.NoError(t, err)
	item.Quantity = 42

	stored, err := store.GetCartItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Quantity)
}

func TestMemoryStore_ConcurrentAddToCart(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	p, err := store.CreateProduct(ctx, storagetest.SampleProduct("immunity", true))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AddToCart(ctx, domain.NewCartItem{SessionID: "abc", ProductID: p.ID, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines, err := store.GetCartItems(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 50, lines[0].Quantity)
}
