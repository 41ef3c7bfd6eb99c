package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	db "github.com/fjod/dhnaturally/internal/repository"
	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/fjod/dhnaturally/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *db.Repository {
	// Use in-memory database for tests
	repo, err := db.NewRepository(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestSQLiteRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return setupTestDB(t)
	})
}

func TestNewRepository_UnsupportedDriver(t *testing.T) {
	_, err := db.NewRepository("mysql", "whatever")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRunMigrations_Twice(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.RunMigrations())
}

func TestGetAllProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAllProducts(ctx)
	assert.ErrorContains(t, err, "failed to query products")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetAllProducts_OrderedByCreation(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	var want []string
	for _, category := range []string{"stress", "sleep", "digestion"} {
		p, err := repo.CreateProduct(ctx, storagetest.SampleProduct(category, false))
		require.NoError(t, err)
		want = append(want, p.ID)
	}

	all, err := repo.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	got := make([]string, len(all))
	for i, p := range all {
		got[i] = p.ID
	}
	assert.Equal(t, want, got)
}

func TestAddToCart_EmptyProductID_IsMissingProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	item, err := repo.AddToCart(ctx, domain.NewCartItem{SessionID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "", item.ProductID)

	_, err = repo.GetCartItems(ctx, "abc")
	assert.ErrorIs(t, err, storage.ErrMissingProduct)
}
