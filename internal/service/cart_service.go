package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fjod/dhnaturally/internal/cache"
	"github.com/fjod/dhnaturally/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CartStore is the part of storage.Storage the cart service needs.
type CartStore interface {
	GetCartItems(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	GetCartItem(ctx context.Context, id string) (*domain.CartItem, error)
	AddToCart(ctx context.Context, item domain.NewCartItem) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, id string, quantity int) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, id string) (bool, error)
	ClearCart(ctx context.Context, sessionID string) error
}

const (
	cacheOpTimeout   = time.Second
	storeReadTimeout = 10 * time.Second
	stripeCount      = 64
)

// stripe orders cache writes against invalidations for the sessions that
// hash to it. gen grows on every invalidation; a read that started under an
// older gen must not write its snapshot back.
type stripe struct {
	mu  sync.Mutex
	gen uint64
}

// CartService serves session carts from the cache and falls back to the
// store on a miss. Every mutation drops the cached view of its session.
type CartService struct {
	store   CartStore
	cache   cache.CartCache
	sfg     singleflight.Group
	stripes [stripeCount]stripe
}

func NewCartService(store CartStore, c cache.CartCache) *CartService {
	if c == nil {
		c = cache.Nop{}
	}
	return &CartService{
		store: store,
		cache: c,
	}
}

// GetCart returns the joined lines of the session cart. Concurrent misses
// for the same session share one store read, which is detached from the
// cancellation of the caller that started it. Integrity errors from the
// join are returned and never cached.
func (s *CartService) GetCart(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeReadTimeout)
		defer cancel()

		lines, err := s.cache.Get(readCtx, sessionID)
		if err == nil {
			return lines, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		st := s.stripeFor(sessionID)
		st.mu.Lock()
		gen := st.gen
		st.mu.Unlock()

		lines, err = s.store.GetCartItems(readCtx, sessionID)
		if err != nil {
			return nil, err
		}
		if lines == nil {
			lines = []domain.CartLine{}
		}

		s.cacheSnapshot(st, gen, sessionID, lines)
		return lines, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.CartLine), nil
}

// cacheSnapshot writes lines unless the session was invalidated after the
// snapshot's store read began.
func (s *CartService) cacheSnapshot(st *stripe, gen uint64, sessionID string, lines []domain.CartLine) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.gen != gen {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, sessionID, lines); err != nil {
		log.Printf("cache set error: %v", err)
	}
}

func (s *CartService) stripeFor(sessionID string) *stripe {
	return &s.stripes[xxhash.Sum64String(sessionID)%stripeCount]
}

func (s *CartService) AddItem(ctx context.Context, item domain.NewCartItem) (*domain.CartItem, error) {
	added, err := s.store.AddToCart(ctx, item)
	if err != nil {
		log.Printf("store add to cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(item.SessionID)
	return added, nil
}

// UpdateQuantity returns nil when the item does not exist.
func (s *CartService) UpdateQuantity(ctx context.Context, id string, quantity int) (*domain.CartItem, error) {
	updated, err := s.store.UpdateCartItem(ctx, id, quantity)
	if err != nil {
		log.Printf("store update cart item error: %v", err)
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	s.invalidateCache(updated.SessionID)
	return updated, nil
}

// RemoveItem reports whether the item existed.
func (s *CartService) RemoveItem(ctx context.Context, id string) (bool, error) {
	item, err := s.store.GetCartItem(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	removed, err := s.store.RemoveFromCart(ctx, id)
	if err != nil {
		log.Printf("store remove from cart error: %v", err)
		return false, err
	}

	s.invalidateCache(item.SessionID)
	return removed, nil
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.store.ClearCart(ctx, sessionID); err != nil {
		log.Printf("store clear cart error: %v", err)
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

// invalidateCache runs after the store change. Reads already in flight
// for the session are forgotten so later callers start a fresh read.
func (s *CartService) invalidateCache(sessionID string) {
	st := s.stripeFor(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.gen++
	s.sfg.Forget(sessionID)

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
