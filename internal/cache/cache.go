// Package cache stores the joined cart view of a session.
package cache

import (
	"context"
	"errors"

	"github.com/fjod/dhnaturally/internal/domain"
)

// CartCache holds the joined lines of a session cart.
type CartCache interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Set(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Nop is used when no cache backend is configured. Every Get misses.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]domain.CartLine, error) { return nil, ErrCacheMiss }

func (Nop) Set(context.Context, string, []domain.CartLine) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }
