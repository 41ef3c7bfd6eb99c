package notify

import (
	"context"
	"log"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerSettings tunes a Breaker. Zero values fall back to the defaults
// below.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

const (
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

// Breaker stops calling a failing notifier for a while so a dead mail or
// broker endpoint does not slow down every contact request.
type Breaker struct {
	next Notifier
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreaker(name string, next Notifier, settings BreakerSettings) *Breaker {
	failures := settings.ConsecutiveFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	timeout := settings.OpenTimeout
	if timeout == 0 {
		timeout = defaultBreakerTimeout
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("notifier %s breaker: %s -> %s", name, from, to)
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) NotifyContact(ctx context.Context, s *domain.ContactSubmission) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.NotifyContact(ctx, s)
	})
	return err
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
