package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/dhnaturally/internal/cache"
	"github.com/fjod/dhnaturally/internal/config"
	h "github.com/fjod/dhnaturally/internal/http"
	"github.com/fjod/dhnaturally/internal/notify"
	"github.com/fjod/dhnaturally/internal/repository"
	"github.com/fjod/dhnaturally/internal/seed"
	"github.com/fjod/dhnaturally/internal/service"
	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := seed.Load(seedCtx, store); err != nil {
		log.Fatalf("failed to seed storage: %v", err)
	}
	cancelSeed()

	cartCache, closeCache := openCache(cfg)
	defer closeCache()

	notifier, closers := buildNotifier(cfg)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Printf("failed to close notifier: %v", err)
			}
		}
	}()

	router := h.NewRouter(h.Dependencies{
		Products: store,
		Articles: store,
		Carts:    service.NewCartService(store, cartCache),
		Contacts: service.NewContactService(store, notifier),
	}, h.Options{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		DefaultLanguage:    cfg.DefaultLanguage,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s (storage=%s)", cfg.HTTPPort, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite, config.DriverPostgres:
		repo, err := repository.NewRepository(cfg.StorageDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, err
		}
		log.Printf("using %s storage", cfg.StorageDriver)
		return repo, nil
	default:
		log.Println("using in-memory storage; data is lost on restart")
		return storage.NewMemoryStore(), nil
	}
}

// openCache connects to Redis when configured. An unreachable Redis is
// logged and the service runs without a cache.
func openCache(cfg *config.Config) (cache.CartCache, func()) {
	if cfg.RedisAddr == "" {
		return cache.Nop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s, cart cache disabled: %v", cfg.RedisAddr, err)
		client.Close()
		return cache.Nop{}, func() {}
	}

	log.Printf("cart cache enabled (redis %s)", cfg.RedisAddr)
	return cache.NewRedisCache(client), func() { client.Close() }
}

func buildNotifier(cfg *config.Config) (notify.Notifier, []io.Closer) {
	var (
		notifiers []notify.Notifier
		closers   []io.Closer
	)

	if cfg.MailEnabled() {
		mailer, err := notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.ContactMailFrom, cfg.ContactMailTo)
		if err != nil {
			log.Printf("contact mail disabled: %v", err)
		} else {
			notifiers = append(notifiers, notify.NewBreaker("sendgrid", mailer, notify.BreakerSettings{}))
		}
	}

	if cfg.KafkaEnabled() {
		exporter := notify.NewKafkaNotifier(notify.NewKafkaWriter(cfg.KafkaContactTopic, cfg.KafkaBrokers...))
		notifiers = append(notifiers, notify.NewBreaker("kafka", exporter, notify.BreakerSettings{}))
		closers = append(closers, exporter)
	}

	return notify.Combine(notifiers...), closers
}
