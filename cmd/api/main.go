package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/cart"
	"github.com/booksandchill/storefront/internal/catalog"
	"github.com/booksandchill/storefront/internal/checkout"
	"github.com/booksandchill/storefront/internal/config"
	"github.com/booksandchill/storefront/internal/events"
	"github.com/booksandchill/storefront/internal/favorites"
	"github.com/booksandchill/storefront/internal/httpx"
	kafkax "github.com/booksandchill/storefront/internal/kafka"
	"github.com/booksandchill/storefront/internal/kv"
	"github.com/booksandchill/storefront/internal/postgres"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog: Postgres when a DSN is set, JSON files otherwise.
	var provider catalog.Provider
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		provider = &postgres.CatalogRepo{DB: db}
	} else {
		provider = catalog.NewFileProvider(cfg.CatalogDir)
	}
	products, err := provider.Products(ctx)
	if err != nil {
		log.Fatal("load catalog", zap.Error(err))
	}
	reviews, err := provider.Reviews(ctx)
	if err != nil {
		log.Warn("load reviews, continuing without", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("products", len(products)), zap.Int("reviews", len(reviews)))

	// Session state mirror: Redis when configured, in-process otherwise.
	var store kv.Store
	if cfg.RedisAddr != "" {
		store = kv.NewRedisStore(cfg.RedisAddr)
	} else {
		store = kv.NewMemoryStore()
	}

	// Order export, disabled without brokers.
	var publisher checkout.OrderPublisher
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderCompleted, 1024, log)
		prod.Start(ctx)
		publisher = events.NewPublisher(prod, cfg.ServiceName)
	}

	cartStore := cart.NewStore(store, log)
	cartStore.OnChange(func(s cart.Summary) {
		log.Debug("cart changed", zap.Int("items", s.ItemCount), zap.Float64("total", s.TotalPrice))
	})
	if err := cartStore.Restore(ctx); err != nil {
		log.Warn("cart restore", zap.Error(err))
	}
	machine := checkout.NewMachine(cartStore, store, publisher, log, cfg.ProcessingDelay)
	if err := machine.Restore(ctx); err != nil {
		log.Warn("order history restore", zap.Error(err))
	}
	favStore := favorites.NewStore(store, log)
	if err := favStore.Restore(ctx); err != nil {
		log.Warn("favorites restore", zap.Error(err))
	}

	searcher := catalog.NewSearcher(products, cfg.SearchDebounce)

	router := httpx.NewRouter()
	h := httpx.NewStorefrontHandler(products, reviews)
	h.Cart = cartStore
	h.Checkout = machine
	h.Favorites = favStore
	h.Search = httpx.NewLiveSearch(searcher)
	h.Log = log
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)

	searcher.Flush()
	cancel() // stops the producer loop, which flushes and closes the writer
	if prod != nil {
		prod.WaitClosed()
	}
}
