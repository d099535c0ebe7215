package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/location-gateway/internal/config"
	httpDelivery "github.com/location-gateway/internal/delivery/http"
	"github.com/location-gateway/internal/delivery/http/handler"
	"github.com/location-gateway/internal/infrastructure/googlemaps"
	"github.com/location-gateway/internal/metrics"
	"github.com/location-gateway/internal/pkg/logger"
	"github.com/location-gateway/internal/repository/cache"
	"github.com/location-gateway/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Location Gateway")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("maps_backend", cfg.GoogleMaps.Backend),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// 3. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	// 4. Autocomplete cache (in-process or Redis)
	autocompleteCache, closeCache, err := cache.NewAutocompleteCache(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize autocomplete cache", zap.Error(err))
	}
	log.Info("Autocomplete cache ready",
		zap.Duration("ttl", cfg.Cache.AutocompleteTTL),
		zap.Int("max_entries", cfg.Cache.MaxEntries),
	)

	// 5. Google Maps client
	mapsRepo, err := googlemaps.NewClient(&cfg.GoogleMaps, log, m)
	if err != nil {
		log.Fatal("Failed to initialize Google Maps client", zap.Error(err))
	}

	// 6. Use case and handlers
	locationUC := usecase.NewLocationUseCase(
		mapsRepo,
		autocompleteCache,
		m,
		log,
		cfg.GoogleMaps.NearbySearchRadiusMeters,
	)
	locationHandler := handler.NewLocationHandler(locationUC, log)

	// 7. HTTP server
	server := httpDelivery.NewServer(cfg, log, m, reg, locationHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully", zap.String("address", cfg.GetServerAddr()))

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := closeCache(); err != nil {
		log.Error("Failed to close autocomplete cache", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
