package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shortorder/internal/api"
	"shortorder/internal/catalog"
	"shortorder/internal/config"
	"shortorder/internal/database"
	"shortorder/internal/monitoring"
)

var (
	port         = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort  = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile   = flag.String("config", "configs/kitchend.yaml", "Path to configuration file")
	catalogFile  = flag.String("catalog", "", "Path to catalog YAML (overrides config)")
	databaseFile = flag.String("db", "", "Path to SQLite catalog database (overrides config)")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *metricsPort != 0 {
		cfg.MetricsPort = *metricsPort
	}
	if *catalogFile != "" {
		cfg.CatalogPath = *catalogFile
	}
	if *databaseFile != "" {
		cfg.DatabasePath = *databaseFile
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog loaded: %d items, %d recipes", len(cat.Items()), len(cat.Recipes()))

	collector := monitoring.NewCollector()
	service := api.NewService(cat, collector, time.Now)
	server := api.NewServer(service)

	go startMetricsServer(cfg.MetricsPort, collector)
	go runTickLoop(ctx, service, cfg)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting API server on port %d", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// loadCatalog picks the catalog source: the SQLite store when one is
// configured (seeded on first run), a YAML file when given, or the
// embedded default.
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.DatabasePath != "" {
		store, err := database.Open(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		seed := catalog.Default()
		if cfg.CatalogPath != "" {
			if seed, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
				return nil, err
			}
		}
		if err := store.Seed(seed); err != nil {
			return nil, err
		}
		return store.LoadCatalog()
	}
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default(), nil
}

// runTickLoop drives the kitchen with wall-clock ticks and periodic
// expiry sweeps until the context is cancelled.
func runTickLoop(ctx context.Context, service *api.Service, cfg config.Config) {
	ticker := time.NewTicker(cfg.Tick.Interval.D())
	defer ticker.Stop()

	var sweep <-chan time.Time
	if cfg.ExpirySweep.Enabled {
		sweeper := time.NewTicker(cfg.ExpirySweep.Interval.D())
		defer sweeper.Stop()
		sweep = sweeper.C
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			completed := service.Tick(now.Sub(last))
			last = now
			for _, item := range completed {
				log.Printf("Ready: %s", item)
			}
		case <-sweep:
			if removed := service.SweepExpired(); removed > 0 {
				log.Printf("Expired %d inventory entries", removed)
			}
		}
	}
}

func startMetricsServer(port int, collector *monitoring.Collector) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
