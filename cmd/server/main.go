package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/internal/api"
	"github.com/yegors/preflight/internal/config"
	"github.com/yegors/preflight/internal/planner"
	"github.com/yegors/preflight/internal/storage/sqlite"
	"github.com/yegors/preflight/internal/weather"
	"github.com/yegors/preflight/internal/websocket"
	"github.com/yegors/preflight/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(cfg.Logging.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Preflight server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Open storage. The memory backend is an in-process SQLite database.
	dbPath := ":memory:"
	if cfg.Storage.Type == "sqlite" {
		dbPath = cfg.Storage.SQLitePath
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			log.Fatal("Failed to create storage directory", logger.Error(err))
		}
	}
	db, err := sqlite.Open(dbPath, log)
	if err != nil {
		log.Fatal("Failed to open storage", logger.Error(err))
	}
	defer db.Close()

	profileStorage := sqlite.NewProfileStorage(db)

	// Create the aircraft catalog and restore persisted models
	catalog := aircraft.NewCatalog(sqlite.NewKVStore(db), log)
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := catalog.Load(loadCtx); err != nil {
		// Built-in models stay available
		log.Error("Failed to load aircraft catalog", logger.Error(err))
	}
	loadCancel()

	// Create WebSocket server
	wsServer := websocket.NewServer(log)
	go wsServer.Run()

	// Create weather service
	weatherService := weather.NewService(cfg.Weather, log)
	weatherService.SetUpdateCallback(func(b *weather.Briefing) {
		wsServer.Broadcast(&websocket.Message{
			Type: websocket.MessageTypeWeatherUpdated,
			Data: map[string]any{"briefing": b},
		})
	})
	if err := weatherService.Start(); err != nil {
		log.Error("Failed to start weather service", logger.Error(err))
	}

	// Create planner; the weather service resolves route idents to positions
	plannerService := planner.NewService(catalog, api.PlannerProfiles(profileStorage), weatherService, cfg.Planning.FuelPolicy(), log)

	wsHandler := planner.NewWebSocketHandler(plannerService, wsServer, log)
	wsServer.SetMessageHandler(wsHandler)
	catalog.SetNotifier(wsHandler)

	// Create API router
	router := api.NewRouter(catalog, plannerService, weatherService, profileStorage, cfg, log, wsServer)
	handler := router.Routes()

	// --- Setup for multiple HTTP servers ---
	var servers []*http.Server
	allPorts := append([]int{cfg.Server.Port}, cfg.Server.AdditionalPorts...)

	log.Info("Configured listener ports", logger.Any("ports", allPorts))

	for _, port := range allPorts {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)
		server := &http.Server{
			Addr:         addr,
			Handler:      handler, // All servers use the same router
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
		}
		servers = append(servers, server)

		go func(s *http.Server) {
			log.Info("Starting HTTP server", logger.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("HTTP server error on startup", logger.String("addr", s.Addr), logger.Error(err))
			}
		}(server)
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	// Stop background services first
	log.Info("Stopping weather service...")
	weatherService.Stop()
	log.Info("Weather service stopped.")

	// Shutdown all HTTP servers
	log.Info("Shutting down HTTP servers...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error", logger.String("addr", srv.Addr), logger.Error(err))
			} else {
				log.Info("HTTP server shutdown complete", logger.String("addr", srv.Addr))
			}
		}(s)
	}
	wg.Wait()

	wsServer.Stop()

	log.Info("Server fully stopped")
}
