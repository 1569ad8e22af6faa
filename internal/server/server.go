package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/agrotech/fieldwatch/api"
	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/cleanup"
	"github.com/agrotech/fieldwatch/internal/config"
	"github.com/agrotech/fieldwatch/internal/database"
	"github.com/agrotech/fieldwatch/internal/hubservice"
	"github.com/agrotech/fieldwatch/internal/ingest"
	"github.com/agrotech/fieldwatch/internal/monitoring"
	"github.com/agrotech/fieldwatch/internal/repository/cache"
	"github.com/agrotech/fieldwatch/internal/repository/memory"
	"github.com/agrotech/fieldwatch/internal/repository/postgres"
	"github.com/agrotech/fieldwatch/internal/repository/timescale"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	router     *mux.Router
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service

	cancel  context.CancelFunc
	closers []func()
	pingers []database.DB
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	router := mux.NewRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		router: router,
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.monitoring = monitoring.NewService()

	svc, err := s.initializeHubService(ctx)
	if err != nil {
		cancel()
		return err
	}
	s.hubservice = svc

	s.setupCleanupHandlers()
	s.startRetention(ctx)
	if err := s.startIngest(ctx); err != nil {
		s.close()
		return err
	}

	s.setupRoutes()

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	s.close()
	if err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// close stops background workers and releases connections in reverse order.
func (s *Server) close() {
	if s.cancel != nil {
		s.cancel()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	v1 := api.NewRouter(s.hubservice, s.monitoring)
	v1.Resources().SetHealthCheck(s.handleHealth())

	s.router.Handle(s.config.Monitoring.MetricsEndpoint, s.monitoring.Handler()).Methods(http.MethodGet)
	s.router.PathPrefix("/").Handler(v1)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))
	s.srv.Handler = recovery(cors(handlers.CombinedLoggingHandler(os.Stdout, s.router)))
}

// handleHealth reports degraded when a database stops answering
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		for _, db := range s.pingers {
			if err := db.Ping(ctx); err != nil {
				nuts.L.Warnf("[Server] Health check ping failed: %v", err)
				status, code = "degraded", http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(`{"status":"` + status + `","version":"` + nuts.GetVersion() + `","storage":"` + s.config.Storage.Backend + `"}`))
	}
}

func (s *Server) setupCleanupHandlers() {
	s.hubservice.Cleanup.OnCleanup(cleanup.EventReadingsPruned, func(count int64) {
		nuts.L.Infof("[Cleanup] %d expired readings deleted", count)
		s.monitoring.RecordEvent("readings_pruned", map[string]string{
			"count": strconv.FormatInt(count, 10),
		})
	})
}

func (s *Server) startRetention(ctx context.Context) {
	if !s.config.Retention.Enabled {
		return
	}
	go s.hubservice.Cleanup.Run(ctx, s.config.Retention.Interval)
}

func (s *Server) startIngest(ctx context.Context) error {
	if s.config.Ingest.Kafka.Enabled {
		consumer := ingest.NewKafkaConsumer(s.config.Ingest.Kafka, s.hubservice)
		s.closers = append(s.closers, func() {
			if err := consumer.Close(); err != nil {
				nuts.L.Warnf("[Server] Kafka consumer close: %v", err)
			}
		})
		go func() {
			if err := consumer.Run(ctx); err != nil {
				nuts.L.Errorf("[Server] Kafka consumer stopped: %v", err)
			}
		}()
	}

	if s.config.Ingest.MQTT.Enabled {
		subscriber, err := ingest.NewMQTTSubscriber(s.config.Ingest.MQTT, s.hubservice)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, subscriber.Close)
		if err := subscriber.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// initializeHubService creates and configures the hub service
func (s *Server) initializeHubService(ctx context.Context) (*hubservice.HubService, error) {
	cfg := s.config
	opts := hubservice.Options{
		Window: cfg.Alerts.Window,
		Frost: alerting.FrostPolicy{
			Enabled:          cfg.Alerts.FrostDetectionEnabled,
			ThresholdCelsius: cfg.Alerts.FrostThresholdCelsius,
		},
		Metrics: s.monitoring,
	}
	if cfg.Retention.Enabled {
		opts.Retention = cfg.Retention.MaxAge
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { closeRedis(client) })
		opts.Cache = cache.NewStatusCache(client, cfg.Redis.KeyPrefix, cfg.Redis.StatusTTL)
		nuts.L.Infof("[Server] Sector status cache enabled (ttl %s)", cfg.Redis.StatusTTL)
	}

	var svc *hubservice.HubService
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store := memory.NewStore()
		if cfg.Storage.SnapshotPath != "" {
			if err := store.LoadSnapshotFile(ctx, cfg.Storage.SnapshotPath); err != nil {
				return nil, err
			}
		}
		nuts.L.Infof("[Server] Using in-memory storage")
		svc = hubservice.New(store.Sectors(), store.Sensors(), store.Readings(), opts)
	default:
		tsdb := initDB(ctx, "TimescaleDB", cfg.Database.TimescaleDB, database.NewTimescaleDB)
		appDB := initDB(ctx, "AppDB", cfg.Database.AppDB, database.NewPostgresDB)
		s.pingers = append(s.pingers, appDB, tsdb)
		s.closers = append(s.closers, func() { tsdb.Close() }, func() { appDB.Close() })

		svc = hubservice.New(
			postgres.NewSectorRepository(appDB),
			postgres.NewSensorRepository(appDB),
			timescale.NewReadingRepository(tsdb),
			opts,
		)
	}

	if err := svc.Validate(); err != nil {
		return nil, err
	}
	return svc, nil
}

func initDB(ctx context.Context, name string, cfg config.PostgresConfig, open func(config.PostgresConfig) (database.DB, error)) database.DB {
	db, err := open(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to %s: %v", name, err)
	}

	// Set up connection timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping %s: %v", name, err)
	}
	nuts.L.Infof("[Server] Connected to %s at %s:%d", name, cfg.Host, cfg.Port)
	return db
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		nuts.L.Warnf("[Server] Redis close: %v", err)
	}
}
