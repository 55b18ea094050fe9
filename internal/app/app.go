package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RubachokBoss/student-records/internal/config"
	"github.com/RubachokBoss/student-records/internal/database"
	"github.com/RubachokBoss/student-records/internal/delivery/httpd"
	"github.com/RubachokBoss/student-records/internal/middleware"
	"github.com/RubachokBoss/student-records/internal/repository"
	"github.com/RubachokBoss/student-records/internal/server"
	"github.com/RubachokBoss/student-records/internal/service"
	"github.com/RubachokBoss/student-records/internal/service/integration"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type App struct {
	server *server.Server
	logger zerolog.Logger
	config *config.Config
	db     *sqlx.DB
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	var (
		source service.RecordSource
		db     *sqlx.DB
	)

	switch cfg.Backend.Driver {
	case config.DriverPostgres:
		var err error
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info().Str("host", cfg.Database.Host).Msg("Database connection established")

		source = repository.NewStudentRepository(db, cfg.Backend.Timeout, log)
	default:
		source = integration.NewRecordsClient(
			cfg.Backend.URL,
			cfg.Backend.APIKey,
			cfg.Backend.Timeout,
			log,
		)
		log.Info().Str("url", cfg.Backend.URL).Msg("Using REST record backend")
	}

	a, err := newApp(cfg, log, source)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(cfg *config.Config, log zerolog.Logger, source service.RecordSource) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(registry)

	loc, err := cfg.Display.Location()
	if err != nil {
		return nil, err
	}

	viewService := service.NewStudentViewService(source, metrics, log)

	handler, err := httpd.NewHandler(
		viewService,
		httpd.NewPresenter(loc, cfg.Display.TimeLayout),
		cfg.Server.RequestTimeout,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		log,
	)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	srv := server.NewServer(server.ServerConfig{
		Address:         cfg.Server.Address,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log)

	srv.SetupMiddleware(
		middleware.NewCORS(cfg.CORS),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
	)

	return &App{
		server: srv,
		logger: log,
		config: cfg,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting student records on %s", a.config.Server.Address)
	return a.server.Start()
}

func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down student records...")

	err := a.server.Shutdown(ctx)

	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close database connection")
		}
	}

	return err
}
