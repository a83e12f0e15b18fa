// Package server assembles the HTTP application: database pool, domain
// services, middleware chain and route tree.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/company"
	"paydesk/internal/domain/dashboard"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/events"
	"paydesk/internal/domain/referential"
	"paydesk/internal/domain/reports"
	"paydesk/internal/platform/config"
	"paydesk/internal/platform/db"
	"paydesk/internal/platform/metrics"
	authhandler "paydesk/internal/transport/http/handlers/auth"
	companieshandler "paydesk/internal/transport/http/handlers/companies"
	dashboardhandler "paydesk/internal/transport/http/handlers/dashboard"
	employeeshandler "paydesk/internal/transport/http/handlers/employees"
	eventshandler "paydesk/internal/transport/http/handlers/events"
	referentialhandler "paydesk/internal/transport/http/handlers/referential"
	roleshandler "paydesk/internal/transport/http/handlers/roles"
	"paydesk/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router chi.Router
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	app := &App{Config: cfg, DB: pool}
	app.Router = app.buildRouter()
	return app, nil
}

func (a *App) buildRouter() chi.Router {
	authStore := auth.NewStore(a.DB)
	authService := auth.NewService(authStore)
	eventService := events.New(a.DB)
	referentialService := referential.NewService(referential.NewStore(a.DB))
	companyService := company.NewService(company.NewStore(a.DB), eventService)
	employeeService := employee.NewService(employee.NewStore(a.DB), eventService)
	dashboardService := dashboard.NewService(dashboard.NewStore(a.DB))
	reportService := reports.NewService(employeeService)

	guard := middleware.NewGuard(authStore)
	collector := metrics.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	r.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))
	r.Use(httprate.LimitByIP(a.Config.RateLimitPerMinute, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if a.Config.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(a.Config.JWTSecret))

		authhandler.NewHandler(authService, a.Config.JWTSecret, a.Config.TokenTTL).RegisterRoutes(r)
		roleshandler.NewHandler(authService, guard).RegisterRoutes(r)
		referentialhandler.NewHandler(referentialService, guard).RegisterRoutes(r)
		companieshandler.NewHandler(companyService, eventService, guard).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeService, eventService, reportService, guard).RegisterRoutes(r)
		dashboardhandler.NewHandler(dashboardService, guard).RegisterRoutes(r)
		eventshandler.NewHandler(eventService, guard).RegisterRoutes(r)
	})

	return r
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	a.DB.Close()
	return nil
}
