// Package app wires stores, services and handlers into a runnable API.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	finboardHttp "github.com/MrJamesThe3rd/finboard/internal/http"
	accountHandler "github.com/MrJamesThe3rd/finboard/internal/http/account"
	authHandler "github.com/MrJamesThe3rd/finboard/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/finboard/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/finboard/internal/http/matching"
	reportHandler "github.com/MrJamesThe3rd/finboard/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/finboard/internal/matching/store"
	"github.com/MrJamesThe3rd/finboard/internal/metrics"
	"github.com/MrJamesThe3rd/finboard/internal/password"
	"github.com/MrJamesThe3rd/finboard/internal/report"
	"github.com/MrJamesThe3rd/finboard/internal/seed"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/store"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/user"
)

type options struct {
	passwordParams password.Params
	seeder         func(seed.Repository, clock.Clock) *seed.Seeder
}

type Option func(*options)

// WithPasswordParams overrides the scrypt cost parameters.
func WithPasswordParams(p password.Params) Option {
	return func(o *options) {
		o.passwordParams = p
	}
}

// WithSeeder overrides how the sample data seeder is built. It only matters
// when seeding is enabled in the config.
func WithSeeder(build func(seed.Repository, clock.Clock) *seed.Seeder) Option {
	return func(o *options) {
		o.seeder = build
	}
}

// App is a fully wired API process.
type App struct {
	cfg      *config.Config
	sessions *session.Store
	registry *prometheus.Registry
	handler  http.Handler
}

func New(cfg *config.Config, clk clock.Clock, opts ...Option) *App {
	o := options{
		passwordParams: password.DefaultParams,
		seeder: func(repo seed.Repository, clk clock.Clock) *seed.Seeder {
			return seed.New(repo, clk, nil)
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	collector := metrics.NewCollector()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		db       = store.New(clk)
		sessions = session.NewStore(clk, cfg.Session.TTL, session.WithSweepObserver(collector.SessionsSwept))
	)

	authOpts := []auth.Option{auth.WithRecorder(collector)}
	if cfg.Seed.Enabled {
		authOpts = append(authOpts, auth.WithRegisterHook(o.seeder(db, clk).Hook))
	}

	var (
		userService        = user.NewService(db)
		authService        = auth.NewService(db, password.NewHasher(o.passwordParams), sessions, authOpts...)
		accountService     = account.NewService(db)
		matchingService    = matching.NewService(matchingStore.New(clk))
		transactionService = transaction.NewService(db, accountService, matchingService)
		importService      = importer.NewService(transactionService)
		reportService      = report.NewService(transactionService)
		exportService      = export.NewService(transactionService, accountService)
	)

	cookies := authHandler.NewCookies(cfg.Session.CookieName, cfg.Session.Secret, cfg.Session.SecureCookie, clk)
	limiter := authHandler.NewLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst, clk)

	var (
		authH        = authHandler.NewHandler(authService, userService, cookies, limiter, collector)
		accountH     = accountHandler.NewHandler(accountService, transactionService)
		transactionH = txHandler.NewHandler(transactionService)
		importH      = importHandler.NewHandler(importService)
		matchingH    = matchingHandler.NewHandler(matchingService)
		reportH      = reportHandler.NewHandler(reportService)
		exportH      = exportHandler.NewHandler(exportService, clk)
	)

	router := finboardHttp.New(
		finboardHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, Gatherer: registry},
		authH, accountH, transactionH, importH, matchingH, reportH, exportH,
	)

	return &App{
		cfg:      cfg,
		sessions: sessions,
		registry: registry,
		handler:  router,
	}
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Sessions() *session.Store {
	return a.sessions
}

// Run serves the API and sweeps expired sessions until ctx is cancelled,
// then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: a.cfg.Server.Timeout,
		ReadTimeout:       a.cfg.Server.Timeout,
		WriteTimeout:      a.cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return a.sessions.Run(gctx, a.cfg.Session.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		slog.Info("shutting down server")

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}

		return nil
	})

	return g.Wait()
}
