package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/finboard/internal/http/account"
	"github.com/MrJamesThe3rd/finboard/internal/http/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	"github.com/MrJamesThe3rd/finboard/internal/http/matching"
	"github.com/MrJamesThe3rd/finboard/internal/http/report"
	"github.com/MrJamesThe3rd/finboard/internal/http/transaction"
)

// Options carries the router settings that are not handlers.
type Options struct {
	AllowedOrigins []string
	// Gatherer backs /metrics. The endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
}

func New(
	opts Options,
	authV1 *auth.Handler,
	accountsV1 *account.Handler,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	matchingV1 *matching.Handler,
	reportsV1 *report.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		authV1.Routes(r)

		r.Group(func(r chi.Router) {
			r.Use(authV1.RequireSession)

			r.Route("/accounts", func(r chi.Router) {
				accountsV1.Routes(r)
				r.Route("/{id}/import", importV1.Routes)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/matching", matchingV1.Routes)
			r.Route("/reports", reportsV1.Routes)
			r.Route("/export", exportV1.Routes)
		})
	})

	return router
}
