package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"palantir/internal/home"
	"palantir/internal/insights"
	"palantir/internal/orders"
	"palantir/internal/revenue"
)

// NewRouter mounts every report page and its exports on a chi router.
func NewRouter(
	homeCtrl *home.Controller,
	insightsCtrl *insights.Controller,
	revenueCtrl *revenue.Controller,
	ordersCtrl *orders.Controller,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", homeCtrl.HandleHome)
	r.Post("/data/refresh", homeCtrl.HandleRefresh)
	r.Get("/sparklines/{series}.png", homeCtrl.HandleSparkline)
	r.Get("/healthz", homeCtrl.HandleHealth)

	r.Get("/insights", insightsCtrl.HandleInsights)

	r.Route("/revenue", func(r chi.Router) {
		r.Get("/", revenueCtrl.HandleOverview)
		r.Get("/categories", revenueCtrl.HandleCategories)
		r.Get("/categories.csv", revenueCtrl.HandleCategoriesCSV)
		r.Get("/vendors", revenueCtrl.HandleVendors)
		r.Get("/vendors.csv", revenueCtrl.HandleVendorsCSV)
		r.Get("/freight", revenueCtrl.HandleFreight)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/timelines", ordersCtrl.HandleTimelines)
		r.Get("/delays", ordersCtrl.HandleDelays)
		r.Get("/delays.csv", ordersCtrl.HandleDelaysCSV)
		r.Get("/geography", ordersCtrl.HandleGeography)
		r.Get("/geography.csv", ordersCtrl.HandleGeographyCSV)
		r.Get("/delivered.csv", ordersCtrl.HandleDeliveredCSV)
		r.Get("/performance", ordersCtrl.HandlePerformance)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/insights", insightsCtrl.HandleInsightsJSON)
		r.Get("/revenue/summary", revenueCtrl.HandleSummaryJSON)
		r.Get("/orders/performance", ordersCtrl.HandlePerformanceJSON)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
