package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	apperrors "palantir/internal/errors"
	"palantir/internal/render"
)

type mockUseCase struct {
	timelinesFunc       func(ctx context.Context, q TimelinesQuery) (*render.Page, error)
	delaysFunc          func(ctx context.Context, q DelaysQuery) (*render.Page, error)
	geographyFunc       func(ctx context.Context, q GeographyQuery) (*render.Page, error)
	performanceFunc     func(ctx context.Context, q PerformanceQuery) (*render.Page, error)
	delaysCSVFunc       func(ctx context.Context) ([]string, [][]string, error)
	geographyCSVFunc    func(ctx context.Context) ([]string, [][]string, error)
	deliveredCSVFunc    func(ctx context.Context) ([]string, [][]string, error)
	performanceJSONFunc func(ctx context.Context) (*PerformanceResponse, error)
}

func (m *mockUseCase) TimelinesPage(ctx context.Context, q TimelinesQuery) (*render.Page, error) {
	return m.timelinesFunc(ctx, q)
}

func (m *mockUseCase) DelaysPage(ctx context.Context, q DelaysQuery) (*render.Page, error) {
	return m.delaysFunc(ctx, q)
}

func (m *mockUseCase) GeographyPage(ctx context.Context, q GeographyQuery) (*render.Page, error) {
	return m.geographyFunc(ctx, q)
}

func (m *mockUseCase) PerformancePage(ctx context.Context, q PerformanceQuery) (*render.Page, error) {
	return m.performanceFunc(ctx, q)
}

func (m *mockUseCase) DelaysCSV(ctx context.Context) ([]string, [][]string, error) {
	return m.delaysCSVFunc(ctx)
}

func (m *mockUseCase) GeographyCSV(ctx context.Context) ([]string, [][]string, error) {
	return m.geographyCSVFunc(ctx)
}

func (m *mockUseCase) DeliveredCSV(ctx context.Context) ([]string, [][]string, error) {
	return m.deliveredCSVFunc(ctx)
}

func (m *mockUseCase) PerformanceJSON(ctx context.Context) (*PerformanceResponse, error) {
	return m.performanceJSONFunc(ctx)
}

func newTestController(uc UseCase) *Controller {
	logger := zap.NewNop()
	return NewController(uc, render.New(logger), logger)
}

func TestController_Timelines_DefaultQuery(t *testing.T) {
	var got TimelinesQuery
	ctrl := newTestController(&mockUseCase{
		timelinesFunc: func(ctx context.Context, q TimelinesQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Order Timelines"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/timelines", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleTimelines(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, TrendOrders, got.Metric)
	assert.Equal(t, defaultTrendWindow, got.Window)
}

func TestController_Timelines_ClampsQuery(t *testing.T) {
	var got TimelinesQuery
	ctrl := newTestController(&mockUseCase{
		timelinesFunc: func(ctx context.Context, q TimelinesQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Order Timelines"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/timelines?metric=bogus&window=99", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleTimelines(rec, req)

	assert.Equal(t, TrendOrders, got.Metric)
	assert.Equal(t, 30, got.Window)
}

func TestController_Delays_ClampsQuery(t *testing.T) {
	var got DelaysQuery
	ctrl := newTestController(&mockUseCase{
		delaysFunc: func(ctx context.Context, q DelaysQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Delay Analysis"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/delays?stage=bogus&status=bogus", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleDelays(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StageSite, got.Stage)
	assert.Equal(t, StatusAll, got.Status)
}

func TestController_Delays_PassesQuery(t *testing.T) {
	var got DelaysQuery
	ctrl := newTestController(&mockUseCase{
		delaysFunc: func(ctx context.Context, q DelaysQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Delay Analysis"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/delays?stage=seller&status=Not_Delivered", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleDelays(rec, req)

	assert.Equal(t, StageSeller, got.Stage)
	assert.Equal(t, statusNotDelivered, got.Status)
}

func TestController_Geography_ClampsQuery(t *testing.T) {
	var got GeographyQuery
	ctrl := newTestController(&mockUseCase{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Geographic Analysis"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/geography?metric=bogus&n=100&bubble_metric=bogus", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleGeography(rec, req)

	assert.Equal(t, GeoMetricOrders, got.Metric)
	assert.Equal(t, 27, got.N)
	assert.Equal(t, BubbleOrders, got.BubbleMetric)
	assert.Equal(t, StatusAll, got.BubbleStatus)
	assert.False(t, got.DelayedOnly)
}

func TestController_Geography_PassesQuery(t *testing.T) {
	var got GeographyQuery
	ctrl := newTestController(&mockUseCase{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Geographic Analysis"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/geography?metric=delay_rate&n=2&bubble_metric=revenue&bubble_status=shipped&delayed_only=yes", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleGeography(rec, req)

	assert.Equal(t, GeoMetricDelay, got.Metric)
	// Requested sizes below the floor are raised to it.
	assert.Equal(t, 5, got.N)
	assert.Equal(t, BubbleRevenue, got.BubbleMetric)
	assert.Equal(t, "shipped", got.BubbleStatus)
	assert.True(t, got.DelayedOnly)
}

func TestController_Performance_ClampsQuery(t *testing.T) {
	var got PerformanceQuery
	ctrl := newTestController(&mockUseCase{
		performanceFunc: func(ctx context.Context, q PerformanceQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Delivery Performance"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/performance?metric=bogus&window=abc&split=bogus", nil)
	rec := httptest.NewRecorder()
	ctrl.HandlePerformance(rec, req)

	assert.Equal(t, MetricDeliveryRate, got.Metric)
	assert.Equal(t, defaultPerfTrendDays, got.Window)
	assert.Equal(t, "delivered", got.Split)
}

func TestController_Performance_PassesQuery(t *testing.T) {
	var got PerformanceQuery
	ctrl := newTestController(&mockUseCase{
		performanceFunc: func(ctx context.Context, q PerformanceQuery) (*render.Page, error) {
			got = q
			return &render.Page{Title: "Delivery Performance"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/performance?metric=delay_rate&window=21&split=not_delivered", nil)
	rec := httptest.NewRecorder()
	ctrl.HandlePerformance(rec, req)

	assert.Equal(t, MetricDelayRate, got.Metric)
	assert.Equal(t, 21, got.Window)
	assert.Equal(t, splitNotDelivered, got.Split)
}

func TestController_Timelines_DataUnavailable(t *testing.T) {
	ctrl := newTestController(&mockUseCase{
		timelinesFunc: func(ctx context.Context, q TimelinesQuery) (*render.Page, error) {
			return nil, apperrors.NewDataUnavailableError("no snapshot", nil)
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/timelines", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleTimelines(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Dataset Not Loaded")
}

func TestController_DelaysCSV_DataUnavailable(t *testing.T) {
	ctrl := newTestController(&mockUseCase{
		delaysCSVFunc: func(ctx context.Context) ([]string, [][]string, error) {
			return nil, nil, apperrors.NewDataUnavailableError("no snapshot", nil)
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/delays.csv", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleDelaysCSV(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATA_UNAVAILABLE")
}

func TestController_Geography_InternalError(t *testing.T) {
	ctrl := newTestController(&mockUseCase{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*render.Page, error) {
			return nil, errors.New("boom")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/geography", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleGeography(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestController_GeographyCSV(t *testing.T) {
	ctrl := newTestController(&mockUseCase{
		geographyCSVFunc: func(ctx context.Context) ([]string, [][]string, error) {
			return []string{"state", "orders"}, [][]string{{"SP", "3000"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/geography.csv", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleGeographyCSV(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "geography.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "state,orders", lines[0])
	assert.Equal(t, "SP,3000", lines[1])
}

func TestController_DeliveredCSV(t *testing.T) {
	ctrl := newTestController(&mockUseCase{
		deliveredCSVFunc: func(ctx context.Context) ([]string, [][]string, error) {
			return []string{"order_id", "delay_days"}, [][]string{{"o1", "2.00"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/delivered.csv", nil)
	rec := httptest.NewRecorder()
	ctrl.HandleDeliveredCSV(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "delivered.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "order_id,delay_days", lines[0])
	assert.Equal(t, "o1,2.00", lines[1])
}

func TestController_PerformanceJSON(t *testing.T) {
	ctrl := newTestController(&mockUseCase{
		performanceJSONFunc: func(ctx context.Context) (*PerformanceResponse, error) {
			return &PerformanceResponse{TotalOrders: 100, DeliveredOrders: 96}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/performance", nil)
	rec := httptest.NewRecorder()
	ctrl.HandlePerformanceJSON(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), `"totalOrders":100`)
}

func TestController_PerformanceJSON_InternalError(t *testing.T) {
	ctrl := newTestController(&mockUseCase{
		performanceJSONFunc: func(ctx context.Context) (*PerformanceResponse, error) {
			return nil, errors.New("boom")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/performance", nil)
	rec := httptest.NewRecorder()
	ctrl.HandlePerformanceJSON(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
