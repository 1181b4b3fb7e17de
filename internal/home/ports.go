package home

import (
	"context"

	"palantir/internal/dataset"
	"palantir/internal/render"
)

// Store is the snapshot lifecycle as the home page drives it: reading the
// current frames, forcing a reload and inspecting status without loading.
type Store interface {
	Frames(ctx context.Context) (*dataset.Frames, error)
	Refresh(ctx context.Context) (*dataset.Frames, error)
	Status() dataset.Status
}

// Service computes the home page data from the store.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	DailySeries(ctx context.Context, metric SparkMetric) ([]DailyPoint, error)
}

// UseCase assembles the home page, the refresh action and the PNG and
// health endpoints.
type UseCase interface {
	HomePage(ctx context.Context) (*render.Page, error)
	Refresh(ctx context.Context) error
	SparklinePNG(ctx context.Context, metric SparkMetric) ([]byte, error)
	Health() HealthResponse
}
