package orders

import (
	"context"

	"palantir/internal/dataset"
	"palantir/internal/render"
)

// Source provides the current dataset snapshot.
type Source interface {
	Frames(ctx context.Context) (*dataset.Frames, error)
}

// Service computes the order analyses from the snapshot.
type Service interface {
	Timelines(ctx context.Context) (*TimelineStats, error)
	Delays(ctx context.Context, q DelaysQuery) (*DelayAnalysis, error)
	Geography(ctx context.Context, q GeographyQuery) (*GeoAnalysis, error)
	Performance(ctx context.Context) (*Performance, error)
}

// UseCase assembles the order report pages and exports.
type UseCase interface {
	TimelinesPage(ctx context.Context, q TimelinesQuery) (*render.Page, error)
	DelaysPage(ctx context.Context, q DelaysQuery) (*render.Page, error)
	GeographyPage(ctx context.Context, q GeographyQuery) (*render.Page, error)
	PerformancePage(ctx context.Context, q PerformanceQuery) (*render.Page, error)
	DelaysCSV(ctx context.Context) ([]string, [][]string, error)
	GeographyCSV(ctx context.Context) ([]string, [][]string, error)
	DeliveredCSV(ctx context.Context) ([]string, [][]string, error)
	PerformanceJSON(ctx context.Context) (*PerformanceResponse, error)
}
