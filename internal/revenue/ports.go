package revenue

import (
	"context"

	"palantir/internal/dataset"
	"palantir/internal/render"
)

// Source provides the current dataset snapshot.
type Source interface {
	Frames(ctx context.Context) (*dataset.Frames, error)
}

// Service computes the revenue analyses from the snapshot.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	Categories(ctx context.Context, basis string) (*CategoryAnalysis, error)
	Vendors(ctx context.Context) (*VendorAnalysis, error)
	Freight(ctx context.Context) (*FreightAnalysis, error)
}

// UseCase assembles the revenue pages and exports.
type UseCase interface {
	OverviewPage(ctx context.Context, q OverviewQuery) (*render.Page, error)
	CategoriesPage(ctx context.Context, q CategoriesQuery) (*render.Page, error)
	VendorsPage(ctx context.Context, q VendorsQuery) (*render.Page, error)
	FreightPage(ctx context.Context) (*render.Page, error)
	CategoriesCSV(ctx context.Context) ([]string, [][]string, error)
	VendorsCSV(ctx context.Context) ([]string, [][]string, error)
	SummaryJSON(ctx context.Context) (*SummaryResponse, error)
}
