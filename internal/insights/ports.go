package insights

import (
	"context"

	"palantir/internal/dataset"
	"palantir/internal/render"
)

// Source provides the current dataset snapshot.
type Source interface {
	Frames(ctx context.Context) (*dataset.Frames, error)
}

// Service computes the executive summary from the snapshot.
type Service interface {
	Insights(ctx context.Context) (*Insights, error)
}

// UseCase assembles the insights page and its JSON view.
type UseCase interface {
	InsightsPage(ctx context.Context) (*render.Page, error)
	InsightsJSON(ctx context.Context) (*InsightsResponse, error)
}
