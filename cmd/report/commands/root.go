package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"palantir/internal/commons"
	"palantir/internal/config"
	"palantir/internal/dataset"
	"palantir/internal/infrastructure/mysql"
)

var (
	manifestPath string
	sourceName   string
)

func Execute() error {
	root := &cobra.Command{
		Use:   "report",
		Short: "Offline reports over the Olist e-commerce dataset",
	}

	root.PersistentFlags().StringVar(&manifestPath, "manifest", "configs/dataset.yaml", "dataset manifest path")
	root.PersistentFlags().StringVar(&sourceName, "source", "", "override the manifest source (csv or mysql)")

	root.AddCommand(summaryCmd(), validateCmd())
	return root.Execute()
}

// staticSource feeds an already loaded snapshot to the report services.
type staticSource struct {
	frames *dataset.Frames
}

func (s staticSource) Frames(ctx context.Context) (*dataset.Frames, error) {
	return s.frames, nil
}

// loadFrames reads the dataset named by the manifest. The loaders log
// through zap; a nop logger keeps command output clean.
func loadFrames(ctx context.Context) (*dataset.Frames, error) {
	manifest, err := commons.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if sourceName != "" {
		manifest.Source = sourceName
	}

	logger := zap.NewNop()
	var loader dataset.Loader
	switch manifest.Source {
	case "mysql":
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		loader = dataset.NewSQLLoader(db, logger)
	default:
		loader = dataset.NewCSVLoader(manifest, logger)
	}

	return loader.Load(ctx)
}
