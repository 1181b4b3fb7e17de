package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"palantir/internal/commons"
)

// Loader produces a fresh snapshot of the dataset tables.
type Loader interface {
	Load(ctx context.Context) (*Frames, error)
}

// CSVLoader reads the three tables from the locations in the manifest,
// each either a local path or an http(s) URL.
type CSVLoader struct {
	manifest *commons.Manifest
	client   *http.Client
	logger   *zap.Logger
}

func NewCSVLoader(manifest *commons.Manifest, logger *zap.Logger) *CSVLoader {
	return &CSVLoader{
		manifest: manifest,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

func (l *CSVLoader) Load(ctx context.Context) (*Frames, error) {
	var warnings []string

	orders, w, err := loadTable(ctx, l, "orders", l.manifest.Tables.Orders, ParseOrders)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	items, w, err := loadTable(ctx, l, "order_items", l.manifest.Tables.OrderItems, ParseOrderItems)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	products, w, err := loadTable(ctx, l, "products", l.manifest.Tables.Products, ParseProducts)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	f := &Frames{
		SnapshotID: uuid.New(),
		LoadedAt:   time.Now(),
		Source:     "csv",
		Orders:     orders,
		Items:      items,
		Products:   products,
		Warnings:   warnings,
	}
	l.logger.Info("dataset loaded from csv",
		zap.Int("orders", len(orders)),
		zap.Int("order_items", len(items)),
		zap.Int("products", len(products)),
		zap.Int("warnings", len(warnings)),
	)
	return f, nil
}

func loadTable[T any](
	ctx context.Context,
	l *CSVLoader,
	name, location string,
	parse func(io.Reader) ([]T, []string, error),
) ([]T, []string, error) {
	if location == "" {
		return nil, nil, fmt.Errorf("manifest: %s location is empty", name)
	}
	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	rows, warnings, err := parse(rc)
	if err != nil {
		return nil, nil, err
	}
	return rows, warnings, nil
}

func (l *CSVLoader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: status %d", location, resp.StatusCode)
		}
		return resp.Body, nil
	}
	return os.Open(location)
}
