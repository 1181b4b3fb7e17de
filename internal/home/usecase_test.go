package home

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"palantir/internal/dataset"
	apperrors "palantir/internal/errors"
	"palantir/internal/render"
)

type mockService struct {
	overviewFunc func(ctx context.Context) (*Overview, error)
	seriesFunc   func(ctx context.Context, metric SparkMetric) ([]DailyPoint, error)
}

func (m *mockService) Overview(ctx context.Context) (*Overview, error) {
	return m.overviewFunc(ctx)
}

func (m *mockService) DailySeries(ctx context.Context, metric SparkMetric) ([]DailyPoint, error) {
	return m.seriesFunc(ctx, metric)
}

func findSection(p *render.Page, title string) *render.Section {
	for i := range p.Sections {
		if p.Sections[i].Title == title {
			return &p.Sections[i]
		}
	}
	return nil
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestUseCase_HomePage_Loaded(t *testing.T) {
	f := testFrames()
	svc := &mockService{
		overviewFunc: func(ctx context.Context) (*Overview, error) {
			return &Overview{
				Status:   loadedStatus(),
				Orders:   f.Orders,
				Items:    f.Items,
				Products: f.Products,
			}, nil
		},
	}
	uc := NewUseCase(svc, &mockStore{status: loadedStatus()})

	page, err := uc.HomePage(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "Olist E-Commerce Dashboard", page.Title)
	assert.Equal(t, "home", page.Active)

	status := findSection(page, "Dataset Status")
	assert.NotNil(t, status)
	assert.Len(t, status.Cards, 3)
	assert.Equal(t, "Orders", status.Cards[0].Label)
	assert.Equal(t, "5", status.Cards[0].Value)
	assert.NotNil(t, status.Form)
	assert.Equal(t, "/data/refresh", status.Form.Action)
	assert.Equal(t, "post", status.Form.Method)
	assert.Equal(t, "Reload Data", status.Form.Submit)
	assert.Len(t, status.Tables, 1)
	assert.Equal(t, []string{"Source", "file"}, status.Tables[0].Rows[0])
	assert.Equal(t, []string{"Snapshot ID", "a1b2c3"}, status.Tables[0].Rows[2])

	activity := findSection(page, "Activity")
	assert.NotNil(t, activity)
	assert.Len(t, activity.Images, 3)
	assert.Equal(t, "/sparklines/orders.png", activity.Images[0].Src)
	assert.Equal(t, "/sparklines/revenue.png", activity.Images[1].Src)
	assert.Equal(t, "/sparklines/delivered.png", activity.Images[2].Src)

	preview := findSection(page, "Data Preview")
	assert.NotNil(t, preview)
	assert.Len(t, preview.Tables, 3)
	assert.Equal(t,
		[]string{"o1", "delivered", "2017-01-01 10:00", "2017-01-03 09:00", "2017-01-05 00:00", "SP"},
		preview.Tables[0].Rows[0])
	assert.Equal(t,
		[]string{"o1", "p1", "s1", "R$100.00", "R$10.00"},
		preview.Tables[1].Rows[0])
	assert.Equal(t,
		[]string{"p2", "toys", "-", "-", "-", "-"},
		preview.Tables[2].Rows[1])

	reports := findSection(page, "Reports")
	assert.NotNil(t, reports)
	assert.Len(t, reports.Tables[0].Rows, 9)
	assert.Equal(t, "/insights", reports.Links[0].Href)
}

func TestUseCase_HomePage_NotLoaded(t *testing.T) {
	svc := &mockService{
		overviewFunc: func(ctx context.Context) (*Overview, error) {
			return &Overview{Status: dataset.Status{}}, nil
		},
	}
	uc := NewUseCase(svc, &mockStore{})

	page, err := uc.HomePage(context.Background())

	assert.NoError(t, err)
	status := findSection(page, "Dataset Status")
	assert.NotNil(t, status)
	assert.Empty(t, status.Cards)
	assert.NotEmpty(t, status.Text)
	assert.Equal(t, "Load Data", status.Form.Submit)
	assert.Nil(t, findSection(page, "Activity"))
	assert.Nil(t, findSection(page, "Data Preview"))
	assert.NotNil(t, findSection(page, "Reports"))
}

func TestUseCase_HomePage_Warnings(t *testing.T) {
	st := loadedStatus()
	st.Warnings = []string{"orders: 3 rows dropped"}
	svc := &mockService{
		overviewFunc: func(ctx context.Context) (*Overview, error) {
			return &Overview{Status: st}, nil
		},
	}
	uc := NewUseCase(svc, &mockStore{status: st})

	page, err := uc.HomePage(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"orders: 3 rows dropped"}, page.Warnings)
}

func TestUseCase_Refresh(t *testing.T) {
	store := &mockStore{frames: testFrames()}
	uc := NewUseCase(NewService(store), store)

	assert.NoError(t, uc.Refresh(context.Background()))

	store.refreshErr = apperrors.NewDataUnavailableError("load failed", nil)
	assert.Error(t, uc.Refresh(context.Background()))
}

func TestUseCase_SparklinePNG(t *testing.T) {
	svc := &mockService{
		seriesFunc: func(ctx context.Context, metric SparkMetric) ([]DailyPoint, error) {
			return []DailyPoint{
				{Date: "2017-01-01", Value: 10},
				{Date: "2017-01-02", Value: 14},
				{Date: "2017-01-03", Value: 7},
			}, nil
		},
	}
	uc := NewUseCase(svc, &mockStore{})

	png, err := uc.SparklinePNG(context.Background(), SparkOrders)

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestUseCase_SparklinePNG_SinglePoint(t *testing.T) {
	svc := &mockService{
		seriesFunc: func(ctx context.Context, metric SparkMetric) ([]DailyPoint, error) {
			return []DailyPoint{{Date: "2017-01-01", Value: 10}}, nil
		},
	}
	uc := NewUseCase(svc, &mockStore{})

	png, err := uc.SparklinePNG(context.Background(), SparkRevenue)

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestUseCase_SparklinePNG_NoData(t *testing.T) {
	svc := &mockService{
		seriesFunc: func(ctx context.Context, metric SparkMetric) ([]DailyPoint, error) {
			return nil, nil
		},
	}
	uc := NewUseCase(svc, &mockStore{})

	_, err := uc.SparklinePNG(context.Background(), SparkDelivered)

	assert.Error(t, err)
	_, ok := apperrors.IsDataUnavailableError(err)
	assert.True(t, ok)
}

func TestUseCase_Health(t *testing.T) {
	uc := NewUseCase(nil, &mockStore{status: dataset.Status{Loaded: true}})
	assert.Equal(t, HealthResponse{Status: "ok", Dataset: "loaded"}, uc.Health())

	uc = NewUseCase(nil, &mockStore{})
	assert.Equal(t, HealthResponse{Status: "ok", Dataset: "empty"}, uc.Health())
}
