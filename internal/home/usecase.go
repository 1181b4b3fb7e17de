package home

import (
	"context"
	"fmt"
	"time"

	"palantir/internal/charts"
	"palantir/internal/dataset"
	"palantir/internal/domain"
	apperrors "palantir/internal/errors"
	"palantir/internal/render"
)

const homeFooter = "Dataset: Brazilian E-Commerce Public Dataset by Olist"

type homeUseCase struct {
	service Service
	store   Store
}

func NewUseCase(service Service, store Store) UseCase {
	return &homeUseCase{service: service, store: store}
}

func (uc *homeUseCase) HomePage(ctx context.Context) (*render.Page, error) {
	ov, err := uc.service.Overview(ctx)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Olist E-Commerce Dashboard",
		Subtitle: "Revenue and delivery insights from the Brazilian e-commerce dataset",
		Active:   "home",
		Warnings: ov.Status.Warnings,
		Footer:   homeFooter,
	}

	if !ov.Status.Loaded {
		page.Sections = append(page.Sections,
			render.Section{
				Title: "Dataset Status",
				Text: []string{
					"No dataset snapshot is loaded yet. Load the data to unlock the reports.",
				},
				Form: refreshForm("Load Data"),
			},
			reportsSection(),
		)
		return page, nil
	}

	page.Sections = append(page.Sections,
		statusSection(ov.Status),
		activitySection(),
		previewSection(ov),
		reportsSection(),
	)
	return page, nil
}

func (uc *homeUseCase) Refresh(ctx context.Context) error {
	_, err := uc.store.Refresh(ctx)
	return err
}

func (uc *homeUseCase) SparklinePNG(ctx context.Context, metric SparkMetric) ([]byte, error) {
	points, err := uc.service.DailySeries(ctx, metric)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, apperrors.NewDataUnavailableError("no daily activity to draw", nil)
	}
	return renderSparkline(points, sparkColors[metric])
}

func (uc *homeUseCase) Health() HealthResponse {
	ds := "empty"
	if uc.store.Status().Loaded {
		ds = "loaded"
	}
	return HealthResponse{Status: "ok", Dataset: ds}
}

func refreshForm(label string) *render.Form {
	return &render.Form{Action: "/data/refresh", Method: "post", Submit: label}
}

func statusSection(st dataset.Status) render.Section {
	rows := [][]string{
		{"Source", st.Source},
		{"Loaded At", st.LoadedAt.Format("2006-01-02 15:04:05 MST")},
		{"Snapshot ID", st.SnapshotID},
	}
	if st.TTL > 0 {
		rows = append(rows, []string{"Refresh TTL", st.TTL.String()})
	}
	return render.Section{
		Title: "Dataset Status",
		Cards: []render.Card{
			{Label: "Orders", Value: render.Count(st.Orders), Color: charts.Teal},
			{Label: "Order Items", Value: render.Count(st.Items), Color: charts.Green},
			{Label: "Products", Value: render.Count(st.Products), Color: charts.LightBlue},
		},
		Tables: []render.Table{{Title: "Snapshot", Headers: []string{"Field", "Value"}, Rows: rows}},
		Form:   refreshForm("Reload Data"),
	}
}

func activitySection() render.Section {
	return render.Section{
		Title: "Activity",
		Note:  "Daily volumes across the full dataset.",
		Images: []render.Image{
			{Title: "Daily Orders", Src: "/sparklines/orders.png", Alt: "Daily distinct orders"},
			{Title: "Daily Revenue", Src: "/sparklines/revenue.png", Alt: "Daily revenue"},
			{Title: "Daily Deliveries", Src: "/sparklines/delivered.png", Alt: "Daily delivered orders"},
		},
	}
}

func previewSection(ov *Overview) render.Section {
	return render.Section{
		Title: "Data Preview",
		Note:  fmt.Sprintf("First %d rows of each table.", previewRows),
		Tables: []render.Table{
			ordersPreview(ov.Orders),
			itemsPreview(ov.Items),
			productsPreview(ov.Products),
		},
	}
}

func ordersPreview(orders []domain.Order) render.Table {
	rows := make([][]string, len(orders))
	for i, o := range orders {
		rows[i] = []string{
			shortID(o.ID),
			o.Status,
			tsCell(o.PurchasedAt),
			tsCell(o.DeliveredAt),
			tsCell(o.EstimatedAt),
			o.State(),
		}
	}
	return render.Table{
		Title:   "Orders",
		Headers: []string{"Order", "Status", "Purchased", "Delivered", "Estimated", "State"},
		Rows:    rows,
	}
}

func itemsPreview(items []domain.OrderItem) render.Table {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{
			shortID(it.OrderID),
			shortID(it.ProductID),
			shortID(it.SellerID),
			render.Money2(it.PriceValue()),
			render.Money2(it.FreightAmount()),
		}
	}
	return render.Table{
		Title:   "Order Items",
		Headers: []string{"Order", "Product", "Seller", "Price", "Freight"},
		Rows:    rows,
	}
}

func productsPreview(products []domain.Product) render.Table {
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			shortID(p.ID),
			p.Category,
			dimCell(p.WeightG),
			dimCell(p.LengthCm),
			dimCell(p.HeightCm),
			dimCell(p.WidthCm),
		}
	}
	return render.Table{
		Title:   "Products",
		Headers: []string{"Product", "Category", "Weight (g)", "Length (cm)", "Height (cm)", "Width (cm)"},
		Rows:    rows,
	}
}

// reportsSection lays out the order the reports are meant to be read in.
func reportsSection() render.Section {
	return render.Section{
		Title: "Reports",
		Tables: []render.Table{{
			Title:   "Analysis Journey",
			Headers: []string{"#", "Report", "Focus"},
			Rows: [][]string{
				{"1", "Main Insights", "Key takeaways and executive summary"},
				{"2", "Revenue", "Overall revenue metrics and top segments"},
				{"3", "Categories", "Product category performance and patterns"},
				{"4", "Vendors", "Seller performance and rankings"},
				{"5", "Freight", "Shipping costs and logistics efficiency"},
				{"6", "Timelines", "Processing stages and fulfillment times"},
				{"7", "Delays", "Delay patterns and late delivery hotspots"},
				{"8", "Geography", "Regional trends and state-level breakdowns"},
				{"9", "Performance", "Delivery success rates and overall KPIs"},
			},
		}},
		Links: []render.Link{{Label: "Start with Main Insights", Href: "/insights"}},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func tsCell(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func dimCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return render.F1(*v)
}
