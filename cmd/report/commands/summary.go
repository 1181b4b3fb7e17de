package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"palantir/internal/dataset"
	"palantir/internal/insights"
	"palantir/internal/render"
)

func summaryCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Write the executive summary as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrames(cmd.Context())
			if err != nil {
				return err
			}

			svc := insights.NewService(staticSource{frames: f})
			ins, err := svc.Insights(cmd.Context())
			if err != nil {
				return err
			}

			md := summaryMarkdown(f, ins, time.Now())
			if outPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the report to a file instead of stdout")
	return cmd
}

func summaryMarkdown(f *dataset.Frames, ins *insights.Insights, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Olist E-Commerce Executive Summary\n\n")
	fmt.Fprintf(&b, "Generated %s from the %s source: %s orders, %s order items, %s products.\n\n",
		now.Format("2006-01-02 15:04"), f.Source,
		render.Count(len(f.Orders)), render.Count(len(f.Items)), render.Count(len(f.Products)))

	b.WriteString("## Revenue\n\n")
	fmt.Fprintf(&b, "- Total revenue: %s\n", render.Money(ins.TotalRevenue))
	fmt.Fprintf(&b, "- Average order value: %s\n", render.Money2(ins.AvgOrderValue))
	fmt.Fprintf(&b, "- Orders with items: %s\n", render.Count(ins.TotalOrders))
	fmt.Fprintf(&b, "- Items sold: %s (%s per order)\n",
		render.Count(ins.TotalItemsSold), render.F1(ins.AvgItemsPerOrder))
	if ins.HasGrowth {
		fmt.Fprintf(&b, "- Month-over-month revenue growth: %+.1f%%\n", ins.GrowthRatePct)
	}
	b.WriteString("\n")

	b.WriteString("## Delivery\n\n")
	fmt.Fprintf(&b, "- Delivered orders: %s (%s of all orders)\n",
		render.Count(ins.DeliveredCount), render.Pct(ins.DeliveryRatePct))
	fmt.Fprintf(&b, "- On-time rate: %s\n", render.Pct(ins.OnTimeRatePct))
	fmt.Fprintf(&b, "- Delayed deliveries: %s (%s), averaging %s late\n",
		render.Count(ins.DelayedCount), render.Pct(ins.DelayRatePct), render.Days(ins.AvgDelayDays))
	b.WriteString("\n")

	b.WriteString("## Freight\n\n")
	fmt.Fprintf(&b, "- Total freight: %s\n", render.Money(ins.TotalFreight))
	fmt.Fprintf(&b, "- Average freight per item: %s\n", render.Money2(ins.AvgFreightPerItem))
	fmt.Fprintf(&b, "- Freight to product value ratio: %s\n", render.Pct(ins.FreightRatioPct))
	b.WriteString("\n")

	b.WriteString("## Reach\n\n")
	fmt.Fprintf(&b, "- States served: %s\n", render.Count(ins.StateCount))
	fmt.Fprintf(&b, "- Top 3 states hold %s of order volume\n", render.Pct(ins.Top3ConcentrationPct))
	fmt.Fprintf(&b, "- Active vendors: %s\n", render.Count(ins.TotalVendors))
	if ins.VendorConcentrationPct > 0 {
		fmt.Fprintf(&b, "- Top vendor decile earns %s of revenue\n", render.Pct(ins.VendorConcentrationPct))
	}
	b.WriteString("\n")

	writeAmountTable(&b, "Top Categories by Revenue", "Category", ins.TopCategoriesRevenue)
	writeCountTable(&b, "Top States by Orders", "State", ins.TopStates)

	vendors := make([]insights.RankedAmount, len(ins.TopVendors))
	for i, e := range ins.TopVendors {
		vendors[i] = insights.RankedAmount{Name: shortID(e.Name), Value: e.Value}
	}
	writeAmountTable(&b, "Top Vendors by Revenue", "Vendor", vendors)

	b.WriteString("## Performance Score\n\n")
	fmt.Fprintf(&b, "%s / 100, weighted 60%% delivery rate and 40%% on-time rate.\n",
		render.F1(ins.PerformanceScore))

	return b.String()
}

func writeAmountTable(b *strings.Builder, title, label string, rows []insights.RankedAmount) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| # | %s | Revenue |\n", label)
	b.WriteString("|---|---|---|\n")
	for i, e := range rows {
		fmt.Fprintf(b, "| %d | %s | %s |\n", i+1, e.Name, render.Money(e.Value))
	}
	b.WriteString("\n")
}

func writeCountTable(b *strings.Builder, title, label string, rows []insights.RankedCount) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| # | %s | Orders |\n", label)
	b.WriteString("|---|---|---|\n")
	for i, e := range rows {
		fmt.Fprintf(b, "| %d | %s | %s |\n", i+1, e.Name, render.Count(e.Count))
	}
	b.WriteString("\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
