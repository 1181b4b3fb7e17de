package revenue

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"palantir/internal/dataset"
	"palantir/internal/domain"
	apperrors "palantir/internal/errors"
	"palantir/internal/stats"
)

// RankedEntry is one row of a revenue ranking with its share of the total.
type RankedEntry struct {
	Name          string
	Revenue       float64
	SharePct      float64
	CumulativePct float64
}

type Summary struct {
	TotalRevenue        float64
	ProductAmount       float64
	FreightAmount       float64
	FreightSharePct     float64
	TotalOrders         int
	AvgOrderValue       float64
	TotalItems          int
	AvgItemsPerOrder    float64
	CategoryCount       int
	VendorCount         int
	AvgRevenuePerVendor float64
	TopCategories       []RankedEntry
	TopVendors          []RankedEntry
	Top10CategoryShare  float64
	CategoryStd         float64
	OrdersWithoutItems  int
	Warnings            []string
}

type CategoryAnalysis struct {
	Basis          string
	Entries        []RankedEntry
	TotalRevenue   float64
	AvgRevenue     float64
	Top5Share      float64
	Top10Share     float64
	HalfCoverCount int
	Gini           float64
	LorenzXs       []float64
	LorenzYs       []float64
	TopBottomRatio float64
	Warnings       []string
}

type VendorSegment struct {
	Name       string
	Vendors    int
	Revenue    float64
	AvgRevenue float64
	SharePct   float64
}

type VendorAnalysis struct {
	Entries        []RankedEntry
	TotalRevenue   float64
	VendorCount    int
	Top5Share      float64
	Top10Share     float64
	CV             float64
	Gini           float64
	LorenzXs       []float64
	LorenzYs       []float64
	Segments       []VendorSegment
	MedianRevenue  float64
	UpperQuartile  float64
	LowerQuartile  float64
	DependenceRisk bool
	Warnings       []string
}

// StatsBlock is the descriptive block shown next to the efficiency charts.
type StatsBlock struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Q1     float64
	Q3     float64
}

type CategoryFreight struct {
	Category   string
	Items      int
	AvgFreight float64
}

type MissingDim struct {
	Column  string
	Missing int
}

type FreightAnalysis struct {
	TotalFreight      float64
	TotalPrice        float64
	FreightRatioPct   float64
	AvgFreightPerItem float64
	FreightValues     []float64
	FreightPerKg      StatsBlock
	FreightPerM3      StatsBlock
	PriceToFreight    StatsBlock
	WeightCorr        float64
	VolumeCorr        float64
	PriceCorr         float64
	WeightPairs       [][2]float64
	VolumePairs       [][2]float64
	PricePairs        [][2]float64
	BubbleRows        []BubbleRow
	DimCoveragePct    float64
	MissingDims       []MissingDim
	CategoryAvg       []CategoryFreight
	Warnings          []string
}

// BubbleRow feeds the weight/price scatter sized by volume.
type BubbleRow struct {
	WeightG  float64
	Price    float64
	VolumeCm float64
}

const scatterSampleLimit = 2000

type analysisService struct {
	source Source
}

func NewService(source Source) Service {
	return &analysisService{source: source}
}

// ParseBasis normalizes a basis selector; unknown values are a validation
// error.
func ParseBasis(s string) (string, error) {
	switch s {
	case "", BasisTotal:
		return BasisTotal, nil
	case BasisPrice:
		return BasisPrice, nil
	case BasisFreight, "freight":
		return BasisFreight, nil
	}
	return "", apperrors.NewValidationError("unknown revenue basis", apperrors.ValidationDetail{
		Field:   "basis",
		Message: "basis must be one of total, price, freight_value",
	})
}

func basisValue(basis string) func(domain.LineItem) float64 {
	switch basis {
	case BasisPrice:
		return func(li domain.LineItem) float64 { return li.Price }
	case BasisFreight:
		return func(li domain.LineItem) float64 { return li.Freight }
	default:
		return func(li domain.LineItem) float64 { return li.Total }
	}
}

func (s *analysisService) lines(ctx context.Context) ([]domain.LineItem, *dataset.Frames, error) {
	f, err := s.source.Frames(ctx)
	if err != nil {
		return nil, nil, err
	}
	return domain.JoinLineItems(f.Items, f.Products), f, nil
}

func (s *analysisService) Summary(ctx context.Context) (*Summary, error) {
	lines, f, err := s.lines(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{TotalItems: len(lines), Warnings: f.Warnings}
	if len(lines) == 0 {
		return sum, nil
	}

	var total, product, freight decimal.Decimal
	perOrder := make(map[string]decimal.Decimal)
	categories := make(map[string]struct{})
	vendors := make(map[string]struct{})
	for _, li := range lines {
		t := decimal.NewFromFloat(li.Total)
		total = total.Add(t)
		product = product.Add(decimal.NewFromFloat(li.Price))
		freight = freight.Add(decimal.NewFromFloat(li.Freight))
		perOrder[li.OrderID] = perOrder[li.OrderID].Add(t)
		categories[li.Category] = struct{}{}
		if li.SellerID != "" {
			vendors[li.SellerID] = struct{}{}
		}
	}

	sum.TotalRevenue = round2(total)
	sum.ProductAmount = round2(product)
	sum.FreightAmount = round2(freight)
	if sum.TotalRevenue > 0 {
		sum.FreightSharePct = sum.FreightAmount / sum.TotalRevenue * 100
	}

	sum.TotalOrders = len(perOrder)
	orderValues := make([]float64, 0, len(perOrder))
	for _, v := range perOrder {
		orderValues = append(orderValues, v.InexactFloat64())
	}
	sum.AvgOrderValue = stats.Mean(orderValues)
	sum.AvgItemsPerOrder = float64(len(lines)) / float64(len(perOrder))
	sum.CategoryCount = len(categories)
	sum.VendorCount = len(vendors)
	if sum.VendorCount > 0 {
		sum.AvgRevenuePerVendor = sum.TotalRevenue / float64(sum.VendorCount)
	}

	catEntries := aggregate(lines, func(li domain.LineItem) string { return li.Category }, basisValue(BasisTotal))
	sum.TopCategories = head(catEntries, 5)
	sum.Top10CategoryShare = shareOfTop(catEntries, 10)
	sum.CategoryStd = stats.Std(revenues(catEntries))

	vendorEntries := aggregate(lines, func(li domain.LineItem) string { return li.SellerID }, basisValue(BasisTotal))
	sum.TopVendors = head(vendorEntries, 5)

	for _, o := range f.Orders {
		if _, ok := perOrder[o.ID]; !ok {
			sum.OrdersWithoutItems++
		}
	}
	return sum, nil
}

func (s *analysisService) Categories(ctx context.Context, basis string) (*CategoryAnalysis, error) {
	basis, err := ParseBasis(basis)
	if err != nil {
		return nil, err
	}
	lines, f, err := s.lines(ctx)
	if err != nil {
		return nil, err
	}

	ca := &CategoryAnalysis{Basis: basis, Warnings: f.Warnings}
	entries := aggregate(lines, func(li domain.LineItem) string { return li.Category }, basisValue(basis))
	if len(entries) == 0 {
		return ca, nil
	}

	values := revenues(entries)
	ca.Entries = entries
	ca.TotalRevenue = stats.Sum(values)
	ca.AvgRevenue = stats.Mean(values)
	ca.Top5Share = shareOfTop(entries, 5)
	ca.Top10Share = shareOfTop(entries, 10)
	for i, e := range entries {
		if e.CumulativePct >= 50 {
			ca.HalfCoverCount = i + 1
			break
		}
	}
	ca.Gini = stats.Gini(values)
	ca.LorenzXs, ca.LorenzYs = stats.LorenzPoints(values)

	k := len(entries)
	if k > 10 {
		k = 10
	}
	topAvg := stats.Mean(values[:k])
	bottomAvg := stats.Mean(values[len(values)-k:])
	if bottomAvg > 0 {
		ca.TopBottomRatio = topAvg / bottomAvg
	}
	return ca, nil
}

func (s *analysisService) Vendors(ctx context.Context) (*VendorAnalysis, error) {
	lines, f, err := s.lines(ctx)
	if err != nil {
		return nil, err
	}

	va := &VendorAnalysis{Warnings: f.Warnings}
	entries := aggregate(lines, func(li domain.LineItem) string { return li.SellerID }, basisValue(BasisTotal))
	if len(entries) == 0 {
		return va, nil
	}

	values := revenues(entries)
	va.Entries = entries
	va.TotalRevenue = stats.Sum(values)
	va.VendorCount = len(entries)
	va.Top5Share = shareOfTop(entries, 5)
	va.Top10Share = shareOfTop(entries, 10)
	if m := stats.Mean(values); m > 0 {
		va.CV = stats.Std(values) / m
	}
	va.Gini = stats.Gini(values)
	va.LorenzXs, va.LorenzYs = stats.LorenzPoints(values)
	va.Segments = vendorSegments(entries, va.TotalRevenue)
	va.MedianRevenue = stats.Median(values)
	va.UpperQuartile = stats.Quantile(values, 0.75)
	va.LowerQuartile = stats.Quantile(values, 0.25)
	va.DependenceRisk = va.Top5Share > 50
	return va, nil
}

var segmentNames = []string{"Micro", "Small", "Medium", "Large"}

// vendorSegments buckets vendors by revenue share: up to 0.1% Micro, 1%
// Small, 5% Medium, above that Large. Every vendor lands in exactly one
// bucket.
func vendorSegments(entries []RankedEntry, total float64) []VendorSegment {
	segs := make([]VendorSegment, len(segmentNames))
	for i, name := range segmentNames {
		segs[i].Name = name
	}
	for _, e := range entries {
		idx := 0
		switch {
		case e.SharePct <= 0.1:
			idx = 0
		case e.SharePct <= 1:
			idx = 1
		case e.SharePct <= 5:
			idx = 2
		default:
			idx = 3
		}
		segs[idx].Vendors++
		segs[idx].Revenue += e.Revenue
	}
	for i := range segs {
		if segs[i].Vendors > 0 {
			segs[i].AvgRevenue = segs[i].Revenue / float64(segs[i].Vendors)
		}
		if total > 0 {
			segs[i].SharePct = segs[i].Revenue / total * 100
		}
	}
	return segs
}

func (s *analysisService) Freight(ctx context.Context) (*FreightAnalysis, error) {
	lines, f, err := s.lines(ctx)
	if err != nil {
		return nil, err
	}

	fa := &FreightAnalysis{Warnings: f.Warnings}
	if len(lines) == 0 {
		return fa, nil
	}

	var totalFreight, totalPrice decimal.Decimal
	var perKg, perM3, priceToFreight []float64
	var weightPairs, volumePairs, pricePairs [][2]float64
	missing := map[string]int{
		"product_weight_g":  0,
		"product_length_cm": 0,
		"product_height_cm": 0,
		"product_width_cm":  0,
	}
	withDims := 0
	catSum := make(map[string]float64)
	catCount := make(map[string]int)

	for _, li := range lines {
		totalFreight = totalFreight.Add(decimal.NewFromFloat(li.Freight))
		totalPrice = totalPrice.Add(decimal.NewFromFloat(li.Price))
		fa.FreightValues = append(fa.FreightValues, li.Freight)

		catSum[li.Category] += li.Freight
		catCount[li.Category]++

		if li.WeightG == nil {
			missing["product_weight_g"]++
		}
		if li.LengthCm == nil {
			missing["product_length_cm"]++
		}
		if li.HeightCm == nil {
			missing["product_height_cm"]++
		}
		if li.WidthCm == nil {
			missing["product_width_cm"]++
		}

		hasDims := li.WeightG != nil && li.VolumeCm != nil
		if hasDims {
			withDims++
		}

		if li.WeightG != nil && *li.WeightG > 0 {
			perKg = append(perKg, li.Freight/(*li.WeightG/1000))
			weightPairs = append(weightPairs, [2]float64{*li.WeightG, li.Freight})
		}
		if li.VolumeCm != nil && *li.VolumeCm > 0 {
			perM3 = append(perM3, li.Freight/(*li.VolumeCm/1e6))
			volumePairs = append(volumePairs, [2]float64{*li.VolumeCm, li.Freight})
		}
		if li.Freight > 0 {
			priceToFreight = append(priceToFreight, li.Price/li.Freight)
		}
		pricePairs = append(pricePairs, [2]float64{li.Price, li.Freight})

		if li.WeightG != nil && li.VolumeCm != nil && *li.VolumeCm > 0 {
			fa.BubbleRows = append(fa.BubbleRows, BubbleRow{
				WeightG:  *li.WeightG,
				Price:    li.Price,
				VolumeCm: *li.VolumeCm,
			})
		}
	}

	fa.TotalFreight = round2(totalFreight)
	fa.TotalPrice = round2(totalPrice)
	if fa.TotalPrice > 0 {
		fa.FreightRatioPct = fa.TotalFreight / fa.TotalPrice * 100
	}
	fa.AvgFreightPerItem = stats.Mean(fa.FreightValues)
	fa.FreightPerKg = statsBlock(perKg)
	fa.FreightPerM3 = statsBlock(perM3)
	fa.PriceToFreight = statsBlock(priceToFreight)

	fa.WeightCorr = stats.Pearson(column(weightPairs, 0), column(weightPairs, 1))
	fa.VolumeCorr = stats.Pearson(column(volumePairs, 0), column(volumePairs, 1))
	fa.PriceCorr = stats.Pearson(column(pricePairs, 0), column(pricePairs, 1))
	fa.WeightPairs = sample(weightPairs, scatterSampleLimit)
	fa.VolumePairs = sample(volumePairs, scatterSampleLimit)
	fa.PricePairs = sample(pricePairs, scatterSampleLimit)
	fa.BubbleRows = sampleBubbles(fa.BubbleRows, scatterSampleLimit)

	fa.DimCoveragePct = float64(withDims) / float64(len(lines)) * 100
	for _, col := range []string{"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm"} {
		fa.MissingDims = append(fa.MissingDims, MissingDim{Column: col, Missing: missing[col]})
	}

	cats := make([]CategoryFreight, 0, len(catSum))
	for c, sumF := range catSum {
		cats = append(cats, CategoryFreight{
			Category:   c,
			Items:      catCount[c],
			AvgFreight: sumF / float64(catCount[c]),
		})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Items != cats[j].Items {
			return cats[i].Items > cats[j].Items
		}
		return cats[i].Category < cats[j].Category
	})
	if len(cats) > 20 {
		cats = cats[:20]
	}
	fa.CategoryAvg = cats
	return fa, nil
}

// aggregate sums value per key and ranks descending with share and
// cumulative share of the total.
func aggregate(lines []domain.LineItem, key func(domain.LineItem) string, value func(domain.LineItem) float64) []RankedEntry {
	sums := make(map[string]decimal.Decimal)
	for _, li := range lines {
		k := key(li)
		if k == "" {
			continue
		}
		sums[k] = sums[k].Add(decimal.NewFromFloat(value(li)))
	}
	if len(sums) == 0 {
		return nil
	}

	entries := make([]RankedEntry, 0, len(sums))
	var total float64
	for k, v := range sums {
		f := round2(v)
		entries = append(entries, RankedEntry{Name: k, Revenue: f})
		total += f
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Revenue != entries[j].Revenue {
			return entries[i].Revenue > entries[j].Revenue
		}
		return entries[i].Name < entries[j].Name
	})

	var cum float64
	for i := range entries {
		if total > 0 {
			entries[i].SharePct = entries[i].Revenue / total * 100
		}
		cum += entries[i].SharePct
		entries[i].CumulativePct = cum
	}
	return entries
}

func head(entries []RankedEntry, n int) []RankedEntry {
	if len(entries) < n {
		n = len(entries)
	}
	out := make([]RankedEntry, n)
	copy(out, entries[:n])
	return out
}

func shareOfTop(entries []RankedEntry, n int) float64 {
	var share float64
	for i, e := range entries {
		if i >= n {
			break
		}
		share += e.SharePct
	}
	return share
}

func revenues(entries []RankedEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Revenue
	}
	return out
}

func statsBlock(xs []float64) StatsBlock {
	return StatsBlock{
		Count:  len(xs),
		Mean:   stats.Mean(xs),
		Median: stats.Median(xs),
		Std:    stats.Std(xs),
		Q1:     stats.Quantile(xs, 0.25),
		Q3:     stats.Quantile(xs, 0.75),
	}
}

func column(pairs [][2]float64, idx int) []float64 {
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		out[i] = p[idx]
	}
	return out
}

// sample thins pairs to at most limit points, keeping order.
func sample(pairs [][2]float64, limit int) [][2]float64 {
	if len(pairs) <= limit {
		return pairs
	}
	step := float64(len(pairs)) / float64(limit)
	out := make([][2]float64, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, pairs[int(float64(i)*step)])
	}
	return out
}

func sampleBubbles(rows []BubbleRow, limit int) []BubbleRow {
	if len(rows) <= limit {
		return rows
	}
	step := float64(len(rows)) / float64(limit)
	out := make([]BubbleRow, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, rows[int(float64(i)*step)])
	}
	return out
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
