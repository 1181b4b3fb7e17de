package orders

import (
	"context"
	"sort"

	"palantir/internal/dataset"
	"palantir/internal/domain"
	"palantir/internal/stats"
)

type analysisService struct {
	source Source
}

func NewService(source Source) Service {
	return &analysisService{source: source}
}

func (s *analysisService) frames(ctx context.Context) (*dataset.Frames, error) {
	return s.source.Frames(ctx)
}

// StageSample is one delivered order's stage durations for the stacked
// breakdown chart.
type StageSample struct {
	OrderID       string
	SiteHours     float64
	SellerHours   float64
	ShippingHours float64
}

// DailyDelivery aggregates delivered orders per purchase date.
type DailyDelivery struct {
	Date    string
	Orders  int
	AvgDays float64
}

// TimelineStats describes how long delivered orders spend in each stage.
type TimelineStats struct {
	DeliveredCount      int
	TotalDays           []float64
	SiteHours           []float64
	SellerHours         []float64
	ShippingHours       []float64
	MedianTotalDays     float64
	MedianSiteHours     float64
	MedianSellerHours   float64
	MedianShippingHours float64
	AvgSiteSharePct     float64
	AvgSellerSharePct   float64
	AvgShippingSharePct float64
	MeanTotalDays       float64
	StdTotalDays        float64
	P90TotalDays        float64
	FastestStage        string
	Sample              []StageSample
	Daily               []DailyDelivery
	Warnings            []string
}

const stageSampleSize = 100

func (s *analysisService) Timelines(ctx context.Context) (*TimelineStats, error) {
	f, err := s.frames(ctx)
	if err != nil {
		return nil, err
	}

	ts := &TimelineStats{Warnings: f.Warnings}
	type dayAgg struct {
		orders int
		days   float64
	}
	byDay := make(map[string]*dayAgg)
	var siteShares, sellerShares, shippingShares []float64
	var samples []StageSample

	for _, o := range f.Orders {
		if o.NetState() != domain.NetStateDelivered {
			continue
		}
		total, ok := o.TotalHours()
		if !ok || total <= 0 {
			continue
		}
		ts.DeliveredCount++
		days := total / 24
		ts.TotalDays = append(ts.TotalDays, days)

		site, siteOK := o.SiteHours()
		seller, sellerOK := o.SellerHours()
		shipping, shippingOK := o.ShippingHours()
		if siteOK {
			ts.SiteHours = append(ts.SiteHours, site)
		}
		if sellerOK {
			ts.SellerHours = append(ts.SellerHours, seller)
		}
		if shippingOK {
			ts.ShippingHours = append(ts.ShippingHours, shipping)
		}
		if siteOK && sellerOK && shippingOK {
			samples = append(samples, StageSample{
				OrderID:       o.ID,
				SiteHours:     site,
				SellerHours:   seller,
				ShippingHours: shipping,
			})
		}

		sharesSite, sharesSeller, sharesShipping := o.StageShares()
		siteShares = append(siteShares, sharesSite)
		sellerShares = append(sellerShares, sharesSeller)
		shippingShares = append(shippingShares, sharesShipping)

		if d, ok := o.PurchaseDate(); ok {
			a := byDay[d]
			if a == nil {
				a = &dayAgg{}
				byDay[d] = a
			}
			a.orders++
			a.days += days
		}
	}

	if ts.DeliveredCount == 0 {
		return ts, nil
	}

	ts.MedianTotalDays = stats.Median(ts.TotalDays)
	ts.MedianSiteHours = stats.Median(ts.SiteHours)
	ts.MedianSellerHours = stats.Median(ts.SellerHours)
	ts.MedianShippingHours = stats.Median(ts.ShippingHours)
	ts.AvgSiteSharePct = stats.Mean(siteShares)
	ts.AvgSellerSharePct = stats.Mean(sellerShares)
	ts.AvgShippingSharePct = stats.Mean(shippingShares)
	ts.MeanTotalDays = stats.Mean(ts.TotalDays)
	ts.StdTotalDays = stats.Std(ts.TotalDays)
	ts.P90TotalDays = stats.Quantile(ts.TotalDays, 0.9)
	ts.FastestStage = fastestStage(ts.MedianSiteHours, ts.MedianSellerHours, ts.MedianShippingHours)
	ts.Sample = thin(samples, stageSampleSize)

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		a := byDay[d]
		ts.Daily = append(ts.Daily, DailyDelivery{
			Date:    d,
			Orders:  a.orders,
			AvgDays: a.days / float64(a.orders),
		})
	}
	return ts, nil
}

func fastestStage(site, seller, shipping float64) string {
	fastest := StageSite
	min := site
	if seller < min {
		fastest, min = StageSeller, seller
	}
	if shipping < min {
		fastest = StageShipping
	}
	return fastest
}

// thin steps through xs to keep at most limit elements, preserving source
// order so repeated renders show the same sample.
func thin[T any](xs []T, limit int) []T {
	if len(xs) <= limit {
		return xs
	}
	step := float64(len(xs)) / float64(limit)
	out := make([]T, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, xs[int(float64(i)*step)])
	}
	return out
}
