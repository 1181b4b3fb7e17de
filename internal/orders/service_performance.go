package orders

import (
	"context"
	"math"
	"sort"

	"palantir/internal/domain"
	"palantir/internal/stats"
)

type SLATier struct {
	Label string
	Count int
	Pct   float64
}

type RatePoint struct {
	Date            string
	Orders          int
	DeliveryRatePct float64
	DelayRatePct    float64
}

// DeliveredRow is one delivered order in the explorer and the CSV export.
type DeliveredRow struct {
	OrderID   string
	Status    string
	Purchased string
	Delivered string
	Estimated string
	DelayDays float64
	HasDelay  bool
}

type Performance struct {
	Total                 int
	Delivered             int
	NotDelivered          int
	DeliveryRatePct       float64
	OnTime                int
	Early                 int
	Late                  int
	OnTimeRatePct         float64
	EarlyRatePct          float64
	DelayRatePct          float64
	AvgDelayDays          float64
	MedianDelayDays       float64
	SLATiers              []SLATier
	SLAScore              float64
	Daily                 []RatePoint
	DeliveredNoDelay      int
	DeliveredWithDelay    int
	NotDeliveredNoDelay   int
	NotDeliveredWithDelay int
	Sample                []DeliveredRow
	Warnings              []string
}

var slaLabels = []string{
	"Within 1 day",
	"1-3 days late",
	"3-7 days late",
	"More than 7 days late",
	"Early delivery",
}

// slaIndex tiers a delivered order by how far past the estimate it
// arrived. The tiers partition delivered orders completely.
func slaIndex(delayDays float64) int {
	switch {
	case delayDays > 0:
		return 4
	case delayDays >= -1:
		return 0
	case delayDays >= -3:
		return 1
	case delayDays >= -7:
		return 2
	default:
		return 3
	}
}

const deliveredSampleSize = 100

const timestampLayout = "2006-01-02 15:04:05"

func (s *analysisService) Performance(ctx context.Context) (*Performance, error) {
	f, err := s.frames(ctx)
	if err != nil {
		return nil, err
	}

	p := &Performance{Warnings: f.Warnings, Total: len(f.Orders)}
	p.SLATiers = make([]SLATier, len(slaLabels))
	for i, label := range slaLabels {
		p.SLATiers[i].Label = label
	}

	type dayAgg struct {
		total     int
		delivered int
		late      int
	}
	byDay := make(map[string]*dayAgg)
	var signedDelays []float64
	var samples []DeliveredRow

	for _, o := range f.Orders {
		delivered := o.NetState() == domain.NetStateDelivered
		if delivered {
			p.Delivered++
		} else {
			p.NotDelivered++
		}

		delayDays, hasDelay := o.DelayDays()
		late := hasDelay && delayDays < 0

		if date, ok := o.PurchaseDate(); ok {
			a := byDay[date]
			if a == nil {
				a = &dayAgg{}
				byDay[date] = a
			}
			a.total++
			if delivered {
				a.delivered++
				if late {
					a.late++
				}
			}
		}

		if delivered {
			if hasDelay {
				signedDelays = append(signedDelays, delayDays)
				switch {
				case delayDays < 0:
					p.Late++
				case delayDays > 0:
					p.Early++
				default:
					p.OnTime++
				}
				p.SLATiers[slaIndex(delayDays)].Count++
			}
			if late {
				p.DeliveredWithDelay++
			} else {
				p.DeliveredNoDelay++
			}
			samples = append(samples, deliveredRow(o, delayDays, hasDelay))
		} else {
			if late {
				p.NotDeliveredWithDelay++
			} else {
				p.NotDeliveredNoDelay++
			}
		}
	}

	if p.Total > 0 {
		p.DeliveryRatePct = float64(p.Delivered) / float64(p.Total) * 100
	}
	if p.Delivered > 0 {
		p.OnTimeRatePct = float64(p.OnTime) / float64(p.Delivered) * 100
		p.EarlyRatePct = float64(p.Early) / float64(p.Delivered) * 100
		p.DelayRatePct = float64(p.Late) / float64(p.Delivered) * 100
		for i := range p.SLATiers {
			p.SLATiers[i].Pct = float64(p.SLATiers[i].Count) / float64(p.Delivered) * 100
		}
	}
	// The averages run over every delivered order, signed, and report the
	// magnitude; they collapse to zero when nothing is late.
	if p.Late > 0 {
		p.AvgDelayDays = math.Abs(stats.Mean(signedDelays))
		p.MedianDelayDays = math.Abs(stats.Median(signedDelays))
	}
	p.SLAScore = 100 - p.DelayRatePct
	p.Sample = thin(samples, deliveredSampleSize)

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		a := byDay[d]
		pt := RatePoint{Date: d, Orders: a.total}
		if a.total > 0 {
			pt.DeliveryRatePct = float64(a.delivered) / float64(a.total) * 100
		}
		if a.delivered > 0 {
			pt.DelayRatePct = float64(a.late) / float64(a.delivered) * 100
		}
		p.Daily = append(p.Daily, pt)
	}
	return p, nil
}

func deliveredRow(o domain.Order, delayDays float64, hasDelay bool) DeliveredRow {
	row := DeliveredRow{
		OrderID:   o.ID,
		Status:    o.Status,
		DelayDays: delayDays,
		HasDelay:  hasDelay,
	}
	if o.PurchasedAt != nil {
		row.Purchased = o.PurchasedAt.Format(timestampLayout)
	}
	if o.DeliveredAt != nil {
		row.Delivered = o.DeliveredAt.Format(timestampLayout)
	}
	if o.EstimatedAt != nil {
		row.Estimated = o.EstimatedAt.Format(timestampLayout)
	}
	return row
}
