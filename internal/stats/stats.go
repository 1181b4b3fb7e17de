// Package stats holds the small numeric toolkit shared by the report
// services: descriptive statistics, quantiles, histograms, rolling means
// and concentration measures. All functions treat empty input as a zero
// result rather than an error.
package stats

import (
	"math"
	"sort"
)

func Sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return Sum(xs) / float64(len(xs))
}

// Std is the sample standard deviation (n-1 denominator). Zero for fewer
// than two values.
func Std(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Quantile interpolates linearly between order statistics, with q clamped
// to [0,1]. The input is not modified.
func Quantile(xs []float64, q float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// IQRBounds returns the usual outlier fences q1-1.5*iqr and q3+1.5*iqr.
func IQRBounds(xs []float64) (lo, hi float64) {
	q1 := Quantile(xs, 0.25)
	q3 := Quantile(xs, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// FilterIQR drops values outside the IQR fences.
func FilterIQR(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	lo, hi := IQRBounds(xs)
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x >= lo && x <= hi {
			out = append(out, x)
		}
	}
	return out
}

// Histogram buckets xs into bins equal-width bins between min and max.
// The maximum value lands in the last bin. edges has bins+1 entries.
func Histogram(xs []float64, bins int) (counts []float64, edges []float64) {
	if len(xs) == 0 || bins <= 0 {
		return nil, nil
	}
	lo, hi := Min(xs), Max(xs)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)

	edges = make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	counts = make([]float64, bins)
	for _, x := range xs {
		idx := int((x - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	return counts, edges
}

// Pearson is the sample correlation coefficient, zero when either side has
// no variance or the slices are too short or uneven.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return 0
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// RollingMean is a trailing moving average over at most window values,
// emitting a value from the first element on.
func RollingMean(xs []float64, window int) []float64 {
	if len(xs) == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Gini measures concentration of the given non-negative values: 0 when all
// are equal, approaching 1 as one value dominates.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	total := Sum(sorted)
	if total <= 0 {
		return 0
	}
	var weighted float64
	for i, v := range sorted {
		weighted += float64(i+1) * v
	}
	g := 2*weighted/(float64(n)*total) - float64(n+1)/float64(n)
	if g < 0 {
		return 0
	}
	return g
}

// LorenzPoints returns the Lorenz curve of the values: population share on
// x and cumulative value share on y, both in percent, starting at (0,0).
func LorenzPoints(values []float64) (xs, ys []float64) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	total := Sum(sorted)
	xs = make([]float64, n+1)
	ys = make([]float64, n+1)
	var cum float64
	for i, v := range sorted {
		cum += v
		xs[i+1] = float64(i+1) / float64(n) * 100
		if total > 0 {
			ys[i+1] = cum / total * 100
		}
	}
	return xs, ys
}

// HHI is the Herfindahl-Hirschman index over shares given in percent; the
// result ranges up to 10000 for a single-participant market.
func HHI(sharesPct []float64) float64 {
	var h float64
	for _, s := range sharesPct {
		h += s * s
	}
	return h
}

// MinMaxNorm rescales xs to [0,1]; when all values are equal every entry
// maps to 0.5.
func MinMaxNorm(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	lo, hi := Min(xs), Max(xs)
	out := make([]float64, len(xs))
	if hi == lo {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, x := range xs {
		out[i] = (x - lo) / (hi - lo)
	}
	return out
}
