// ABOUTME: Baseline engine: series cleaning plus robust summary statistics.
// ABOUTME: Implements trailing-window average, median, and IQR over valid samples.
package baseline

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/harperreed/insight/internal/models"
)

// Trailing-window policies used by callers.
const (
	WindowHRV   = 14 // days, HRV and resting-HR baselines
	WindowSleep = 21 // days, sleep and IQR baselines
	WindowScore = 7  // days, composite score inputs
	WindowTrend = 3  // entries, short-term score trend comparison
)

// MinIQRSamples is the smallest sample count for a meaningful IQR.
const MinIQRSamples = 4

// Clean extracts the valid values for one metric from the trailing window
// of a date-ordered series. A sample is dropped when it is absent (nil,
// zero, or non-finite) or outside the metric's plausible range. Wrong
// samples are discarded, never clamped. window <= 0 means the full series.
func Clean(series []models.DailyEntry, metric models.Metric, window int) []float64 {
	if window > 0 && len(series) > window {
		series = series[len(series)-window:]
	}

	r, bounded := models.PlausibleRanges[metric]
	var values []float64
	for i := range series {
		v := series[i].Value(metric)
		if !models.Present(v) {
			continue
		}
		if bounded && (*v < r.Min || *v > r.Max) {
			continue
		}
		values = append(values, *v)
	}
	return values
}

// Average returns the arithmetic mean. ok is false for an empty input;
// the mean of nothing is undefined, not zero.
func Average(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// Median returns the median of an ascending-sorted slice using the classic
// even/odd rule. Callers must pre-sort.
func Median(sorted []float64) (float64, bool) {
	n := len(sorted)
	if n == 0 {
		return 0, false
	}
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}

// IQR returns the inter-quartile range Q3-Q1 with Q1 = sorted[n/4] and
// Q3 = sorted[3n/4]. Fewer than MinIQRSamples values yields ok=false;
// a degenerate zero from too little data would be misleading.
func IQR(values []float64) (float64, bool) {
	n := len(values)
	if n < MinIQRSamples {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	return q3 - q1, true
}

// Baseline bundles the summary statistics for one metric over a window.
// Unavailable statistics stay nil rather than defaulting to zero.
type Baseline struct {
	Metric  models.Metric `json:"metric"`
	Samples int           `json:"samples"`
	Average *float64      `json:"average,omitempty"`
	Median  *float64      `json:"median,omitempty"`
	IQR     *float64      `json:"iqr,omitempty"`
}

// Compute cleans the series for a metric and derives its baseline stats.
func Compute(series []models.DailyEntry, metric models.Metric, window int) Baseline {
	values := Clean(series, metric, window)
	b := Baseline{Metric: metric, Samples: len(values)}

	if avg, ok := Average(values); ok {
		b.Average = &avg
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if med, ok := Median(sorted); ok {
		b.Median = &med
	}
	if iqr, ok := IQR(values); ok {
		b.IQR = &iqr
	}
	return b
}
