// ABOUTME: Tests for series cleaning and baseline statistics.
// ABOUTME: Covers outlier rejection, window trimming, and undefined-stat rules.
package baseline

import (
	"math"
	"testing"

	"github.com/harperreed/insight/internal/models"
)

func entryWith(date string, m models.Metric, v float64) models.DailyEntry {
	e := models.DailyEntry{Date: date}
	e.SetValue(m, v)
	return e
}

func TestCleanRejectsAbsentAndImpossible(t *testing.T) {
	nan := math.NaN()
	series := []models.DailyEntry{
		entryWith("2026-08-01", models.MetricHRV, 48),   // valid
		entryWith("2026-08-02", models.MetricHRV, 0),    // zero means absent
		entryWith("2026-08-03", models.MetricHRV, 500),  // above plausible range
		entryWith("2026-08-04", models.MetricHRV, 5),    // below plausible range
		{Date: "2026-08-05"},                            // no reading at all
		{Date: "2026-08-06", HRV: &nan},                 // non-finite
		entryWith("2026-08-07", models.MetricHRV, 62.5), // valid
	}

	values := Clean(series, models.MetricHRV, 0)
	if len(values) != 2 {
		t.Fatalf("Expected 2 valid values, got %d: %v", len(values), values)
	}
	if values[0] != 48 || values[1] != 62.5 {
		t.Errorf("Expected [48 62.5], got %v", values)
	}
}

func TestCleanTrailingWindow(t *testing.T) {
	var series []models.DailyEntry
	dates := []string{"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04", "2026-08-05"}
	for i, d := range dates {
		series = append(series, entryWith(d, models.MetricSleepHours, 5+float64(i)))
	}

	// Window of 2 keeps only the most recent two days.
	values := Clean(series, models.MetricSleepHours, 2)
	if len(values) != 2 {
		t.Fatalf("Expected 2 values, got %d", len(values))
	}
	if values[0] != 8 || values[1] != 9 {
		t.Errorf("Expected most recent [8 9], got %v", values)
	}
}

func TestAverage(t *testing.T) {
	if _, ok := Average(nil); ok {
		t.Error("Average of empty input should be undefined")
	}

	avg, ok := Average([]float64{6, 7, 8})
	if !ok {
		t.Fatal("Average of non-empty input should be defined")
	}
	if avg != 7 {
		t.Errorf("Expected 7, got %v", avg)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		want   float64
		ok     bool
	}{
		{"empty", nil, 0, false},
		{"single", []float64{5}, 5, true},
		{"even pair", []float64{1, 3}, 2, true},
		{"odd", []float64{1, 2, 9}, 2, true},
		{"even four", []float64{1, 2, 3, 10}, 2.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.sorted)
			if ok != tt.ok {
				t.Fatalf("Median(%v) ok = %v, want %v", tt.sorted, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.sorted, got, tt.want)
			}
		})
	}
}

func TestIQR(t *testing.T) {
	if _, ok := IQR([]float64{1, 2, 3}); ok {
		t.Error("IQR with fewer than 4 values should be undefined")
	}

	iqr, ok := IQR([]float64{1, 2, 3, 4})
	if !ok {
		t.Fatal("IQR with 4 values should be defined")
	}
	// Q1 = sorted[1] = 2, Q3 = sorted[3] = 4.
	if iqr != 2 {
		t.Errorf("Expected IQR 2, got %v", iqr)
	}

	// Input order must not matter.
	iqr2, _ := IQR([]float64{4, 1, 3, 2})
	if iqr2 != 2 {
		t.Errorf("Expected IQR 2 for unsorted input, got %v", iqr2)
	}
}

func TestComputeAvailability(t *testing.T) {
	series := []models.DailyEntry{
		entryWith("2026-08-01", models.MetricSleepHours, 7.0),
		entryWith("2026-08-02", models.MetricSleepHours, 7.5),
	}

	b := Compute(series, models.MetricSleepHours, WindowSleep)
	if b.Samples != 2 {
		t.Errorf("Expected 2 samples, got %d", b.Samples)
	}
	if b.Average == nil || *b.Average != 7.25 {
		t.Errorf("Expected average 7.25, got %v", b.Average)
	}
	if b.Median == nil || *b.Median != 7.25 {
		t.Errorf("Expected median 7.25, got %v", b.Median)
	}
	if b.IQR != nil {
		t.Error("IQR should be unavailable with fewer than 4 samples")
	}

	empty := Compute(nil, models.MetricHRV, WindowHRV)
	if empty.Average != nil || empty.Median != nil || empty.IQR != nil {
		t.Error("All statistics should be unavailable for an empty series")
	}
}
