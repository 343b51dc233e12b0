// ABOUTME: Daily metric entry model and metric catalog for the insight engine.
// ABOUTME: Defines per-metric plausible ranges used for outlier rejection.
package models

import (
	"math"
	"time"
)

// Metric identifies one of the tracked daily physiological metrics.
type Metric string

const (
	MetricSleepHours     Metric = "sleep_hours"
	MetricDeepSleepHours Metric = "deep_sleep_hours"
	MetricRemSleepHours  Metric = "rem_sleep_hours"
	MetricRestingHR      Metric = "resting_hr"
	MetricHRV            Metric = "hrv"
	MetricSteps          Metric = "steps"
	MetricActiveCalories Metric = "active_calories"
	MetricVO2Max         Metric = "vo2max"
	MetricReadiness      Metric = "readiness"
	MetricStrain         Metric = "strain"
)

// MetricUnits maps metric names to their display units.
var MetricUnits = map[Metric]string{
	MetricSleepHours:     "hours",
	MetricDeepSleepHours: "hours",
	MetricRemSleepHours:  "hours",
	MetricRestingHR:      "bpm",
	MetricHRV:            "ms",
	MetricSteps:          "steps",
	MetricActiveCalories: "kcal",
	MetricVO2Max:         "ml/kg/min",
	MetricReadiness:      "score",
	MetricStrain:         "load",
}

// Range bounds the physiologically plausible values for a metric.
// Samples outside the range are discarded, never clamped.
type Range struct {
	Min float64
	Max float64
}

// PlausibleRanges is the fixed per-metric outlier-rejection table.
var PlausibleRanges = map[Metric]Range{
	MetricSleepHours:     {2, 14},
	MetricDeepSleepHours: {0.2, 6},
	MetricRemSleepHours:  {0.2, 5},
	MetricRestingHR:      {35, 100},
	MetricHRV:            {15, 150},
	MetricSteps:          {500, 80000},
	MetricActiveCalories: {50, 5000},
	MetricVO2Max:         {20, 90},
	MetricReadiness:      {1, 100},
	MetricStrain:         {0.1, 21},
}

// AllMetrics returns all valid metric names.
var AllMetrics = []Metric{
	MetricSleepHours, MetricDeepSleepHours, MetricRemSleepHours,
	MetricRestingHR, MetricHRV, MetricSteps, MetricActiveCalories,
	MetricVO2Max, MetricReadiness, MetricStrain,
}

// IsValidMetric checks if a string is a valid metric name.
func IsValidMetric(s string) bool {
	for _, m := range AllMetrics {
		if string(m) == s {
			return true
		}
	}
	return false
}

// DateFormat is the calendar-day key format for daily entries.
const DateFormat = "2006-01-02"

// DailyEntry is one calendar day of observations for a subject.
// Every numeric field is optional: nil, zero, and non-finite values all
// mean "no reading that day", never a true zero. Entries are uniquely
// keyed by Date within one subject's series.
type DailyEntry struct {
	Date           string   `json:"date"`
	SleepHours     *float64 `json:"sleep_hours,omitempty"`
	DeepSleepHours *float64 `json:"deep_sleep_hours,omitempty"`
	RemSleepHours  *float64 `json:"rem_sleep_hours,omitempty"`
	RestingHR      *float64 `json:"resting_hr,omitempty"`
	HRV            *float64 `json:"hrv,omitempty"`
	Steps          *float64 `json:"steps,omitempty"`
	ActiveCalories *float64 `json:"active_calories,omitempty"`
	VO2Max         *float64 `json:"vo2max,omitempty"`
	Readiness      *float64 `json:"readiness,omitempty"`
	Strain         *float64 `json:"strain,omitempty"`
}

// NewDailyEntry creates an empty entry for the given day.
func NewDailyEntry(day time.Time) *DailyEntry {
	return &DailyEntry{Date: day.Format(DateFormat)}
}

// Day parses the entry's date key.
func (e *DailyEntry) Day() (time.Time, error) {
	return time.Parse(DateFormat, e.Date)
}

// Value returns the raw reading for a metric, or nil when the entry has
// no field for it.
func (e *DailyEntry) Value(m Metric) *float64 {
	switch m {
	case MetricSleepHours:
		return e.SleepHours
	case MetricDeepSleepHours:
		return e.DeepSleepHours
	case MetricRemSleepHours:
		return e.RemSleepHours
	case MetricRestingHR:
		return e.RestingHR
	case MetricHRV:
		return e.HRV
	case MetricSteps:
		return e.Steps
	case MetricActiveCalories:
		return e.ActiveCalories
	case MetricVO2Max:
		return e.VO2Max
	case MetricReadiness:
		return e.Readiness
	case MetricStrain:
		return e.Strain
	default:
		return nil
	}
}

// SetValue stores a reading for a metric. Unknown metrics are ignored.
func (e *DailyEntry) SetValue(m Metric, v float64) {
	p := &v
	switch m {
	case MetricSleepHours:
		e.SleepHours = p
	case MetricDeepSleepHours:
		e.DeepSleepHours = p
	case MetricRemSleepHours:
		e.RemSleepHours = p
	case MetricRestingHR:
		e.RestingHR = p
	case MetricHRV:
		e.HRV = p
	case MetricSteps:
		e.Steps = p
	case MetricActiveCalories:
		e.ActiveCalories = p
	case MetricVO2Max:
		e.VO2Max = p
	case MetricReadiness:
		e.Readiness = p
	case MetricStrain:
		e.Strain = p
	}
}

// Present reports whether a raw reading carries data. A zero value models
// a sensor gap, not a measurement of zero.
func Present(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
