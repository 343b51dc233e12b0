// ABOUTME: Narrative analysis input and compressed analysis summary models.
// ABOUTME: NarrativeAnalysis is external input; AnalysisSummary is immutable once built.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplement is one recommended supplement from a narrative analysis.
type Supplement struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage,omitempty"`
	Timing string `json:"timing,omitempty"`
}

// Directives are the stop/start/watch recommendations of one analysis.
type Directives struct {
	Stop  string `json:"stop,omitempty"`
	Start string `json:"start,omitempty"`
	Watch string `json:"watch,omitempty"`
}

// List returns the non-empty directives in stop, start, watch order.
func (d Directives) List() []string {
	var out []string
	for _, s := range []string{d.Stop, d.Start, d.Watch} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NarrativeAnalysis is the structured result of one completed narrative
// analysis, produced by an external generator and consumed read-only here.
// Bottlenecks and Summary are keyed by language tag ("en", "ja", ...).
type NarrativeAnalysis struct {
	Bottlenecks        map[string][]string `json:"bottlenecks,omitempty"`
	Summary            map[string]string   `json:"summary,omitempty"`
	Directives         Directives          `json:"directives"`
	TrainingAdjustment string              `json:"training_adjustment,omitempty"`
	RecoveryChange     string              `json:"recovery_change,omitempty"`
	Supplements        []Supplement        `json:"supplements,omitempty"`
}

// BottlenecksFor returns the bottleneck strings for a language tag.
func (n *NarrativeAnalysis) BottlenecksFor(lang string) []string {
	if n.Bottlenecks == nil {
		return nil
	}
	return n.Bottlenecks[lang]
}

// AnalysisSummary is the compressed record of one completed analysis.
// It is created once and never mutated; history only appends and evicts.
// Score is nil when the engine had no data to score that analysis; an
// unscored record never reads as a real zero.
type AnalysisSummary struct {
	ID           uuid.UUID         `json:"id"`
	Date         time.Time         `json:"date"`
	SubjectLabel string            `json:"subject_label"`
	Score        *int              `json:"score,omitempty"`
	KeyFindings  map[string]string `json:"key_findings,omitempty"`
	Directives   []string          `json:"directives,omitempty"`
	Supplements  []string          `json:"supplements,omitempty"`
}
