// ABOUTME: Durable per-subject memory aggregate: profile, insights, history.
// ABOUTME: Versioned for forward migration; replaced wholesale on every update.
package models

import "time"

// MemorySchemaVersion is the current shape of the Memory document.
// Migration logic must check this before trusting the rest of the record.
const MemorySchemaVersion = 1

// Caps on the bounded collections inside Memory.
const (
	MaxSummaries     = 3
	MaxNotableEvents = 5
)

// UserProfile holds slowly-changing subject characteristics. Numeric
// baselines are only refreshed when enough new valid samples exist;
// string history fields are appended to, never rewritten.
type UserProfile struct {
	DisplayName       string   `json:"display_name,omitempty"`
	DataSource        string   `json:"data_source,omitempty"`
	TypicalSleepHours *float64 `json:"typical_sleep_hours,omitempty"`
	BaselineHRV       *float64 `json:"baseline_hrv,omitempty"`
	BaselineRHR       *float64 `json:"baseline_rhr,omitempty"`
	VO2MaxRange       string   `json:"vo2max_range,omitempty"`
	FitnessLevel      string   `json:"fitness_level,omitempty"`
	Conditions        []string `json:"conditions,omitempty"`
	CurrentMilestone  string   `json:"current_milestone,omitempty"`
	PreviousMilestone string   `json:"previous_milestone,omitempty"`
	MilestoneHistory  string   `json:"milestone_history,omitempty"`
}

// LongitudinalInsights is derived, evolving state recomputed on each update.
type LongitudinalInsights struct {
	SleepTrend           string   `json:"sleep_trend,omitempty"`
	RecoveryTrend        string   `json:"recovery_trend,omitempty"`
	TrainingTrend        string   `json:"training_trend,omitempty"`
	KeyStrengths         []string `json:"key_strengths,omitempty"`
	PersistentWeaknesses []string `json:"persistent_weaknesses,omitempty"`
	SupplementHistory    string   `json:"supplement_history,omitempty"`
	NotableEvents        []string `json:"notable_events,omitempty"`
}

// Memory is the top-level durable aggregate for one subject. A new Memory
// is derived from the previous one on every analysis and replaces it in
// full; the storage layer never merges fields.
type Memory struct {
	SchemaVersion    int                  `json:"schema_version"`
	Profile          UserProfile          `json:"profile"`
	Insights         LongitudinalInsights `json:"insights"`
	Summaries        []AnalysisSummary    `json:"summaries,omitempty"`
	InteractionCount int                  `json:"interaction_count"`
	FirstAnalysisAt  time.Time            `json:"first_analysis_at"`
	LastUpdatedAt    time.Time            `json:"last_updated_at"`
}

// NewMemory bootstraps an empty memory for a subject's first analysis.
func NewMemory(now time.Time) *Memory {
	return &Memory{
		SchemaVersion:   MemorySchemaVersion,
		FirstAnalysisAt: now,
		LastUpdatedAt:   now,
	}
}

// Clone returns a deep copy. Updates derive a new Memory from the old one
// and must not alias the previous record's slices or maps.
func (m *Memory) Clone() *Memory {
	out := *m
	out.Profile.Conditions = append([]string(nil), m.Profile.Conditions...)
	out.Insights.KeyStrengths = append([]string(nil), m.Insights.KeyStrengths...)
	out.Insights.PersistentWeaknesses = append([]string(nil), m.Insights.PersistentWeaknesses...)
	out.Insights.NotableEvents = append([]string(nil), m.Insights.NotableEvents...)
	out.Summaries = make([]AnalysisSummary, len(m.Summaries))
	for i, s := range m.Summaries {
		cp := s
		cp.Directives = append([]string(nil), s.Directives...)
		cp.Supplements = append([]string(nil), s.Supplements...)
		if s.KeyFindings != nil {
			cp.KeyFindings = make(map[string]string, len(s.KeyFindings))
			for k, v := range s.KeyFindings {
				cp.KeyFindings[k] = v
			}
		}
		out.Summaries[i] = cp
	}
	return &out
}
