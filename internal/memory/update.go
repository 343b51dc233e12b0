// ABOUTME: Longitudinal memory update pipeline: profile refresh, history, insights.
// ABOUTME: Pure derivation - reads the old Memory, returns a full replacement.
package memory

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/harperreed/insight/internal/baseline"
	"github.com/harperreed/insight/internal/models"
	"github.com/harperreed/insight/internal/score"
)

// A score swing at least this large between consecutive analyses is
// worth a notable-event entry.
const notableSwing = 5

// A keyword theme recurring across at least this many older findings
// counts as a persistent weakness.
const weaknessRecurrence = 2

const maxTrendLen = 100

// UpdateInput carries everything one memory update needs. The subject
// display name is an injected external read, used only to fill an empty
// profile field.
type UpdateInput struct {
	Analysis    *models.NarrativeAnalysis
	Summary     models.AnalysisSummary
	Score       *int
	Subs        score.SubScores
	Series      []models.DailyEntry
	DisplayName string
	DataSource  string
	Milestone   string
	Now         time.Time
}

// Update derives the next Memory from the previous one. The result
// replaces the old record in its entirety; every field not touched here
// is carried forward by the deep copy, because the storage layer never
// merges.
func Update(existing *models.Memory, in UpdateInput) *models.Memory {
	var m *models.Memory
	if existing == nil {
		m = models.NewMemory(in.Now)
	} else {
		m = existing.Clone()
	}

	refreshProfile(m, in)

	// Newest first, oldest evicted.
	m.Summaries = append([]models.AnalysisSummary{in.Summary}, m.Summaries...)
	if len(m.Summaries) > models.MaxSummaries {
		m.Summaries = m.Summaries[:models.MaxSummaries]
	}

	if len(m.Summaries) >= 2 {
		deriveInsights(m, in)
	}

	m.InteractionCount++
	m.LastUpdatedAt = in.Now
	return m
}

func refreshProfile(m *models.Memory, in UpdateInput) {
	p := &m.Profile

	if p.DisplayName == "" {
		p.DisplayName = in.DisplayName
	}
	p.DataSource = in.DataSource

	if in.Milestone != "" && in.Milestone != p.CurrentMilestone {
		if p.CurrentMilestone != "" {
			fragment := p.CurrentMilestone + " → " + in.Milestone
			if p.MilestoneHistory == "" {
				p.MilestoneHistory = fragment
			} else {
				p.MilestoneHistory += "; " + fragment
			}
			p.PreviousMilestone = p.CurrentMilestone
		}
		p.CurrentMilestone = in.Milestone
	}

	sleep := baseline.Clean(in.Series, models.MetricSleepHours, baseline.WindowSleep)
	if avg, ok := baseline.Average(sleep); ok {
		v := math.Round(avg*10) / 10
		p.TypicalSleepHours = &v
	}

	if med, ok := sortedMedian(baseline.Clean(in.Series, models.MetricHRV, baseline.WindowHRV)); ok {
		v := math.Round(med)
		p.BaselineHRV = &v
	}
	if med, ok := sortedMedian(baseline.Clean(in.Series, models.MetricRestingHR, baseline.WindowHRV)); ok {
		v := math.Round(med)
		p.BaselineRHR = &v
	}

	if vo2 := baseline.Clean(in.Series, models.MetricVO2Max, 0); len(vo2) >= 2 {
		lo, hi := vo2[0], vo2[0]
		for _, v := range vo2[1:] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		lo, hi = math.Round(lo), math.Round(hi)
		if lo == hi {
			p.VO2MaxRange = fmt.Sprintf("%.0f", lo)
		} else {
			p.VO2MaxRange = fmt.Sprintf("%.0f-%.0f", lo, hi)
		}
	}

	if in.Score != nil {
		p.FitnessLevel = fitnessLevel(*in.Score)
	}
}

func fitnessLevel(s int) string {
	switch {
	case s < 40:
		return "beginner"
	case s < 60:
		return "intermediate"
	case s < 80:
		return "advanced"
	default:
		return "elite"
	}
}

func deriveInsights(m *models.Memory, in UpdateInput) {
	ins := &m.Insights

	if len(in.Summary.Supplements) > 0 {
		ins.SupplementHistory = strings.Join(in.Summary.Supplements, ", ")
	}

	if weak := detectWeaknesses(in.Analysis, m.Summaries); len(weak) > 0 {
		// An empty recomputation keeps the previous list: stale beats a
		// false negative from one noisy analysis.
		ins.PersistentWeaknesses = weak
	}

	// Short-term score trend: the newest scored analysis against the most
	// recent scored one before it, within the trailing trend window.
	// Unscored records are skipped, never compared as zero.
	trail := m.Summaries
	if len(trail) > baseline.WindowTrend {
		trail = trail[:baseline.WindowTrend]
	}
	recent := trail[0].Score
	var previous *int
	for i := 1; i < len(trail); i++ {
		if trail[i].Score != nil {
			previous = trail[i].Score
			break
		}
	}
	if recent != nil && previous != nil {
		if diff := *recent - *previous; diff >= notableSwing || diff <= -notableSwing {
			direction := "improving"
			if diff < 0 {
				direction = "declining"
			}
			event := fmt.Sprintf("%s: score %s (%d → %d)",
				in.Now.Format("January 2006"), direction, *previous, *recent)
			ins.NotableEvents = append([]string{event}, ins.NotableEvents...)
			if len(ins.NotableEvents) > models.MaxNotableEvents {
				ins.NotableEvents = ins.NotableEvents[:models.MaxNotableEvents]
			}
		}
	}

	if t := trendText(in.Analysis.TrainingAdjustment); t != "" {
		ins.TrainingTrend = t
	}
	if t := trendText(in.Analysis.RecoveryChange); t != "" {
		ins.RecoveryTrend = t
	}

	if m.Profile.TypicalSleepHours != nil {
		ins.SleepTrend = fmt.Sprintf("sleep averaging %.1fh over the last %d days",
			*m.Profile.TypicalSleepHours, baseline.WindowSleep)
	}

	if strengths := keyStrengths(in.Subs); len(strengths) > 0 {
		ins.KeyStrengths = strengths
	}
}

// detectWeaknesses classifies a new bottleneck as persistent when enough
// of its keywords already appear in the findings of the older summaries.
// Detection only ever adds themes; ones that stop recurring are not
// pruned here.
func detectWeaknesses(analysis *models.NarrativeAnalysis, summaries []models.AnalysisSummary) []string {
	var history strings.Builder
	for _, s := range summaries[1:] {
		for _, f := range s.KeyFindings {
			history.WriteString(strings.ToLower(f))
			history.WriteString(" ")
		}
	}
	haystack := history.String()
	if haystack == "" {
		return nil
	}

	var weak []string
	seen := make(map[string]bool)
	for _, bottlenecks := range analysis.Bottlenecks {
		for _, b := range bottlenecks {
			b = strings.TrimSpace(b)
			if b == "" || seen[b] {
				continue
			}
			seen[b] = true

			matches := 0
			for _, kw := range keywords(b) {
				if strings.Contains(haystack, kw) {
					matches++
				}
			}
			if matches >= weaknessRecurrence {
				weak = append(weak, b)
			}
		}
	}
	sort.Strings(weak)
	return weak
}

// keywords lower-cases, splits on whitespace, strips surrounding
// punctuation, and keeps tokens of length >= 4.
func keywords(s string) []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(tok) >= 4 {
			out = append(out, tok)
		}
	}
	return out
}

// trendText keeps the first sentence of a non-trivial adjustment text,
// capped at 100 characters.
func trendText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 10 {
		return ""
	}
	if i := strings.Index(s, "."); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if r := []rune(s); len(r) > maxTrendLen {
		s = string(r[:maxTrendLen])
	}
	return s
}

func keyStrengths(subs score.SubScores) []string {
	var out []string
	if subs.Sleep != nil && *subs.Sleep >= 85 {
		out = append(out, "consistent sleep")
	}
	if subs.HRV != nil && *subs.HRV >= 85 {
		out = append(out, "strong recovery capacity")
	}
	if subs.Readiness != nil && *subs.Readiness >= 85 {
		out = append(out, "high daily readiness")
	}
	if subs.Strain != nil && *subs.Strain >= 85 {
		out = append(out, "well-balanced training load")
	}
	return out
}

func sortedMedian(values []float64) (float64, bool) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return baseline.Median(sorted)
}
