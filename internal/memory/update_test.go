// ABOUTME: Tests for the memory update pipeline.
// ABOUTME: Covers bootstrap, history caps, notable events, and weakness detection.
package memory

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/harperreed/insight/internal/models"
	"github.com/harperreed/insight/internal/score"
)

var testNow = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }
func fp(v float64) *float64 { return &v }

func summaryWithScore(s int, findings string) models.AnalysisSummary {
	return models.AnalysisSummary{
		Date:        testNow,
		Score:       intp(s),
		KeyFindings: map[string]string{"en": findings},
	}
}

func unscoredInput() UpdateInput {
	return UpdateInput{
		Analysis: &models.NarrativeAnalysis{},
		Summary: models.AnalysisSummary{
			Date:        testNow,
			KeyFindings: map[string]string{"en": "not enough data"},
		},
		DataSource: "manual",
		Now:        testNow,
	}
}

func baseInput(s int) UpdateInput {
	return UpdateInput{
		Analysis:    &models.NarrativeAnalysis{},
		Summary:     summaryWithScore(s, "findings"),
		Score:       intp(s),
		DisplayName: "Harper",
		DataSource:  "manual",
		Now:         testNow,
	}
}

func TestUpdateBootstrap(t *testing.T) {
	m := Update(nil, baseInput(45))

	if m.SchemaVersion != models.MemorySchemaVersion {
		t.Errorf("Expected schema version %d, got %d", models.MemorySchemaVersion, m.SchemaVersion)
	}
	if m.InteractionCount != 1 {
		t.Errorf("Expected interaction count 1, got %d", m.InteractionCount)
	}
	if len(m.Summaries) != 1 {
		t.Fatalf("Expected one summary, got %d", len(m.Summaries))
	}
	if m.Profile.FitnessLevel != "intermediate" {
		t.Errorf("Score 45 should map to intermediate, got %q", m.Profile.FitnessLevel)
	}
	if len(m.Insights.NotableEvents) != 0 {
		t.Errorf("First analysis has no prior score to compare: %v", m.Insights.NotableEvents)
	}
	if m.Profile.DisplayName != "Harper" {
		t.Errorf("Empty display name should be filled, got %q", m.Profile.DisplayName)
	}
	if !m.FirstAnalysisAt.Equal(testNow) || !m.LastUpdatedAt.Equal(testNow) {
		t.Error("Bootstrap should stamp both first and last updated times")
	}
}

func TestUpdateDoesNotMutateExisting(t *testing.T) {
	first := Update(nil, baseInput(50))
	snapshot := first.Clone()

	_ = Update(first, baseInput(60))

	if diff := cmp.Diff(snapshot, first); diff != "" {
		t.Errorf("Update mutated its input (-want +got):\n%s", diff)
	}
}

func TestFitnessLevels(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{10, "beginner"}, {39, "beginner"},
		{40, "intermediate"}, {59, "intermediate"},
		{60, "advanced"}, {79, "advanced"},
		{80, "elite"}, {100, "elite"},
	}
	for _, tt := range tests {
		if got := fitnessLevel(tt.score); got != tt.want {
			t.Errorf("fitnessLevel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSummaryHistoryCapped(t *testing.T) {
	var m *models.Memory
	for i := 0; i < 6; i++ {
		in := baseInput(50 + i)
		in.Summary = summaryWithScore(50+i, fmt.Sprintf("analysis %d", i))
		m = Update(m, in)
	}

	if len(m.Summaries) != models.MaxSummaries {
		t.Fatalf("Expected %d summaries, got %d", models.MaxSummaries, len(m.Summaries))
	}
	// Most recent first.
	if *m.Summaries[0].Score != 55 || *m.Summaries[1].Score != 54 || *m.Summaries[2].Score != 53 {
		t.Errorf("Expected [55 54 53], got [%d %d %d]",
			*m.Summaries[0].Score, *m.Summaries[1].Score, *m.Summaries[2].Score)
	}
	if m.InteractionCount != 6 {
		t.Errorf("Expected interaction count 6, got %d", m.InteractionCount)
	}
}

func TestNotableEventOnBigSwing(t *testing.T) {
	// Two prior summaries [60, 58] most-recent-first, then a 68.
	m := Update(nil, baseInput(58))
	m = Update(m, baseInput(60))
	if len(m.Insights.NotableEvents) != 0 {
		t.Fatalf("|60-58| < 5 must not log an event: %v", m.Insights.NotableEvents)
	}

	m = Update(m, baseInput(68))

	if len(m.Summaries) != 3 || *m.Summaries[0].Score != 68 {
		t.Fatalf("Expected history [68 60 58], got %+v", m.Summaries)
	}
	if len(m.Insights.NotableEvents) != 1 {
		t.Fatalf("Expected one notable event, got %v", m.Insights.NotableEvents)
	}
	want := "August 2026: score improving (60 → 68)"
	if m.Insights.NotableEvents[0] != want {
		t.Errorf("Expected %q, got %q", want, m.Insights.NotableEvents[0])
	}
}

func TestNotableEventDeclineAndCap(t *testing.T) {
	var m *models.Memory
	// Alternate big swings to generate many events.
	scores := []int{50, 60, 50, 60, 50, 60, 50, 60}
	for _, s := range scores {
		m = Update(m, baseInput(s))
	}

	if len(m.Insights.NotableEvents) != models.MaxNotableEvents {
		t.Fatalf("Expected %d events, got %d", models.MaxNotableEvents, len(m.Insights.NotableEvents))
	}
	// Last swing was 50 -> 60: improving, most recent first.
	if m.Insights.NotableEvents[0] != "August 2026: score improving (50 → 60)" {
		t.Errorf("Unexpected latest event: %q", m.Insights.NotableEvents[0])
	}
	if m.Insights.NotableEvents[1] != "August 2026: score declining (60 → 50)" {
		t.Errorf("Unexpected second event: %q", m.Insights.NotableEvents[1])
	}
}

func TestUnscoredAnalysisNeverComparesAsZero(t *testing.T) {
	// An unscored analysis followed by a scored one: there is no real
	// previous score, so no swing event may be synthesized from the gap.
	m := Update(nil, unscoredInput())
	m = Update(m, baseInput(68))

	if len(m.Summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(m.Summaries))
	}
	if m.Summaries[1].Score != nil {
		t.Fatalf("Unscored summary should carry no score, got %d", *m.Summaries[1].Score)
	}
	if len(m.Insights.NotableEvents) != 0 {
		t.Errorf("No event may compare against an unscored record: %v", m.Insights.NotableEvents)
	}
}

func TestTrendComparisonSkipsUnscoredMiddle(t *testing.T) {
	m := Update(nil, baseInput(58))
	m = Update(m, unscoredInput())
	if len(m.Insights.NotableEvents) != 0 {
		t.Fatalf("An unscored analysis must not produce an event: %v", m.Insights.NotableEvents)
	}

	m = Update(m, baseInput(68))

	if len(m.Insights.NotableEvents) != 1 {
		t.Fatalf("Expected one event comparing the two scored analyses, got %v",
			m.Insights.NotableEvents)
	}
	want := "August 2026: score improving (58 → 68)"
	if m.Insights.NotableEvents[0] != want {
		t.Errorf("Expected %q, got %q", want, m.Insights.NotableEvents[0])
	}
}

func TestPersistentWeaknessDetection(t *testing.T) {
	in1 := baseInput(60)
	in1.Summary = summaryWithScore(60, "Chronic sleep debt is limiting recovery capacity")
	m := Update(nil, in1)

	// Same themes recur: "sleep" alone is one keyword match, "sleep" +
	// "recovery" is two and crosses the threshold.
	in2 := baseInput(62)
	in2.Summary = summaryWithScore(62, "new findings")
	in2.Analysis = &models.NarrativeAnalysis{
		Bottlenecks: map[string][]string{"en": {
			"Poor sleep and slow recovery",
			"Hydration low",
		}},
	}
	m = Update(m, in2)

	if len(m.Insights.PersistentWeaknesses) != 1 {
		t.Fatalf("Expected one persistent weakness, got %v", m.Insights.PersistentWeaknesses)
	}
	if m.Insights.PersistentWeaknesses[0] != "Poor sleep and slow recovery" {
		t.Errorf("Unexpected weakness: %q", m.Insights.PersistentWeaknesses[0])
	}

	// An empty recomputation must not erase the stored list.
	in3 := baseInput(63)
	in3.Analysis = &models.NarrativeAnalysis{}
	m = Update(m, in3)
	if len(m.Insights.PersistentWeaknesses) != 1 {
		t.Error("Empty recomputation should keep the previous weaknesses")
	}
}

func TestMilestoneTrail(t *testing.T) {
	in := baseInput(50)
	in.Milestone = "Resilient"
	m := Update(nil, in)

	if m.Profile.CurrentMilestone != "Resilient" {
		t.Fatalf("Expected milestone Resilient, got %q", m.Profile.CurrentMilestone)
	}
	if m.Profile.MilestoneHistory != "" {
		t.Errorf("First milestone should not write a transition: %q", m.Profile.MilestoneHistory)
	}

	in2 := baseInput(70)
	in2.Milestone = "Thriving"
	m = Update(m, in2)

	if m.Profile.PreviousMilestone != "Resilient" || m.Profile.CurrentMilestone != "Thriving" {
		t.Errorf("Unexpected milestones: %+v", m.Profile)
	}
	if m.Profile.MilestoneHistory != "Resilient → Thriving" {
		t.Errorf("Unexpected trail: %q", m.Profile.MilestoneHistory)
	}

	// Unchanged milestone appends nothing.
	in3 := baseInput(71)
	in3.Milestone = "Thriving"
	m = Update(m, in3)
	if m.Profile.MilestoneHistory != "Resilient → Thriving" {
		t.Errorf("Trail must not grow without a change: %q", m.Profile.MilestoneHistory)
	}

	in4 := baseInput(85)
	in4.Milestone = "Peak"
	m = Update(m, in4)
	if m.Profile.MilestoneHistory != "Resilient → Thriving; Thriving → Peak" {
		t.Errorf("Trail should append one-way: %q", m.Profile.MilestoneHistory)
	}
}

func TestProfileBaselinesOnlyOverwriteWithData(t *testing.T) {
	series := []models.DailyEntry{
		{Date: "2026-08-25", SleepHours: fp(7.2), HRV: fp(48), RestingHR: fp(55)},
		{Date: "2026-08-26", SleepHours: fp(6.9), HRV: fp(52), RestingHR: fp(57)},
		{Date: "2026-08-27", SleepHours: fp(7.6), HRV: fp(50)},
	}

	in := baseInput(60)
	in.Series = series
	m := Update(nil, in)

	if m.Profile.TypicalSleepHours == nil || *m.Profile.TypicalSleepHours != 7.2 {
		t.Errorf("Expected typical sleep 7.2, got %v", m.Profile.TypicalSleepHours)
	}
	if m.Profile.BaselineHRV == nil || *m.Profile.BaselineHRV != 50 {
		t.Errorf("Expected baseline HRV 50, got %v", m.Profile.BaselineHRV)
	}
	if m.Profile.BaselineRHR == nil || *m.Profile.BaselineRHR != 56 {
		t.Errorf("Expected baseline RHR 56, got %v", m.Profile.BaselineRHR)
	}

	// A later update with no samples keeps the old estimates.
	in2 := baseInput(61)
	in2.Series = nil
	m = Update(m, in2)
	if m.Profile.TypicalSleepHours == nil || m.Profile.BaselineHRV == nil || m.Profile.BaselineRHR == nil {
		t.Error("Missing samples must not erase existing baselines")
	}
}

func TestVO2MaxRange(t *testing.T) {
	in := baseInput(60)
	in.Series = []models.DailyEntry{
		{Date: "2026-08-25", VO2Max: fp(44.2)},
	}
	m := Update(nil, in)
	if m.Profile.VO2MaxRange != "" {
		t.Errorf("One sample must not produce a range: %q", m.Profile.VO2MaxRange)
	}

	in2 := baseInput(61)
	in2.Series = []models.DailyEntry{
		{Date: "2026-08-25", VO2Max: fp(44.2)},
		{Date: "2026-08-26", VO2Max: fp(46.8)},
	}
	m = Update(m, in2)
	if m.Profile.VO2MaxRange != "44-47" {
		t.Errorf("Expected 44-47, got %q", m.Profile.VO2MaxRange)
	}

	in3 := baseInput(62)
	in3.Series = []models.DailyEntry{
		{Date: "2026-08-27", VO2Max: fp(45.2)},
		{Date: "2026-08-28", VO2Max: fp(44.9)},
	}
	m = Update(m, in3)
	if m.Profile.VO2MaxRange != "45" {
		t.Errorf("Equal rounded bounds collapse to one number, got %q", m.Profile.VO2MaxRange)
	}
}

func TestTrendTexts(t *testing.T) {
	in := baseInput(58)
	m := Update(nil, in)

	in2 := baseInput(60)
	in2.Analysis = &models.NarrativeAnalysis{
		TrainingAdjustment: "Shift one interval session to zone 2. Keep long runs easy.",
		RecoveryChange:     "short", // <= 10 chars: too trivial to store
	}
	m = Update(m, in2)

	if m.Insights.TrainingTrend != "Shift one interval session to zone 2" {
		t.Errorf("Unexpected training trend: %q", m.Insights.TrainingTrend)
	}
	if m.Insights.RecoveryTrend != "" {
		t.Errorf("Trivial recovery text should be ignored: %q", m.Insights.RecoveryTrend)
	}
}

func TestTrendTextCountsRunes(t *testing.T) {
	// 120 characters, 360 bytes, no sentence break: the cap must count
	// characters, not bytes, and never cut inside one.
	got := trendText(strings.Repeat("回", 120))
	if r := []rune(got); len(r) != maxTrendLen {
		t.Errorf("Expected %d characters, got %d", maxTrendLen, len(r))
	}
	if !utf8.ValidString(got) {
		t.Error("Trend text must stay valid UTF-8 after capping")
	}

	short := strings.Repeat("回", 40)
	if trendText(short) != short {
		t.Error("A 40-character trend text must not be capped")
	}
}

func TestSupplementHistoryAndStrengths(t *testing.T) {
	m := Update(nil, baseInput(58))

	in := baseInput(60)
	in.Summary.Supplements = []string{"magnesium", "creatine"}
	in.Subs = score.SubScores{Sleep: fp(100), HRV: fp(50)}
	m = Update(m, in)

	if m.Insights.SupplementHistory != "magnesium, creatine" {
		t.Errorf("Unexpected supplement history: %q", m.Insights.SupplementHistory)
	}
	if len(m.Insights.KeyStrengths) != 1 || m.Insights.KeyStrengths[0] != "consistent sleep" {
		t.Errorf("Unexpected strengths: %v", m.Insights.KeyStrengths)
	}
}

func TestDataSourceAlwaysOverwritten(t *testing.T) {
	m := Update(nil, baseInput(50))
	in := baseInput(51)
	in.DataSource = "oura"
	m = Update(m, in)
	if m.Profile.DataSource != "oura" {
		t.Errorf("Data source should follow the current effective source, got %q", m.Profile.DataSource)
	}
}

func TestKeywords(t *testing.T) {
	got := keywords("Poor sleep, and slow RECOVERY!")
	want := []string{"poor", "sleep", "slow", "recovery"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
}
