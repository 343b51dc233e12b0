// ABOUTME: Orchestrates the insight pipeline: entries -> baselines -> score,
// ABOUTME: and narrative analysis -> summary -> memory update -> persistence.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/insight/internal/baseline"
	"github.com/harperreed/insight/internal/memory"
	"github.com/harperreed/insight/internal/models"
	"github.com/harperreed/insight/internal/score"
	"github.com/harperreed/insight/internal/storage"
	"github.com/harperreed/insight/internal/summary"
)

// Options identify the subject and the boundary facts injected into the
// engine rather than read from hidden globals.
type Options struct {
	Subject     string
	DisplayName string
	DataSource  string
	Clock       func() time.Time
}

// Engine ties the pure compute components to the entry store and the
// memory store. All scoring paths are synchronous and safe to call from
// any goroutine; only memory persistence touches I/O.
type Engine struct {
	entries  storage.EntryStore
	memories *memory.Store
	opts     Options
}

// New builds an Engine. A nil Clock means time.Now.
func New(entries storage.EntryStore, memories *memory.Store, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Subject == "" {
		opts.Subject = "local"
	}
	if opts.DataSource == "" {
		opts.DataSource = "manual"
	}
	return &Engine{entries: entries, memories: memories, opts: opts}
}

// Series returns the stored date-ascending entry series.
func (e *Engine) Series() ([]models.DailyEntry, error) {
	entries, err := e.entries.ListEntries(0)
	if err != nil {
		return nil, fmt.Errorf("load entry series: %w", err)
	}
	return entries, nil
}

// Baselines computes the trailing-window baseline statistics for every
// tracked metric.
func (e *Engine) Baselines() ([]baseline.Baseline, error) {
	series, err := e.Series()
	if err != nil {
		return nil, err
	}

	out := make([]baseline.Baseline, 0, len(models.AllMetrics))
	for _, m := range models.AllMetrics {
		window := baseline.WindowSleep
		if m == models.MetricHRV || m == models.MetricRestingHR {
			window = baseline.WindowHRV
		}
		out = append(out, baseline.Compute(series, m, window))
	}
	return out, nil
}

// Score computes the composite score from the stored series.
func (e *Engine) Score() (score.Result, error) {
	series, err := e.Series()
	if err != nil {
		return score.Result{}, err
	}
	return ScoreSeries(series), nil
}

// ScoreSeries derives the four score inputs from a series and runs the
// composite score engine. Exposed for callers that already hold entries.
func ScoreSeries(series []models.DailyEntry) score.Result {
	var in score.Input
	in.Readiness = windowAverage(series, models.MetricReadiness)
	in.SleepHours = windowAverage(series, models.MetricSleepHours)
	in.HRV = windowAverage(series, models.MetricHRV)
	in.Strain = windowAverage(series, models.MetricStrain)
	return score.Compute(in)
}

func windowAverage(series []models.DailyEntry, m models.Metric) *float64 {
	if avg, ok := baseline.Average(baseline.Clean(series, m, baseline.WindowScore)); ok {
		return &avg
	}
	return nil
}

// Memory returns the subject's current memory snapshot, or nil when the
// subject has never been analyzed.
func (e *Engine) Memory(ctx context.Context) *models.Memory {
	return e.memories.Load(ctx, e.opts.Subject)
}

// Analyze ingests one completed narrative analysis: builds the compressed
// summary, derives the next Memory from the previous one, and persists it
// cache-first. The update succeeds whenever the local cache write does,
// regardless of remote state.
func (e *Engine) Analyze(ctx context.Context, analysis *models.NarrativeAnalysis) (*models.Memory, models.AnalysisSummary, error) {
	series, err := e.Series()
	if err != nil {
		return nil, models.AnalysisSummary{}, err
	}

	now := e.opts.Clock()
	result := ScoreSeries(series)

	var milestone string
	if result.Score != nil {
		milestone = result.Tier.Label
	}

	summ := summary.Build(analysis, result.Score, e.opts.DisplayName, now)

	existing := e.memories.Load(ctx, e.opts.Subject)
	next := memory.Update(existing, memory.UpdateInput{
		Analysis:    analysis,
		Summary:     summ,
		Score:       result.Score,
		Subs:        result.Subs,
		Series:      series,
		DisplayName: e.opts.DisplayName,
		DataSource:  e.opts.DataSource,
		Milestone:   milestone,
		Now:         now,
	})

	if err := e.memories.Save(ctx, e.opts.Subject, next); err != nil {
		return nil, models.AnalysisSummary{}, fmt.Errorf("persist memory: %w", err)
	}
	return next, summ, nil
}

// Clear wipes the subject's memory from cache and remote. Idempotent.
func (e *Engine) Clear(ctx context.Context) error {
	return e.memories.Clear(ctx, e.opts.Subject)
}
