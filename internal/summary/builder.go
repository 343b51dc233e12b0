// ABOUTME: Analysis summary builder: compresses one narrative analysis into a record.
// ABOUTME: Findings are capped at 200 chars with ellipsis-safe truncation.
package summary

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/insight/internal/models"
)

const (
	maxFindingsLen = 200
	ellipsis       = "..."
)

// Build compresses a completed narrative analysis into an immutable
// AnalysisSummary. Findings keep at most the first two non-empty
// bottlenecks per language, falling back to the first sentence of the
// long summary when no bottlenecks exist. scoreValue is nil when no
// contributing metric had data.
func Build(analysis *models.NarrativeAnalysis, scoreValue *int, subjectLabel string, now time.Time) models.AnalysisSummary {
	s := models.AnalysisSummary{
		ID:           uuid.New(),
		Date:         now,
		SubjectLabel: subjectLabel,
		Score:        scoreValue,
		Directives:   analysis.Directives.List(),
	}

	for _, sup := range analysis.Supplements {
		name := strings.TrimSpace(sup.Name)
		if name != "" {
			s.Supplements = append(s.Supplements, name)
		}
	}

	langs := make(map[string]bool)
	for lang := range analysis.Bottlenecks {
		langs[lang] = true
	}
	for lang := range analysis.Summary {
		langs[lang] = true
	}
	for lang := range langs {
		finding := CompressFindings(analysis.BottlenecksFor(lang), analysis.Summary[lang])
		if finding == "" {
			continue
		}
		if s.KeyFindings == nil {
			s.KeyFindings = make(map[string]string)
		}
		s.KeyFindings[lang] = finding
	}

	return s
}

// CompressFindings condenses bottleneck strings into one short findings
// line. Up to the first two non-empty trimmed bottlenecks are joined with
// ". "; with no bottlenecks at all, the first sentence of the long
// summary stands in.
func CompressFindings(bottlenecks []string, longSummary string) string {
	var kept []string
	for _, b := range bottlenecks {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		kept = append(kept, b)
		if len(kept) == 2 {
			break
		}
	}

	if len(kept) == 0 {
		first := firstSentence(longSummary)
		if first == "" {
			return ""
		}
		kept = []string{first}
	}

	return Truncate(strings.Join(kept, ". "), maxFindingsLen)
}

// Truncate caps s at max characters, counted in runes: findings are
// language-tagged and often multi-byte, and a byte cut could land inside
// a character. Longer strings are cut to max-len(ellipsis) characters
// and the ellipsis appended whole.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-len(ellipsis)]) + ellipsis
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "."); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
