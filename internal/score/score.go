// ABOUTME: Composite score engine: four weighted sub-curves over baselined inputs.
// ABOUTME: Missing inputs renormalize weights so gaps never bias the score toward zero.
package score

import "math"

// Fixed contribution weights. Calibration constants; reproduce exactly.
const (
	weightReadiness = 0.40
	weightSleep     = 0.25
	weightHRV       = 0.20
	weightStrain    = 0.15
)

// Input carries the baselined metric averages feeding the composite score.
// A nil field means that metric had no data in its window.
type Input struct {
	Readiness  *float64 `json:"readiness,omitempty"`
	SleepHours *float64 `json:"sleep_hours,omitempty"`
	HRV        *float64 `json:"hrv,omitempty"`
	Strain     *float64 `json:"strain,omitempty"`
}

// SubScores are the per-factor 0-100 scores before weighting.
type SubScores struct {
	Readiness *float64 `json:"readiness,omitempty"`
	Sleep     *float64 `json:"sleep,omitempty"`
	HRV       *float64 `json:"hrv,omitempty"`
	Strain    *float64 `json:"strain,omitempty"`
}

// Result is the ephemeral outcome of one score computation. Score is nil
// only when every input was absent; it is recomputed on demand and never
// persisted as a source of truth.
type Result struct {
	Score *int      `json:"score,omitempty"`
	Subs  SubScores `json:"sub_scores"`
	Tier  *Tier     `json:"tier,omitempty"`
}

// Available reports whether any contributing metric had data.
func (r Result) Available() bool {
	return r.Score != nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// readinessCurve passes the 0-100 readiness value through, clamped.
func readinessCurve(v float64) float64 {
	return clamp(v, 0, 100)
}

// sleepCurve is a step function on nightly hours.
func sleepCurve(hours float64) float64 {
	switch {
	case hours >= 7.5:
		return 100
	case hours >= 7.0:
		return 85
	case hours >= 6.0:
		return 60
	case hours >= 5.0:
		return 35
	default:
		return 15
	}
}

// hrvCurve rescales HRV linearly: ~10ms maps to 0 and ~80ms to 100.
func hrvCurve(hrv float64) float64 {
	return clamp((hrv-10)*100/70, 0, 100)
}

// strainCurve rewards a balanced training load: [3,6] is optimal, [2,7]
// acceptable, anything further out is too high or too low.
func strainCurve(strain float64) float64 {
	switch {
	case strain >= 3 && strain <= 6:
		return 85
	case strain >= 2 && strain <= 7:
		return 65
	default:
		return 40
	}
}

// Compute combines the present inputs into a single 0-100 score and its
// tier. Only the weights of present inputs enter the denominator, so a
// missing metric drops out instead of dragging the score down. With no
// inputs at all the result is unavailable, never 0.
func Compute(in Input) Result {
	var res Result
	var sum, weightSum float64

	if in.Readiness != nil {
		s := readinessCurve(*in.Readiness)
		res.Subs.Readiness = &s
		sum += s * weightReadiness
		weightSum += weightReadiness
	}
	if in.SleepHours != nil {
		s := sleepCurve(*in.SleepHours)
		res.Subs.Sleep = &s
		sum += s * weightSleep
		weightSum += weightSleep
	}
	if in.HRV != nil {
		s := hrvCurve(*in.HRV)
		res.Subs.HRV = &s
		sum += s * weightHRV
		weightSum += weightHRV
	}
	if in.Strain != nil {
		s := strainCurve(*in.Strain)
		res.Subs.Strain = &s
		sum += s * weightStrain
		weightSum += weightStrain
	}

	if weightSum == 0 {
		return res
	}

	// Round half up, then clamp.
	score := int(clamp(math.Floor(sum/weightSum+0.5), 0, 100))
	tier := TierForScore(score)
	res.Score = &score
	res.Tier = &tier
	return res
}
