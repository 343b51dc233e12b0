// ABOUTME: Five-tier partition of the composite score range.
// ABOUTME: Tier identity hash depends on the ordinal only, never the raw score.
package score

import (
	"encoding/binary"
	"hash/fnv"
)

// Tier is one of five ordered score bands. The bands are contiguous,
// non-overlapping, and together cover [0,100] exactly: each is half-open
// [Min,Max) except the top tier, which also claims 100.
type Tier struct {
	Label   string `json:"label"`
	Ordinal int    `json:"ordinal"`
	Asset   string `json:"asset"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
}

// Tiers lists the bands lowest to highest. The boundaries are fixed
// calibration constants, not tunable defaults.
var Tiers = [5]Tier{
	{Label: "Foundation", Ordinal: 0, Asset: "tier_foundation", Min: 0, Max: 25},
	{Label: "Momentum", Ordinal: 1, Asset: "tier_momentum", Min: 25, Max: 45},
	{Label: "Resilient", Ordinal: 2, Asset: "tier_resilient", Min: 45, Max: 65},
	{Label: "Thriving", Ordinal: 3, Asset: "tier_thriving", Min: 65, Max: 82},
	{Label: "Peak", Ordinal: 4, Asset: "tier_peak", Min: 82, Max: 100},
}

// TierForScore maps a composite score to its tier. Scores at or above the
// top band's lower bound fall into the top tier, including 100.
func TierForScore(score int) Tier {
	for _, t := range Tiers[:len(Tiers)-1] {
		if score >= t.Min && score < t.Max {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// IdentityHash is a stable fingerprint of the tier derived from the
// ordinal alone, so a caller can detect "tier changed" between two scores
// without comparing raw values that differ on every noisy recompute.
func (t Tier) IdentityHash() uint32 {
	h := fnv.New32a()
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(t.Ordinal))
	_, _ = h.Write(buf[:])
	return h.Sum32()
}
