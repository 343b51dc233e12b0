// ABOUTME: Tests for the five-tier score partition.
// ABOUTME: Verifies totality, boundary mapping, and ordinal-only identity.
package score

import "testing"

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		score   int
		ordinal int
	}{
		{0, 0}, {24, 0},
		{25, 1}, {44, 1},
		{45, 2}, {64, 2},
		{65, 3}, {81, 3},
		{82, 4}, {100, 4},
	}
	for _, tt := range tests {
		got := TierForScore(tt.score)
		if got.Ordinal != tt.ordinal {
			t.Errorf("TierForScore(%d).Ordinal = %d, want %d", tt.score, got.Ordinal, tt.ordinal)
		}
	}
}

func TestTierPartitionIsTotal(t *testing.T) {
	// Every integer score maps to exactly one band.
	for s := 0; s <= 100; s++ {
		matches := 0
		for _, tier := range Tiers {
			if s >= tier.Min && (s < tier.Max || (tier.Ordinal == 4 && s == 100)) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("Score %d matched %d tiers, want exactly 1", s, matches)
		}
	}
}

func TestTierOrdering(t *testing.T) {
	for i, tier := range Tiers {
		if tier.Ordinal != i {
			t.Errorf("Tiers[%d].Ordinal = %d, want %d", i, tier.Ordinal, i)
		}
		if i > 0 && Tiers[i-1].Max != tier.Min {
			t.Errorf("Gap between tier %d and %d: %d != %d", i-1, i, Tiers[i-1].Max, tier.Min)
		}
	}
	if Tiers[0].Min != 0 || Tiers[4].Max != 100 {
		t.Error("Tiers must cover [0,100] exactly")
	}
}

func TestIdentityHashTracksOrdinalOnly(t *testing.T) {
	// Two raw scores inside the same band share an identity; scores in
	// different bands do not.
	if TierForScore(66).IdentityHash() != TierForScore(80).IdentityHash() {
		t.Error("Same tier should share an identity hash regardless of raw score")
	}
	if TierForScore(24).IdentityHash() == TierForScore(25).IdentityHash() {
		t.Error("Adjacent tiers must have distinct identity hashes")
	}

	seen := make(map[uint32]int)
	for _, tier := range Tiers {
		h := tier.IdentityHash()
		if prev, dup := seen[h]; dup {
			t.Errorf("Tiers %d and %d collide on identity hash", prev, tier.Ordinal)
		}
		seen[h] = tier.Ordinal
	}
}
