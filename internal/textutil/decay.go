package textutil

import (
	"math"
	"time"
)

// TemporalDecay applies exponential decay to a stored importance score
// based on the age of timestamp relative to now. d = max(0, whole days
// elapsed); result = importance * exp(-decayRate * d / halfLifeDays).
// An unparseable timestamp returns importance unchanged rather than
// failing the caller.
func TemporalDecay(importance float64, timestamp string, decayRate, halfLifeDays float64, now time.Time) float64 {
	t, err := ParseISO8601(timestamp)
	if err != nil {
		return importance
	}
	return TemporalDecayAt(importance, t, decayRate, halfLifeDays, now)
}

// TemporalDecayAt is TemporalDecay for an already-parsed timestamp.
func TemporalDecayAt(importance float64, t time.Time, decayRate, halfLifeDays float64, now time.Time) float64 {
	days := math.Floor(now.Sub(t).Hours() / 24)
	if days < 0 {
		days = 0
	}
	factor := math.Exp(-decayRate * days / halfLifeDays)
	decayed := importance * factor
	if decayed < 0 {
		return 0
	}
	return decayed
}

// RetrievalBoost returns the bounded additive importance bonus for a
// record recalled retrievalCount times: min(20, retrievalCount * boostFactor).
func RetrievalBoost(retrievalCount int, boostFactor float64) float64 {
	boost := float64(retrievalCount) * boostFactor
	if boost > 20 {
		return 20
	}
	return boost
}
