// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

// DefaultSeed is the seed every networked layout starts from.
const DefaultSeed = 12345

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// LCG is the linear congruential generator clients use to rebuild networked
// layouts. Its sequence must not change.
type LCG struct {
	seed int64
}

func NewLCG(seed int64) *LCG {
	return &LCG{seed: seed}
}

// Next returns a value in [0, 1).
func (l *LCG) Next() float64 {
	l.seed = (l.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(l.seed) / lcgModulus
}

// Range returns a value in [lo, lo+span), computed in float64 like the
// clients and rounded once to float32.
func (l *LCG) Range(lo, span float32) float32 {
	return float32(float64(lo) + l.Next()*float64(span))
}
