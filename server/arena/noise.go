// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"github.com/aquilax/go-perlin"
)

// Rand is the subset of *rand.Rand layouts and spawns draw from.
type Rand interface {
	Float32() float32
	Intn(n int) int
	Int63() int64
}

const (
	groveFrequency = 0.004
	// Candidates are tried this many times per obstacle before giving up.
	scatterAttempts = 12
)

// scatterer places obstacles so that trees form groves and nothing overlaps.
type scatterer struct {
	arena *Arena
	rng   Rand
	grove *perlin.Perlin
}

func newScatterer(a *Arena, rng Rand) *scatterer {
	return &scatterer{
		arena: a,
		rng:   rng,
		grove: perlin.NewPerlin(2, 2, 3, rng.Int63()),
	}
}

// density is in [0, 1], higher where groves are.
func (s *scatterer) density(x, y float32) float32 {
	n := s.grove.Noise2D(float64(x)*groveFrequency, float64(y)*groveFrequency)
	return float32(min(max(n+0.5, 0), 1))
}

func (s *scatterer) place(gen func() *Obstacle, clustered bool) {
	var o *Obstacle
	for i := 0; i < scatterAttempts; i++ {
		o = gen()
		c := o.Center()
		if clustered && s.rng.Float32() > s.density(c.X, c.Y) {
			continue
		}
		if s.free(o) {
			break
		}
	}
	s.arena.Obstacles = append(s.arena.Obstacles, o)
}

func (s *scatterer) free(o *Obstacle) bool {
	b := o.Bounds()
	for _, other := range s.arena.Obstacles {
		if other.Bounds().Overlaps(b) {
			return false
		}
	}
	return true
}

// Scatter fills a single player arena with obstacles for its map. Counts scale
// with density.
func Scatter(a *Arena, density float32, rng Rand) {
	s := newScatterer(a, rng)
	w, h := a.Width, a.Height
	r := func(lo, span float32) float32 {
		return lo + rng.Float32()*span
	}

	if a.Map == MapIce {
		for i := 0; i < 12; i++ {
			s.place(func() *Obstacle {
				return NewRect(KindIglu, r(60, w-120), r(60, h-120), r(90, 30), r(90, 30))
			}, false)
		}
		return
	}

	if a.Map != MapDesert {
		for i := 0; i < int(20*density); i++ {
			s.place(func() *Obstacle {
				radius := r(20, 20)
				return NewEllipse(KindTree, r(0, w), r(0, h), radius, radius)
			}, true)
		}
		for i := 0; i < int(7*density); i++ {
			s.place(func() *Obstacle {
				return NewEllipse(KindSwamp, r(0, w), r(0, h), r(30, 30), r(20, 20))
			}, false)
		}
	}

	for i := 0; i < int(5*density); i++ {
		s.place(func() *Obstacle {
			return NewRect(KindRock, r(0, w), r(0, h), r(40, 30), r(30, 20))
		}, false)
	}

	if a.Map == MapDesert {
		n := 10 + rng.Intn(6)
		for i := 0; i < n; i++ {
			s.place(func() *Obstacle {
				return NewRect(KindOilrig, r(0, w-120), r(0, h-120), r(80, 40), r(80, 40))
			}, false)
		}
	}
}
