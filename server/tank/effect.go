// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/world"
)

// EffectKind is a short lived cosmetic event.
type EffectKind uint8

const (
	EffectMuzzle EffectKind = iota
	EffectHit
	EffectExplosion
	EffectTrack
)

var effectLifetimes = [...]time.Duration{
	EffectMuzzle:    10 * world.TickPeriod,
	EffectHit:       15 * world.TickPeriod,
	EffectExplosion: time.Second,
	EffectTrack:     2 * time.Second,
}

func (kind EffectKind) Lifetime() time.Duration {
	return effectLifetimes[kind]
}

// Effect records where and when something visible happened.
type Effect struct {
	Kind      EffectKind
	Position  world.Vec2f
	Angle     world.Angle
	Remaining time.Duration
}

func NewEffect(kind EffectKind, pos world.Vec2f, angle world.Angle) Effect {
	return Effect{Kind: kind, Position: pos, Angle: angle, Remaining: kind.Lifetime()}
}

// Effects is an append only list that expires entries on Update.
type Effects []Effect

func (effects *Effects) Add(e Effect) {
	*effects = append(*effects, e)
}

// Update ages every effect by dt and drops expired ones. If limit is
// positive, only the newest limit effects of kind EffectTrack are kept.
func (effects *Effects) Update(dt time.Duration, limit int) {
	list := *effects
	tracks := 0
	if limit > 0 {
		for i := range list {
			if list[i].Kind == EffectTrack {
				tracks++
			}
		}
	}

	kept := list[:0]
	for _, e := range list {
		e.Remaining -= dt
		if e.Remaining <= 0 {
			if e.Kind == EffectTrack {
				tracks--
			}
			continue
		}
		if e.Kind == EffectTrack && limit > 0 && tracks > limit {
			tracks--
			continue
		}
		kept = append(kept, e)
	}
	*effects = kept
}

// Count returns how many effects of kind are active.
func (effects Effects) Count(kind EffectKind) (n int) {
	for _, e := range effects {
		if e.Kind == kind {
			n++
		}
	}
	return
}
