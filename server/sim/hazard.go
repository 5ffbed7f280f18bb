// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
)

const (
	HazardSize       = 24
	HazardHealth     = 30
	HazardSpeed      = 1.5
	HazardFirePeriod = time.Second
	HazardDamage     = 1

	// A destroyed iglu releases this many hazards in a column.
	hazardCount   = 5
	hazardSpacing = 40
)

// Hazard is a small unit released by a destroyed iglu. It chases the tank
// that destroyed the iglu and fires pellets at it.
type Hazard struct {
	world.Vec2f // top left
	Health      float32
	Target      tank.ID
	reload      time.Duration
}

// SpawnHazards releases hazards from the lower right corner of o.
func SpawnHazards(o *arena.Obstacle, target tank.ID) []*Hazard {
	b := o.Bounds()
	x := b.X + b.Width - HazardSize + 10
	y := b.Y + b.Height - HazardSize + 10

	hazards := make([]*Hazard, hazardCount)
	for i := range hazards {
		hazards[i] = &Hazard{
			Vec2f:  world.Vec2f{X: x, Y: y - float32(i*hazardSpacing)},
			Health: HazardHealth,
			Target: target,
			reload: HazardFirePeriod,
		}
	}
	return hazards
}

func (h *Hazard) Bounds() world.AABB {
	return world.AABBFrom(h.X, h.Y, HazardSize, HazardSize)
}

func (h *Hazard) Center() world.Vec2f {
	return h.Bounds().Center()
}

func (h *Hazard) Alive() bool {
	return h.Health > 0
}

// TakeDamage returns true if it destroyed h.
func (h *Hazard) TakeDamage(amount float32) bool {
	if !h.Alive() {
		return false
	}
	h.Health -= amount
	return !h.Alive()
}

// Update chases target and returns a pellet when one is fired. A nil target
// leaves h idle.
func (h *Hazard) Update(target *tank.Tank, dt time.Duration) *tank.Projectile {
	h.reload = max(h.reload-dt, 0)
	if target == nil {
		return nil
	}

	center := h.Center()
	delta := target.Center().Sub(center)
	if delta.LengthSquared() > 1 {
		h.Vec2f = h.AddScaled(delta.Norm(), HazardSpeed*world.Frames(dt))
	}

	if h.reload > 0 {
		return nil
	}
	h.reload = HazardFirePeriod
	p := tank.NewProjectile(center, delta.Angle(), HazardDamage, tank.AmmoStandard)
	p.Hazard = true
	return p
}
