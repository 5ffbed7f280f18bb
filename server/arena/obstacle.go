// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"github.com/SoftbearStudios/tankarena/server/world"
)

// Obstacle is a tree, rock, swamp, iglu or oilrig.
// Its fields are also its wire format.
type Obstacle struct {
	Kind Kind `json:"type"`
	world.Vec2f
	Width     float32 `json:"width"`
	Height    float32 `json:"height"`
	RadiusX   float32 `json:"radiusX,omitempty"`
	RadiusY   float32 `json:"radiusY,omitempty"`
	Health    float32 `json:"health,omitempty"`
	MaxHealth float32 `json:"maxHealth,omitempty"`
}

// NewRect makes an obstacle whose Position is its top left corner.
func NewRect(kind Kind, x, y, width, height float32) *Obstacle {
	o := &Obstacle{
		Kind:   kind,
		Vec2f:  world.Vec2f{X: x, Y: y},
		Width:  width,
		Height: height,
	}
	o.MaxHealth = kind.Data().MaxHealth
	o.Health = o.MaxHealth
	return o
}

// NewEllipse makes an obstacle whose Position is its center.
func NewEllipse(kind Kind, x, y, radiusX, radiusY float32) *Obstacle {
	o := NewRect(kind, x, y, radiusX*2, radiusY*2)
	o.RadiusX = radiusX
	o.RadiusY = radiusY
	return o
}

// Bounds is the collision box of o.
func (o *Obstacle) Bounds() world.AABB {
	if o.Kind.Data().Elliptic {
		return world.AABBFrom(o.X-o.RadiusX, o.Y-o.RadiusY, o.RadiusX*2, o.RadiusY*2)
	}
	return world.AABBFrom(o.X, o.Y, o.Width, o.Height)
}

func (o *Obstacle) Center() world.Vec2f {
	return o.Bounds().Center()
}

func (o *Obstacle) Destructible() bool {
	return o.Kind.Destructible()
}

// Alive is false once a destructible obstacle runs out of health.
func (o *Obstacle) Alive() bool {
	return !o.Destructible() || o.Health > 0
}

// Solid obstacles stop tanks and projectiles.
func (o *Obstacle) Solid() bool {
	return o.Destructible() && o.Health > 0
}

// Slows is true for terrain that only slows tanks.
func (o *Obstacle) Slows() bool {
	return o.Kind.Data().Slows
}

// Damage removes health from a destructible obstacle.
// It returns true only on the call that destroys it.
func (o *Obstacle) Damage(amount float32) (destroyed bool) {
	if !o.Solid() || amount <= 0 {
		return false
	}
	o.Health -= amount
	if o.Health <= 0 {
		o.Health = 0
		return true
	}
	return false
}
