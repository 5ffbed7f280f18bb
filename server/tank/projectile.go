// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/world"
)

const (
	ProjectileSpeed  = 10
	ProjectileRadius = 5
	// ProjectileMargin is how far outside the arena a projectile may travel before expiring.
	ProjectileMargin = 100
)

// AmmoKind is the wire bulletType.
type AmmoKind uint8

const (
	AmmoStandard AmmoKind = 1
	AmmoPremium  AmmoKind = 2
)

// Cost in coins of firing one round.
func (kind AmmoKind) Cost() int {
	if kind == AmmoPremium {
		return PremiumCost
	}
	return 0
}

func (kind AmmoKind) DamageMultiplier() float32 {
	if kind == AmmoPremium {
		return 2
	}
	return 1
}

// Projectile is a shell in flight. Position is its center.
type Projectile struct {
	world.Vec2f
	Angle     world.Angle
	Speed     float32
	Radius    float32
	Damage    float32
	Owner     ID
	OwnerTeam Team
	Kind      AmmoKind
	// Hazard projectiles come from hazard units rather than tanks.
	Hazard bool
}

func NewProjectile(pos world.Vec2f, angle world.Angle, damage float32, kind AmmoKind) *Projectile {
	return &Projectile{
		Vec2f:  pos,
		Angle:  angle,
		Speed:  ProjectileSpeed,
		Radius: ProjectileRadius,
		Damage: damage,
		Kind:   kind,
	}
}

// Bounds is the point box projectiles collide with.
func (p *Projectile) Bounds() world.AABB {
	return world.AABBFrom(p.X, p.Y, 1, 1)
}

func (p *Projectile) Move(dt time.Duration) {
	p.Vec2f = p.AddScaled(p.Angle.Vec2f(), p.Speed*world.Frames(dt))
}
