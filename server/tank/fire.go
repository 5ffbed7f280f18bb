// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"time"
)

const (
	// MuzzleDistance is from the tank center to where projectiles spawn.
	MuzzleDistance = 55
	PremiumCost    = 30
)

// Reloaded the weapon may fire.
func (t *Tank) Reloaded() bool {
	return t.Reload <= 0
}

// UpdateReload counts the reload timer down by dt.
func (t *Tank) UpdateReload(dt time.Duration) {
	t.Reload = max(t.Reload-dt, 0)
}

// Fire spawns a projectile at the muzzle and restarts the reload timer. It
// does nothing while reloading. Premium ammunition is only for the player and
// falls back to standard when coins don't cover its cost; the caller pays
// Projectile.Kind.Cost().
func (t *Tank) Fire(kind AmmoKind, coins int) (*Projectile, bool) {
	if !t.Alive() || !t.Reloaded() {
		return nil, false
	}
	if kind != AmmoPremium || t.Team != TeamPlayer || coins < PremiumCost {
		kind = AmmoStandard
	}

	t.Reload = t.Cooldown

	muzzle := t.Center().AddScaled(t.TurretAngle.Vec2f(), MuzzleDistance)
	p := NewProjectile(muzzle, t.TurretAngle, t.Damage*kind.DamageMultiplier(), kind)
	p.Owner = t.ID
	p.OwnerTeam = t.Team
	return p, true
}
