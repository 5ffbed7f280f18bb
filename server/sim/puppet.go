// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
)

const (
	// SyncPeriod is the minimum time between position updates sent to peers.
	SyncPeriod = 150 * time.Millisecond
	// Updates are only sent after moving or turning at least this much.
	syncDistance = 1
	syncAngle    = 0.01
)

// PositionUpdate is the wire form of a tank's pose. X and Y are its top left.
type PositionUpdate struct {
	X           float32     `json:"x"`
	Y           float32     `json:"y"`
	Angle       world.Angle `json:"angle"`
	TurretAngle world.Angle `json:"turretAngle"`
}

func PoseOf(t *tank.Tank) PositionUpdate {
	return PositionUpdate{X: t.X, Y: t.Y, Angle: t.Angle, TurretAngle: t.TurretAngle}
}

// Moved is true if u differs noticeably from o.
func (u PositionUpdate) Moved(o PositionUpdate) bool {
	abs := func(f float32) float32 { return max(f, -f) }
	return abs(u.X-o.X) > syncDistance || abs(u.Y-o.Y) > syncDistance ||
		u.Angle.Diff(o.Angle).Abs() > syncAngle || u.TurretAngle.Diff(o.TurretAngle).Abs() > syncAngle
}

// ShotUpdate is the wire form of a peer firing.
type ShotUpdate struct {
	X     float32       `json:"x"`
	Y     float32       `json:"y"`
	Angle world.Angle   `json:"angle"`
	Kind  tank.AmmoKind `json:"bulletType"`
}

// HealthUpdate is the player's health after a hit.
type HealthUpdate struct {
	Damage float32
	Health float32
}

// Puppet returns the remote tank of peer, if any.
func (c *Context) Puppet(peer string) *tank.Tank {
	for _, t := range c.Tanks {
		if t.Remote && t.PeerID == peer {
			return t
		}
	}
	return nil
}

// ApplySnapshot moves the puppet of peer. Unknown peers are ignored.
func (c *Context) ApplySnapshot(peer string, u PositionUpdate) bool {
	t := c.Puppet(peer)
	if t == nil {
		return false
	}
	t.Vec2f = world.Vec2f{X: u.X, Y: u.Y}
	t.Angle = u.Angle.Normalize()
	t.TurretAngle = u.TurretAngle.Normalize()
	t.Snapshot = time.Now()
	return true
}

// RemoteShot spawns the projectile a peer fired. Unknown peers are ignored.
func (c *Context) RemoteShot(peer string, s ShotUpdate) bool {
	t := c.Puppet(peer)
	if t == nil || !t.Alive() {
		return false
	}
	kind := s.Kind
	if kind != tank.AmmoPremium {
		kind = tank.AmmoStandard
	}
	p := tank.NewProjectile(world.Vec2f{X: s.X, Y: s.Y}, s.Angle, t.Damage*kind.DamageMultiplier(), kind)
	p.Owner = t.ID
	p.OwnerTeam = t.Team
	c.launch(p)
	return true
}

// RemoteDamage sets the health a peer reported for its own tank. Unknown and
// dead peers are ignored.
func (c *Context) RemoteDamage(peer string, health float32) bool {
	t := c.Puppet(peer)
	if t == nil || !t.Alive() {
		return false
	}
	t.SetHealth(health)
	c.Effects.Add(tank.NewEffect(tank.EffectHit, t.Center(), t.Angle))
	if !t.Alive() {
		c.Effects.Add(tank.NewEffect(tank.EffectExplosion, t.Center(), t.Angle))
	}
	return true
}

// RemoteDeath kills the puppet of peer. Unknown and dead peers are ignored.
func (c *Context) RemoteDeath(peer string) bool {
	t := c.Puppet(peer)
	if t == nil || !t.Alive() {
		return false
	}
	t.SetHealth(0)
	c.Effects.Add(tank.NewEffect(tank.EffectExplosion, t.Center(), t.Angle))
	return true
}
