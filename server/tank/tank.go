// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/world"
)

const (
	Width  = 50
	Height = 40

	// TurnSpeed is the heading change per frame at full turn input.
	TurnSpeed world.Angle = 0.04
)

// ID identifies a Tank within a simulation. Remote tanks use the relay's player id instead.
type ID uint32

// Tank is a player, ally, enemy or remote puppet.
type Tank struct {
	ID        ID
	Name      string
	Character string
	Team      Team
	Type      Type

	world.Vec2f // top left
	Width       float32
	Height      float32
	Angle       world.Angle
	TurretAngle world.Angle // absolute

	Speed     float32
	Health    float32
	MaxHealth float32
	Armor     float32 // fraction of damage absorbed
	Damage    float32
	Cooldown  time.Duration
	Reload    time.Duration // remaining until Fire is allowed

	// Ice physics
	Velocity        world.Vec2f
	AngularVelocity world.Angle

	// Remote tanks are positioned by snapshots, never simulated.
	Remote   bool
	PeerID   string
	Snapshot time.Time

	trackFrom world.Vec2f
}

// New returns a tank of typ with full health, facing up for the player's side
// and down for enemies.
func New(id ID, team Team, typ Type, pos world.Vec2f) *Tank {
	spec := typ.Spec()
	angle := world.Angle(world.Pi / 2)
	if team != TeamEnemy {
		angle = -angle
	}
	return &Tank{
		ID:          id,
		Team:        team,
		Type:        typ,
		Vec2f:       pos,
		Width:       Width,
		Height:      Height,
		Angle:       angle,
		TurretAngle: angle,
		Speed:       spec.Speed,
		Health:      spec.MaxHealth(),
		MaxHealth:   spec.MaxHealth(),
		Armor:       spec.ArmorFraction(),
		Damage:      spec.Damage,
		Cooldown:    spec.Cooldown,
		trackFrom:   pos,
	}
}

func (t *Tank) Bounds() world.AABB {
	return world.AABBFrom(t.X, t.Y, t.Width, t.Height)
}

func (t *Tank) Center() world.Vec2f {
	return t.Bounds().Center()
}

// Size is the larger of width and height.
func (t *Tank) Size() float32 {
	return max(t.Width, t.Height)
}

func (t *Tank) Alive() bool {
	return t.Health > 0
}

// TakeDamage applies amount reduced by armor and returns the damage dealt.
// killed is true only on the hit that brings health to zero.
func (t *Tank) TakeDamage(amount float32) (dealt float32, killed bool) {
	if !t.Alive() || amount <= 0 {
		return 0, false
	}
	dealt = min(amount*(1-t.Armor), t.Health)
	t.Health -= dealt
	if t.Health <= 0 {
		t.Health = 0
		killed = true
	}
	return
}

// SetHealth is used by remote damage events. It clamps to [0, MaxHealth].
func (t *Tank) SetHealth(health float32) {
	t.Health = world.Clamp(health, 0, t.MaxHealth)
}
