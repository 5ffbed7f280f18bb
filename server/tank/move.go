// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/chewxy/math32"
)

const (
	// MoveScale converts speed into pixels per frame for input driven tanks.
	MoveScale = 2

	TurretTurnSpeed world.Angle = 0.05

	iceAccel           = 0.18
	iceReverse         = 0.7
	iceTurn            = 0.7
	iceMaxSpeed        = 2.2
	iceFriction        = 0.90
	iceAngularFriction = 0.85

	// Track markers are emitted every this many pixels moved.
	TrackSpacing          = 15
	TrackSpacingNetworked = 25
)

// Controls are the inputs of a player driven tank, each in [-1, 1].
type Controls struct {
	Throttle float32 // forward is positive
	Turn     float32 // clockwise is positive
	Turret   float32
}

// Env is what a moving tank collides with.
type Env struct {
	Arena *arena.Arena
	Tanks []*Tank
}

// EffectiveSpeed is Speed reduced while in a swamp.
func (t *Tank) EffectiveSpeed(env Env) float32 {
	if env.Arena != nil && env.Arena.SlowedAt(t.Bounds()) {
		return t.Speed * arena.SwampSpeedFactor
	}
	return t.Speed
}

// Drive applies controls with direct displacement physics.
func (t *Tank) Drive(c Controls, dt time.Duration, env Env) (collided bool) {
	frames := world.Frames(dt)
	speed := t.EffectiveSpeed(env)

	displacement := t.Angle.Vec2f().Mul(speed * MoveScale * c.Throttle * frames)
	t.turn(world.Angle(c.Turn*frames)*TurnSpeed, world.Angle(c.Turret*frames)*TurretTurnSpeed)

	return t.Step(displacement, env)
}

// DriveIce applies controls with velocity physics. Velocity and angular
// velocity persist between calls and decay by friction.
func (t *Tank) DriveIce(c Controls, dt time.Duration, env Env) (collided bool) {
	frames := world.Frames(dt)
	speed := t.EffectiveSpeed(env)
	accel := speed * iceAccel
	if c.Throttle < 0 {
		accel *= iceReverse
	}

	t.Velocity = t.Velocity.AddScaled(t.Angle.Vec2f(), accel*c.Throttle*frames)
	t.AngularVelocity += world.Angle(c.Turn*iceTurn*frames) * TurnSpeed
	t.Velocity = t.Velocity.ClampLength(speed * iceMaxSpeed)

	t.turn(t.AngularVelocity*world.Angle(frames), world.Angle(c.Turret*frames)*TurretTurnSpeed)
	collided = t.Step(t.Velocity.Mul(frames), env)

	t.Velocity = t.Velocity.Mul(math32.Pow(iceFriction, frames))
	t.AngularVelocity *= world.Angle(math32.Pow(iceAngularFriction, frames))
	return
}

// turn rotates the body by delta, carrying the turret with it, and then the turret by turret.
func (t *Tank) turn(delta, turret world.Angle) {
	t.Angle = (t.Angle + delta).Normalize()
	t.TurretAngle = (t.TurretAngle + delta + turret).Normalize()
}

// Advance moves along the current heading at speed pixels per frame.
func (t *Tank) Advance(speed float32, dt time.Duration, env Env) (collided bool) {
	return t.Step(t.Angle.Vec2f().Mul(speed*world.Frames(dt)), env)
}

// Step moves by displacement. Leaving the arena clamps, while overlapping a
// solid obstacle or another living tank restores the previous position.
func (t *Tank) Step(displacement world.Vec2f, env Env) (collided bool) {
	prev := t.Vec2f
	next := prev.Add(displacement)

	if env.Arena != nil {
		clamped := env.Arena.Clamp(next, t.Width, t.Height)
		collided = clamped != next
		next = clamped
	}
	t.Vec2f = next

	bounds := t.Bounds()
	if env.Arena != nil && env.Arena.SolidOverlap(bounds) != nil {
		t.Vec2f = prev
		return true
	}
	for _, other := range env.Tanks {
		if other == t || !other.Alive() {
			continue
		}
		if other.Bounds().Overlaps(bounds) {
			t.Vec2f = prev
			return true
		}
	}
	return
}

// TrackMarker is a cosmetic tread mark.
type TrackMarker struct {
	Position world.Vec2f
	Angle    world.Angle
}

// Track returns a marker once the tank has moved more than spacing since the last one.
func (t *Tank) Track(spacing float32) (TrackMarker, bool) {
	if t.Vec2f.DistanceSquared(t.trackFrom) <= spacing*spacing {
		return TrackMarker{}, false
	}
	t.trackFrom = t.Vec2f
	return TrackMarker{Position: t.Center(), Angle: t.Angle}, true
}
