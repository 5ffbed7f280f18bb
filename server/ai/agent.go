// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
)

// Snapshot is a tank as it was at the start of a tick.
type Snapshot struct {
	ID     tank.ID
	Team   tank.Team
	Center world.Vec2f
	Angle  world.Angle
	Speed  float32
}

// Snap takes a Snapshot of every living tank.
func Snap(tanks []*tank.Tank) []Snapshot {
	snapshots := make([]Snapshot, 0, len(tanks))
	for _, t := range tanks {
		if !t.Alive() {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			ID:     t.ID,
			Team:   t.Team,
			Center: t.Center(),
			Angle:  t.Angle,
			Speed:  t.Speed,
		})
	}
	return snapshots
}

// View is the world as agents see it during one tick.
type View struct {
	Navigator *Navigator
	Env       tank.Env
	Snapshots []Snapshot
	Rand      Rand
	Now       time.Duration
}

// Decision records what an agent did in a tick.
type Decision struct {
	Target     Snapshot
	HasTarget  bool
	Band       Band
	MoveTarget world.Vec2f
	Steer      world.Vec2f
	Aim        world.Vec2f
	Shot       Shot
	Projectile *tank.Projectile
}

// Agent drives an ally or enemy tank.
type Agent struct {
	Tank       *tank.Tank
	Aggression float32
	History    tank.History
	Stuck      Stuck
	Planner    Planner
}

func NewAgent(t *tank.Tank, rng Rand) *Agent {
	return &Agent{
		Tank:       t,
		Aggression: rng.Float32(),
	}
}

// nearest returns the closest living hostile.
func (a *Agent) nearest(snapshots []Snapshot) (Snapshot, bool) {
	self := a.Tank.Center()
	var best Snapshot
	bestDistance := float32(-1)
	for _, s := range snapshots {
		if s.ID == a.Tank.ID || !a.Tank.Team.Hostile(s.Team) {
			continue
		}
		if d := self.DistanceSquared(s.Center); bestDistance < 0 || d < bestDistance {
			best, bestDistance = s, d
		}
	}
	return best, bestDistance >= 0
}

// Update runs one tick: stuck detection, then if there is a hostile, movement,
// aim and firing. A fired projectile is returned in the Decision.
func (a *Agent) Update(cfg *Config, v *View, dt time.Duration) (d Decision) {
	t := a.Tank
	a.Stuck.Detect(cfg, &a.History, v.Now, t.Vec2f)

	hostile, ok := a.nearest(v.Snapshots)
	if !ok {
		return
	}
	d.Target = hostile
	d.HasTarget = true

	self := t.Center()
	distance := self.Distance(hostile.Center)
	d.Band = cfg.Band(distance)

	var jitter world.Angle
	if d.Band == BandHold {
		jitter = world.Angle(v.Rand.Float32()-0.5) * 2 * cfg.HoldJitter
	}
	d.MoveTarget = cfg.MovementTarget(self, hostile.Center, jitter)

	d.Aim = cfg.Lead(self, hostile)
	t.TurretAngle = d.Aim.Sub(self).Angle()

	if a.Stuck.Active() {
		a.Stuck.Drive(cfg, t, &a.History, v.Env, v.Rand, v.Now, dt)
	} else {
		d.Steer = a.Planner.Update(v.Navigator, BodyOf(t), d.MoveTarget, v.Now, dt)

		headingError := d.Steer.Sub(self).Angle().Diff(t.Angle)
		maxTurn := tank.TurnSpeed * world.Angle(cfg.TurnRate*world.Frames(dt))
		t.Angle = t.Angle.TurnToward(t.Angle+headingError, maxTurn).Normalize()

		factor := cfg.SpeedFactor(d.Band, distance, self.Distance(d.MoveTarget), headingError)
		t.Advance(t.EffectiveSpeed(v.Env)*factor, dt, v.Env)
	}

	if !t.Reloaded() {
		return
	}
	d.Shot = cfg.ChooseShot(t.Center(), t.TurretAngle, hostile.Center, a.Aggression, v.Navigator.Arena.Obstacles, v.Rand)
	if d.Shot.Redirect {
		t.TurretAngle = d.Shot.Aim
	}
	if d.Shot.Kind != ShotNone {
		d.Projectile, _ = t.Fire(tank.AmmoStandard, 0)
	}
	return
}
