// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
)

// Rand is the randomness the AI draws from. *rand.Rand implements it.
type Rand interface {
	Float32() float32
}

// Band is how an agent relates to its preferred combat distance.
type Band uint8

const (
	BandHold Band = iota
	BandApproach
	BandRetreat
)

func (cfg *Config) Band(distance float32) Band {
	switch {
	case distance > cfg.MaxDistance:
		return BandApproach
	case distance < cfg.MinDistance:
		return BandRetreat
	}
	return BandHold
}

// MovementTarget is the point OptimalDistance from hostile along the bearing
// from hostile to self, rotated by jitter.
func (cfg *Config) MovementTarget(self, hostile world.Vec2f, jitter world.Angle) world.Vec2f {
	bearing := self.Sub(hostile).Angle() + jitter
	return hostile.AddScaled(bearing.Vec2f(), cfg.OptimalDistance)
}

// SpeedFactor scales speed by band and heading error.
func (cfg *Config) SpeedFactor(band Band, distance, toMovementTarget float32, headingError world.Angle) float32 {
	aligned := headingError.Abs() < cfg.AlignedAngle
	pick := func(a, b float32) float32 {
		if aligned {
			return a
		}
		return b
	}

	switch {
	case band == BandRetreat:
		return pick(1.0, 0.8)
	case band == BandApproach && distance > cfg.MaxDistance:
		return pick(0.9, 0.7)
	case toMovementTarget < cfg.StandOff:
		return 0.4
	}
	return pick(0.7, 0.5)
}

// Lead returns where to aim so a projectile fired from self meets hostile,
// assuming it keeps its heading and speed.
func (cfg *Config) Lead(self world.Vec2f, hostile Snapshot) world.Vec2f {
	ticks := self.Distance(hostile.Center) / tank.ProjectileSpeed
	return hostile.Center.AddScaled(hostile.Angle.Vec2f(), hostile.Speed*ticks*cfg.LeadFactor)
}

// ShotKind is what an agent decided to shoot at.
type ShotKind uint8

const (
	ShotNone ShotKind = iota
	ShotObstacle
	ShotHostile
)

// Shot is a firing decision. Aim is only meaningful for ShotObstacle, which
// redirects the turret.
type Shot struct {
	Kind     ShotKind
	Obstacle *arena.Obstacle
	Point    world.Vec2f
	Aim      world.Angle
	Redirect bool
}

// accuracy is 1 when turret points at bearing and 0 when opposite.
func accuracy(turret, bearing world.Angle) float32 {
	return min(1, 1-float32(turret.Diff(bearing).Abs()/world.Pi))
}

// Blockers returns destructible obstacles whose bounds the segment from self
// to hostile crosses.
func Blockers(obstacles []*arena.Obstacle, self, hostile world.Vec2f) []*arena.Obstacle {
	var blocking []*arena.Obstacle
	for _, o := range obstacles {
		if o.Solid() && world.SegmentIntersectsAABB(self, hostile, o.Bounds()) {
			blocking = append(blocking, o)
		}
	}
	return blocking
}

// ChooseShot decides whether to fire from self with the turret at turret.
// Clearing the nearest destructible obstacle between self and hostile comes
// first, then the hostile itself if the line of sight is clear.
func (cfg *Config) ChooseShot(self world.Vec2f, turret world.Angle, hostile world.Vec2f, aggression float32, obstacles []*arena.Obstacle, rng Rand) Shot {
	blocking := Blockers(obstacles, self, hostile)

	var nearest *arena.Obstacle
	nearestDistance := cfg.ObstacleFireRange
	for _, o := range blocking {
		if d := o.Center().Distance(self); d < nearestDistance {
			nearest, nearestDistance = o, d
		}
	}

	shot := Shot{Aim: turret}
	if nearest != nil {
		shot.Point = nearest.Center()
		shot.Aim = shot.Point.Sub(self).Angle()
		shot.Obstacle = nearest
		shot.Redirect = true
		if accuracy(shot.Aim, shot.Point.Sub(self).Angle()) > cfg.ObstacleFireAccuracy && rng.Float32() < cfg.ObstacleFireChance {
			shot.Kind = ShotObstacle
			return shot
		}
	}

	if len(blocking) > 0 {
		return shot
	}

	distance := self.Distance(hostile)
	threshold := 0.8 - aggression*0.3
	chance := 0.02 + aggression*0.03
	if distance >= cfg.MinDistance && distance <= cfg.MaxDistance {
		threshold -= 0.2
		chance += 0.04
	}

	if distance < cfg.FireRange && accuracy(shot.Aim, hostile.Sub(self).Angle()) > threshold && rng.Float32() < chance {
		shot.Kind = ShotHostile
		shot.Point = hostile
	}
	return shot
}
