// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"math/rand"
	"testing"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/stretchr/testify/assert"
)

func testEnv() Env {
	a := arena.New(1000, 1000, arena.MapForest)
	a.Obstacles = []*arena.Obstacle{
		arena.NewRect(arena.KindRock, 200, 100, 60, 40),
		arena.NewEllipse(arena.KindSwamp, 500, 500, 60, 40),
	}
	return Env{Arena: a}
}

func TestStepRevertsExactly(t *testing.T) {
	env := testEnv()
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 1000; i++ {
		tank := New(1, TeamEnemy, TypePurple, world.Vec2f{X: 140 + r.Float32()*5, Y: 95 + r.Float32()*5})
		before := tank.Vec2f
		assert.True(t, tank.Step(world.Vec2f{X: 20 + r.Float32()*10, Y: r.Float32()}, env))
		assert.Equal(t, before, tank.Vec2f)
	}
}

func TestStepClampsWithoutReverting(t *testing.T) {
	env := testEnv()
	tank := New(1, TeamPlayer, TypePurple, world.Vec2f{X: 940, Y: 900})
	assert.True(t, tank.Step(world.Vec2f{X: 30, Y: 0}, env))
	assert.Equal(t, world.Vec2f{X: 950, Y: 900}, tank.Vec2f)

	assert.False(t, tank.Step(world.Vec2f{X: -10, Y: 0}, env))
	assert.Equal(t, world.Vec2f{X: 940, Y: 900}, tank.Vec2f)
}

func TestStepTanks(t *testing.T) {
	env := testEnv()
	a := New(1, TeamPlayer, TypePurple, world.Vec2f{X: 600, Y: 100})
	b := New(2, TeamEnemy, TypePurple, world.Vec2f{X: 660, Y: 100})
	env.Tanks = []*Tank{a, b}

	assert.True(t, a.Step(world.Vec2f{X: 20}, env))
	assert.Equal(t, world.Vec2f{X: 600, Y: 100}, a.Vec2f)

	b.Health = 0
	assert.False(t, a.Step(world.Vec2f{X: 20}, env), "dead tanks don't block")
	assert.Equal(t, world.Vec2f{X: 620, Y: 100}, a.Vec2f)
}

func TestDrive(t *testing.T) {
	env := testEnv()
	tank := New(1, TeamPlayer, TypeOrange, world.Vec2f{X: 700, Y: 700})
	tank.Angle = 0
	tank.TurretAngle = 0

	assert.False(t, tank.Drive(Controls{Throttle: 1}, world.TickPeriod, env))
	assert.InDelta(t, 703, tank.X, 1e-3)
	assert.InDelta(t, 700, tank.Y, 1e-3)

	// Two half ticks equal one tick.
	tank.Drive(Controls{Turn: 1}, world.TickPeriod/2, env)
	tank.Drive(Controls{Turn: 1}, world.TickPeriod/2, env)
	assert.InDelta(t, float32(TurnSpeed), float32(tank.Angle), 1e-5)
	assert.InDelta(t, float32(TurnSpeed), float32(tank.TurretAngle), 1e-5)
}

func TestSwampSlows(t *testing.T) {
	env := testEnv()
	tank := New(1, TeamPlayer, TypePurple, world.Vec2f{X: 470, Y: 480})
	tank.Angle = 0
	assert.Equal(t, float32(0.5), tank.EffectiveSpeed(env))

	tank.Drive(Controls{Throttle: 1}, world.TickPeriod, env)
	assert.InDelta(t, 471, tank.X, 1e-3)

	tank.Vec2f = world.Vec2f{X: 100, Y: 800}
	assert.Equal(t, float32(1), tank.EffectiveSpeed(env), "only while overlapping")
}

func TestDriveIce(t *testing.T) {
	env := testEnv()
	tank := New(1, TeamPlayer, TypePurple, world.Vec2f{X: 700, Y: 700})
	tank.Angle = 0

	for i := 0; i < 100; i++ {
		tank.DriveIce(Controls{Throttle: 1}, world.TickPeriod, env)
		assert.LessOrEqual(t, tank.Velocity.Length(), float32(iceMaxSpeed)*tank.Speed+1e-4)
	}
	assert.Greater(t, tank.X, float32(700))

	// Coasting decays.
	v := tank.Velocity.Length()
	tank.DriveIce(Controls{}, world.TickPeriod, env)
	assert.InDelta(t, v*iceFriction, tank.Velocity.Length(), 1e-4)
}

func TestTrack(t *testing.T) {
	tank := New(1, TeamPlayer, TypePurple, world.Vec2f{X: 0, Y: 0})
	tank.X = 10
	_, ok := tank.Track(TrackSpacing)
	assert.False(t, ok)

	tank.X = 16
	marker, ok := tank.Track(TrackSpacing)
	assert.True(t, ok)
	assert.Equal(t, tank.Center(), marker.Position)

	_, ok = tank.Track(TrackSpacing)
	assert.False(t, ok)
}
