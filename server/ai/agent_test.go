// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"testing"
	"time"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScene places an enemy agent and a player, both given by center.
func newScene(agentCenter, playerCenter world.Vec2f, obstacles ...*arena.Obstacle) (*Agent, *tank.Tank, *View) {
	nav := testNav(2000, 2000, obstacles...)
	offset := world.Vec2f{X: tank.Width / 2, Y: tank.Height / 2}

	self := tank.New(1, tank.TeamEnemy, tank.TypePurple, agentCenter.Sub(offset))
	player := tank.New(2, tank.TeamPlayer, tank.TypePurple, playerCenter.Sub(offset))
	tanks := []*tank.Tank{self, player}

	agent := NewAgent(self, fixedRand(0))
	v := &View{
		Navigator: nav,
		Env:       tank.Env{Arena: nav.Arena, Tanks: tanks},
		Snapshots: Snap(tanks),
		Rand:      fixedRand(0),
	}
	return agent, player, v
}

func TestAgentWithoutHostiles(t *testing.T) {
	agent, player, v := newScene(world.Vec2f{X: 500, Y: 500}, world.Vec2f{X: 800, Y: 500})
	player.Health = 0
	v.Snapshots = Snap(v.Env.Tanks)

	before := *agent.Tank
	d := agent.Update(v.Navigator.Config, v, world.TickPeriod)

	assert.Equal(t, Decision{}, d)
	assert.Equal(t, before.Vec2f, agent.Tank.Vec2f)
	assert.Equal(t, before.Angle, agent.Tank.Angle)
	assert.Equal(t, before.TurretAngle, agent.Tank.TurretAngle)
	assert.Equal(t, before.Reload, agent.Tank.Reload)
}

func TestAgentSkipsTeammates(t *testing.T) {
	agent, _, v := newScene(world.Vec2f{X: 500, Y: 500}, world.Vec2f{X: 1500, Y: 500})
	mate := tank.New(3, tank.TeamEnemy, tank.TypeOrange, world.Vec2f{X: 600, Y: 500})
	v.Snapshots = append(v.Snapshots, Snap([]*tank.Tank{mate})...)

	hostile, ok := agent.nearest(v.Snapshots)
	require.True(t, ok)
	assert.Equal(t, tank.ID(2), hostile.ID)
}

func TestAgentShootsObstacleInTheWay(t *testing.T) {
	r := rock(280, 170, 40, 40)
	agent, _, v := newScene(world.Vec2f{X: 100, Y: 100}, world.Vec2f{X: 600, Y: 300}, r)

	d := agent.Update(v.Navigator.Config, v, world.TickPeriod)
	require.True(t, d.HasTarget)
	assert.Equal(t, BandApproach, d.Band)

	require.Equal(t, ShotObstacle, d.Shot.Kind)
	assert.Equal(t, r, d.Shot.Obstacle)

	self := agent.Tank.Center()
	toRock := r.Center().Sub(self).Angle()
	toHostile := world.Vec2f{X: 600, Y: 300}.Sub(self).Angle()
	assert.InDelta(t, float32(toRock), float32(agent.Tank.TurretAngle), 1e-5)
	assert.Greater(t, float32(toRock.Diff(toHostile).Abs()), float32(0.03), "aims at the rock, not the hostile")

	require.NotNil(t, d.Projectile)
	assert.Equal(t, agent.Tank.TurretAngle, d.Projectile.Angle)
	assert.Equal(t, agent.Tank.Cooldown, agent.Tank.Reload)
}

func TestAgentFireGating(t *testing.T) {
	agent, _, v := newScene(world.Vec2f{X: 100, Y: 100}, world.Vec2f{X: 600, Y: 300})
	agent.Tank.Reload = 200 * time.Millisecond

	d := agent.Update(v.Navigator.Config, v, world.TickPeriod)
	assert.Equal(t, ShotNone, d.Shot.Kind)
	assert.Nil(t, d.Projectile)
	assert.Equal(t, 200*time.Millisecond, agent.Tank.Reload, "reload is counted down by the caller")

	agent.Tank.Reload = 0
	v.Now += world.TickPeriod
	d = agent.Update(v.Navigator.Config, v, world.TickPeriod)
	assert.Equal(t, ShotHostile, d.Shot.Kind)
	require.NotNil(t, d.Projectile)
	assert.Equal(t, tank.AmmoStandard, d.Projectile.Kind)
	assert.Equal(t, tank.TeamEnemy, d.Projectile.OwnerTeam)
}

func TestAgentRetreats(t *testing.T) {
	agent, player, v := newScene(world.Vec2f{X: 1000, Y: 1000}, world.Vec2f{X: 1050, Y: 1000})
	agent.Tank.Angle = world.Pi
	agent.Tank.Reload = time.Second

	before := agent.Tank.Center().Distance(player.Center())
	d := agent.Update(v.Navigator.Config, v, world.TickPeriod)

	assert.Equal(t, BandRetreat, d.Band)
	assert.InDelta(t, 870, d.MoveTarget.X, 1e-2)
	assert.InDelta(t, 1000, d.MoveTarget.Y, 1e-2)
	assert.Equal(t, d.MoveTarget, d.Steer)
	assert.Greater(t, agent.Tank.Center().Distance(player.Center()), before)
}

// An agent pinned against a wall is eventually detected as stuck and takes over
// with the recovery maneuver.
func TestAgentStuckAgainstWall(t *testing.T) {
	agent, _, v := newScene(world.Vec2f{X: 1000, Y: 1000}, world.Vec2f{X: 1900, Y: 1000})
	agent.Tank.Reload = time.Hour

	// Box the agent in so it can't move at all.
	c := agent.Tank.Center()
	v.Navigator.Arena.Obstacles = []*arena.Obstacle{
		rock(c.X-85, c.Y-60, 170, 30),
		rock(c.X-85, c.Y+30, 170, 30),
		rock(c.X-85, c.Y-30, 50, 60),
		rock(c.X+35, c.Y-30, 50, 60),
	}

	start := agent.Tank.Vec2f
	for tick := 0; tick < 3*world.TicksPerSecond && !agent.Stuck.Active(); tick++ {
		v.Now = time.Duration(tick) * world.TickPeriod
		agent.Update(v.Navigator.Config, v, world.TickPeriod)
	}
	assert.True(t, agent.Stuck.Active())
	assert.Equal(t, 1, agent.Stuck.Count)
	assert.Less(t, agent.Tank.Vec2f.Distance(start), v.Navigator.Config.StuckDistance)
}
