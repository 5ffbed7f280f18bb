// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"context"
	"testing"
	"time"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/cloud/db"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func networked(t *testing.T) *Context {
	t.Helper()
	spawns := arena.RelaySpawns(2, arena.RelayWidth, arena.RelayHeight)
	c, err := New(Options{
		Map:        arena.MapForest,
		PlayerName: "host",
		PlayerType: tank.TypeOrange,
		Human:      true,
		Networked:  true,
		Spawn:      spawns[0],
		Peers:      []Peer{{ID: "peer", Name: "guest", Type: tank.TypeBrown, Position: spawns[1]}},
		Seed:       3,
	})
	require.NoError(t, err)
	return c
}

func TestNetworkedLayout(t *testing.T) {
	c := networked(t)
	assert.Equal(t, float32(arena.RelayWidth), c.Arena.Width)
	assert.Equal(t, arena.GenerateLayout(arena.MapForest, arena.RelayWidth, arena.RelayHeight), c.Arena.Obstacles)
	assert.Empty(t, c.Agents, "puppets aren't simulated")
}

func TestApplySnapshot(t *testing.T) {
	c := networked(t)
	puppet := c.Puppet("peer")
	require.NotNil(t, puppet)

	update := PositionUpdate{X: 700, Y: 400, Angle: 1, TurretAngle: 2}
	assert.True(t, c.ApplySnapshot("peer", update))
	assert.Equal(t, world.Vec2f{X: 700, Y: 400}, puppet.Vec2f)
	assert.Equal(t, world.Angle(1), puppet.Angle)
	assert.Equal(t, world.Angle(2), puppet.TurretAngle)

	before := make([]tank.Tank, len(c.Tanks))
	for i, tk := range c.Tanks {
		before[i] = *tk
	}
	assert.False(t, c.ApplySnapshot("stranger", PositionUpdate{X: 1, Y: 1}))
	for i, tk := range c.Tanks {
		assert.Equal(t, before[i].Vec2f, tk.Vec2f)
	}

	// Puppets stay where their peer put them.
	c.Tick(world.TickPeriod)
	assert.Equal(t, world.Vec2f{X: 700, Y: 400}, puppet.Vec2f)
}

func TestRemoteShot(t *testing.T) {
	c := networked(t)
	assert.False(t, c.RemoteShot("stranger", ShotUpdate{}))

	require.True(t, c.RemoteShot("peer", ShotUpdate{X: 100, Y: 100, Angle: 0, Kind: tank.AmmoPremium}))
	require.Len(t, c.Projectiles, 1)
	p := c.Projectiles[0]
	puppet := c.Puppet("peer")
	assert.Equal(t, puppet.ID, p.Owner)
	assert.Equal(t, puppet.Damage*2, p.Damage)
}

func TestRemoteHealth(t *testing.T) {
	c := networked(t)
	assert.False(t, c.RemoteDamage("stranger", 10))
	assert.False(t, c.RemoteDeath("stranger"))

	puppet := c.Puppet("peer")
	require.NotNil(t, puppet)
	require.True(t, c.RemoteDamage("peer", puppet.MaxHealth/2))
	assert.Equal(t, puppet.MaxHealth/2, puppet.Health)

	// Reported health is clamped.
	require.True(t, c.RemoteDamage("peer", puppet.MaxHealth*3))
	assert.Equal(t, puppet.MaxHealth, puppet.Health)

	require.True(t, c.RemoteDeath("peer"))
	assert.False(t, puppet.Alive())
	assert.False(t, c.RemoteDamage("peer", 50), "dead puppets stay dead")
	assert.False(t, c.RemoteDeath("peer"))
	assert.Zero(t, puppet.Health)

	c.Tick(world.TickPeriod)
	assert.Nil(t, c.Puppet("peer"))
}

func TestLoopPublishesHits(t *testing.T) {
	c := networked(t)
	c.Arena.Obstacles = nil
	l := NewLoop(c, zerolog.Nop())
	var hurts []HealthUpdate
	l.Hurt = func(u HealthUpdate) { hurts = append(hurts, u) }
	deaths := 0
	l.Die = func() { deaths++ }

	puppet := c.Puppet("peer")
	require.NotNil(t, puppet)
	now := time.Now()

	c.Projectiles = append(c.Projectiles, shellAt(puppet, c.Player.Center(), 20))
	l.Step(world.TickPeriod, now)
	require.Len(t, hurts, 1)
	assert.Equal(t, c.Player.Health, hurts[0].Health)
	assert.InDelta(t, c.Player.MaxHealth-c.Player.Health, hurts[0].Damage, 0.001)
	assert.Zero(t, deaths)

	// Each peer reports its own tank.
	c.Projectiles = append(c.Projectiles, shellAt(c.Player, puppet.Center(), 5))
	l.Step(world.TickPeriod, now)
	assert.Less(t, puppet.Health, puppet.MaxHealth)
	assert.Len(t, hurts, 1)

	c.Projectiles = append(c.Projectiles, shellAt(puppet, c.Player.Center(), 10*c.Player.MaxHealth))
	l.Step(world.TickPeriod, now)
	require.Len(t, hurts, 2)
	assert.Zero(t, hurts[1].Health)
	assert.Equal(t, 1, deaths)
}

func TestPositionUpdateMoved(t *testing.T) {
	u := PositionUpdate{X: 10, Y: 10, Angle: 1, TurretAngle: 1}
	assert.False(t, u.Moved(u))
	assert.False(t, u.Moved(PositionUpdate{X: 10.5, Y: 10, Angle: 1.005, TurretAngle: 1}))
	assert.True(t, u.Moved(PositionUpdate{X: 12, Y: 10, Angle: 1, TurretAngle: 1}))
	assert.True(t, u.Moved(PositionUpdate{X: 10, Y: 10, Angle: 1, TurretAngle: 1.1}))
}

func TestLoopSyncThrottle(t *testing.T) {
	c := networked(t)
	c.Arena.Obstacles = nil
	l := NewLoop(c, zerolog.Nop())
	var sent []PositionUpdate
	l.Sync = func(u PositionUpdate) { sent = append(sent, u) }
	var shots []ShotUpdate
	l.Shoot = func(s ShotUpdate) { shots = append(shots, s) }

	start := time.Now()
	l.Step(world.TickPeriod, start)
	require.Len(t, sent, 1, "first pose is always new")

	c.Input.Throttle = 1
	l.Step(world.TickPeriod, start.Add(50*time.Millisecond))
	assert.Len(t, sent, 1, "too soon")

	l.Step(world.TickPeriod, start.Add(SyncPeriod+time.Millisecond))
	require.Len(t, sent, 2)
	assert.Equal(t, PoseOf(c.Player), sent[1])

	c.Input.Throttle = 0
	l.Step(world.TickPeriod, start.Add(3*SyncPeriod))
	l.Step(world.TickPeriod, start.Add(5*SyncPeriod))
	assert.Len(t, sent, 2, "not moving")

	c.Input.Fire = true
	l.Step(world.TickPeriod, start.Add(6*SyncPeriod))
	require.Len(t, shots, 1)
	assert.Equal(t, tank.AmmoStandard, shots[0].Kind)
}

type recordingCloud struct {
	Offline
	matches []db.Match
	coins   int
}

func (r *recordingCloud) AddCoins(player string, delta int) (int, error) {
	r.coins += delta
	return r.coins, nil
}

func (r *recordingCloud) RecordMatch(match db.Match) error {
	r.matches = append(r.matches, match)
	return nil
}

func TestLoopRecordsMatch(t *testing.T) {
	cloud := &recordingCloud{}
	c, err := New(Options{Mode: arena.Modes[0], Map: arena.MapIce, PlayerName: "solo", Human: true, Cloud: cloud, Seed: 5})
	require.NoError(t, err)
	l := NewLoop(c, zerolog.Nop())

	now := time.Now()
	done := false
	for i := 0; i < 10_000 && !done; i++ {
		if !c.Score.RoundOver {
			enemy(c).Health = 0
		}
		done = l.Step(world.TickPeriod, now)
	}

	require.True(t, done)
	require.Len(t, cloud.matches, 1)
	match := cloud.matches[0]
	assert.Equal(t, "solo", match.Player)
	assert.Equal(t, "1v1", match.Mode)
	assert.Equal(t, "3", match.Map)
	assert.Equal(t, tank.SideFriendly.String(), match.Winner)
	assert.Equal(t, arena.RoundsToWin, match.Friendly)
	assert.Equal(t, arena.RoundsToWin, match.Rounds)
}

func TestLoopRun(t *testing.T) {
	c := duel(t)
	l := NewLoop(c, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		errs <- l.Run(ctx)
	}()

	seen := make(chan int, 1)
	l.Do(func(c *Context) {
		seen <- c.Score.Round
	})

	select {
	case round := <-seen:
		assert.Equal(t, 1, round)
	case <-time.After(5 * time.Second):
		t.Fatal("command not run")
	}

	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)
}
