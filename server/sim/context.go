// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/rs/zerolog"
)

const (
	// RoundDelay is the pause between the end of a round and the next.
	RoundDelay = 3 * time.Second

	// NetworkedTrackLimit caps track effects in networked games.
	NetworkedTrackLimit = 20
	networkedTrackLife  = time.Second
)

var ErrNoEnemies = errors.New("mode has no enemies")

// Peer is a remote player in a networked game.
type Peer struct {
	ID       string
	Name     string
	Type     tank.Type
	Ally     bool
	Position world.Vec2f // top left
}

type Options struct {
	Mode       arena.Mode
	Map        arena.MapID
	PlayerName string
	PlayerType tank.Type
	// Human players are driven by Context.Input, otherwise by an agent.
	Human bool

	// Networked games use the shared relay layout, spawn the player at Spawn
	// and represent Peers as puppets.
	Networked bool
	Spawn     world.Vec2f
	Peers     []Peer

	Seed   int64
	AI     ai.Config
	Cloud  Cloud
	Logger zerolog.Logger
}

// Input is what the player wants to do this tick.
type Input struct {
	tank.Controls
	Fire bool
	Ammo tank.AmmoKind
}

// Score tracks rounds of a match.
type Score struct {
	Round     int
	Friendly  int // rounds won
	Hostile   int
	RoundOver bool
	Winner    tank.Side // of the last round
	MatchOver bool
}

// Context is one match: the arena, everything in it and the score.
type Context struct {
	opts Options

	Arena       *arena.Arena
	Tanks       []*tank.Tank
	Player      *tank.Tank
	Agents      []*ai.Agent
	Projectiles []*tank.Projectile
	Hazards     []*Hazard
	Effects     tank.Effects
	Events      []Event

	Input  Input
	Score  Score
	Coins  int // balance
	Earned int // coins earned this match
	Now    time.Duration

	rng        *rand.Rand
	nav        *ai.Navigator
	nextID     tank.ID
	roundTimer time.Duration
	benches    []funcBench
	planner    ai.PlannerStats // of agents that have been removed
}

// New starts the first round of a match.
func New(opts Options) (*Context, error) {
	if !opts.Map.Valid() {
		return nil, fmt.Errorf("invalid map %q", opts.Map)
	}
	if !opts.Networked && opts.Mode.Enemies < 1 {
		return nil, fmt.Errorf("mode %q: %w", opts.Mode.Name, ErrNoEnemies)
	}
	if opts.Cloud == nil {
		opts.Cloud = Offline{}
	}
	if opts.AI == (ai.Config{}) {
		opts.AI = ai.DefaultConfig()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	c := &Context{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}

	if opts.PlayerName != "" {
		coins, err := opts.Cloud.Coins(opts.PlayerName)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("player", opts.PlayerName).Msg("reading coins")
		}
		c.Coins = coins
	}

	c.NewRound()
	return c, nil
}

func (c *Context) Options() *Options {
	return &c.opts
}

func (c *Context) Navigator() *ai.Navigator {
	return c.nav
}

// NewRound regenerates the layout and roster.
func (c *Context) NewRound() {
	c.Score.Round++
	c.Score.RoundOver = false
	c.Score.Winner = tank.SideNone
	c.roundTimer = 0

	c.retireAgents(c.Agents)
	c.Tanks = c.Tanks[:0]
	c.Agents = c.Agents[:0]
	c.Projectiles = c.Projectiles[:0]
	c.Hazards = c.Hazards[:0]
	c.Effects = c.Effects[:0]
	c.Player = nil

	if c.opts.Networked {
		c.Arena = arena.New(arena.RelayWidth, arena.RelayHeight, c.opts.Map)
		c.Arena.Obstacles = arena.GenerateLayout(c.opts.Map, c.Arena.Width, c.Arena.Height)
	} else {
		w, h := c.opts.Mode.Size()
		c.Arena = arena.New(w, h, c.opts.Map)
		arena.Scatter(c.Arena, c.opts.Mode.Density, c.rng)
	}
	c.nav = &ai.Navigator{Arena: c.Arena, Config: &c.opts.AI}

	if c.opts.Networked {
		c.spawnNetworked()
	} else {
		c.spawnSingle()
	}
}

func (c *Context) spawnSingle() {
	var occupied []world.AABB
	spawn := func(team tank.Team, typ tank.Type, region world.AABB) *tank.Tank {
		pos := arena.SpawnPosition(c.Arena, region, tank.Width, tank.Height, occupied, c.rng)
		t := c.add(team, typ, pos)
		occupied = append(occupied, t.Bounds())
		return t
	}

	c.Player = spawn(tank.TeamPlayer, c.opts.PlayerType, c.Arena.LeftHalf())
	c.Player.Name = c.opts.PlayerName
	if !c.opts.Human {
		c.Agents = append(c.Agents, ai.NewAgent(c.Player, c.rng))
	}

	types := tank.Types()
	for i := 0; i < c.opts.Mode.Allies; i++ {
		t := spawn(tank.TeamAlly, types[c.rng.Intn(len(types))], c.Arena.LeftHalf())
		c.Agents = append(c.Agents, ai.NewAgent(t, c.rng))
	}
	for i := 0; i < c.opts.Mode.Enemies; i++ {
		t := spawn(tank.TeamEnemy, types[c.rng.Intn(len(types))], c.Arena.RightHalf())
		c.Agents = append(c.Agents, ai.NewAgent(t, c.rng))
	}
}

func (c *Context) spawnNetworked() {
	c.Player = c.add(tank.TeamPlayer, c.opts.PlayerType, c.opts.Spawn)
	c.Player.Name = c.opts.PlayerName
	if !c.opts.Human {
		c.Agents = append(c.Agents, ai.NewAgent(c.Player, c.rng))
	}

	for _, peer := range c.opts.Peers {
		team := tank.TeamEnemy
		if peer.Ally {
			team = tank.TeamAlly
		}
		t := c.add(team, peer.Type, peer.Position)
		t.Name = peer.Name
		t.PeerID = peer.ID
		t.Remote = true
	}
}

func (c *Context) add(team tank.Team, typ tank.Type, pos world.Vec2f) *tank.Tank {
	c.nextID++
	t := tank.New(c.nextID, team, typ, pos)
	c.Tanks = append(c.Tanks, t)
	return t
}

// Tank returns the tank with id, if it's still in the arena.
func (c *Context) Tank(id tank.ID) *tank.Tank {
	for _, t := range c.Tanks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Alive counts living tanks per side.
func (c *Context) Alive() (friendly, hostile int) {
	for _, t := range c.Tanks {
		if !t.Alive() {
			continue
		}
		if t.Team.Side() == tank.SideFriendly {
			friendly++
		} else {
			hostile++
		}
	}
	return
}

// PlannerStats sums the planner counters of every agent this match.
func (c *Context) PlannerStats() ai.PlannerStats {
	total := c.planner
	for _, a := range c.Agents {
		addStats(&total, &a.Planner.Stats)
	}
	return total
}

func (c *Context) retireAgents(agents []*ai.Agent) {
	for _, a := range agents {
		addStats(&c.planner, &a.Planner.Stats)
	}
}

func addStats(total, s *ai.PlannerStats) {
	total.Plans += s.Plans
	total.Failures += s.Failures
	total.Reached += s.Reached
	total.Timeouts += s.Timeouts
	total.Invalidations += s.Invalidations
	total.Replans += s.Replans
	total.Extensions += s.Extensions
}
