// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/tank"
)

const (
	// HitCoins and KillCoins are paid for the player damaging enemies.
	HitCoins  = 1
	KillCoins = 30
)

// EventKind is something that happened during a tick.
type EventKind uint8

const (
	EventFire EventKind = iota
	EventHit
	EventKill
	EventObstacleDestroyed
	EventRoundOver
	EventMatchOver
)

// Event is reported in Context.Events for the tick it happened in.
type Event struct {
	Kind     EventKind
	Tank     tank.ID // target of a hit or kill
	Attacker tank.ID
	Obstacle *arena.Obstacle
	// Projectile is set for EventFire.
	Projectile *tank.Projectile
	// Damage is what an EventHit took off, after armor.
	Damage float32
	Winner tank.Side
}

// Tick advances the match by dt in a fixed order: player input, agents,
// hazards, projectile motion, collisions, cleanup and the end of round check.
func (c *Context) Tick(dt time.Duration) {
	c.Events = c.Events[:0]
	c.Now += dt

	trackLimit := 0
	if c.opts.Networked {
		trackLimit = NetworkedTrackLimit
	}
	c.Effects.Update(dt, trackLimit)

	if c.Score.RoundOver {
		c.roundTimer -= dt
		if c.roundTimer <= 0 && !c.Score.MatchOver {
			c.NewRound()
		}
		return
	}

	snapshots := ai.Snap(c.Tanks)
	for _, t := range c.Tanks {
		t.UpdateReload(dt)
	}

	c.updatePlayer(dt)
	c.updateAgents(snapshots, dt)
	c.updateHazards(dt)

	for _, p := range c.Projectiles {
		p.Move(dt)
	}
	c.collide()
	c.cleanup()
	c.track()
	c.checkRound()
}

func (c *Context) env() tank.Env {
	return tank.Env{Arena: c.Arena, Tanks: c.Tanks}
}

func (c *Context) updatePlayer(dt time.Duration) {
	p := c.Player
	if !c.opts.Human || p == nil || !p.Alive() {
		return
	}
	defer c.timeFunction("player", time.Now())

	if c.Arena.Ice() {
		p.DriveIce(c.Input.Controls, dt, c.env())
	} else {
		p.Drive(c.Input.Controls, dt, c.env())
	}

	if c.Input.Fire {
		if projectile, ok := p.Fire(c.Input.Ammo, c.Coins); ok {
			if cost := projectile.Kind.Cost(); cost > 0 {
				c.Coins -= cost
				c.Earned -= cost
				c.spend(cost)
			}
			c.launch(projectile)
			c.Events = append(c.Events, Event{Kind: EventFire, Tank: p.ID, Projectile: projectile})
		}
	}
}

func (c *Context) updateAgents(snapshots []ai.Snapshot, dt time.Duration) {
	defer c.timeFunction("ai", time.Now())

	view := &ai.View{
		Navigator: c.nav,
		Env:       c.env(),
		Snapshots: snapshots,
		Rand:      c.rng,
		Now:       c.Now,
	}
	for _, a := range c.Agents {
		if !a.Tank.Alive() {
			continue
		}
		if d := a.Update(&c.opts.AI, view, dt); d.Projectile != nil {
			c.launch(d.Projectile)
		}
	}
}

func (c *Context) updateHazards(dt time.Duration) {
	for _, h := range c.Hazards {
		target := c.Tank(h.Target)
		if target == nil || !target.Alive() {
			target = c.nearestTank(h)
			if target != nil {
				h.Target = target.ID
			}
		}
		if p := h.Update(target, dt); p != nil {
			c.Projectiles = append(c.Projectiles, p)
		}
	}
}

func (c *Context) nearestTank(h *Hazard) *tank.Tank {
	var best *tank.Tank
	var bestDistance float32
	center := h.Center()
	for _, t := range c.Tanks {
		if !t.Alive() {
			continue
		}
		if d := center.DistanceSquared(t.Center()); best == nil || d < bestDistance {
			best, bestDistance = t, d
		}
	}
	return best
}

func (c *Context) launch(p *tank.Projectile) {
	c.Projectiles = append(c.Projectiles, p)
	c.Effects.Add(tank.NewEffect(tank.EffectMuzzle, p.Vec2f, p.Angle))
}

// collide resolves projectiles against obstacles, hazards and tanks, then
// tanks running over hazards.
func (c *Context) collide() {
	defer c.timeFunction("physics", time.Now())

	kept := c.Projectiles[:0]
	for _, p := range c.Projectiles {
		if !c.hit(p) {
			kept = append(kept, p)
		}
	}
	clear(c.Projectiles[len(kept):])
	c.Projectiles = kept

	for _, h := range c.Hazards {
		if !h.Alive() {
			continue
		}
		for _, t := range c.Tanks {
			if t.Alive() && t.Bounds().Overlaps(h.Bounds()) {
				h.Health = 0
				break
			}
		}
	}
}

// hit applies p to the first thing it overlaps and returns true if p was used up.
func (c *Context) hit(p *tank.Projectile) bool {
	bounds := p.Bounds()

	if p.Hazard {
		for _, t := range c.Tanks {
			if t.Alive() && t.Bounds().Overlaps(bounds) {
				c.damage(t, p)
				return true
			}
		}
		return false
	}

	if o := c.Arena.SolidOverlap(bounds); o != nil {
		c.Effects.Add(tank.NewEffect(tank.EffectHit, p.Vec2f, p.Angle))
		if o.Damage(p.Damage) {
			c.Events = append(c.Events, Event{Kind: EventObstacleDestroyed, Obstacle: o, Attacker: p.Owner})
			if o.Kind == arena.KindIglu {
				c.Hazards = append(c.Hazards, SpawnHazards(o, p.Owner)...)
			}
		}
		return true
	}

	for _, h := range c.Hazards {
		if h.Alive() && h.Bounds().Overlaps(bounds) {
			h.TakeDamage(p.Damage)
			c.Effects.Add(tank.NewEffect(tank.EffectHit, p.Vec2f, p.Angle))
			return true
		}
	}

	for _, t := range c.Tanks {
		if !t.Alive() || t.ID == p.Owner || !p.OwnerTeam.Hostile(t.Team) {
			continue
		}
		if t.Bounds().Overlaps(bounds) {
			c.damage(t, p)
			return true
		}
	}
	return false
}

func (c *Context) damage(t *tank.Tank, p *tank.Projectile) {
	dealt, killed := t.TakeDamage(p.Damage)
	c.Effects.Add(tank.NewEffect(tank.EffectHit, p.Vec2f, p.Angle))
	if dealt > 0 {
		c.Events = append(c.Events, Event{Kind: EventHit, Tank: t.ID, Attacker: p.Owner, Damage: dealt})
	}

	paid := !p.Hazard && c.Player != nil && p.Owner == c.Player.ID && t.Team == tank.TeamEnemy
	if paid && dealt > 0 {
		c.earn(HitCoins)
	}
	if killed {
		c.Events = append(c.Events, Event{Kind: EventKill, Tank: t.ID, Attacker: p.Owner})
		c.Effects.Add(tank.NewEffect(tank.EffectExplosion, t.Center(), t.Angle))
		if paid {
			c.earn(KillCoins)
		}
	}
}

func (c *Context) earn(coins int) {
	c.Coins += coins
	c.Earned += coins
	if c.opts.PlayerName == "" {
		return
	}
	if _, err := c.opts.Cloud.AddCoins(c.opts.PlayerName, coins); err != nil {
		c.opts.Logger.Warn().Err(err).Int("coins", coins).Msg("adding coins")
	}
}

func (c *Context) spend(coins int) {
	if c.opts.PlayerName == "" {
		return
	}
	if _, err := c.opts.Cloud.AddCoins(c.opts.PlayerName, -coins); err != nil {
		c.opts.Logger.Warn().Err(err).Int("coins", -coins).Msg("spending coins")
	}
}

// cleanup removes dead tanks and hazards, destroyed obstacles and projectiles
// that left the arena.
func (c *Context) cleanup() {
	c.Arena.RemoveDestroyed()

	projectiles := c.Projectiles[:0]
	for _, p := range c.Projectiles {
		if !c.Arena.Outside(p.Vec2f, tank.ProjectileMargin) {
			projectiles = append(projectiles, p)
		}
	}
	clear(c.Projectiles[len(projectiles):])
	c.Projectiles = projectiles

	hazards := c.Hazards[:0]
	for _, h := range c.Hazards {
		if h.Alive() {
			hazards = append(hazards, h)
		}
	}
	clear(c.Hazards[len(hazards):])
	c.Hazards = hazards

	agents := c.Agents[:0]
	for _, a := range c.Agents {
		if a.Tank.Alive() {
			agents = append(agents, a)
		} else {
			c.retireAgents([]*ai.Agent{a})
		}
	}
	clear(c.Agents[len(agents):])
	c.Agents = agents

	tanks := c.Tanks[:0]
	for _, t := range c.Tanks {
		if t.Alive() {
			tanks = append(tanks, t)
		}
	}
	clear(c.Tanks[len(tanks):])
	c.Tanks = tanks
}

func (c *Context) track() {
	spacing := float32(tank.TrackSpacing)
	if c.opts.Networked {
		spacing = tank.TrackSpacingNetworked
	}
	for _, t := range c.Tanks {
		if t.Remote {
			continue
		}
		if marker, ok := t.Track(spacing); ok {
			e := tank.NewEffect(tank.EffectTrack, marker.Position, marker.Angle)
			if c.opts.Networked {
				e.Remaining = networkedTrackLife
			}
			c.Effects.Add(e)
		}
	}
}

// checkRound ends the round when a side has no living tanks. It runs at most
// once per round since ticks stop simulating once RoundOver is set.
func (c *Context) checkRound() {
	friendly, hostile := c.Alive()
	if friendly > 0 && hostile > 0 {
		return
	}

	// Losing the player's side is checked first, so a mutual wipe goes to
	// the hostile side.
	winner := tank.SideHostile
	if friendly == 0 {
		c.Score.Hostile++
	} else {
		winner = tank.SideFriendly
		c.Score.Friendly++
	}

	c.Score.RoundOver = true
	c.Score.Winner = winner
	c.roundTimer = RoundDelay
	c.Events = append(c.Events, Event{Kind: EventRoundOver, Winner: winner})

	if c.Score.Friendly >= arena.RoundsToWin || c.Score.Hostile >= arena.RoundsToWin {
		c.Score.MatchOver = true
		c.Events = append(c.Events, Event{Kind: EventMatchOver, Winner: winner})
	}
}
