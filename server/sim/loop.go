// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"context"
	"strconv"
	"time"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/cloud/db"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/rs/zerolog"
)

const (
	updatePeriod = world.TickPeriod
	debugPeriod  = 5 * time.Second
)

// Observer receives measurements of a running Loop.
type Observer interface {
	ObserveTick(duration time.Duration, skipped bool)
	ObserveRound(winner tank.Side, round int)
	ObserveDebug(benches map[string]time.Duration, planner ai.PlannerStats, tanks, projectiles int)
}

// Observers fans measurements out to each Observer.
type Observers []Observer

func (observers Observers) ObserveTick(duration time.Duration, skipped bool) {
	for _, o := range observers {
		o.ObserveTick(duration, skipped)
	}
}

func (observers Observers) ObserveRound(winner tank.Side, round int) {
	for _, o := range observers {
		o.ObserveRound(winner, round)
	}
}

func (observers Observers) ObserveDebug(benches map[string]time.Duration, planner ai.PlannerStats, tanks, projectiles int) {
	for _, o := range observers {
		o.ObserveDebug(benches, planner, tanks, projectiles)
	}
}

// Loop runs a Context at a fixed rate. All access to the Context from other
// goroutines goes through Do.
type Loop struct {
	Context  *Context
	Logger   zerolog.Logger
	Observer Observer // optional

	// Sync and Shoot publish the player's pose and shots in networked games.
	Sync  func(PositionUpdate)
	Shoot func(ShotUpdate)
	// Hurt and Die publish the player being hit and killed.
	Hurt func(HealthUpdate)
	Die  func()

	commands chan func(*Context)
	lastSync time.Time
	synced   PositionUpdate
}

func NewLoop(c *Context, logger zerolog.Logger) *Loop {
	return &Loop{
		Context:  c,
		Logger:   logger,
		commands: make(chan func(*Context), 64),
	}
}

// Do runs f on the loop goroutine before the next tick.
func (l *Loop) Do(f func(*Context)) {
	l.commands <- f
}

// Run ticks until the match is over or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	updateTicker := time.NewTicker(updatePeriod)
	defer updateTicker.Stop()
	debugTicker := time.NewTicker(debugPeriod)
	defer debugTicker.Stop()

	updateTime := time.Now()
	l.Logger.Info().
		Str("mode", l.Context.opts.Mode.Name).
		Str("map", string(l.Context.opts.Map)).
		Bool("networked", l.Context.opts.Networked).
		Msg("simulation started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.commands:
			// Run all commands currently in the channel
			n := len(l.commands)
			for {
				f(l.Context)
				if n--; n < 0 {
					break
				}
				f = <-l.commands
			}
		case now := <-updateTicker.C:
			timeDelta := now.Sub(updateTime) + updatePeriod/10 // Kludge factor
			updateTime = now

			// Falling behind skip tick
			if timeDelta%updatePeriod > updatePeriod/5 {
				l.observeTick(0, true)
				break
			}

			start := time.Now()
			done := l.Step(timeDelta/updatePeriod*updatePeriod, now)
			l.observeTick(time.Since(start), false)
			if done {
				return nil
			}
		case <-debugTicker.C:
			l.Debug()
		}
	}
}

func (l *Loop) observeTick(d time.Duration, skipped bool) {
	if l.Observer != nil {
		l.Observer.ObserveTick(d, skipped)
	}
}

// Step runs one tick of dt at wall time now and handles its events. It
// returns true once the match is over.
func (l *Loop) Step(dt time.Duration, now time.Time) (matchOver bool) {
	c := l.Context
	c.Tick(dt)

	for _, e := range c.Events {
		switch e.Kind {
		case EventFire:
			if l.Shoot != nil && c.opts.Networked {
				l.Shoot(ShotUpdate{X: e.Projectile.X, Y: e.Projectile.Y, Angle: e.Projectile.Angle, Kind: e.Projectile.Kind})
			}
		case EventHit:
			if l.Hurt != nil && c.opts.Networked && l.isPlayer(e.Tank) {
				l.Hurt(HealthUpdate{Damage: e.Damage, Health: c.Player.Health})
			}
		case EventKill:
			if l.Die != nil && c.opts.Networked && l.isPlayer(e.Tank) {
				l.Die()
			}
		case EventRoundOver:
			l.Logger.Info().
				Int("round", c.Score.Round).
				Stringer("winner", e.Winner).
				Int("friendly", c.Score.Friendly).
				Int("hostile", c.Score.Hostile).
				Msg("round over")
			if l.Observer != nil {
				l.Observer.ObserveRound(e.Winner, c.Score.Round)
			}
		case EventMatchOver:
			l.recordMatch(e.Winner)
			matchOver = true
		}
	}

	if c.opts.Networked {
		l.sync(now)
	}
	return
}

func (l *Loop) isPlayer(id tank.ID) bool {
	return l.Context.Player != nil && l.Context.Player.ID == id
}

// sync publishes the player's pose at most every SyncPeriod, and only if it changed.
func (l *Loop) sync(now time.Time) {
	p := l.Context.Player
	if l.Sync == nil || p == nil || !p.Alive() || now.Sub(l.lastSync) < SyncPeriod {
		return
	}
	pose := PoseOf(p)
	if !pose.Moved(l.synced) {
		return
	}
	l.lastSync = now
	l.synced = pose
	l.Sync(pose)
}

func (l *Loop) recordMatch(winner tank.Side) {
	c := l.Context
	ended := time.Now()
	match := db.Match{
		ID:       c.opts.PlayerName + "-" + strconv.FormatInt(ended.UnixNano(), 36),
		Player:   c.opts.PlayerName,
		Mode:     c.opts.Mode.Name,
		Map:      string(c.opts.Map),
		Winner:   winner.String(),
		Friendly: c.Score.Friendly,
		Hostile:  c.Score.Hostile,
		Rounds:   c.Score.Round,
		Coins:    c.Earned,
		Ended:    ended.Unix(),
	}

	l.Logger.Info().
		Stringer("winner", winner).
		Int("rounds", match.Rounds).
		Int("coins", match.Coins).
		Msg("match over")

	if err := c.opts.Cloud.RecordMatch(match); err != nil {
		l.Logger.Error().Err(err).Msg("recording match")
	}
}

// Debug logs the average duration of each phase and planner counters.
func (l *Loop) Debug() {
	c := l.Context
	benches := c.Benchmarks()
	planner := c.PlannerStats()

	event := l.Logger.Debug().
		Int("round", c.Score.Round).
		Int("tanks", len(c.Tanks)).
		Int("projectiles", len(c.Projectiles)).
		Int("hazards", len(c.Hazards)).
		Int("plans", planner.Plans).
		Int("failures", planner.Failures).
		Int("invalidations", planner.Invalidations)
	for name, d := range benches {
		event = event.Dur(name, d)
	}
	event.Msg("debug")

	if l.Observer != nil {
		l.Observer.ObserveDebug(benches, planner, len(c.Tanks), len(c.Projectiles))
	}
}
