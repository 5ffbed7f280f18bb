// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/world"
)

// PlanState is where a Planner is in its lifecycle.
type PlanState uint8

const (
	// PlanNone has not evaluated a path yet.
	PlanNone PlanState = iota
	// PlanDirect drives straight to the target.
	PlanDirect
	// PlanBlocked found the direct path blocked and is waiting to retry.
	PlanBlocked
	// PlanWaypoints follows waypoints.
	PlanWaypoints
)

func (s PlanState) String() string {
	switch s {
	case PlanDirect:
		return "direct"
	case PlanBlocked:
		return "blocked"
	case PlanWaypoints:
		return "waypoints"
	}
	return "none"
}

// PlannerStats count planner events for telemetry.
type PlannerStats struct {
	Plans         int
	Failures      int
	Reached       int
	Timeouts      int
	Invalidations int
	Replans       int
	Extensions    int
}

// Planner keeps one agent's waypoints valid as it pursues a target.
type Planner struct {
	state    PlanState
	current  world.Vec2f
	hasPoint bool
	queue    []world.Vec2f

	started       time.Duration // when current was set
	lastReplan    time.Duration
	cooldown      time.Duration
	extension     time.Duration
	invalidations int

	Source Strategy
	Stats  PlannerStats
}

func (p *Planner) State() PlanState {
	return p.state
}

// Waypoint returns the waypoint being pursued, if any.
func (p *Planner) Waypoint() (world.Vec2f, bool) {
	return p.current, p.hasPoint
}

// Queue returns the waypoints after the current one.
func (p *Planner) Queue() []world.Vec2f {
	return p.queue
}

func (p *Planner) Cooldown() time.Duration {
	return p.cooldown
}

// Reset discards the plan and all timers.
func (p *Planner) Reset() {
	*p = Planner{Stats: p.Stats}
}

func (p *Planner) clear() {
	p.hasPoint = false
	p.queue = p.queue[:0]
}

// advance replaces the current waypoint with the next queued one.
func (p *Planner) advance(now time.Duration) {
	if len(p.queue) == 0 {
		p.hasPoint = false
		return
	}
	p.current = p.queue[0]
	p.queue = append(p.queue[:0], p.queue[1:]...)
	p.started = now
}

func (p *Planner) set(path []world.Vec2f, limit int, now time.Duration) {
	p.current = path[0]
	p.hasPoint = true
	p.queue = append(p.queue[:0], path[1:min(len(path), limit+1)]...)
	p.started = now
	p.state = PlanWaypoints
}

// Update advances the plan of body b towards target and returns the point to
// steer at this tick, which is either the current waypoint or target.
func (p *Planner) Update(nav *Navigator, b Body, target world.Vec2f, now, dt time.Duration) world.Vec2f {
	cfg := nav.Config

	p.cooldown = max(p.cooldown-dt, 0)
	p.extension = max(p.extension-dt, 0)

	if p.hasPoint && nav.Unreachable(b, p.current) {
		p.clear()
		p.cooldown = 0
		p.invalidations++
		p.Stats.Invalidations++
		if p.invalidations > cfg.InvalidationLimit {
			p.cooldown = cfg.InvalidationCooldown
			p.invalidations = 0
		}
	}

	if p.hasPoint {
		if b.Center.Distance(p.current) <= cfg.WaypointRadius {
			p.advance(now)
			p.cooldown = 0
			p.invalidations = 0
			p.Stats.Reached++
		}
		if p.hasPoint && now-p.started > cfg.WaypointTimeout {
			p.advance(now)
			p.cooldown = cfg.TimeoutCooldown
			p.Stats.Timeouts++
		}
	}

	if !p.hasPoint {
		if p.state == PlanWaypoints {
			p.state = PlanNone
		}
		if p.cooldown <= 0 {
			if nav.DirectPath(b, target) {
				p.clear()
				p.state = PlanDirect
			} else if path, source := nav.Plan(b, target); len(path) > 0 {
				p.set(path, cfg.MaxQueue, now)
				p.Source = source
				p.cooldown = cfg.SuccessCooldown
				p.Stats.Plans++
			} else {
				p.state = PlanBlocked
				p.cooldown = cfg.FailureCooldown
				p.Stats.Failures++
			}
		}
	}

	if p.hasPoint && len(p.queue) < cfg.MaxQueue && p.extension <= 0 {
		p.extend(nav, b, target)
	}

	if p.hasPoint && now-p.lastReplan > cfg.ReplanInterval {
		if b.Center.Distance(p.current) > cfg.WaypointRadius*cfg.ReplanSlack {
			p.clear()
			p.state = PlanNone
			p.cooldown = 0
			p.Stats.Replans++
		}
		p.lastReplan = now
	}

	if p.hasPoint {
		p.state = PlanWaypoints
		return p.current
	}
	return target
}

// extend appends waypoints past the current one if the way beyond it is blocked.
func (p *Planner) extend(nav *Navigator, b Body, target world.Vec2f) {
	cfg := nav.Config
	p.extension = cfg.ExtensionCooldown

	last := p.current
	if len(p.queue) > 0 {
		last = p.queue[len(p.queue)-1]
	}
	from := b.At(last)
	ahead := last.AddScaled(target.Sub(last).Norm(), cfg.Lookahead)
	if nav.DirectPath(from, ahead) {
		return
	}

	more := nav.Sequential(from, target, cfg.ExtensionSteps)
	if free := cfg.MaxQueue - len(p.queue); len(more) > free {
		more = more[:free]
	}
	if len(more) > 0 {
		p.queue = append(p.queue, more...)
		p.Stats.Extensions++
	}
}
