// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
)

// StuckPhase is the stage of stuck recovery.
type StuckPhase uint8

const (
	StuckNone StuckPhase = iota
	// StuckDetected has not started recovering yet.
	StuckDetected
	StuckReverse
	StuckTurn
)

func (phase StuckPhase) String() string {
	switch phase {
	case StuckDetected:
		return "stuck"
	case StuckReverse:
		return "reverse"
	case StuckTurn:
		return "turn"
	}
	return "normal"
}

// Stuck detects an agent that stopped making progress and backs it out.
type Stuck struct {
	phase     StuckPhase
	since     time.Duration // start of the current phase
	direction float32       // 1 is clockwise
	Count     int
}

func (s *Stuck) Phase() StuckPhase {
	return s.phase
}

// Active recovery overrides all other movement.
func (s *Stuck) Active() bool {
	return s.phase != StuckNone
}

// Detect records pos and flags the agent stuck if it moved less than
// Config.StuckDistance since the oldest sample at least Config.StuckAge old.
// It does nothing while recovering.
func (s *Stuck) Detect(cfg *Config, history *tank.History, now time.Duration, pos world.Vec2f) {
	history.Push(now, pos)
	if s.phase != StuckNone || history.Len() < 2 {
		return
	}
	oldest, ok := history.OldestAtLeast(now, cfg.StuckAge)
	if !ok {
		return
	}
	if pos.DistanceSquared(oldest.Position) < cfg.StuckDistance*cfg.StuckDistance {
		s.phase = StuckDetected
		s.since = now
		s.Count++
	}
}

// Drive runs one tick of the reverse then turn maneuver.
func (s *Stuck) Drive(cfg *Config, t *tank.Tank, history *tank.History, env tank.Env, rng Rand, now, dt time.Duration) {
	switch s.phase {
	case StuckDetected:
		s.direction = 1
		if rng.Float32() < 0.5 {
			s.direction = -1
		}
		s.phase = StuckReverse
		s.since = now
		fallthrough
	case StuckReverse:
		if now-s.since < cfg.ReverseDuration {
			t.Advance(-t.Speed*cfg.ReverseSpeed, dt, env)
			return
		}
		s.phase = StuckTurn
		s.since = now
		fallthrough
	case StuckTurn:
		if now-s.since < cfg.SpinDuration {
			rate := tank.TurnSpeed * world.Angle(s.direction*cfg.SpinRate*world.Frames(dt))
			t.Angle = (t.Angle + rate).Normalize()
			return
		}
		s.phase = StuckNone
		s.direction = 0
		history.Reset()
	}
}
