// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"slices"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/chewxy/math32"
)

// Navigator answers path questions about an arena. It only reads the arena.
type Navigator struct {
	Arena  *arena.Arena
	Config *Config
}

// Blocks is true for obstacles the planner steers around. Grid search only
// considers solid obstacles.
func (n *Navigator) Blocks(o *arena.Obstacle) bool {
	return o.Solid() || (n.Config.AvoidSwamps && o.Slows())
}

// blockerAt returns the first blocker overlapping rect that is not in exclude.
func (n *Navigator) blockerAt(rect world.AABB, exclude []*arena.Obstacle) *arena.Obstacle {
	for _, o := range n.Arena.Obstacles {
		if !n.Blocks(o) || slices.Contains(exclude, o) {
			continue
		}
		if o.Bounds().Overlaps(rect) {
			return o
		}
	}
	return nil
}

// inside returns the blockers b currently overlaps. A body can't be blocked by
// terrain it is already standing in.
func (n *Navigator) inside(b Body) []*arena.Obstacle {
	var in []*arena.Obstacle
	box := b.Box()
	for _, o := range n.Arena.Obstacles {
		if n.Blocks(o) && o.Bounds().Overlaps(box) {
			in = append(in, o)
		}
	}
	return in
}

// sweep samples a body sized box along the segment from b to target at
// steps+1 evenly spaced points starting at first, returning the first blocker hit.
func (n *Navigator) sweep(b Body, target world.Vec2f, first, steps int) *arena.Obstacle {
	if steps <= 0 {
		steps = 1
	}
	exclude := n.inside(b)
	delta := target.Sub(b.Center).Div(float32(steps))
	for i := first; i <= steps; i++ {
		p := b.Center.AddScaled(delta, float32(i))
		if o := n.blockerAt(b.BoxAt(p), exclude); o != nil {
			return o
		}
	}
	return nil
}

// DirectPath is true if b can drive straight to target.
func (n *Navigator) DirectPath(b Body, target world.Vec2f) bool {
	return n.FirstBlocker(b, target) == nil
}

// FirstBlocker is the first blocker on the straight path from b to target.
func (n *Navigator) FirstBlocker(b Body, target world.Vec2f) *arena.Obstacle {
	return n.sweep(b, target, 0, n.Config.PathSteps)
}

// Unreachable is true if a nearby waypoint can no longer be driven to or is
// covered by a blocker. Distant waypoints are not checked.
func (n *Navigator) Unreachable(b Body, waypoint world.Vec2f) bool {
	dist := b.Center.Distance(waypoint)
	if dist > n.Config.InvalidationRange {
		return false
	}
	steps := max(n.Config.RecheckMinSteps, int(dist/n.Config.RecheckSpacing))
	if n.sweep(b, waypoint, 1, steps) != nil {
		return true
	}
	return n.blockerAt(b.BoxAt(waypoint), n.inside(b)) != nil
}

// NearPath returns blockers whose centers are within corridor/2 of the segment from b to target.
func (n *Navigator) NearPath(b Body, target world.Vec2f, corridor float32) []*arena.Obstacle {
	var near []*arena.Obstacle
	for _, o := range n.Arena.Obstacles {
		if !n.Blocks(o) {
			continue
		}
		if world.PointSegmentDistance(o.Center(), b.Center, target) <= corridor/2 {
			near = append(near, o)
		}
	}
	return near
}

// ValidWaypoint is true if a body centered at p is inside the arena and
// overlaps no blocker outside exclude.
func (n *Navigator) ValidWaypoint(p world.Vec2f, b Body, exclude []*arena.Obstacle) bool {
	hw, hh := b.Width/2, b.Height/2
	if p.X < hw || p.X > n.Arena.Width-hw || p.Y < hh || p.Y > n.Arena.Height-hh {
		return false
	}
	return n.blockerAt(b.BoxAt(p), exclude) == nil
}

// Score rates a waypoint candidate. Higher is better.
func (n *Navigator) Score(p world.Vec2f, b Body, target world.Vec2f) float32 {
	toWaypoint := b.Center.Distance(p)
	fromWaypoint := p.Distance(target)
	score := 1000 / (toWaypoint + fromWaypoint + 1)

	deviation := p.Sub(b.Center).Angle().Diff(target.Sub(b.Center).Angle()).Abs()
	score += float32(world.Pi-deviation) * 50

	for _, o := range n.Arena.Obstacles {
		score += min(p.Distance(o.Center()), 100)
	}

	progress := b.Center.Distance(target) - fromWaypoint
	score += max(progress, 0) * 10
	return score
}

// Best returns the valid candidate with the highest Score.
func (n *Navigator) Best(candidates []world.Vec2f, b Body, target world.Vec2f, exclude []*arena.Obstacle) (world.Vec2f, bool) {
	var best world.Vec2f
	bestScore := float32(math32.Inf(-1))
	found := false

	for _, c := range candidates {
		if !n.ValidWaypoint(c, b, exclude) {
			continue
		}
		if s := n.Score(c, b, target); s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, found
}

// ring returns count points evenly spaced on a circle.
func ring(center world.Vec2f, radius float32, count int) []world.Vec2f {
	points := make([]world.Vec2f, count)
	step := 2 * world.Pi / world.Angle(count)
	for i := range points {
		points[i] = center.AddScaled((step * world.Angle(i)).Vec2f(), radius)
	}
	return points
}

func union(obstacles []*arena.Obstacle) world.AABB {
	box := obstacles[0].Bounds()
	for _, o := range obstacles[1:] {
		box = box.Union(o.Bounds())
	}
	return box
}
