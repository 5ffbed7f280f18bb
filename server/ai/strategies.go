// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
)

// Strategy is what produced a plan.
type Strategy uint8

const (
	StrategyNone Strategy = iota
	StrategyGrid
	StrategySequential
	StrategySingle
	StrategyCluster
	StrategyGap
	StrategyWide
)

func (s Strategy) String() string {
	switch s {
	case StrategyGrid:
		return "grid"
	case StrategySequential:
		return "sequential"
	case StrategySingle:
		return "single"
	case StrategyCluster:
		return "cluster"
	case StrategyGap:
		return "gap"
	case StrategyWide:
		return "wide"
	}
	return "none"
}

// Waypoint tries each single waypoint strategy in turn: around the first
// blocker, around the cluster near the path, through a gap, then a wide detour.
func (n *Navigator) Waypoint(b Body, target world.Vec2f) (world.Vec2f, Strategy, bool) {
	if p, ok := n.singleObstacle(b, target); ok {
		return p, StrategySingle, true
	}
	if p, ok := n.cluster(b, target); ok {
		return p, StrategyCluster, true
	}
	if p, ok := n.gap(b, target); ok {
		return p, StrategyGap, true
	}
	if p, ok := n.wide(b, target); ok {
		return p, StrategyWide, true
	}
	return world.Vec2f{}, StrategyNone, false
}

func (n *Navigator) singleObstacle(b Body, target world.Vec2f) (world.Vec2f, bool) {
	blocker := n.FirstBlocker(b, target)
	if blocker == nil {
		return world.Vec2f{}, false
	}

	bounds := blocker.Bounds()
	size := max(bounds.Width, bounds.Height)
	margin := b.Size() + n.Config.RingMargin + b.Speed*10 + size*0.2
	radius := size/2 + margin

	candidates := ring(bounds.Center(), radius, n.Config.RingCandidates)
	return n.Best(candidates, b, target, []*arena.Obstacle{blocker})
}

func (n *Navigator) cluster(b Body, target world.Vec2f) (world.Vec2f, bool) {
	near := n.NearPath(b, target, n.Config.ClusterCorridor)
	if len(near) == 0 {
		return world.Vec2f{}, false
	}

	box := union(near)
	radius := max(box.Width, box.Height)/2 + b.Size() + n.Config.ClusterMargin

	candidates := ring(box.Center(), radius, n.Config.ClusterCandidates)
	return n.Best(candidates, b, target, near)
}

// gapBetween returns the center of the open space separating a and b on
// either axis and its extent on each axis.
func gapBetween(a, b world.AABB) (center world.Vec2f, width, height float32, ok bool) {
	left, right := a, b
	if !(a.X+a.Width < b.X) {
		left, right = b, a
	}
	top, bottom := a, b
	if !(a.Y+a.Height < b.Y) {
		top, bottom = b, a
	}

	hasCenter := false
	if left.X+left.Width < right.X {
		width = right.X - (left.X + left.Width)
		center.X = (left.X + left.Width + right.X) / 2
		center.Y = (max(left.Y, right.Y) + min(left.Y+left.Height, right.Y+right.Height)) / 2
		hasCenter = true
	}
	if top.Y+top.Height < bottom.Y {
		height = bottom.Y - (top.Y + top.Height)
		if !hasCenter {
			center.X = (max(top.X, bottom.X) + min(top.X+top.Width, bottom.X+bottom.Width)) / 2
			center.Y = (top.Y + top.Height + bottom.Y) / 2
		}
	}
	return center, width, height, width > 0 || height > 0
}

// gap steers through the best aligned opening between two obstacles near the
// path that is wide enough on both axes.
func (n *Navigator) gap(b Body, target world.Vec2f) (world.Vec2f, bool) {
	near := n.NearPath(b, target, n.Config.GapCorridor)
	if len(near) < 2 {
		return world.Vec2f{}, false
	}

	required := b.Size() + n.Config.GapClearance
	direct := target.Sub(b.Center).Angle()

	var best world.Vec2f
	bestDeviation := world.Pi + 1
	for i := range near {
		for j := i + 1; j < len(near); j++ {
			center, w, h, ok := gapBetween(near[i].Bounds(), near[j].Bounds())
			if !ok || w < required || h < required {
				continue
			}
			deviation := center.Sub(b.Center).Angle().Diff(direct).Abs()
			if deviation < bestDeviation {
				best, bestDeviation = center, deviation
			}
		}
	}
	return best, bestDeviation <= world.Pi
}

func (n *Navigator) wide(b Body, target world.Vec2f) (world.Vec2f, bool) {
	var nearby []*arena.Obstacle
	for _, o := range n.Arena.Obstacles {
		if n.Blocks(o) && o.Center().Distance(b.Center) <= n.Config.DetourRadius {
			nearby = append(nearby, o)
		}
	}
	if len(nearby) == 0 {
		return world.Vec2f{}, false
	}

	box := union(nearby)
	c := box.Center()
	m := n.Config.DetourMargin
	candidates := []world.Vec2f{
		{X: box.X - m, Y: c.Y},
		{X: box.X + box.Width + m, Y: c.Y},
		{X: c.X, Y: box.Y - m},
		{X: c.X, Y: box.Y + box.Height + m},
	}
	return n.Best(candidates, b, target, nearby)
}

// Sequential chains up to limit waypoints, each avoiding the next blocker from
// the previous one, until the target is in sight or close.
func (n *Navigator) Sequential(b Body, target world.Vec2f, limit int) []world.Vec2f {
	var waypoints []world.Vec2f
	for i := 0; i < limit; i++ {
		if n.DirectPath(b, target) {
			break
		}
		p, _, ok := n.Waypoint(b, target)
		if !ok {
			break
		}
		waypoints = append(waypoints, p)
		b = b.At(p)
		if p.Distance(target) < n.Config.WaypointRadius*2 {
			break
		}
	}
	return waypoints
}

// Plan returns waypoints from b to target: a grid path, then a sequential
// detour, then a single waypoint.
func (n *Navigator) Plan(b Body, target world.Vec2f) ([]world.Vec2f, Strategy) {
	if path, _ := n.GridPath(b, target, n.Config.MaxWaypoints); len(path) > 0 {
		return path, StrategyGrid
	}
	if path := n.Sequential(b, target, n.Config.MaxWaypoints); len(path) > 0 {
		return path, StrategySequential
	}
	if p, s, ok := n.Waypoint(b, target); ok {
		return []world.Vec2f{p}, s
	}
	return nil, StrategyNone
}
