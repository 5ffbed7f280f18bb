// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"testing"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridPathAroundWall(t *testing.T) {
	nav := testNav(2000, 2000, wall(1000, 400, 1000, 1000)...)
	b := testBody(700, 700)
	target := world.Vec2f{X: 1300, Y: 700}

	path, explored := nav.GridPath(b, target, 5)
	require.Len(t, path, 5)
	assert.LessOrEqual(t, explored, nav.Config.GridExploreLimit)

	g := nav.newGrid(b)
	px, py := g.toCell(b.Center)
	for _, p := range path {
		cx, cy := g.toCell(p)
		assert.True(t, g.walkable(cx, cy), "%v", p)
		assert.LessOrEqual(t, max(abs(cx-px), abs(cy-py)), 1, "cells are adjacent")
		assert.Equal(t, g.center(cx, cy), p)
		px, py = cx, cy
	}
}

func TestGridPathSameCell(t *testing.T) {
	nav := testNav(2000, 2000)
	path, explored := nav.GridPath(testBody(710, 710), world.Vec2f{X: 750, Y: 750}, 5)
	assert.Empty(t, path)
	assert.Equal(t, 1, explored)
}

func TestGridNoCornerCutting(t *testing.T) {
	open := func(blocked ...[2]int) *grid {
		g := &grid{cell: 10, cols: 3, rows: 3, blocked: make([]bool, 9)}
		for _, c := range blocked {
			g.blocked[c[1]*g.cols+c[0]] = true
		}
		return g
	}

	// Free diagonal.
	g := open()
	path, _ := g.search(0, 0, 1, 1, 5, 100)
	assert.Equal(t, []world.Vec2f{g.center(1, 1)}, path)

	// One side blocked, so go around.
	g = open([2]int{1, 0})
	path, _ = g.search(0, 0, 1, 1, 5, 100)
	assert.Equal(t, []world.Vec2f{g.center(0, 1), g.center(1, 1)}, path)

	// Squeezing between two blocked cells isn't allowed.
	g = open([2]int{1, 0}, [2]int{0, 1})
	path, explored := g.search(0, 0, 1, 1, 5, 100)
	assert.Nil(t, path)
	assert.Equal(t, 1, explored)
}

func TestGridIgnoresSwamps(t *testing.T) {
	nav := testNav(2000, 2000, arena.NewEllipse(arena.KindSwamp, 1000, 1000, 200, 200))
	g := nav.newGrid(testBody(0, 0))
	cx, cy := g.toCell(world.Vec2f{X: 1000, Y: 1000})
	assert.True(t, g.walkable(cx, cy))
}

// An agent sealed in a large enclosure must give up the grid search after a
// bounded number of cells and fall back to another strategy.
func TestGridPathEnclosed(t *testing.T) {
	var rocks []*arena.Obstacle
	rocks = append(rocks, wall(1000, 1000, 2980, 1000)...)
	rocks = append(rocks, wall(1000, 2980, 2980, 2980)...)
	rocks = append(rocks, wall(1000, 1060, 1000, 2920)...)
	rocks = append(rocks, wall(2980, 1060, 2980, 2920)...)
	nav := testNav(4000, 4000, rocks...)

	b := testBody(2000, 2000)
	target := world.Vec2f{X: 3500, Y: 2000}

	path, explored := nav.GridPath(b, target, nav.Config.MaxWaypoints)
	assert.Nil(t, path)
	assert.Equal(t, nav.Config.GridExploreLimit+1, explored)

	plan, strategy := nav.Plan(b, target)
	assert.NotEqual(t, StrategyGrid, strategy)
	assert.NotEmpty(t, plan)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
