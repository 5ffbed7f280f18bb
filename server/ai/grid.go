// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"container/heap"

	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/chewxy/math32"
)

// grid is a coarse walkability map sized to one body.
type grid struct {
	cell    float32
	cols    int
	rows    int
	blocked []bool
}

// newGrid marks every cell within margin of a solid obstacle as blocked.
func (n *Navigator) newGrid(b Body) *grid {
	cell := b.Size() * 2
	g := &grid{
		cell: cell,
		cols: int(math32.Ceil(n.Arena.Width / cell)),
		rows: int(math32.Ceil(n.Arena.Height / cell)),
	}
	g.blocked = make([]bool, g.cols*g.rows)

	margin := b.Size() + n.Config.GridMargin
	for _, o := range n.Arena.Obstacles {
		if !o.Solid() {
			continue
		}
		bounds := o.Bounds().Expand(margin)
		minX, minY := g.toCell(bounds.Vec2f)
		maxX, maxY := g.toCell(bounds.Max())
		minX, minY = max(minX, 0), max(minY, 0)
		maxX, maxY = min(maxX, g.cols-1), min(maxY, g.rows-1)

		for cy := minY; cy <= maxY; cy++ {
			for cx := minX; cx <= maxX; cx++ {
				g.blocked[cy*g.cols+cx] = true
			}
		}
	}
	return g
}

func (g *grid) toCell(p world.Vec2f) (int, int) {
	return int(math32.Floor(p.X / g.cell)), int(math32.Floor(p.Y / g.cell))
}

func (g *grid) center(cx, cy int) world.Vec2f {
	return world.Vec2f{X: (float32(cx) + 0.5) * g.cell, Y: (float32(cy) + 0.5) * g.cell}
}

func (g *grid) walkable(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.cols && cy < g.rows && !g.blocked[cy*g.cols+cx]
}

type gridNode struct {
	cx, cy int
	g, h   float32
	parent *gridNode
	index  int // heap index
}

type openList []*gridNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return ol[i].g+ol[i].h < ol[j].g+ol[j].h }
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x any)        { n := x.(*gridNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

const diagonal = 1.4142135

var neighbors = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// GridPath runs a bounded A* over an 8-connected grid from b to target and
// returns at most limit cell centers along the path, excluding the start cell.
// Search stops after Config.GridExploreLimit cells are closed; explored reports
// how many were.
func (n *Navigator) GridPath(b Body, target world.Vec2f, limit int) (path []world.Vec2f, explored int) {
	g := n.newGrid(b)
	sx, sy := g.toCell(b.Center)
	gx, gy := g.toCell(target)
	return g.search(sx, sy, gx, gy, limit, n.Config.GridExploreLimit)
}

// search is A* from cell (sx, sy) to (gx, gy). Diagonal steps need both cells
// they cut across to be walkable.
func (g *grid) search(sx, sy, gx, gy, limit, exploreLimit int) ([]world.Vec2f, int) {
	heuristic := func(cx, cy int) float32 {
		return math32.Hypot(float32(cx-gx), float32(cy-gy))
	}

	start := &gridNode{cx: sx, cy: sy, h: heuristic(sx, sy)}
	ol := &openList{start}
	heap.Init(ol)
	closed := make(map[int]bool)

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*gridNode)
		k := cur.cy*g.cols + cur.cx
		if closed[k] {
			continue
		}
		closed[k] = true

		if cur.cx == gx && cur.cy == gy {
			return g.trace(cur, limit), len(closed)
		}

		for _, d := range neighbors {
			nx, ny := cur.cx+d[0], cur.cy+d[1]
			if !g.walkable(nx, ny) || closed[ny*g.cols+nx] {
				continue
			}
			step := float32(1)
			if d[0] != 0 && d[1] != 0 {
				// No corner cutting
				if !g.walkable(cur.cx+d[0], cur.cy) || !g.walkable(cur.cx, cur.cy+d[1]) {
					continue
				}
				step = diagonal
			}
			heap.Push(ol, &gridNode{cx: nx, cy: ny, g: cur.g + step, h: heuristic(nx, ny), parent: cur})
		}

		if len(closed) > exploreLimit {
			break
		}
	}
	return nil, len(closed)
}

func (g *grid) trace(end *gridNode, limit int) []world.Vec2f {
	var path []world.Vec2f
	for node := end; node.parent != nil; node = node.parent {
		path = append(path, g.center(node.cx, node.cy))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if len(path) > limit {
		path = path[:limit]
	}
	return path
}
