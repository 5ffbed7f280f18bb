// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

// AABB is an axis aligned box. Vec2f is the top left corner.
type AABB struct {
	Vec2f
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

func AABBFrom(x, y, width, height float32) AABB {
	return AABB{
		Vec2f:  Vec2f{X: x, Y: y},
		Width:  width,
		Height: height,
	}
}

// AABBCentered is a width by height box centered on center.
func AABBCentered(center Vec2f, width, height float32) AABB {
	return AABBFrom(center.X-width*0.5, center.Y-height*0.5, width, height)
}

// Overlaps a and b share interior area. Touching edges don't count.
func (a AABB) Overlaps(b AABB) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X && a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// Contains a fully contains b
func (a AABB) Contains(b AABB) bool {
	return a.X <= b.X && a.Y <= b.Y && a.X+a.Width >= b.X+b.Width && a.Y+a.Height >= b.Y+b.Height
}

// ContainsPoint p is strictly inside a.
func (a AABB) ContainsPoint(p Vec2f) bool {
	return p.X > a.X && p.X < a.X+a.Width && p.Y > a.Y && p.Y < a.Y+a.Height
}

func (a AABB) Center() Vec2f {
	return Vec2f{X: a.X + a.Width*0.5, Y: a.Y + a.Height*0.5}
}

func (a AABB) Max() Vec2f {
	return Vec2f{X: a.X + a.Width, Y: a.Y + a.Height}
}

// Expand grows a by margin on every side.
func (a AABB) Expand(margin float32) AABB {
	return AABBFrom(a.X-margin, a.Y-margin, a.Width+margin*2, a.Height+margin*2)
}

// Union is the smallest AABB containing a and b.
func (a AABB) Union(b AABB) AABB {
	minX, minY := min(a.X, b.X), min(a.Y, b.Y)
	maxX, maxY := max(a.X+a.Width, b.X+b.Width), max(a.Y+a.Height, b.Y+b.Height)
	return AABBFrom(minX, minY, maxX-minX, maxY-minY)
}
