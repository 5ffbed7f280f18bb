// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

// PointSegmentDistance is the distance from p to the closest point on segment ab.
func PointSegmentDistance(p, a, b Vec2f) float32 {
	ab := b.Sub(a)
	lengthSquared := ab.LengthSquared()
	if lengthSquared == 0 {
		return p.Distance(a)
	}

	t := clamp(p.Sub(a).Dot(ab)/lengthSquared, 0, 1)
	return p.Distance(a.AddScaled(ab, t))
}

// SegmentIntersectsAABB p1p2 has an endpoint strictly inside rect or properly crosses one of its edges.
func SegmentIntersectsAABB(p1, p2 Vec2f, rect AABB) bool {
	if rect.ContainsPoint(p1) || rect.ContainsPoint(p2) {
		return true
	}

	topLeft := rect.Vec2f
	bottomRight := rect.Max()
	topRight := Vec2f{X: bottomRight.X, Y: topLeft.Y}
	bottomLeft := Vec2f{X: topLeft.X, Y: bottomRight.Y}

	return segmentsCross(p1, p2, topLeft, topRight) ||
		segmentsCross(p1, p2, bottomLeft, bottomRight) ||
		segmentsCross(p1, p2, topLeft, bottomLeft) ||
		segmentsCross(p1, p2, topRight, bottomRight)
}

// segmentsCross p1p2 and p3p4 intersect strictly inside both segments.
// Parallel and degenerate segments never cross.
func segmentsCross(p1, p2, p3, p4 Vec2f) bool {
	den := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if den == 0 {
		return false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / den
	u := -((p1.X-p2.X)*(p1.Y-p3.Y) - (p1.Y-p2.Y)*(p1.X-p3.X)) / den
	return t > 0 && t < 1 && u > 0 && u < 1
}
