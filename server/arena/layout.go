// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

// GenerateLayout returns the obstacles of a networked game. The same map id
// and size always give the same layout.
func GenerateLayout(mapID MapID, width, height float32) []*Obstacle {
	l := NewLCG(DefaultSeed)
	var obstacles []*Obstacle

	rocks := func(n int) {
		for i := 0; i < n; i++ {
			x := l.Range(0, width)
			y := l.Range(0, height)
			w := l.Range(40, 30)
			h := l.Range(30, 20)
			obstacles = append(obstacles, NewRect(KindRock, x, y, w, h))
		}
	}

	switch mapID {
	case MapForest:
		for i := 0; i < 20; i++ {
			x := l.Range(0, width)
			y := l.Range(0, height)
			r := l.Range(20, 20)
			obstacles = append(obstacles, NewEllipse(KindTree, x, y, r, r))
		}
		for i := 0; i < 7; i++ {
			x := l.Range(0, width)
			y := l.Range(0, height)
			rx := l.Range(30, 30)
			ry := l.Range(20, 20)
			obstacles = append(obstacles, NewEllipse(KindSwamp, x, y, rx, ry))
		}
		rocks(5)
	case MapDesert:
		rocks(8)
		for i := 0; i < 6; i++ {
			x := l.Range(0, width)
			y := l.Range(0, height)
			w := l.Range(90, 30)
			h := l.Range(90, 30)
			obstacles = append(obstacles, NewRect(KindOilrig, x, y, w, h))
		}
	case MapIce:
		for i := 0; i < 12; i++ {
			x := l.Range(60, width-120)
			y := l.Range(60, height-120)
			w := l.Range(90, 30)
			h := l.Range(90, 30)
			obstacles = append(obstacles, NewRect(KindIglu, x, y, w, h))
		}
	}

	return obstacles
}
