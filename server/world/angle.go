// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"encoding/json"
	"fmt"

	"github.com/chewxy/math32"
)

// Angle is a heading in radians. 0 points towards +X.
type Angle float32

const Pi = Angle(math32.Pi)

func ToAngle(f float32) Angle {
	return Angle(f)
}

func (angle Angle) Float() float32 {
	return float32(angle)
}

func (angle Angle) Vec2f() Vec2f {
	sin, cos := math32.Sincos(float32(angle))
	return Vec2f{
		X: cos,
		Y: sin,
	}
}

func (angle Angle) ClampMagnitude(max Angle) Angle {
	if angle < -max {
		return -max
	}
	if angle > max {
		return max
	}
	return angle
}

// Diff returns angle - otherAngle normalized to [-Pi, Pi).
func (angle Angle) Diff(otherAngle Angle) (difference Angle) {
	difference = angle - otherAngle
	const mod = Angle(math32.Pi * 2)

	if difference >= mod || difference < -mod {
		difference = Angle(math32.Mod(float32(difference), float32(mod)))
	}

	if difference < -Pi {
		difference += mod
	} else if difference >= Pi {
		difference -= mod
	}
	return
}

// Normalize wraps angle to [-Pi, Pi).
func (angle Angle) Normalize() Angle {
	return angle.Diff(0)
}

// TurnToward rotates angle towards target by at most maxStep without overshooting.
func (angle Angle) TurnToward(target Angle, maxStep Angle) Angle {
	return angle + target.Diff(angle).ClampMagnitude(maxStep)
}

func (angle Angle) Abs() Angle {
	return Angle(math32.Abs(float32(angle)))
}

func (angle Angle) Inv() Angle {
	return angle + Pi
}

func (angle Angle) String() string {
	return fmt.Sprintf("%.01f degrees", float32(angle)*180/math32.Pi)
}

func (angle *Angle) UnmarshalJSON(b []byte) error {
	var f float32
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*angle = ToAngle(f)
	return nil
}
