// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func BenchmarkAngle_Diff(b *testing.B) {
	const count = 1024
	angles := make([]Angle, count)
	for i := range angles {
		angles[i] = ToAngle(rand.Float32() * math32.Pi * 2)
	}
	b.ResetTimer()

	var acc Angle
	for i := 0; i < b.N; i++ {
		a := angles[i&(count-1)]
		b := angles[(i+count/2)&(count-1)]
		acc += a.Diff(b)
	}
	_ = acc
}

func TestAngle_EdgeCase(t *testing.T) {
	var angle Angle
	if err := angle.UnmarshalJSON([]byte("-3.141592653589793")); err != nil {
		t.Fatal(err)
	}
	if angle.Float() > 0 {
		t.Errorf("expected negative pi, found %f", angle.Float())
	}

	if err := angle.UnmarshalJSON([]byte("3.141592653589793")); err != nil {
		t.Fatal(err)
	}
	if angle.Float() < 0 {
		t.Errorf("expected positive pi, found %f", angle.Float())
	}
}

func TestAngle_Diff(t *testing.T) {
	errs := 0

	for step := float32(0.01); step < math32.Pi; step += 0.01 {
		for i := -math32.Pi * 2; i < math32.Pi*2; i += step {
			diff := ToAngle(i).Diff(ToAngle(i - step)).Float()
			if !approx(diff, step) {
				if errs++; errs > 20 {
					t.FailNow()
				}
				t.Errorf("%f expected %f, found %f", i, step, diff)
			}
		}

		for i := -math32.Pi * 2; i < math32.Pi*2; i += step {
			diff := ToAngle(i).Diff(ToAngle(i + step)).Float()
			if !approx(diff, -step) {
				if errs++; errs > 20 {
					t.FailNow()
				}
				t.Errorf("%f expected %f, found %f", i, -step, diff)
			}
		}
	}
}

func TestAngle_TurnToward(t *testing.T) {
	tests := []struct {
		from, to, step, expected Angle
	}{
		{0, 1, 0.1, 0.1},
		{0, -1, 0.1, -0.1},
		{0, 0.05, 0.1, 0.05}, // no overshoot
		{Pi - 0.05, -Pi + 0.05, 0.2, Pi + 0.05},
	}

	for _, test := range tests {
		got := test.from.TurnToward(test.to, test.step)
		if !approx(got.Float(), test.expected.Float()) {
			t.Errorf("%s toward %s by %s: expected %s, got %s", test.from, test.to, test.step, test.expected, got)
		}
	}
}
