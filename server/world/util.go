// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

func clamp(val, minimum, maximum float32) float32 {
	return min(max(val, minimum), maximum)
}

// Clamp restricts val to [minimum, maximum].
func Clamp(val, minimum, maximum float32) float32 {
	return clamp(val, minimum, maximum)
}
