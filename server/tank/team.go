// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

// Team is which side a tank fights for.
type Team uint8

const (
	TeamPlayer Team = iota
	TeamAlly
	TeamEnemy
)

// Side is shared by the player and allies.
type Side uint8

const (
	SideNone Side = iota
	SideFriendly
	SideHostile
)

func (team Team) Side() Side {
	if team == TeamEnemy {
		return SideHostile
	}
	return SideFriendly
}

// Hostile the two teams fight each other.
func (team Team) Hostile(other Team) bool {
	return team.Side() != other.Side()
}

func (team Team) String() string {
	switch team {
	case TeamPlayer:
		return "player"
	case TeamAlly:
		return "ally"
	case TeamEnemy:
		return "enemy"
	}
	return "invalid"
}

func (side Side) String() string {
	switch side {
	case SideFriendly:
		return "friendly"
	case SideHostile:
		return "hostile"
	}
	return "none"
}
