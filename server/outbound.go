// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
	jsoniter "github.com/json-iterator/go"
)

type (
	// Connected tells a new client its player id.
	Connected struct {
		PlayerID string `json:"playerId"`
	}

	// PlayerJoined is the roster of a room. It is sent whenever it changes.
	PlayerJoined struct {
		Players      []Player    `json:"players"`
		RoomID       string      `json:"roomId"`
		PlayersCount int         `json:"playersCount"`
		MaxPlayers   int         `json:"maxPlayers"`
		HostID       string      `json:"hostId"`
		SelectedMap  arena.MapID `json:"selectedMap,omitempty"`
		GameMode     string      `json:"gameMode"`
		TeamMode     bool        `json:"teamMode"`
		Teams        *Teams      `json:"teams,omitempty"`
	}

	PlayerReadyUpdate struct {
		PlayerID string `json:"playerId"`
		Ready    bool   `json:"ready"`
	}

	CharacterSelected struct {
		PlayerID    string `json:"playerId"`
		CharacterID string `json:"characterId"`
	}

	TankSelected struct {
		PlayerID string `json:"playerId"`
		TankID   string `json:"tankId"`
	}

	MapSelected struct {
		MapID  arena.MapID `json:"mapId"`
		HostID string      `json:"hostId"`
	}

	// GameStart is sent once to every member of a room when all are ready.
	GameStart struct {
		Players  []Player `json:"players"`
		GameData GameData `json:"gameData"`
	}

	// GameData is shared by every member so they simulate the same arena.
	GameData struct {
		StartTime       int64                    `json:"startTime"`
		RoundNumber     int                      `json:"roundNumber"`
		PlayerTeamScore int                      `json:"playerTeamScore"`
		EnemyTeamScore  int                      `json:"enemyTeamScore"`
		Map             arena.MapID              `json:"map"`
		Obstacles       []*arena.Obstacle        `json:"obstacles"`
		PlayerPositions map[string]SpawnPosition `json:"playerPositions"`
		ArenaWidth      float32                  `json:"arenaWidth"`
		ArenaHeight     float32                  `json:"arenaHeight"`
	}

	// SpawnPosition is the top left of a player's tank at game start.
	SpawnPosition struct {
		X         float32 `json:"x"`
		Y         float32 `json:"y"`
		TankType  string  `json:"tankType"`
		Character string  `json:"character"`
	}

	ActionRelay struct {
		PlayerID string              `json:"playerId"`
		Action   jsoniter.RawMessage `json:"action"`
	}

	PositionRelay struct {
		PlayerID    string      `json:"playerId"`
		X           float32     `json:"x"`
		Y           float32     `json:"y"`
		Angle       world.Angle `json:"angle"`
		TurretAngle world.Angle `json:"turretAngle"`
		Timestamp   int64       `json:"timestamp"`
	}

	ShotRelay struct {
		PlayerID   string      `json:"playerId"`
		X          float32     `json:"x"`
		Y          float32     `json:"y"`
		Angle      world.Angle `json:"angle"`
		BulletType uint8       `json:"bulletType"`
		Timestamp  int64       `json:"timestamp"`
	}

	DamageRelay struct {
		PlayerID   string  `json:"playerId"`
		Damage     float32 `json:"damage"`
		NewHealth  float32 `json:"newHealth"`
		AttackerID string  `json:"attackerId"`
		Timestamp  int64   `json:"timestamp"`
	}

	DeathRelay struct {
		PlayerID  string `json:"playerId"`
		KillerID  string `json:"killerId"`
		Timestamp int64  `json:"timestamp"`
	}

	PlayerLeft struct {
		PlayerID         string   `json:"playerId"`
		RemainingPlayers []Player `json:"remainingPlayers"`
	}
)

func init() {
	registerOutbound("connected", &Connected{})
	registerOutbound("player-joined", &PlayerJoined{})
	registerOutbound("player-ready-update", &PlayerReadyUpdate{})
	registerOutbound("character-selected", &CharacterSelected{})
	registerOutbound("tank-selected", &TankSelected{})
	registerOutbound("map-selected", &MapSelected{})
	registerOutbound("game-start", &GameStart{})
	registerOutbound("player-action", &ActionRelay{})
	registerOutbound("player-position", &PositionRelay{})
	registerOutbound("player-shoot", &ShotRelay{})
	registerOutbound("player-damage", &DamageRelay{})
	registerOutbound("player-death", &DeathRelay{})
	registerOutbound("player-left", &PlayerLeft{})
}

func rosterOf(room *Room) *PlayerJoined {
	snapshot := room.Snapshot()
	return &PlayerJoined{
		Players:      snapshot.Players,
		RoomID:       room.ID,
		PlayersCount: len(snapshot.Players),
		MaxPlayers:   room.Mode.MaxPlayers,
		HostID:       snapshot.HostID,
		SelectedMap:  room.Map,
		GameMode:     room.Mode.ID,
		TeamMode:     room.Mode.TeamMode,
		Teams:        snapshot.Teams,
	}
}
