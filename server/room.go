// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"time"

	"github.com/SoftbearStudios/tankarena/server/arena"
)

var (
	ErrRoomFull     = errors.New("room is full")
	ErrNotHost      = errors.New("not the host")
	ErrNotReady     = errors.New("character and tank not selected")
	ErrNotWaiting   = errors.New("room is not waiting for players")
	ErrNotPlaying   = errors.New("room is not playing")
	ErrNoRoom       = errors.New("not in a room")
	ErrInRoom       = errors.New("already in a room")
	ErrBadMap       = errors.New("unknown map")
	ErrBadSelection = errors.New("invalid selection")
)

type RoomState string

const (
	RoomWaiting RoomState = "waiting"
	RoomPlaying RoomState = "playing"
)

// Teams lists player ids by team.
type Teams struct {
	Team1 []string `json:"team1"`
	Team2 []string `json:"team2"`
}

func (teams Teams) clone() Teams {
	return Teams{
		Team1: append([]string{}, teams.Team1...),
		Team2: append([]string{}, teams.Team2...),
	}
}

// Room is a lobby and then a game of one relay mode. It is only accessed by
// the hub goroutine.
type Room struct {
	ID      string
	Mode    arena.RelayMode
	State   RoomState
	Host    Client
	Map     arena.MapID // empty until the host selects one
	Clients []Client    // in join order
	Teams   Teams
	Started time.Time
}

func newRoom(id string, mode arena.RelayMode) *Room {
	return &Room{
		ID:    id,
		Mode:  mode,
		State: RoomWaiting,
	}
}

func (room *Room) Full() bool {
	return len(room.Clients) >= room.Mode.MaxPlayers
}

func (room *Room) Empty() bool {
	return len(room.Clients) == 0
}

// Joinable rooms are waiting for players of mode and have space.
func (room *Room) Joinable(mode string) bool {
	return room.State == RoomWaiting && room.Mode.ID == mode && !room.Full()
}

// add makes client a member. The first member is host, and in team modes
// members go to the smaller team, team1 on ties.
func (room *Room) add(client Client) error {
	if room.Full() {
		return ErrRoomFull
	}
	player := &client.Data().Player
	if room.Empty() {
		room.Host = client
		player.Host = true
	}

	if room.Mode.TeamMode {
		if len(room.Teams.Team1) <= len(room.Teams.Team2) {
			room.Teams.Team1 = append(room.Teams.Team1, player.ID)
			player.Team = Team1
		} else {
			room.Teams.Team2 = append(room.Teams.Team2, player.ID)
			player.Team = Team2
		}
	}

	player.Room = room
	player.GameMode = room.Mode.ID
	room.Clients = append(room.Clients, client)
	return nil
}

// remove takes client out of the room, passing host to the earliest
// remaining member.
func (room *Room) remove(client Client) bool {
	index := -1
	for i, c := range room.Clients {
		if c == client {
			index = i
			break
		}
	}
	if index == -1 {
		return false
	}
	room.Clients = append(room.Clients[:index], room.Clients[index+1:]...)

	player := &client.Data().Player
	switch player.Team {
	case Team1:
		room.Teams.Team1 = removeID(room.Teams.Team1, player.ID)
	case Team2:
		room.Teams.Team2 = removeID(room.Teams.Team2, player.ID)
	}

	if room.Host == client {
		player.Host = false
		room.Host = nil
		if len(room.Clients) > 0 {
			room.Host = room.Clients[0]
			room.Host.Data().Player.Host = true
		}
	}

	player.Room = nil
	player.Team = ""
	player.Ready = false
	return true
}

func removeID(ids []string, id string) []string {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// ready marks client ready if it has selected a character and a tank.
func (room *Room) ready(client Client) error {
	if room.State != RoomWaiting {
		return ErrNotWaiting
	}
	player := &client.Data().Player
	if !player.Selected() {
		return ErrNotReady
	}
	player.Ready = true
	return nil
}

// MinPlayers is the fewest members a game starts with.
const MinPlayers = 2

// AllReady is true when at least MinPlayers are present and every member is
// ready. The room need not be full.
func (room *Room) AllReady() bool {
	if len(room.Clients) < MinPlayers {
		return false
	}
	for _, c := range room.Clients {
		if p := &c.Data().Player; !p.Ready || !p.Selected() {
			return false
		}
	}
	return true
}

func (room *Room) selectMap(client Client, mapID arena.MapID) error {
	if room.Host != client {
		return ErrNotHost
	}
	if room.State != RoomWaiting {
		return ErrNotWaiting
	}
	if !mapID.Valid() {
		return ErrBadMap
	}
	room.Map = mapID
	return nil
}

// MapOrDefault is the selected map or the default one.
func (room *Room) MapOrDefault() arena.MapID {
	if room.Map == "" {
		return arena.DefaultMap
	}
	return room.Map
}

// Players copies the lobby state of every member.
func (room *Room) Players() []Player {
	players := make([]Player, len(room.Clients))
	for i, c := range room.Clients {
		players[i] = c.Data().Player
	}
	return players
}

func (room *Room) hostID() string {
	if room.Host == nil {
		return ""
	}
	return room.Host.Data().Player.ID
}

// start moves the room to playing and returns the shared game data.
func (room *Room) start(now time.Time) GameData {
	room.State = RoomPlaying
	room.Started = now

	mapID := room.MapOrDefault()
	spawns := arena.RelaySpawns(len(room.Clients), arena.RelayWidth, arena.RelayHeight)

	positions := make(map[string]SpawnPosition, len(room.Clients))
	for i, c := range room.Clients {
		player := &c.Data().Player
		position := spawns[i]

		spawn := SpawnPosition{
			X:         position.X,
			Y:         position.Y,
			TankType:  player.Tank,
			Character: player.Character,
		}
		if spawn.TankType == "" {
			spawn.TankType = DefaultTank
		}
		if spawn.Character == "" {
			spawn.Character = DefaultCharacter
		}
		positions[player.ID] = spawn
	}

	return GameData{
		StartTime:       now.UnixMilli(),
		RoundNumber:     1,
		Map:             mapID,
		Obstacles:       arena.GenerateLayout(mapID, arena.RelayWidth, arena.RelayHeight),
		PlayerPositions: positions,
		ArenaWidth:      arena.RelayWidth,
		ArenaHeight:     arena.RelayHeight,
	}
}

// Snapshot is the published state of a room.
type Snapshot struct {
	ID         string      `json:"id"`
	Mode       string      `json:"gameMode"`
	State      RoomState   `json:"state"`
	HostID     string      `json:"hostId"`
	Map        arena.MapID `json:"selectedMap,omitempty"`
	Players    []Player    `json:"players"`
	MaxPlayers int         `json:"maxPlayers"`
	Teams      *Teams      `json:"teams,omitempty"`
}

func (room *Room) Snapshot() Snapshot {
	snapshot := Snapshot{
		ID:         room.ID,
		Mode:       room.Mode.ID,
		State:      room.State,
		HostID:     room.hostID(),
		Map:        room.Map,
		Players:    room.Players(),
		MaxPlayers: room.Mode.MaxPlayers,
	}
	if room.Mode.TeamMode {
		teams := room.Teams.clone()
		snapshot.Teams = &teams
	}
	return snapshot
}
