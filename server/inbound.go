// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/finnbear/moderation"
	jsoniter "github.com/json-iterator/go"
)

// Make sure to register in init function
type (
	// JoinGame puts the player in a waiting room of GameMode, creating one
	// if none has space.
	JoinGame struct {
		Name     string `json:"name"`
		GameMode string `json:"gameMode"`
	}

	// SelectCharacter picks the player's character in the lobby.
	SelectCharacter struct {
		CharacterID string `json:"characterId"`
		ID          string `json:"id"`
	}

	// SelectTank picks the player's tank in the lobby.
	SelectTank struct {
		TankID string `json:"tankId"`
		ID     string `json:"id"`
	}

	// SelectMap picks the room's map. Only the host may.
	SelectMap struct {
		MapID string `json:"mapId"`
		ID    string `json:"id"`
	}

	// PlayerReady marks the player ready once character and tank are picked.
	PlayerReady struct{}

	// PlayerAction is any game action, relayed to the other players.
	PlayerAction struct {
		Action jsoniter.RawMessage
	}

	// PlayerPosition is the sender's pose, relayed to the other players.
	PlayerPosition struct {
		X           float32     `json:"x"`
		Y           float32     `json:"y"`
		Angle       world.Angle `json:"angle"`
		TurretAngle world.Angle `json:"turretAngle"`
	}

	// PlayerShoot is a shot by the sender, relayed to the other players.
	PlayerShoot struct {
		X          float32     `json:"x"`
		Y          float32     `json:"y"`
		Angle      world.Angle `json:"angle"`
		BulletType uint8       `json:"bulletType"`
	}

	// PlayerDamage is damage the sender dealt, relayed to everyone.
	PlayerDamage struct {
		PlayerID  string  `json:"playerId"`
		Damage    float32 `json:"damage"`
		NewHealth float32 `json:"newHealth"`
	}

	// PlayerDeath is a kill by the sender, relayed to everyone.
	PlayerDeath struct {
		PlayerID string `json:"playerId"`
	}

	// InvalidInbound means invalid message type from client (possibly out of date).
	// NOTE: Do not register, otherwise client could send it
	InvalidInbound struct {
		messageType messageType
	}
)

func init() {
	registerInbound("join-game", JoinGame{})
	registerInbound("select-character", SelectCharacter{})
	registerInbound("select-tank", SelectTank{})
	registerInbound("select-map", SelectMap{})
	registerInbound("player-ready", PlayerReady{})
	registerInbound("player-action", PlayerAction{})
	registerInbound("player-position", PlayerPosition{})
	registerInbound("player-shoot", PlayerShoot{})
	registerInbound("player-damage", PlayerDamage{})
	registerInbound("player-death", PlayerDeath{})
}

var reservedNames = [...]string{
	"admin",
	"administrator",
	"console",
	"dev",
	"developer",
	"host",
	"mod",
	"moderator",
	"owner",
	"root",
	"server",
	"staff",
	"system",
}

func (data JoinGame) Process(h *Hub, client Client, player *Player) {
	if player.Room != nil {
		h.drop(player, "join-game", ErrInRoom)
		return
	}

	modeID := data.GameMode
	if modeID == "" {
		modeID = arena.RelayModes[0].ID
	}
	mode, err := arena.LookupRelayMode(modeID)
	if err != nil {
		h.drop(player, "join-game", err)
		return
	}

	player.Name = DefaultName
	if name, ok := sanitize(data.Name, true, PlayerNameLengthMin, PlayerNameLengthMax); ok && !reserved(name) {
		player.Name = name
	}

	room := h.findRoom(mode)
	if err := room.add(client); err != nil {
		// Rooms are found or created with space so this can't happen.
		panic(err.Error())
	}

	h.logger.Info().
		Str("player", player.ID).
		Str("name", player.Name).
		Str("room", room.ID).
		Str("mode", mode.ID).
		Msg("player joined")

	h.broadcastRoster(room)
}

func (data SelectCharacter) Process(h *Hub, _ Client, player *Player) {
	id, err := selection(player, data.CharacterID, data.ID)
	if err != nil {
		h.drop(player, "select-character", err)
		return
	}
	player.Character = id

	room := player.Room
	h.broadcast(room, &CharacterSelected{PlayerID: player.ID, CharacterID: id}, nil)
	h.broadcastRoster(room)
}

func (data SelectTank) Process(h *Hub, _ Client, player *Player) {
	id, err := selection(player, data.TankID, data.ID)
	if err != nil {
		h.drop(player, "select-tank", err)
		return
	}
	player.Tank = id

	room := player.Room
	h.broadcast(room, &TankSelected{PlayerID: player.ID, TankID: id}, nil)
	h.broadcastRoster(room)
}

func (data SelectMap) Process(h *Hub, client Client, player *Player) {
	room := player.Room
	if room == nil {
		h.drop(player, "select-map", ErrNoRoom)
		return
	}

	id := data.MapID
	if id == "" {
		id = data.ID
	}
	if err := room.selectMap(client, arena.MapID(id)); err != nil {
		h.drop(player, "select-map", err)
		return
	}

	h.broadcast(room, &MapSelected{MapID: room.Map, HostID: player.ID}, nil)
	h.publish(room)
}

func (data PlayerReady) Process(h *Hub, client Client, player *Player) {
	room := player.Room
	if room == nil {
		h.drop(player, "player-ready", ErrNoRoom)
		return
	}
	if err := room.ready(client); err != nil {
		h.drop(player, "player-ready", err)
		return
	}

	h.broadcast(room, &PlayerReadyUpdate{PlayerID: player.ID, Ready: true}, nil)
	if room.AllReady() {
		h.startGame(room)
	} else {
		h.publish(room)
	}
}

func (data PlayerAction) Process(h *Hub, client Client, player *Player) {
	if room := h.playing(player, "player-action"); room != nil {
		h.relay(room, "player-action", &ActionRelay{PlayerID: player.ID, Action: data.Action}, client)
	}
}

func (data PlayerPosition) Process(h *Hub, client Client, player *Player) {
	if room := h.playing(player, "player-position"); room != nil {
		h.relay(room, "player-position", &PositionRelay{
			PlayerID:    player.ID,
			X:           data.X,
			Y:           data.Y,
			Angle:       data.Angle,
			TurretAngle: data.TurretAngle,
			Timestamp:   h.timestamp(),
		}, client)
	}
}

func (data PlayerShoot) Process(h *Hub, client Client, player *Player) {
	if room := h.playing(player, "player-shoot"); room != nil {
		h.relay(room, "player-shoot", &ShotRelay{
			PlayerID:   player.ID,
			X:          data.X,
			Y:          data.Y,
			Angle:      data.Angle,
			BulletType: data.BulletType,
			Timestamp:  h.timestamp(),
		}, client)
	}
}

func (data PlayerDamage) Process(h *Hub, _ Client, player *Player) {
	if room := h.playing(player, "player-damage"); room != nil {
		h.relay(room, "player-damage", &DamageRelay{
			PlayerID:   data.PlayerID,
			Damage:     data.Damage,
			NewHealth:  data.NewHealth,
			AttackerID: player.ID,
			Timestamp:  h.timestamp(),
		}, nil)
	}
}

func (data PlayerDeath) Process(h *Hub, _ Client, player *Player) {
	if room := h.playing(player, "player-death"); room != nil {
		h.relay(room, "player-death", &DeathRelay{
			PlayerID:  data.PlayerID,
			KillerID:  player.ID,
			Timestamp: h.timestamp(),
		}, nil)
	}
}

func (data InvalidInbound) Process(_ *Hub, _ Client, _ *Player) {}

// selection validates a character or tank pick made in the lobby.
func selection(player *Player, id, fallback string) (string, error) {
	room := player.Room
	if room == nil {
		return "", ErrNoRoom
	}
	if room.State != RoomWaiting {
		return "", ErrNotWaiting
	}
	if id == "" {
		id = fallback
	}
	id, ok := sanitize(id, false, 1, selectionLengthMax)
	if !ok {
		return "", ErrBadSelection
	}
	return id, nil
}

func reserved(name string) bool {
	lower := strings.ToLower(name)
	for _, reservedName := range reservedNames {
		if lower == reservedName {
			return true
		}
	}
	return false
}

func trimUtf8(in string, low, high int) (str string, ok bool) {
	if !utf8.ValidString(in) {
		return "", false
	}

	// Remove spaces
	str = strings.TrimSpace(in)
	str = strings.TrimFunc(str, func(r rune) bool {
		// NOTE: The following characters are not detected by
		// unicode.IsSpace() but show up as blank

		// https://www.compart.com/en/unicode/U+2800
		// https://www.compart.com/en/unicode/U+200B
		return r == 0x2800 || r == 0x200B
	})

	// Too long but can resize down
	if len(str) > high {
		var builder strings.Builder
		for _, r := range str {
			if builder.Len()+utf8.RuneLen(r) > high {
				break
			}
			builder.WriteRune(r)
		}
		str = builder.String()
	}

	// Too short
	if len(str) < low {
		return "", false
	}
	ok = true
	return
}

func sanitize(text string, name bool, low, high int) (string, bool) {
	if name {
		// Remove these characters
		// Brackets are used in formatting
		// * is used for censoring
		const removals = "()[]{}*"
		for i := 0; i < len(removals); i++ {
			text = strings.ReplaceAll(text, removals[i:i+1], "")
		}
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, text)

	text, ok := trimUtf8(text, low, high)
	if !ok {
		return "", false
	}

	if name {
		// Censor name
		result := moderation.Scan(text)

		if result.Is(moderation.Inappropriate) {
			if result.Is(moderation.Inappropriate & moderation.Moderate) {
				return "", false
			}
			text, _ = moderation.Censor(text, moderation.Inappropriate)
		}
	}

	return text, true
}
