// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server relays lobby and game events between the players of a room.
// It keeps no game state besides the lobby.
package server

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/cloud"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const debugPeriod = 5 * time.Second

// Metrics receives relay measurements.
type Metrics interface {
	SetRelay(rooms, players int)
	Relayed(kind string, n int)
}

type HubOptions struct {
	Cloud Cloud
	// Store publishes room snapshots. Defaults to NopStore.
	Store RoomStore
	// Metrics is optional.
	Metrics Metrics
	Logger  zerolog.Logger
	// MaxClients sizes the hub's channels.
	MaxClients int
	// CloudPeriod defaults to cloud.UpdatePeriod.
	CloudPeriod time.Duration
	// Origin that sockets must come from. Empty or "*" allows any.
	Origin string
}

// Hub maintains the set of active clients and their rooms.
type Hub struct {
	clients ClientList
	rooms   []*Room // in creation order
	nextID  uint32

	cloud      Cloud
	store      RoomStore
	metrics    Metrics
	logger     zerolog.Logger
	statusJSON atomic.Value
	upgrader   websocket.Upgrader
	now        func() time.Time

	// Inbound channels
	inbound    chan SignedInbound
	register   chan Client
	unregister chan Client

	cloudPeriod time.Duration
}

func NewHub(options HubOptions) *Hub {
	if options.Cloud == nil {
		options.Cloud = Offline{}
	}
	if options.Store == nil {
		options.Store = NopStore{}
	}
	if options.CloudPeriod == 0 {
		options.CloudPeriod = cloud.UpdatePeriod
	}

	return &Hub{
		cloud:       options.Cloud,
		store:       options.Store,
		metrics:     options.Metrics,
		logger:      options.Logger,
		upgrader:    newUpgrader(options.Origin),
		now:         time.Now,
		inbound:     make(chan SignedInbound, 16+options.MaxClients*2),
		register:    make(chan Client, 8+options.MaxClients/16),
		unregister:  make(chan Client, 16+options.MaxClients/8),
		cloudPeriod: options.CloudPeriod,
	}
}

// Register adds a client. It may be called from any goroutine.
func (h *Hub) Register(client Client) {
	h.register <- client
}

// Unregister removes a client. It may be called from any goroutine.
func (h *Hub) Unregister(client Client) {
	h.unregister <- client
}

// ReceiveSigned queues an inbound. Unless blocking, it is dropped if the hub
// is behind.
func (h *Hub) ReceiveSigned(in SignedInbound, blocking bool) {
	if blocking {
		h.inbound <- in
		return
	}
	select {
	case h.inbound <- in:
	default:
		h.logger.Warn().Str("player", in.Client.Data().Player.ID).Msg("hub congested, dropping inbound")
	}
}

// Run processes clients until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	cloudTicker := time.NewTicker(h.cloudPeriod)
	defer cloudTicker.Stop()
	debugTicker := time.NewTicker(debugPeriod)
	defer debugTicker.Stop()

	h.Cloud()

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients.All() {
				h.remove(client)
			}
			h.logger.Info().Msg("hub stopped")
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case in := <-h.inbound:
			// Read all messages currently in the channel
			n := len(h.inbound)

			for {
				h.process(in)

				if n--; n < 0 {
					break
				}

				in = <-h.inbound
			}
		case <-cloudTicker.C:
			h.Cloud()
		case <-debugTicker.C:
			h.Debug()
		}
	}
}

func (h *Hub) add(client Client) {
	h.nextID++
	data := client.Data()
	data.Player = Player{ID: playerID(h.nextID)}
	data.Hub = h
	h.clients.Add(client)
	client.Init()
	client.Send(&Connected{PlayerID: data.Player.ID})

	h.logger.Debug().Str("player", data.Player.ID).Int("clients", h.clients.Len).Msg("client registered")
}

func (h *Hub) remove(client Client) {
	data := client.Data()
	// Unregistered twice
	if data.Hub != h {
		return
	}
	client.Close()

	player := &data.Player
	if room := player.Room; room != nil {
		room.remove(client)

		h.logger.Info().Str("player", player.ID).Str("room", room.ID).Int("remaining", len(room.Clients)).Msg("player left")

		if room.Empty() {
			h.deleteRoom(room)
		} else {
			h.broadcast(room, &PlayerLeft{PlayerID: player.ID, RemainingPlayers: room.Players()}, nil)
			h.publish(room)
		}
	}

	data.Hub = nil
	h.clients.Remove(client)
}

func (h *Hub) process(in SignedInbound) {
	// If not same hub the message is old
	data := in.Client.Data()
	if h == data.Hub {
		in.Process(h, in.Client, &data.Player)
	}
}

// findRoom returns the oldest joinable room of mode, creating one if there
// is none.
func (h *Hub) findRoom(mode arena.RelayMode) *Room {
	for _, room := range h.rooms {
		if room.Joinable(mode.ID) {
			return room
		}
	}

	var id string
	for ms := h.now().UnixMilli(); ; ms++ {
		id = "room_" + strconv.FormatInt(ms, 10)
		if h.Room(id) == nil {
			break
		}
	}

	room := newRoom(id, mode)
	h.rooms = append(h.rooms, room)
	h.logger.Info().Str("room", id).Str("mode", mode.ID).Msg("room created")
	return room
}

// Room returns the room with id, if any. Only call on the hub goroutine.
func (h *Hub) Room(id string) *Room {
	for _, room := range h.rooms {
		if room.ID == id {
			return room
		}
	}
	return nil
}

func (h *Hub) deleteRoom(room *Room) {
	for i := range h.rooms {
		if h.rooms[i] == room {
			h.rooms = append(h.rooms[:i], h.rooms[i+1:]...)
			break
		}
	}
	h.logger.Info().Str("room", room.ID).Msg("room deleted")
	if err := h.store.Delete(room.ID); err != nil {
		h.logger.Warn().Err(err).Str("room", room.ID).Msg("deleting room snapshot")
	}
}

func (h *Hub) startGame(room *Room) {
	gameData := room.start(h.now())
	h.broadcast(room, &GameStart{Players: room.Players(), GameData: gameData}, nil)
	h.publish(room)

	h.logger.Info().
		Str("room", room.ID).
		Str("map", string(gameData.Map)).
		Int("players", len(room.Clients)).
		Int("obstacles", len(gameData.Obstacles)).
		Msg("game started")
}

// broadcast sends out to every member of room but except.
func (h *Hub) broadcast(room *Room, out Outbound, except Client) (n int) {
	for _, client := range room.Clients {
		if client != except {
			client.Send(out)
			n++
		}
	}
	return
}

func (h *Hub) broadcastRoster(room *Room) {
	h.broadcast(room, rosterOf(room), nil)
	h.publish(room)
}

// relay forwards a game event of a playing room.
func (h *Hub) relay(room *Room, kind string, out Outbound, except Client) {
	n := h.broadcast(room, out, except)
	if h.metrics != nil {
		h.metrics.Relayed(kind, n)
	}
}

// playing returns the player's room if it is playing.
func (h *Hub) playing(player *Player, kind string) *Room {
	room := player.Room
	if room == nil {
		h.drop(player, kind, ErrNoRoom)
		return nil
	}
	if room.State != RoomPlaying {
		h.drop(player, kind, ErrNotPlaying)
		return nil
	}
	return room
}

// drop logs a rejected inbound. The client is not told.
func (h *Hub) drop(player *Player, kind string, err error) {
	h.logger.Debug().Err(err).Str("player", player.ID).Str("type", kind).Msg("inbound dropped")
}

func (h *Hub) publish(room *Room) {
	if err := h.store.Put(room.Snapshot()); err != nil {
		h.logger.Warn().Err(err).Str("room", room.ID).Msg("publishing room snapshot")
	}
}

func (h *Hub) timestamp() int64 {
	return h.now().UnixMilli()
}
