// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SoftbearStudios/tankarena/server"
	"github.com/SoftbearStudios/tankarena/server/sim"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errLobbyClosed = errors.New("relay closed before the game started")

// envelope is the relay's message format.
type envelope struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data,omitempty"`
}

// relayClient plays a networked game through a relay server.
type relayClient struct {
	conn     *websocket.Conn
	logger   zerolog.Logger
	mu       sync.Mutex // guards writes
	playerID string
	// do runs f on the simulation goroutine.
	do func(f func(*sim.Context))
}

func dialRelay(ctx context.Context, url string, logger zerolog.Logger) (*relayClient, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing relay %s: %w", url, err)
	}
	return &relayClient{conn: conn, logger: logger}, nil
}

func (r *relayClient) Close() {
	r.mu.Lock()
	_ = r.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	r.mu.Unlock()
	_ = r.conn.Close()
}

func (r *relayClient) write(typ string, data interface{}) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	buf, err = json.Marshal(envelope{Type: typ, Data: buf})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return r.conn.WriteMessage(websocket.TextMessage, buf)
}

func (r *relayClient) read() (envelope, error) {
	var e envelope
	_, buf, err := r.conn.ReadMessage()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(buf, &e)
	return e, err
}

// lobby joins a room of gameMode, selects opts.PlayerType and waits for the
// game to start. opts is then set up for the started game.
func (r *relayClient) lobby(ctx context.Context, opts *sim.Options, gameMode string) error {
	stop := context.AfterFunc(ctx, func() {
		_ = r.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := r.write("join-game", server.JoinGame{Name: opts.PlayerName, GameMode: gameMode}); err != nil {
		return err
	}

	selected := false
	for {
		e, err := r.read()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %w", errLobbyClosed, err)
		}

		switch e.Type {
		case "connected":
			var connected server.Connected
			if err := json.Unmarshal(e.Data, &connected); err != nil {
				return err
			}
			r.playerID = connected.PlayerID
		case "player-joined":
			var roster server.PlayerJoined
			if err := json.Unmarshal(e.Data, &roster); err != nil {
				return err
			}
			r.logger.Info().Str("room", roster.RoomID).Int("players", roster.PlayersCount).Int("max", roster.MaxPlayers).Msg("waiting for players")
			if !selected {
				if err := r.write("select-character", server.SelectCharacter{CharacterID: server.DefaultCharacter}); err != nil {
					return err
				}
				if err := r.write("select-tank", server.SelectTank{TankID: opts.PlayerType.String()}); err != nil {
					return err
				}
				selected = true
			}
		case "tank-selected":
			var update server.TankSelected
			if err := json.Unmarshal(e.Data, &update); err != nil {
				return err
			}
			if update.PlayerID == r.playerID {
				if err := r.write("player-ready", server.PlayerReady{}); err != nil {
					return err
				}
			}
		case "game-start":
			var start server.GameStart
			if err := json.Unmarshal(e.Data, &start); err != nil {
				return err
			}
			return r.setup(opts, &start)
		}
	}
}

// setup points opts at the started game.
func (r *relayClient) setup(opts *sim.Options, start *server.GameStart) error {
	self, ok := start.GameData.PlayerPositions[r.playerID]
	if !ok {
		return fmt.Errorf("no spawn for player %s", r.playerID)
	}

	teams := make(map[string]string, len(start.Players))
	names := make(map[string]string, len(start.Players))
	for _, player := range start.Players {
		teams[player.ID] = player.Team
		names[player.ID] = player.Name
	}

	opts.Map = start.GameData.Map
	opts.Spawn = world.Vec2f{X: self.X, Y: self.Y}
	opts.Peers = opts.Peers[:0]
	for id, spawn := range start.GameData.PlayerPositions {
		if id == r.playerID {
			continue
		}
		typ, err := tank.ParseType(spawn.TankType)
		if err != nil {
			r.logger.Warn().Err(err).Str("peer", id).Msg("unknown peer tank")
		}
		opts.Peers = append(opts.Peers, sim.Peer{
			ID:       id,
			Name:     names[id],
			Type:     typ,
			Ally:     teams[id] != "" && teams[id] == teams[r.playerID],
			Position: world.Vec2f{X: spawn.X, Y: spawn.Y},
		})
	}

	r.logger.Info().Str("map", string(opts.Map)).Int("peers", len(opts.Peers)).Msg("game started")
	return nil
}

// attach publishes the player's pose, shots, hits and death.
func (r *relayClient) attach(loop *sim.Loop) {
	r.do = loop.Do
	loop.Sync = func(u sim.PositionUpdate) {
		if err := r.write("player-position", server.PlayerPosition{X: u.X, Y: u.Y, Angle: u.Angle, TurretAngle: u.TurretAngle}); err != nil {
			r.logger.Warn().Err(err).Msg("sending position")
		}
	}
	loop.Shoot = func(u sim.ShotUpdate) {
		if err := r.write("player-shoot", server.PlayerShoot{X: u.X, Y: u.Y, Angle: u.Angle, BulletType: uint8(u.Kind)}); err != nil {
			r.logger.Warn().Err(err).Msg("sending shot")
		}
	}
	loop.Hurt = func(u sim.HealthUpdate) {
		if err := r.write("player-damage", server.PlayerDamage{PlayerID: r.playerID, Damage: u.Damage, NewHealth: u.Health}); err != nil {
			r.logger.Warn().Err(err).Msg("sending damage")
		}
	}
	loop.Die = func() {
		if err := r.write("player-death", server.PlayerDeath{PlayerID: r.playerID}); err != nil {
			r.logger.Warn().Err(err).Msg("sending death")
		}
	}
}

// readPump applies what peers send until the connection closes.
func (r *relayClient) readPump(ctx context.Context) {
	for {
		e, err := r.read()
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Warn().Err(err).Msg("relay closed")
			}
			return
		}
		r.handle(e)
	}
}

// handle applies one relayed message to the puppet it names. Messages about
// unknown peers, or echoes of our own, are dropped.
func (r *relayClient) handle(e envelope) {
	switch e.Type {
	case "player-position":
		var relay server.PositionRelay
		if err := json.Unmarshal(e.Data, &relay); err != nil {
			r.logger.Warn().Err(err).Msg("bad position")
			return
		}
		update := sim.PositionUpdate{X: relay.X, Y: relay.Y, Angle: relay.Angle, TurretAngle: relay.TurretAngle}
		r.do(func(c *sim.Context) {
			c.ApplySnapshot(relay.PlayerID, update)
		})
	case "player-shoot":
		var relay server.ShotRelay
		if err := json.Unmarshal(e.Data, &relay); err != nil {
			r.logger.Warn().Err(err).Msg("bad shot")
			return
		}
		shot := sim.ShotUpdate{X: relay.X, Y: relay.Y, Angle: relay.Angle, Kind: tank.AmmoKind(relay.BulletType)}
		r.do(func(c *sim.Context) {
			c.RemoteShot(relay.PlayerID, shot)
		})
	case "player-damage":
		var relay server.DamageRelay
		if err := json.Unmarshal(e.Data, &relay); err != nil {
			r.logger.Warn().Err(err).Msg("bad damage")
			return
		}
		if relay.AttackerID == r.playerID {
			return
		}
		r.do(func(c *sim.Context) {
			if !c.RemoteDamage(relay.PlayerID, relay.NewHealth) {
				r.logger.Debug().Str("peer", relay.PlayerID).Msg("damage dropped")
			}
		})
	case "player-death":
		var relay server.DeathRelay
		if err := json.Unmarshal(e.Data, &relay); err != nil {
			r.logger.Warn().Err(err).Msg("bad death")
			return
		}
		if relay.KillerID == r.playerID {
			return
		}
		r.do(func(c *sim.Context) {
			if c.RemoteDeath(relay.PlayerID) {
				r.logger.Info().Str("peer", relay.PlayerID).Msg("peer destroyed")
			}
		})
	case "player-left":
		var left server.PlayerLeft
		if err := json.Unmarshal(e.Data, &left); err == nil {
			r.logger.Info().Str("peer", left.PlayerID).Int("remaining", len(left.RemainingPlayers)).Msg("peer left")
		}
	}
}
