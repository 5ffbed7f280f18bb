// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 5 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 8) / 10

	// If more than this many messages are queued for sending, the
	// socket is congested and messages may be dropped
	socketCongestionThreshold = 24

	// Position updates of 5 peers at ~7 per second is ~35 messages
	// per second, allow ~1 second to back up before close
	socketBufferSize = 48

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

func newUpgrader(origin string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return origin == "" || origin == "*" || r.Header.Get("Origin") == origin
		},
		HandshakeTimeout: time.Second,
		ReadBufferSize:   maxMessageSize,
		WriteBufferSize:  4096,
	}
}

// SocketClient is a middleman between the websocket connection and the hub.
type SocketClient struct {
	ClientData
	conn    *websocket.Conn
	logger  zerolog.Logger
	send    chan Outbound
	once    sync.Once
	counter int // counts up every send
}

// Create a SocketClient from a connection
func NewSocketClient(conn *websocket.Conn, logger zerolog.Logger) *SocketClient {
	return &SocketClient{
		conn:   conn,
		logger: logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
		send:   make(chan Outbound, socketBufferSize),
	}
}

func (client *SocketClient) Close() {
	close(client.send)
}

func (client *SocketClient) Data() *ClientData {
	return &client.ClientData
}

func (client *SocketClient) Destroy() {
	client.once.Do(func() {
		unregisterSoon(client.Hub, client)
		_ = client.conn.Close()
	})
}

func (client *SocketClient) Init() {
	go client.writePump()
	go client.readPump()
}

// Send drops position updates when congested, and destroys the client if
// it stops reading.
func (client *SocketClient) Send(message Outbound) {
	// How many messages there are in excess of a reasonable amount
	congestion := len(client.send) - socketCongestionThreshold

	// The closer the buffer is to being full, the more position
	// updates we drop on the floor (to give the socket a chance
	// to catch up). Newer ones supersede them anyway.
	if Supersedable(message) {
		client.counter++
		if congestion > 1 && client.counter%congestion != 0 {
			client.logger.Debug().Msg("dropping position due to congestion")
			return
		}
	}

	select {
	case client.send <- message:
	default:
		// Not responsive
		client.logger.Info().Str("player", client.Player.ID).Msg("socket is not responsive")
		client.Destroy()
	}
}

func (client *SocketClient) readPump() {
	defer client.Destroy()
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, r, err := client.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				client.logger.Info().Err(err).Msg("close error")
			}
			break
		}

		var message Message
		err = json.NewDecoder(r).Decode(&message)
		if err != nil {
			client.logger.Info().Err(err).Msg("unmarshal error")
			break
		}

		if unknown, ok := deliver(client, message); !ok {
			client.logger.Debug().Str("type", string(unknown)).Msg("invalid message type received")
		}
	}
}

func (client *SocketClient) writePump() {
	pingTicker := time.NewTicker(pingPeriod)

	defer func() {
		if err := recover(); err != nil {
			client.logger.Debug().Interface("err", err).Msg("send error")
		}
		pingTicker.Stop()
		client.Destroy()
	}()

	for {
		select {
		case out, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				panic("hub closed channel")
			}

			w, err := client.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				panic(err)
			}

			// Wrap with Message to marshal type
			if err = json.NewEncoder(w).Encode(Message{Data: out}); err != nil {
				panic(err)
			}

			if err = w.Close(); err != nil {
				panic(err)
			}
		case <-pingTicker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
