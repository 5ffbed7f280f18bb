// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"

	"github.com/SoftbearStudios/tankarena/server/arena"
)

// modesJSON doesn't change.
var modesJSON = func() []byte {
	buf, err := json.Marshal(struct {
		GameModes []arena.RelayMode `json:"gameModes"`
	}{arena.RelayModes})
	if err != nil {
		panic(err.Error())
	}
	return buf
}()

func (h *Hub) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	buf, ok := h.statusJSON.Load().([]byte)
	if ok {
		_, _ = w.Write(buf)
	}
}

func (h *Hub) ServeModes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(modesJSON)
}

func (h *Hub) ServeSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("upgrade error")
		return
	}

	h.register <- NewSocketClient(conn, h.logger)
}

// Handler routes the relay's endpoints.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.ServeIndex)
	mux.HandleFunc("/api/game-modes", h.ServeModes)
	mux.HandleFunc("/ws", h.ServeSocket)
	return mux
}
