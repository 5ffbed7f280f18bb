// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"sync"
)

// ChannelClient is an in process client. Outbounds arrive on Outbounds,
// which is closed when the client is unregistered.
type ChannelClient struct {
	ClientData
	Outbounds chan Outbound
	hub       *Hub
	once      sync.Once
}

func NewChannelClient(hub *Hub, buffer int) *ChannelClient {
	return &ChannelClient{
		Outbounds: make(chan Outbound, buffer),
		hub:       hub,
	}
}

func (client *ChannelClient) Init() {}

func (client *ChannelClient) Close() {
	close(client.Outbounds)
}

func (client *ChannelClient) Data() *ClientData {
	return &client.ClientData
}

// Send destroys the client if Outbounds is full.
func (client *ChannelClient) Send(out Outbound) {
	select {
	case client.Outbounds <- out:
	default:
		client.Destroy()
	}
}

func (client *ChannelClient) Destroy() {
	client.once.Do(func() {
		unregisterSoon(client.hub, client)
	})
}

// Receive queues in as if the client sent it.
func (client *ChannelClient) Receive(in Inbound) {
	client.hub.ReceiveSigned(SignedInbound{Client: client, Inbound: in}, true)
}
