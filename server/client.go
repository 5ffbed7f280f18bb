// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"iter"
)

type (
	// Client is one relay connection as the hub sees it. Init, Close and Send
	// are only called on the hub goroutine.
	Client interface {
		// Init starts the client. Its Player id and Hub are already set.
		Init()

		// Close releases the client after the hub took it out of its room.
		Close()

		// Send queues an outbound without blocking. A client that can't keep
		// up may drop outbounds Supersedable reports, or destroy itself.
		Send(out Outbound)

		// Destroy asks the hub to unregister the client. Only the first call
		// counts, and it may be made from any goroutine.
		Destroy()

		Data() *ClientData
	}

	// ClientData is the hub's bookkeeping for a client.
	ClientData struct {
		Player Player
		Hub    *Hub

		// Links of the hub's ClientList.
		previous Client
		next     Client
	}

	// ClientList holds registered clients in registration order.
	ClientList struct {
		first Client
		last  Client
		Len   int
	}
)

// Supersedable is true of outbounds that the next one of the same kind
// replaces, so a congested client may skip them.
func Supersedable(out Outbound) bool {
	_, position := out.(*PositionRelay)
	return position
}

// deliver hands an envelope read by client to the hub. Envelopes of unknown
// type are dropped, returning the type.
func deliver(client Client, message Message) (unknown messageType, ok bool) {
	if invalid, isInvalid := message.Data.(InvalidInbound); isInvalid {
		return invalid.messageType, false
	}
	client.Data().Hub.ReceiveSigned(SignedInbound{Client: client, Inbound: message.Data.(Inbound)}, true)
	return "", true
}

// unregisterSoon queues client for removal. It doesn't block, since it may
// run on the hub goroutine.
func unregisterSoon(hub *Hub, client Client) {
	select {
	case hub.unregister <- client:
	default:
		go func() {
			hub.unregister <- client
		}()
	}
}

// Add appends a client that isn't in any list.
func (list *ClientList) Add(client Client) {
	data := client.Data()
	if data.previous != nil || data.next != nil || list.first == client {
		panic("client already listed")
	}

	if list.first == nil {
		list.first = client
	} else {
		list.last.Data().next = client
		data.previous = list.last
	}
	list.last = client
	list.Len++
}

// Remove unlinks client and returns the client after it.
func (list *ClientList) Remove(client Client) (next Client) {
	data := client.Data()

	switch {
	case data.previous != nil:
		data.previous.Data().next = data.next
	case list.first == client:
		list.first = data.next
	default:
		panic("client not listed")
	}

	if data.next != nil {
		data.next.Data().previous = data.previous
	} else {
		list.last = data.previous
	}

	list.Len--
	next = data.next
	data.next = nil
	data.previous = nil
	return
}

// All yields each client. The yielded client may be removed during the loop.
func (list *ClientList) All() iter.Seq[Client] {
	return func(yield func(Client) bool) {
		for client := list.first; client != nil; {
			next := client.Data().next
			if !yield(client) {
				return
			}
			client = next
		}
	}
}
