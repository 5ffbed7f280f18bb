// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

const (
	kvQueueSize = 256
	kvTimeout   = 2 * time.Second
	// Snapshots of rooms that stopped updating expire.
	kvTTL = time.Hour
)

var ErrStoreCongested = errors.New("room store congested")

// RoomStore publishes room snapshots so other processes can watch lobbies.
// Methods are called on the hub goroutine and must not block.
type RoomStore interface {
	Put(snapshot Snapshot) error
	Delete(roomID string) error
}

// NopStore publishes nothing.
type NopStore struct{}

func (NopStore) Put(Snapshot) error  { return nil }
func (NopStore) Delete(string) error { return nil }

type kvOp struct {
	key    string
	value  []byte
	delete bool
}

// KVStore writes snapshots to a JetStream key value bucket, keyed by room id,
// from its own goroutine.
type KVStore struct {
	kv     jetstream.KeyValue
	logger zerolog.Logger
	ops    chan kvOp
	done   chan struct{}
}

// ConnectKV connects to NATS and creates or updates bucket. closeKV
// flushes pending writes and disconnects.
func ConnectKV(ctx context.Context, url, bucket string, logger zerolog.Logger) (store *KVStore, closeKV func(), err error) {
	nc, err := nats.Connect(url, nats.Name("tankarena-relay"))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Relay rooms",
		History:     1,
		TTL:         kvTTL,
	})
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}

	store = NewKVStore(kv, logger)
	closeKV = func() {
		store.Close()
		if err := nc.Drain(); err != nil {
			logger.Warn().Err(err).Msg("draining nats connection")
		}
	}
	return store, closeKV, nil
}

func NewKVStore(kv jetstream.KeyValue, logger zerolog.Logger) *KVStore {
	store := &KVStore{
		kv:     kv,
		logger: logger,
		ops:    make(chan kvOp, kvQueueSize),
		done:   make(chan struct{}),
	}
	go store.run()
	return store
}

func (store *KVStore) Put(snapshot Snapshot) error {
	value, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling room %s: %w", snapshot.ID, err)
	}
	return store.enqueue(kvOp{key: snapshot.ID, value: value})
}

func (store *KVStore) Delete(roomID string) error {
	return store.enqueue(kvOp{key: roomID, delete: true})
}

func (store *KVStore) enqueue(op kvOp) error {
	select {
	case store.ops <- op:
		return nil
	default:
		return ErrStoreCongested
	}
}

func (store *KVStore) run() {
	defer close(store.done)
	for op := range store.ops {
		ctx, cancel := context.WithTimeout(context.Background(), kvTimeout)
		var err error
		if op.delete {
			err = store.kv.Delete(ctx, op.key)
		} else {
			_, err = store.kv.Put(ctx, op.key, op.value)
		}
		cancel()

		if err != nil {
			store.logger.Warn().Err(err).Str("room", op.key).Bool("delete", op.delete).Msg("writing room snapshot")
		}
	}
}

// Close writes pending snapshots and stops. Put and Delete must not be
// called afterwards.
func (store *KVStore) Close() {
	close(store.ops)
	<-store.done
}
