// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry reports simulation and relay measurements to
// OpenTelemetry and InfluxDB.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/SoftbearStudios/tankarena/server/telemetry"

// Meter is the global meter, a no-op unless a provider is installed.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics records loop and relay measurements as OpenTelemetry instruments.
// Gauges report the values of the last ObserveDebug and SetRelay calls.
type Metrics struct {
	ticks    metric.Int64Counter
	skipped  metric.Int64Counter
	tickTime metric.Float64Histogram
	rounds   metric.Int64Counter

	tanks        atomic.Int64
	projectiles  atomic.Int64
	plans        atomic.Int64
	failures     atomic.Int64
	rooms        atomic.Int64
	players      atomic.Int64
	relayed      metric.Int64Counter
	entityGauge  metric.Int64ObservableGauge
	plannerGauge metric.Int64ObservableGauge
	relayGauge   metric.Int64ObservableGauge
}

func NewMetrics(m metric.Meter) (*Metrics, error) {
	metrics := &Metrics{}
	var err error

	if metrics.ticks, err = m.Int64Counter("sim.ticks", metric.WithDescription("Ticks simulated")); err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}
	if metrics.skipped, err = m.Int64Counter("sim.ticks.skipped", metric.WithDescription("Ticks skipped for falling behind")); err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}
	if metrics.tickTime, err = m.Float64Histogram("sim.tick.duration", metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}
	if metrics.rounds, err = m.Int64Counter("sim.rounds", metric.WithDescription("Rounds finished")); err != nil {
		return nil, fmt.Errorf("creating rounds counter: %w", err)
	}
	if metrics.relayed, err = m.Int64Counter("relay.messages", metric.WithDescription("Messages relayed to peers")); err != nil {
		return nil, fmt.Errorf("creating relay counter: %w", err)
	}

	if metrics.entityGauge, err = m.Int64ObservableGauge("sim.entities"); err != nil {
		return nil, fmt.Errorf("creating entity gauge: %w", err)
	}
	if metrics.plannerGauge, err = m.Int64ObservableGauge("sim.planner"); err != nil {
		return nil, fmt.Errorf("creating planner gauge: %w", err)
	}
	if metrics.relayGauge, err = m.Int64ObservableGauge("relay.load"); err != nil {
		return nil, fmt.Errorf("creating relay gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(metrics.entityGauge, metrics.tanks.Load(), metric.WithAttributes(attribute.String("kind", "tank")))
			o.ObserveInt64(metrics.entityGauge, metrics.projectiles.Load(), metric.WithAttributes(attribute.String("kind", "projectile")))
			o.ObserveInt64(metrics.plannerGauge, metrics.plans.Load(), metric.WithAttributes(attribute.String("counter", "plans")))
			o.ObserveInt64(metrics.plannerGauge, metrics.failures.Load(), metric.WithAttributes(attribute.String("counter", "failures")))
			o.ObserveInt64(metrics.relayGauge, metrics.rooms.Load(), metric.WithAttributes(attribute.String("kind", "rooms")))
			o.ObserveInt64(metrics.relayGauge, metrics.players.Load(), metric.WithAttributes(attribute.String("kind", "players")))
			return nil
		},
		metrics.entityGauge, metrics.plannerGauge, metrics.relayGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering gauge callback: %w", err)
	}

	return metrics, nil
}

func (metrics *Metrics) ObserveTick(duration time.Duration, skipped bool) {
	ctx := context.Background()
	if skipped {
		metrics.skipped.Add(ctx, 1)
		return
	}
	metrics.ticks.Add(ctx, 1)
	metrics.tickTime.Record(ctx, float64(duration)/float64(time.Millisecond))
}

func (metrics *Metrics) ObserveRound(winner tank.Side, round int) {
	metrics.rounds.Add(context.Background(), 1, metric.WithAttributes(attribute.String("winner", winner.String())))
}

func (metrics *Metrics) ObserveDebug(_ map[string]time.Duration, planner ai.PlannerStats, tanks, projectiles int) {
	metrics.tanks.Store(int64(tanks))
	metrics.projectiles.Store(int64(projectiles))
	metrics.plans.Store(int64(planner.Plans))
	metrics.failures.Store(int64(planner.Failures))
}

// SetRelay updates the relay load gauge.
func (metrics *Metrics) SetRelay(rooms, players int) {
	metrics.rooms.Store(int64(rooms))
	metrics.players.Store(int64(players))
}

// Relayed counts n messages of kind relayed to peers.
func (metrics *Metrics) Relayed(kind string, n int) {
	metrics.relayed.Add(context.Background(), int64(n), metric.WithAttributes(attribute.String("type", kind)))
}
