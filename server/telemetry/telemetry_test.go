// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"testing"
	"time"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/sim"
	"github.com/SoftbearStudios/tankarena/server/tank"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	_ sim.Observer = (*Metrics)(nil)
	_ sim.Observer = (*Influx)(nil)
)

func TestMetrics(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	metrics.ObserveTick(time.Millisecond, false)
	metrics.ObserveTick(0, true)
	metrics.ObserveRound(tank.SideFriendly, 1)
	metrics.ObserveDebug(nil, ai.PlannerStats{Plans: 4, Failures: 1}, 12, 3)
	metrics.SetRelay(2, 5)
	metrics.Relayed("player-position", 3)

	assert.Equal(t, int64(12), metrics.tanks.Load())
	assert.Equal(t, int64(3), metrics.projectiles.Load())
	assert.Equal(t, int64(4), metrics.plans.Load())
	assert.Equal(t, int64(1), metrics.failures.Load())
	assert.Equal(t, int64(2), metrics.rooms.Load())
	assert.Equal(t, int64(5), metrics.players.Load())
}

type points []*influxdb2_write.Point

func (p *points) WritePoint(point *influxdb2_write.Point) {
	*p = append(*p, point)
}

func fields(point *influxdb2_write.Point) map[string]interface{} {
	m := make(map[string]interface{})
	for _, f := range point.FieldList() {
		m[f.Key] = f.Value
	}
	return m
}

func tags(point *influxdb2_write.Point) map[string]string {
	m := make(map[string]string)
	for _, tag := range point.TagList() {
		m[tag.Key] = tag.Value
	}
	return m
}

func TestInfluxAggregatesTicks(t *testing.T) {
	var written points
	influx := NewInflux(&written, map[string]string{"server": "local"})

	influx.ObserveTick(2*time.Millisecond, false)
	influx.ObserveTick(4*time.Millisecond, false)
	influx.ObserveTick(0, true)
	influx.ObserveDebug(map[string]time.Duration{"ai": time.Millisecond}, ai.PlannerStats{Plans: 2}, 4, 1)

	require.Len(t, written, 1)
	point := written[0]
	assert.Equal(t, "tick", point.Name())
	assert.Equal(t, map[string]string{"server": "local"}, tags(point))

	f := fields(point)
	assert.EqualValues(t, 2, f["ticks"])
	assert.EqualValues(t, 1, f["skipped"])
	assert.EqualValues(t, 3.0, f["mean_ms"])
	assert.EqualValues(t, 4.0, f["slowest_ms"])
	assert.EqualValues(t, 1.0, f["ai_ms"])
	assert.EqualValues(t, 4, f["tanks"])

	// Counters reset after each point.
	influx.ObserveDebug(nil, ai.PlannerStats{}, 0, 0)
	require.Len(t, written, 2)
	f = fields(written[1])
	assert.EqualValues(t, 0, f["ticks"])
	assert.NotContains(t, f, "mean_ms")
}

func TestInfluxRound(t *testing.T) {
	var written points
	influx := NewInflux(&written, map[string]string{"server": "local"})
	influx.ObserveRound(tank.SideHostile, 2)

	require.Len(t, written, 1)
	assert.Equal(t, "round", written[0].Name())
	assert.Equal(t, map[string]string{"server": "local", "winner": tank.SideHostile.String()}, tags(written[0]))
	assert.EqualValues(t, 2, fields(written[0])["round"])
}

func TestObserversFanOut(t *testing.T) {
	var a, b points
	observers := sim.Observers{NewInflux(&a, nil), NewInflux(&b, nil)}
	observers.ObserveRound(tank.SideFriendly, 1)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}
