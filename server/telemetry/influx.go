// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/tank"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

// PointWriter is the part of the influx write API used here.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point)
}

// Influx writes tick performance to InfluxDB. Ticks are aggregated and
// written as one point per ObserveDebug.
type Influx struct {
	writer PointWriter
	tags   map[string]string

	mu      sync.Mutex
	ticks   int
	skipped int
	total   time.Duration
	slowest time.Duration
}

func NewInflux(writer PointWriter, tags map[string]string) *Influx {
	return &Influx{writer: writer, tags: tags}
}

// ConnectInflux pings the server and returns an Influx writing to bucket.
// close flushes pending points.
func ConnectInflux(url, token, org, bucket string, tags map[string]string, logger zerolog.Logger) (*Influx, func(), error) {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	running, err := client.Ping(ctx)
	if err == nil && !running {
		err = errors.New("not running")
	}
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("pinging influx: %w", err)
	}

	writeAPI := client.WriteAPI(org, bucket)
	go func() {
		for writeErr := range writeAPI.Errors() {
			logger.Error().Err(writeErr).Str("bucket", bucket).Msg("error sending data to influx")
		}
	}()

	closeInflux := func() {
		writeAPI.Flush()
		client.Close()
	}
	return NewInflux(writeAPI, tags), closeInflux, nil
}

func (influx *Influx) ObserveTick(duration time.Duration, skipped bool) {
	influx.mu.Lock()
	defer influx.mu.Unlock()
	if skipped {
		influx.skipped++
		return
	}
	influx.ticks++
	influx.total += duration
	influx.slowest = max(influx.slowest, duration)
}

func (influx *Influx) ObserveRound(winner tank.Side, round int) {
	influx.writer.WritePoint(influxdb2.NewPoint(
		"round",
		influx.tagsWith("winner", winner.String()),
		map[string]interface{}{"round": round},
		time.Now(),
	))
}

func (influx *Influx) ObserveDebug(benches map[string]time.Duration, planner ai.PlannerStats, tanks, projectiles int) {
	influx.mu.Lock()
	fields := map[string]interface{}{
		"ticks":       influx.ticks,
		"skipped":     influx.skipped,
		"slowest_ms":  milliseconds(influx.slowest),
		"tanks":       tanks,
		"projectiles": projectiles,
		"plans":       planner.Plans,
		"failures":    planner.Failures,
		"timeouts":    planner.Timeouts,
	}
	if influx.ticks > 0 {
		fields["mean_ms"] = milliseconds(influx.total / time.Duration(influx.ticks))
	}
	influx.ticks, influx.skipped, influx.total, influx.slowest = 0, 0, 0, 0
	influx.mu.Unlock()

	for name, d := range benches {
		fields[name+"_ms"] = milliseconds(d)
	}
	influx.writer.WritePoint(influxdb2.NewPoint("tick", influx.tagsWith(), fields, time.Now()))
}

func (influx *Influx) tagsWith(keyValues ...string) map[string]string {
	tags := make(map[string]string, len(influx.tags)+len(keyValues)/2)
	for k, v := range influx.tags {
		tags[k] = v
	}
	for i := 0; i+1 < len(keyValues); i += 2 {
		tags[keyValues[i]] = keyValues[i+1]
	}
	return tags
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
