// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"time"
)

// funcBench is a benchmark of a core function.
type funcBench struct {
	name     string
	duration time.Duration
	runs     int
}

// reset resets the benchmark and returns the average duration
func (bench *funcBench) reset() time.Duration {
	if bench.runs == 0 {
		return 0
	}
	average := bench.duration / time.Duration(bench.runs)
	bench.duration = 0
	bench.runs = 0
	return average
}

// timeFunction times a function.
// defer timeFunction("name", time.Now())
func (c *Context) timeFunction(name string, start time.Time) {
	end := time.Now()

	var bench *funcBench
	for i := range c.benches {
		b := &c.benches[i]
		if name == b.name {
			bench = b
			break
		}
	}

	if bench == nil {
		c.benches = append(c.benches, funcBench{name: name})
		bench = &c.benches[len(c.benches)-1]
	}

	bench.duration += end.Sub(start)
	bench.runs++
}

// Benchmarks returns the average duration of each timed phase since the last
// call and resets them.
func (c *Context) Benchmarks() map[string]time.Duration {
	averages := make(map[string]time.Duration, len(c.benches))
	for i := range c.benches {
		averages[c.benches[i].name] = c.benches[i].reset()
	}
	return averages
}
