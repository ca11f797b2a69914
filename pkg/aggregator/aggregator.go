/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package aggregator maintains per-unit statistics over fixed windows.
// Every event updates the open aggregate of its unit in place and a value copy of the
// updated state is emitted immediately, so downstream sees a refining estimate per
// (unit, window start). An Aggregator is owned by one partition worker and is not safe
// for concurrent use.
package aggregator

import (
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
	"github.com/numaproj/reactorwatch/pkg/window"
	"github.com/numaproj/reactorwatch/pkg/window/fixed"
)

// Result is the outcome of aggregating one event.
type Result struct {
	// Snapshot is only valid when Operation is not window.Drop.
	Snapshot  Snapshot
	Operation window.Operation
	Window    window.IntervalWindow
	// Closed is the window of the unit retired by this event, if any.
	Closed *window.IntervalWindow
}

// Emitted returns true if a snapshot was produced.
func (r Result) Emitted() bool {
	return r.Operation != window.Drop
}

// Aggregator holds the open aggregate of every unit seen by a worker.
type Aggregator struct {
	windows    *fixed.Fixed
	aggregates map[string]*WindowAggregate
	// streamTime is the largest event time aggregated so far, late records included.
	streamTime int64
	seen       bool
	log        *zap.SugaredLogger
}

type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *Aggregator) {
		a.log = l
	}
}

// WithWindowLength overrides the window length. Only used by tests.
func WithWindowLength(d time.Duration) Option {
	return func(a *Aggregator) {
		a.windows = fixed.NewFixed(d)
	}
}

// NewAggregator returns an Aggregator using fixed windows of window.DefaultLength.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		windows:    fixed.NewFixed(window.DefaultLength),
		aggregates: make(map[string]*WindowAggregate),
	}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = logging.NewLogger()
	}
	return a
}

// Aggregate applies the event to the aggregate of its unit and window.
func (a *Aggregator) Aggregate(e telemetry.EnrichedEvent) Result {
	key := e.Key()
	ts := e.Telemetry.Timestamp
	if !a.seen || ts > a.streamTime {
		a.streamTime = ts
		a.seen = true
	}
	adm := a.windows.Admit(key, ts)
	res := Result{Operation: adm.Operation, Window: adm.Window, Closed: adm.Closed}

	if adm.Closed != nil {
		// the previous window of the unit is retired, release it
		delete(a.aggregates, key)
	}

	switch adm.Operation {
	case window.Drop:
		a.log.Debugw("Dropping record for a closed window", zap.String("unit", key), zap.Int64("timestamp", ts), zap.Stringer("window", adm.Window))
		return res
	case window.Open:
		a.aggregates[key] = newWindowAggregate(key, adm.Window)
	}

	agg := a.aggregates[key]
	agg.Add(e.Telemetry)
	res.Snapshot = agg.Snapshot()
	return res
}

// Expire retires every aggregate whose window ended on or before the given time.
func (a *Aggregator) Expire(until time.Time) []window.KeyedWindow {
	closed := a.windows.CloseWindows(until.UnixMilli())
	for _, kw := range closed {
		delete(a.aggregates, kw.Key)
	}
	return closed
}

// StreamTime returns the largest event time seen by the aggregator, false if it has seen nothing.
func (a *Aggregator) StreamTime() (time.Time, bool) {
	if !a.seen {
		return time.Time{}, false
	}
	return time.UnixMilli(a.streamTime).UTC(), true
}

// Lookup returns a copy of the open aggregate of a unit.
func (a *Aggregator) Lookup(unitID string) (WindowAggregate, bool) {
	agg, ok := a.aggregates[unitID]
	if !ok {
		return WindowAggregate{}, false
	}
	return *agg, true
}

// OpenWindows returns the number of aggregates held in memory.
func (a *Aggregator) OpenWindows() int {
	return len(a.aggregates)
}
