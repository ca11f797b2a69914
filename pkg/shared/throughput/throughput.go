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
// Package throughput logs the processing rate of a stage every fixed number of records.
package throughput

import (
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/shared/logging"
)

// DefaultBatchSize is the number of records between two rate reports.
const DefaultBatchSize = 1000

// Monitor counts records of one stage. It is safe for concurrent use by all partition workers.
type Monitor struct {
	stage     string
	batchSize int64
	count     *atomic.Int64
	// batchStart is the unix nano time the current batch started
	batchStart *atomic.Int64
	now        func() time.Time
	log        *zap.SugaredLogger
}

type Option func(*Monitor)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// NewMonitor returns a Monitor for the given stage. A non positive batch size falls back to DefaultBatchSize.
func NewMonitor(stage string, batchSize int, opts ...Option) *Monitor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	m := &Monitor{
		stage:     stage,
		batchSize: int64(batchSize),
		count:     atomic.NewInt64(0),
		now:       time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	if m.log == nil {
		m.log = logging.NewLogger()
	}
	m.batchStart = atomic.NewInt64(m.now().UnixNano())
	return m
}

// Observe counts one record and logs the rate of the last batch when it completes.
func (m *Monitor) Observe() {
	n := m.count.Inc()
	if n%m.batchSize != 0 {
		return
	}
	now := m.now().UnixNano()
	start := m.batchStart.Swap(now)
	elapsed := time.Duration(now - start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(m.batchSize) / elapsed.Seconds()
	}
	m.log.Infof("[%s] Processed %d records. Last batch: %.2f records/sec", m.stage, n, rate)
}

// Count returns the number of records observed so far.
func (m *Monitor) Count() int64 {
	return m.count.Load()
}
