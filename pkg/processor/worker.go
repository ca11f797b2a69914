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
package processor

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	"github.com/numaproj/reactorwatch/pkg/classifier"
	"github.com/numaproj/reactorwatch/pkg/dispatch"
	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/shared/throughput"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/sources"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// Worker runs the whole pipeline for the records of one partition: decode, classify, fan out,
// aggregate and store the snapshot. It owns its aggregator, so it needs no locking.
type Worker struct {
	topic        string
	partition    int32
	labels       map[string]string
	aggregator   *aggregator.Aggregator
	dispatcher   *dispatch.Dispatcher
	state        sinks.StateWriter
	policy       DecodeFailurePolicy
	monitor      *throughput.Monitor
	idleEviction time.Duration
	log          *zap.SugaredLogger
}

var _ sources.PartitionWorker = (*Worker)(nil)

// Process handles one record to completion.
func (w *Worker) Process(ctx context.Context, r sources.Record) {
	start := time.Now()
	defer func() {
		metrics.ProcessingTime.With(w.labels).Observe(float64(time.Since(start).Microseconds()))
	}()
	tp := map[string]string{metrics.LabelTopic: w.topic, metrics.LabelPartition: w.labels[metrics.LabelPartition]}
	metrics.ReadMessagesCount.With(tp).Inc()
	metrics.ReadBytesCount.With(tp).Add(float64(len(r.Value)))
	w.monitor.Observe()

	reading, err := telemetry.DecodeReading(r.Value)
	if err != nil {
		metrics.DecodeErrorCount.With(map[string]string{metrics.LabelTopic: w.topic, metrics.LabelPartition: w.labels[metrics.LabelPartition], metrics.LabelReason: w.policy.Name()}).Inc()
		w.policy.OnDecodeFailure(ctx, r, err)
		return
	}

	event := classifier.Classify(reading)
	metrics.ClassifiedCount.With(map[string]string{metrics.LabelEventType: event.EventType.String()}).Inc()
	w.dispatcher.Dispatch(ctx, event)

	res := w.aggregator.Aggregate(event)
	if res.Closed != nil {
		metrics.ClosedWindowsCount.With(map[string]string{metrics.LabelPartition: w.labels[metrics.LabelPartition], metrics.LabelReason: "superseded"}).Inc()
	}
	metrics.OpenWindows.With(w.labels).Set(float64(w.aggregator.OpenWindows()))
	if !res.Emitted() {
		metrics.LateDropCount.With(w.labels).Inc()
		return
	}

	stateRes := w.state.WriteState(ctx, res.Snapshot)
	dispatch.ObserveResult(stateRes)
	if stateRes.Outcome == sinks.Dropped {
		w.log.Warnw("State snapshot dropped", zap.String("unit", res.Snapshot.UnitID), zap.Time("windowStart", res.Snapshot.WindowStart), zap.Error(stateRes.Err))
	}
}

// Expire retires the aggregates whose window ended more than the idle eviction period before
// the stream time of the partition. A backlog replayed after an outage advances the stream time
// with it, so in-order records of a lagging partition are never evicted.
func (w *Worker) Expire() {
	if w.idleEviction <= 0 {
		return
	}
	streamTime, ok := w.aggregator.StreamTime()
	if !ok {
		return
	}
	closed := w.aggregator.Expire(streamTime.Add(-w.idleEviction))
	if len(closed) == 0 {
		return
	}
	metrics.ClosedWindowsCount.With(map[string]string{metrics.LabelPartition: w.labels[metrics.LabelPartition], metrics.LabelReason: "idle"}).Add(float64(len(closed)))
	metrics.OpenWindows.With(w.labels).Set(float64(w.aggregator.OpenWindows()))
	for _, kw := range closed {
		w.log.Debugw("Retired idle window", zap.String("unit", kw.Key), zap.Stringer("window", kw.Window))
	}
}

// Close releases the partition. Open aggregates are discarded; the next owner of the partition starts empty.
func (w *Worker) Close() {
	w.log.Infow("Releasing partition", zap.Int("openWindows", w.aggregator.OpenWindows()))
	metrics.OpenWindows.Delete(w.labels)
}

func partitionLabels(partition int32) map[string]string {
	return map[string]string{metrics.LabelPartition: strconv.Itoa(int(partition))}
}
