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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	"github.com/numaproj/reactorwatch/pkg/config"
	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/sinks/mocks"
	"github.com/numaproj/reactorwatch/pkg/sources"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingSink plays every sink role and remembers what it was given.
type recordingSink struct {
	sync.Mutex
	name      string
	audits    []telemetry.EnrichedEvent
	alerts    []telemetry.EnrichedEvent
	states    []aggregator.Snapshot
	failState bool
	closed    int
}

func newRecordingSink(name string) *recordingSink {
	return &recordingSink{name: name}
}

func (s *recordingSink) GetName() string { return s.name }

func (s *recordingSink) WriteAudit(_ context.Context, e telemetry.EnrichedEvent) sinks.Result {
	s.Lock()
	defer s.Unlock()
	s.audits = append(s.audits, e)
	return sinks.OK(s.name)
}

func (s *recordingSink) WriteAlert(_ context.Context, e telemetry.EnrichedEvent) sinks.Result {
	s.Lock()
	defer s.Unlock()
	s.alerts = append(s.alerts, e)
	return sinks.OK(s.name)
}

func (s *recordingSink) WriteState(_ context.Context, snap aggregator.Snapshot) sinks.Result {
	s.Lock()
	defer s.Unlock()
	if s.failState {
		return sinks.Drop(s.name, errors.New("state store unavailable"))
	}
	s.states = append(s.states, snap)
	return sinks.OK(s.name)
}

func (s *recordingSink) Close() error {
	s.Lock()
	defer s.Unlock()
	s.closed++
	return nil
}

func (s *recordingSink) counts() (int, int, int) {
	s.Lock()
	defer s.Unlock()
	return len(s.audits), len(s.alerts), len(s.states)
}

type recordingDLQ struct {
	sync.Mutex
	letters []sinks.DeadLetter
	closed  int
}

func (d *recordingDLQ) GetName() string { return "dlq" }

func (d *recordingDLQ) WriteDeadLetter(_ context.Context, l sinks.DeadLetter) sinks.Result {
	d.Lock()
	defer d.Unlock()
	d.letters = append(d.letters, l)
	return sinks.OK("dlq")
}

func (d *recordingDLQ) Close() error {
	d.Lock()
	defer d.Unlock()
	d.closed++
	return nil
}

func record(t *testing.T, offset int64, unit string, ts int64, flux, pressure float64) sources.Record {
	t.Helper()
	value, err := telemetry.EncodeReading(telemetry.Reading{
		UnitID:          unit,
		Timestamp:       ts,
		NeutronFlux:     flux,
		ReactorPower:    flux * 0.95,
		ReactorPressure: pressure,
	})
	require.NoError(t, err)
	return sources.Record{Topic: "npp-raw-telemetry", Partition: 0, Offset: offset, Key: []byte(unit), Value: value, Timestamp: time.UnixMilli(ts)}
}

func newTestWorker(t *testing.T, sink *recordingSink, opts ...Option) *Worker {
	t.Helper()
	opts = append([]Option{WithLogger(logging.NewLogger()), WithoutMetricsServer()}, opts...)
	p := NewProcessor(sink, sink, sink, opts...)
	return p.NewWorker(context.Background(), "npp-raw-telemetry", 0).(*Worker)
}

func TestWorker_Process_Normal(t *testing.T) {
	sink := newRecordingSink("test")
	w := newTestWorker(t, sink)
	w.Process(context.Background(), record(t, 0, "ZNPP-1", 1000, 1000, 16.0))

	audits, alerts, states := sink.counts()
	assert.Equal(t, 1, audits)
	assert.Equal(t, 0, alerts)
	require.Equal(t, 1, states)
	assert.Equal(t, "ZNPP-1", sink.states[0].UnitID)
	assert.Equal(t, int64(1), sink.states[0].Count)
	assert.Equal(t, telemetry.ParameterRecorded, sink.audits[0].EventType)
}

func TestWorker_Process_AbnormalRaisesAlerts(t *testing.T) {
	sink := newRecordingSink("test")
	w := newTestWorker(t, sink)
	ctx := context.Background()
	w.Process(ctx, record(t, 0, "RBMK-1", 1000, 1000, 16.0))
	w.Process(ctx, record(t, 1, "RBMK-1", 2000, 1000, 16.8))
	w.Process(ctx, record(t, 2, "RBMK-1", 3000, 1300, 16.0))

	audits, alerts, states := sink.counts()
	assert.Equal(t, 3, audits)
	require.Equal(t, 2, alerts)
	assert.Equal(t, telemetry.SafetyLimitApproached, sink.alerts[0].EventType)
	assert.Equal(t, telemetry.ScramEvent, sink.alerts[1].EventType)
	require.Equal(t, 3, states)
	for i, s := range sink.states {
		assert.Equal(t, int64(i+1), s.Count)
		assert.Equal(t, time.UnixMilli(0).UTC(), s.WindowStart)
	}
}

func TestWorker_Process_MalformedIsDropped(t *testing.T) {
	sink := newRecordingSink("test")
	w := newTestWorker(t, sink)
	w.Process(context.Background(), sources.Record{Topic: "npp-raw-telemetry", Offset: 7, Value: []byte("not json")})
	w.Process(context.Background(), record(t, 8, "ZNPP-1", 1000, 1000, 16.0))

	audits, alerts, states := sink.counts()
	assert.Equal(t, 1, audits)
	assert.Equal(t, 0, alerts)
	assert.Equal(t, 1, states)
}

func TestWorker_Process_MalformedIsDeadLettered(t *testing.T) {
	sink := newRecordingSink("test")
	dlq := &recordingDLQ{}
	policy, err := NewDecodeFailurePolicy(config.DecodePolicyDeadLetter, dlq, logging.NewLogger())
	require.NoError(t, err)
	w := newTestWorker(t, sink, WithDecodeFailurePolicy(policy))

	w.Process(context.Background(), sources.Record{Topic: "npp-raw-telemetry", Partition: 0, Offset: 7, Key: []byte("ZNPP-1"), Value: []byte("{bad")})

	audits, _, states := sink.counts()
	assert.Equal(t, 0, audits)
	assert.Equal(t, 0, states)
	require.Len(t, dlq.letters, 1)
	assert.Equal(t, []byte("{bad"), dlq.letters[0].Value)
	assert.Equal(t, []byte("ZNPP-1"), dlq.letters[0].Key)
	assert.Equal(t, int64(7), dlq.letters[0].Offset)
	assert.NotEmpty(t, dlq.letters[0].Reason)
}

func TestWorker_Process_LateRecordIsAuditedButNotAggregated(t *testing.T) {
	sink := newRecordingSink("test")
	w := newTestWorker(t, sink)
	ctx := context.Background()
	w.Process(ctx, record(t, 0, "RBMK-1", 1000, 1000, 16.0))
	w.Process(ctx, record(t, 1, "RBMK-1", 61000, 1000, 16.0))
	w.Process(ctx, record(t, 2, "RBMK-1", 59000, 1000, 16.0))

	audits, _, states := sink.counts()
	assert.Equal(t, 3, audits)
	require.Equal(t, 2, states)
	assert.Equal(t, time.UnixMilli(60000).UTC(), sink.states[1].WindowStart)
	assert.Equal(t, 1, w.aggregator.OpenWindows())
}

func TestWorker_Process_StateFailureDoesNotStopProcessing(t *testing.T) {
	sink := newRecordingSink("test")
	sink.failState = true
	w := newTestWorker(t, sink)
	ctx := context.Background()
	w.Process(ctx, record(t, 0, "ZNPP-1", 1000, 1000, 16.0))
	w.Process(ctx, record(t, 1, "ZNPP-1", 2000, 1000, 16.0))

	audits, _, states := sink.counts()
	assert.Equal(t, 2, audits)
	assert.Equal(t, 0, states)
	agg, ok := w.aggregator.Lookup("ZNPP-1")
	require.True(t, ok)
	assert.Equal(t, int64(2), agg.Count)
}

func TestWorker_Expire(t *testing.T) {
	sink := newRecordingSink("test")
	w := newTestWorker(t, sink, WithIdleEviction(2*time.Minute))
	ctx := context.Background()

	// nothing seen yet
	w.Expire()
	assert.Equal(t, 0, w.aggregator.OpenWindows())

	w.Process(ctx, record(t, 0, "ZNPP-1", 1000, 1000, 16.0))
	w.Process(ctx, record(t, 1, "ZNPP-2", 179999, 1000, 16.0))
	assert.Equal(t, 2, w.aggregator.OpenWindows())

	// the window of ZNPP-1 ended at 60s, so it is kept until the partition reaches 180s
	w.Expire()
	assert.Equal(t, 2, w.aggregator.OpenWindows())
	w.Process(ctx, record(t, 2, "ZNPP-2", 180000, 1000, 16.0))
	w.Expire()
	assert.Equal(t, 1, w.aggregator.OpenWindows())
	_, ok := w.aggregator.Lookup("ZNPP-1")
	assert.False(t, ok)

	// the retired window does not come back
	w.Process(ctx, record(t, 3, "ZNPP-1", 2000, 1000, 16.0))
	_, ok = w.aggregator.Lookup("ZNPP-1")
	assert.False(t, ok)
	w.Close()
}

func TestWorker_Expire_LaggingPartition(t *testing.T) {
	sink := newRecordingSink("test")
	w := newTestWorker(t, sink, WithIdleEviction(2*time.Minute))
	ctx := context.Background()

	// a backlog from five minutes ago is replayed in order
	base := time.Now().Add(-5*time.Minute).Truncate(time.Minute).UnixMilli() + 1000
	w.Process(ctx, record(t, 0, "ZNPP-1", base, 1000, 16.0))
	w.Expire()
	w.Process(ctx, record(t, 1, "ZNPP-1", base+1000, 1010, 16.0))
	w.Expire()

	agg, ok := w.aggregator.Lookup("ZNPP-1")
	require.True(t, ok)
	assert.Equal(t, int64(2), agg.Count)
	_, _, states := sink.counts()
	assert.Equal(t, 2, states)
}

func TestWorker_Expire_Disabled(t *testing.T) {
	sink := newRecordingSink("test")
	w := newTestWorker(t, sink)
	w.Process(context.Background(), record(t, 0, "ZNPP-1", 1000, 1000, 16.0))
	w.Process(context.Background(), record(t, 1, "ZNPP-2", 10*time.Hour.Milliseconds(), 1000, 16.0))
	w.Expire()
	assert.Equal(t, 2, w.aggregator.OpenWindows())
}

func TestNewDecodeFailurePolicy(t *testing.T) {
	p, err := NewDecodeFailurePolicy(config.DecodePolicyDrop, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DecodePolicyDrop, p.Name())

	_, err = NewDecodeFailurePolicy(config.DecodePolicyDeadLetter, nil, nil)
	assert.Error(t, err)

	p, err = NewDecodeFailurePolicy(config.DecodePolicyDeadLetter, &recordingDLQ{}, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DecodePolicyDeadLetter, p.Name())

	_, err = NewDecodeFailurePolicy("retry", nil, nil)
	assert.Error(t, err)
}

func TestDeadLetterPolicy_WriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dlq := mocks.NewMockDeadLetterWriter(ctrl)
	rec := sources.Record{Topic: "npp-raw-telemetry", Partition: 3, Offset: 42, Value: []byte("{")}
	dlq.EXPECT().WriteDeadLetter(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l sinks.DeadLetter) sinks.Result {
		assert.Equal(t, int32(3), l.Partition)
		assert.Equal(t, int64(42), l.Offset)
		assert.Equal(t, "unexpected end", l.Reason)
		return sinks.Drop("dlq", errors.New("broker down"))
	})
	dlq.EXPECT().Close().Return(nil)

	p := NewDeadLetterPolicy(dlq, nil)
	p.OnDecodeFailure(context.Background(), rec, errors.New("unexpected end"))
	assert.NoError(t, p.Close())
}

func TestWorker_Metrics(t *testing.T) {
	sink := newRecordingSink("test")
	p := NewProcessor(sink, sink, sink, WithoutMetricsServer())
	w := p.NewWorker(context.Background(), "metrics-topic", 5).(*Worker)

	decodeErrors := metrics.DecodeErrorCount.With(prometheus.Labels{metrics.LabelTopic: "metrics-topic", metrics.LabelPartition: "5", metrics.LabelReason: config.DecodePolicyDrop})
	read := metrics.ReadMessagesCount.With(prometheus.Labels{metrics.LabelTopic: "metrics-topic", metrics.LabelPartition: "5"})
	late := metrics.LateDropCount.With(prometheus.Labels{metrics.LabelPartition: "5"})
	open := metrics.OpenWindows.With(prometheus.Labels{metrics.LabelPartition: "5"})
	decodeBefore, readBefore, lateBefore := testutil.ToFloat64(decodeErrors), testutil.ToFloat64(read), testutil.ToFloat64(late)

	ctx := context.Background()
	w.Process(ctx, sources.Record{Topic: "metrics-topic", Partition: 5, Value: []byte("?")})
	w.Process(ctx, record(t, 1, "SUNPP-1", 1000, 1000, 16.0))
	w.Process(ctx, record(t, 2, "SUNPP-2", 1000, 1000, 16.0))
	w.Process(ctx, record(t, 3, "SUNPP-1", 61000, 1000, 16.0))
	w.Process(ctx, record(t, 4, "SUNPP-1", 2000, 1000, 16.0))

	assert.Equal(t, decodeBefore+1, testutil.ToFloat64(decodeErrors))
	assert.Equal(t, readBefore+5, testutil.ToFloat64(read))
	assert.Equal(t, lateBefore+1, testutil.ToFloat64(late))
	assert.Equal(t, 2.0, testutil.ToFloat64(open))
}

// fakeSource runs one worker per partition of its records, then waits for the context.
type fakeSource struct {
	factory sources.WorkerFactory
	records []sources.Record
	err     error
	mu      sync.Mutex
	closed  int
}

func (s *fakeSource) GetName() string { return "fake" }

func (s *fakeSource) Start(ctx context.Context) error {
	workers := make(map[int32]sources.PartitionWorker)
	for _, r := range s.records {
		w, ok := workers[r.Partition]
		if !ok {
			w = s.factory(ctx, r.Topic, r.Partition)
			workers[r.Partition] = w
		}
		w.Process(ctx, r)
	}
	for _, w := range workers {
		w.Close()
	}
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func TestProcessor_Start(t *testing.T) {
	sink := newRecordingSink("shared")
	dlq := &recordingDLQ{}
	policy, err := NewDecodeFailurePolicy(config.DecodePolicyDeadLetter, dlq, nil)
	require.NoError(t, err)
	p := NewProcessor(sink, sink, sink, WithoutMetricsServer(), WithDecodeFailurePolicy(policy))

	src := &fakeSource{factory: p.NewWorker}
	for i := 0; i < 10; i++ {
		r := record(t, int64(i), "KhNPP-1", int64(i)*1000, 1000, 16.0)
		r.Partition = int32(i % 2)
		src.records = append(src.records, r)
	}
	src.records = append(src.records, sources.Record{Topic: "npp-raw-telemetry", Offset: 10, Value: []byte("not json")})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Start(ctx, src)
	}()
	assert.Eventually(t, func() bool {
		audits, _, _ := sink.counts()
		return audits == 10
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("processor did not stop")
	}
	assert.Equal(t, 1, src.closed)
	// one sink in three roles is closed once
	assert.Equal(t, 1, sink.closed)
	assert.Equal(t, 1, dlq.closed)
	assert.Len(t, dlq.letters, 1)
	assert.Equal(t, int64(11), p.monitor.Count())
}

func TestProcessor_Start_SourceError(t *testing.T) {
	audit := newRecordingSink("audit")
	alert := newRecordingSink("alert")
	state := newRecordingSink("state")
	p := NewProcessor(audit, alert, state, WithoutMetricsServer())
	src := &fakeSource{factory: p.NewWorker, err: errors.New("brokers unreachable")}

	err := p.Start(context.Background(), src)
	assert.EqualError(t, err, "brokers unreachable")
	assert.Equal(t, 1, src.closed)
	assert.Equal(t, 1, audit.closed)
	assert.Equal(t, 1, alert.closed)
	assert.Equal(t, 1, state.closed)
}
