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
// Package processor wires the telemetry pipeline together. A Processor owns the shared sinks
// and builds one Worker per partition claimed by the source.
package processor

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	"github.com/numaproj/reactorwatch/pkg/dispatch"
	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/shared/throughput"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/sources"
	"github.com/numaproj/reactorwatch/pkg/window"
)

// Processor runs a source to completion and closes the sinks afterwards.
type Processor struct {
	audit         sinks.AuditWriter
	alert         sinks.AlertWriter
	state         sinks.StateWriter
	policy        DecodeFailurePolicy
	monitor       *throughput.Monitor
	idleEviction  time.Duration
	metricsPort   int
	metricsServer bool
	log           *zap.SugaredLogger
}

type Option func(*Processor)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Processor) {
		p.log = l
	}
}

// WithDecodeFailurePolicy sets the policy for malformed records, drop by default.
func WithDecodeFailurePolicy(policy DecodeFailurePolicy) Option {
	return func(p *Processor) {
		p.policy = policy
	}
}

// WithIdleEviction sets how long after its end a window is kept open for a silent unit.
// Zero disables eviction.
func WithIdleEviction(d time.Duration) Option {
	return func(p *Processor) {
		p.idleEviction = d
	}
}

func WithThroughputMonitor(m *throughput.Monitor) Option {
	return func(p *Processor) {
		p.monitor = m
	}
}

func WithMetricsPort(port int) Option {
	return func(p *Processor) {
		p.metricsPort = port
	}
}

// WithoutMetricsServer skips the metrics server.
func WithoutMetricsServer() Option {
	return func(p *Processor) {
		p.metricsServer = false
	}
}

// NewProcessor returns a Processor writing to the given sinks.
func NewProcessor(audit sinks.AuditWriter, alert sinks.AlertWriter, state sinks.StateWriter, opts ...Option) *Processor {
	p := &Processor{
		audit:         audit,
		alert:         alert,
		state:         state,
		metricsPort:   metrics.DefaultPort,
		metricsServer: true,
	}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = logging.NewLogger()
	}
	if p.policy == nil {
		p.policy = NewDropPolicy(p.log)
	}
	if p.monitor == nil {
		p.monitor = throughput.NewMonitor("ingest", throughput.DefaultBatchSize, throughput.WithLogger(p.log))
	}
	return p
}

// NewWorker builds the worker of a claimed partition. It is the sources.WorkerFactory of the processor.
func (p *Processor) NewWorker(ctx context.Context, topic string, partition int32) sources.PartitionWorker {
	log := logging.FromContext(ctx).With("topic", topic, "partition", partition)
	return &Worker{
		topic:        topic,
		partition:    partition,
		labels:       partitionLabels(partition),
		aggregator:   aggregator.NewAggregator(aggregator.WithLogger(log)),
		dispatcher:   dispatch.NewDispatcher(logging.WithLogger(ctx, log), p.audit, p.alert),
		state:        p.state,
		policy:       p.policy,
		monitor:      p.monitor,
		idleEviction: p.idleEviction,
		log:          log,
	}
}

// Start runs the source until the context is done or the source fails, then closes every sink.
func (p *Processor) Start(ctx context.Context, src sources.Source) error {
	log := p.log.With("source", src.GetName())
	ctx = logging.WithLogger(ctx, log)
	log.Infow("Starting processor",
		zap.String("audit", p.audit.GetName()),
		zap.String("alert", p.alert.GetName()),
		zap.String("state", p.state.GetName()),
		zap.String("decodeFailurePolicy", p.policy.Name()),
		zap.Duration("windowLength", window.DefaultLength),
		zap.Duration("idleEviction", p.idleEviction))

	g, gctx := errgroup.WithContext(ctx)
	if p.metricsServer {
		ms := metrics.NewMetricsServer(metrics.NewMetricsOptions(gctx, p.metricsPort, p.healthCheckers())...)
		shutdown, err := ms.Start(gctx)
		if err != nil {
			return multierr.Append(fmt.Errorf("failed to start metrics server, %w", err), p.closeSinks(src))
		}
		g.Go(func() error {
			<-gctx.Done()
			return shutdown(context.Background())
		})
	}
	g.Go(func() error {
		return src.Start(gctx)
	})

	err := g.Wait()
	if err != nil {
		log.Errorw("Processor stopped with error", zap.Error(err))
	} else {
		log.Info("SIGTERM, exiting...")
	}
	if closeErr := p.closeSinks(src); closeErr != nil {
		log.Errorw("Failed to close sinks", zap.Error(closeErr))
		err = multierr.Append(err, closeErr)
	}
	log.Infow("Exited...", zap.Int64("processed", p.monitor.Count()))
	return err
}

// healthCheckers returns the sinks that can report their own health.
func (p *Processor) healthCheckers() []metrics.HealthChecker {
	var checkers []metrics.HealthChecker
	for _, s := range []interface{}{p.audit, p.alert, p.state} {
		if hc, ok := s.(metrics.HealthChecker); ok {
			checkers = append(checkers, hc)
		}
	}
	return checkers
}

// closeSinks closes the source first, so no record is in flight when the sinks go away.
// A sink used for several roles is closed once.
func (p *Processor) closeSinks(src sources.Source) error {
	err := src.Close()
	closed := make(map[io.Closer]bool)
	closers := []io.Closer{p.audit, p.alert, p.state}
	if c, ok := p.policy.(io.Closer); ok {
		closers = append(closers, c)
	}
	for _, c := range closers {
		if closed[c] {
			continue
		}
		closed[c] = true
		err = multierr.Append(err, c.Close())
	}
	return err
}
