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
// Package dispatch fans a classified event out to the audit log and, for abnormal
// classifications, to the alert stream.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// Outcome reports the writes performed for one event.
type Outcome struct {
	Audit sinks.Result
	// Alert is nil when the event did not need an alert.
	Alert *sinks.Result
}

// Dropped returns true if any write of the event was lost.
func (o Outcome) Dropped() bool {
	if o.Audit.Outcome == sinks.Dropped {
		return true
	}
	return o.Alert != nil && o.Alert.Outcome == sinks.Dropped
}

// Dispatcher writes every event exactly once to the audit writer and at most once to the alert writer.
type Dispatcher struct {
	audit sinks.AuditWriter
	alert sinks.AlertWriter
	log   *zap.SugaredLogger
}

// NewDispatcher returns a Dispatcher.
func NewDispatcher(ctx context.Context, audit sinks.AuditWriter, alert sinks.AlertWriter) *Dispatcher {
	return &Dispatcher{
		audit: audit,
		alert: alert,
		log:   logging.FromContext(ctx),
	}
}

// Dispatch performs the writes of one event. Failures are logged and counted, never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, event telemetry.EnrichedEvent) Outcome {
	var out Outcome
	out.Audit = d.audit.WriteAudit(ctx, event)
	ObserveResult(out.Audit)
	if out.Audit.Outcome == sinks.Dropped {
		d.log.Warnw("Audit record dropped", zap.String("unit", event.Key()), zap.Int64("timestamp", event.Telemetry.Timestamp), zap.Error(out.Audit.Err))
	}

	if !event.EventType.IsAbnormal() {
		return out
	}
	alert := d.alert.WriteAlert(ctx, event)
	ObserveResult(alert)
	if alert.Outcome == sinks.Dropped {
		d.log.Warnw("Alert dropped", zap.String("unit", event.Key()), zap.Stringer("eventType", event.EventType), zap.Error(alert.Err))
	}
	out.Alert = &alert
	return out
}

// ObserveResult counts a sink result.
func ObserveResult(r sinks.Result) {
	metrics.SinkResultCount.With(map[string]string{metrics.LabelSink: r.Sink, metrics.LabelOutcome: r.Outcome.String()}).Inc()
}
