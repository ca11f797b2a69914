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

package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// ToLog prints the output to a log sink.
type ToLog struct {
	name   string
	logger *zap.SugaredLogger
}

var (
	_ sinks.AuditWriter = (*ToLog)(nil)
	_ sinks.AlertWriter = (*ToLog)(nil)
	_ sinks.StateWriter = (*ToLog)(nil)
)

type Option func(*ToLog) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToLog) error {
		t.logger = log
		return nil
	}
}

// NewToLog returns ToLog type.
func NewToLog(name string, opts ...Option) (*ToLog, error) {
	toLog := new(ToLog)
	toLog.name = name
	for _, o := range opts {
		if err := o(toLog); err != nil {
			return nil, err
		}
	}
	if toLog.logger == nil {
		toLog.logger = logging.NewLogger()
	}
	toLog.logger = toLog.logger.With("sinkType", "log").With("sink", name)
	return toLog, nil
}

// GetName returns the name.
func (t *ToLog) GetName() string {
	return t.name
}

// WriteAudit logs the audit row of the event.
func (t *ToLog) WriteAudit(_ context.Context, event telemetry.EnrichedEvent) sinks.Result {
	rec, err := sinks.NewAuditRecord(event)
	if err != nil {
		return sinks.Drop(t.name, err)
	}
	t.logger.Infow("Audit", zap.String("unit", rec.UnitID), zap.Time("eventTime", rec.EventTime), zap.String("eventType", rec.EventType), zap.ByteString("payload", rec.Payload))
	return sinks.OK(t.name)
}

// WriteAlert logs an abnormal event.
func (t *ToLog) WriteAlert(_ context.Context, event telemetry.EnrichedEvent) sinks.Result {
	t.logger.Warnw("Alert", zap.String("unit", event.Key()), zap.String("eventType", event.EventType.String()), zap.String("description", event.Description),
		zap.Float64("pressure", event.Telemetry.ReactorPressure), zap.Float64("flux", event.Telemetry.NeutronFlux))
	return sinks.OK(t.name)
}

// WriteState logs a window snapshot.
func (t *ToLog) WriteState(_ context.Context, s aggregator.Snapshot) sinks.Result {
	t.logger.Infow("State", zap.String("unit", s.UnitID), zap.Time("windowStart", s.WindowStart), zap.Int64("count", s.Count),
		zap.Float64("avgNeutronFlux", s.AvgNeutronFlux), zap.Float64("thermalEfficiency", s.ThermalEfficiency), zap.Float64("safetyMargin", s.SafetyMargin))
	return sinks.OK(t.name)
}

func (t *ToLog) Close() error {
	// syncing stdout fails on some platforms, nothing is lost by ignoring it
	_ = t.logger.Sync()
	return nil
}
