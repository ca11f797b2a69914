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

// Package sinks defines the write paths of the processor: the audit log, the alert stream
// and the windowed state store. Writers never retry; every call reports whether the data
// was written or dropped.
package sinks

//go:generate mockgen -source=sink.go -destination=mocks/mock_sinks.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// Outcome of a single write.
type Outcome int

const (
	Written Outcome = iota
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Result is returned by every sink call.
type Result struct {
	Sink    string
	Outcome Outcome
	Err     error
}

// OK returns a successful result.
func OK(sink string) Result {
	return Result{Sink: sink, Outcome: Written}
}

// Drop returns a failed result. The data of the write is lost.
func Drop(sink string, err error) Result {
	return Result{Sink: sink, Outcome: Dropped, Err: err}
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", r.Sink, r.Outcome, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Sink, r.Outcome)
}

// AuditWriter records every processed event.
type AuditWriter interface {
	GetName() string
	WriteAudit(ctx context.Context, event telemetry.EnrichedEvent) Result
	Close() error
}

// AlertWriter publishes abnormal events.
type AlertWriter interface {
	GetName() string
	WriteAlert(ctx context.Context, event telemetry.EnrichedEvent) Result
	Close() error
}

// StateWriter upserts window snapshots keyed by unit and window start.
type StateWriter interface {
	GetName() string
	WriteState(ctx context.Context, snapshot aggregator.Snapshot) Result
	Close() error
}

// AuditRecord is the row written to the audit log.
type AuditRecord struct {
	UnitID    string
	EventTime time.Time
	EventType string
	// Payload is the JSON encoding of the raw reading.
	Payload []byte
}

// NewAuditRecord builds the audit row of an event.
func NewAuditRecord(event telemetry.EnrichedEvent) (AuditRecord, error) {
	payload, err := telemetry.EncodeReading(event.Telemetry)
	if err != nil {
		return AuditRecord{}, fmt.Errorf("failed to encode audit payload, %w", err)
	}
	return AuditRecord{
		UnitID:    event.Telemetry.UnitID,
		EventTime: event.Telemetry.EventTime(),
		EventType: event.EventType.String(),
		Payload:   payload,
	}, nil
}

// DeadLetter is a source record that could not be decoded.
type DeadLetter struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Reason    string
}

// DeadLetterWriter parks undecodable source records.
type DeadLetterWriter interface {
	GetName() string
	WriteDeadLetter(ctx context.Context, record DeadLetter) Result
	Close() error
}
