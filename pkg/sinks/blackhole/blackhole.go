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

package blackhole

import (
	"context"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// Blackhole is a sink to emulate /dev/null. It accepts audit, alert and state writes.
type Blackhole struct {
	name string
}

var (
	_ sinks.AuditWriter = (*Blackhole)(nil)
	_ sinks.AlertWriter = (*Blackhole)(nil)
	_ sinks.StateWriter = (*Blackhole)(nil)
)

// NewBlackhole returns a new Blackhole sink.
func NewBlackhole(name string) *Blackhole {
	return &Blackhole{name: name}
}

// GetName returns the name.
func (b *Blackhole) GetName() string {
	return b.name
}

func (b *Blackhole) WriteAudit(_ context.Context, _ telemetry.EnrichedEvent) sinks.Result {
	return sinks.OK(b.name)
}

func (b *Blackhole) WriteAlert(_ context.Context, _ telemetry.EnrichedEvent) sinks.Result {
	return sinks.OK(b.name)
}

func (b *Blackhole) WriteState(_ context.Context, _ aggregator.Snapshot) sinks.Result {
	return sinks.OK(b.name)
}

func (b *Blackhole) Close() error {
	return nil
}
