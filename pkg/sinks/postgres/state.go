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
package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
)

// ToState upserts one row per (unit, window start); the latest snapshot wins.
type ToState struct {
	name  string
	db    DB
	table string
	query string
	log   *zap.SugaredLogger
}

var _ sinks.StateWriter = (*ToState)(nil)

type StateOption func(*ToState)

// WithStateTable overrides the default table name.
func WithStateTable(table string) StateOption {
	return func(t *ToState) {
		if table != "" {
			t.table = table
		}
	}
}

func WithStateLogger(log *zap.SugaredLogger) StateOption {
	return func(t *ToState) {
		t.log = log
	}
}

// NewToState returns a state writer.
func NewToState(name string, db DB, opts ...StateOption) *ToState {
	t := &ToState{name: name, db: db, table: DefaultStateTable}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = logging.NewLogger()
	}
	t.log = t.log.With("sinkType", "postgres").With("table", t.table)
	t.query = fmt.Sprintf(`
INSERT INTO %s (
	unit_id,
	window_start,
	avg_neutron_flux,
	thermal_efficiency,
	safety_margin
) VALUES (
	$1, $2, $3, $4, $5
)
ON CONFLICT (unit_id, window_start)
DO UPDATE SET
	avg_neutron_flux = EXCLUDED.avg_neutron_flux,
	thermal_efficiency = EXCLUDED.thermal_efficiency,
	safety_margin = EXCLUDED.safety_margin,
	updated_at = NOW()`, t.table)
	return t
}

func (t *ToState) GetName() string {
	return t.name
}

func (t *ToState) WriteState(ctx context.Context, s aggregator.Snapshot) sinks.Result {
	if _, err := t.db.ExecContext(ctx, t.query, s.UnitID, s.WindowStart, s.AvgNeutronFlux, s.ThermalEfficiency, s.SafetyMargin); err != nil {
		t.log.Errorw("Failed to upsert state", zap.String("unit", s.UnitID), zap.Time("windowStart", s.WindowStart), zap.Error(err))
		return sinks.Drop(t.name, err)
	}
	return sinks.OK(t.name)
}

func (t *ToState) IsHealthy(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func (t *ToState) Close() error {
	return t.db.Close()
}
