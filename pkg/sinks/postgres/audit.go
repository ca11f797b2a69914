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

	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// ToAudit inserts one row per event into the audit table.
type ToAudit struct {
	name  string
	db    DB
	table string
	query string
	log   *zap.SugaredLogger
}

var _ sinks.AuditWriter = (*ToAudit)(nil)

type AuditOption func(*ToAudit)

// WithAuditTable overrides the default table name.
func WithAuditTable(table string) AuditOption {
	return func(t *ToAudit) {
		if table != "" {
			t.table = table
		}
	}
}

func WithAuditLogger(log *zap.SugaredLogger) AuditOption {
	return func(t *ToAudit) {
		t.log = log
	}
}

// NewToAudit returns an audit writer.
func NewToAudit(name string, db DB, opts ...AuditOption) *ToAudit {
	t := &ToAudit{name: name, db: db, table: DefaultAuditTable}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = logging.NewLogger()
	}
	t.log = t.log.With("sinkType", "postgres").With("table", t.table)
	t.query = fmt.Sprintf(`INSERT INTO %s (unit_id, event_time, event_type, payload) VALUES ($1, $2, $3, $4)`, t.table)
	return t
}

func (t *ToAudit) GetName() string {
	return t.name
}

func (t *ToAudit) WriteAudit(ctx context.Context, event telemetry.EnrichedEvent) sinks.Result {
	record, err := sinks.NewAuditRecord(event)
	if err != nil {
		return sinks.Drop(t.name, err)
	}
	if _, err := t.db.ExecContext(ctx, t.query, record.UnitID, record.EventTime, record.EventType, string(record.Payload)); err != nil {
		t.log.Errorw("Failed to insert audit record", zap.String("unit", record.UnitID), zap.Error(err))
		return sinks.Drop(t.name, err)
	}
	return sinks.OK(t.name)
}

func (t *ToAudit) IsHealthy(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func (t *ToAudit) Close() error {
	return t.db.Close()
}
