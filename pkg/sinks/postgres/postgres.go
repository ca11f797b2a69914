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
// Package postgres writes the audit log and the windowed state to PostgreSQL through the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// registers the "pgx" driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DefaultAuditTable = "nuclear_event_log"
	DefaultStateTable = "reactor_state"
)

// DB is the subset of *sql.DB used by the writers.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Open connects to the database and verifies the connection, so an unreachable store fails at startup.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres, %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetConnMaxIdleTime(5 * time.Minute)
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres, %w", err)
	}
	return db, nil
}

// EnsureSchema creates the audit and state tables if they do not exist.
func EnsureSchema(ctx context.Context, db DB, auditTable, stateTable string) error {
	if auditTable == "" {
		auditTable = DefaultAuditTable
	}
	if stateTable == "" {
		stateTable = DefaultStateTable
	}
	statements := []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	unit_id TEXT NOT NULL,
	event_time TIMESTAMPTZ NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL
)`, auditTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_unit_time_idx ON %s (unit_id, event_time)`, auditTable, auditTable),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	unit_id TEXT NOT NULL,
	window_start TIMESTAMPTZ NOT NULL,
	avg_neutron_flux DOUBLE PRECISION NOT NULL,
	thermal_efficiency DOUBLE PRECISION NOT NULL,
	safety_margin DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (unit_id, window_start)
)`, stateTable),
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema, %w", err)
		}
	}
	return nil
}
