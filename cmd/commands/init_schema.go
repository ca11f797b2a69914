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
package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks/postgres"
)

func NewInitSchemaCommand() *cobra.Command {
	var timeout time.Duration

	command := &cobra.Command{
		Use:   "init-schema",
		Short: "Create the audit and state tables in postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewLogger().Named("init-schema")
			conf, err := loadConfig(nil)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(logging.WithLogger(context.Background(), log), timeout)
			defer cancel()
			db, err := postgres.Open(ctx, conf.Sinks.Postgres.DSN)
			if err != nil {
				return err
			}
			err = postgres.EnsureSchema(ctx, db, conf.Sinks.Postgres.AuditTable, conf.Sinks.Postgres.StateTable)
			if err = multierr.Append(err, db.Close()); err != nil {
				return err
			}
			log.Infow("Schema ready", "auditTable", conf.Sinks.Postgres.AuditTable, "stateTable", conf.Sinks.Postgres.StateTable)
			return nil
		},
	}
	command.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Time allowed to connect and create the tables")
	return command
}
