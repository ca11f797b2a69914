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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch"
	"github.com/numaproj/reactorwatch/pkg/config"
	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/processor"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/shared/throughput"
	"github.com/numaproj/reactorwatch/pkg/sinks/postgres"
	kafkasource "github.com/numaproj/reactorwatch/pkg/sources/kafka"
)

func NewProcessorCommand() *cobra.Command {
	var initSchema bool

	command := &cobra.Command{
		Use:   "processor",
		Short: "Start the telemetry processor",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewLogger().Named("processor")
			v := reactorwatch.GetVersion()
			log.Infow("Starting telemetry processor", "version", v.Version)
			metrics.BuildInfo.WithLabelValues("processor", v.Version, v.Platform).Set(1)

			conf, err := loadConfig(nil)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithLogger(ctx, log)
			return runProcessor(ctx, conf, initSchema)
		},
	}
	command.Flags().BoolVar(&initSchema, "init-schema", false, "Create the postgres tables before processing")
	return command
}

func runProcessor(ctx context.Context, conf *config.Config, initSchema bool) error {
	log := logging.FromContext(ctx)
	saramaConf, err := conf.SaramaConfig()
	if err != nil {
		return err
	}
	set, err := buildSinks(ctx, conf, saramaConf)
	if err != nil {
		return fmt.Errorf("failed to create sinks, %w", err)
	}
	if initSchema && set.db != nil {
		if err := postgres.EnsureSchema(ctx, set.db, conf.Sinks.Postgres.AuditTable, conf.Sinks.Postgres.StateTable); err != nil {
			return multierr.Append(err, set.close())
		}
	}

	policy, err := processor.NewDecodeFailurePolicy(conf.Processor.DecodeFailurePolicy, set.deadLetter, log)
	if err != nil {
		return multierr.Append(err, set.close())
	}
	p := processor.NewProcessor(set.audit, set.alert, set.state,
		processor.WithLogger(log),
		processor.WithDecodeFailurePolicy(policy),
		processor.WithIdleEviction(conf.Processor.IdleEviction),
		processor.WithThroughputMonitor(throughput.NewMonitor("ingest", conf.Processor.ThroughputBatch, throughput.WithLogger(log))),
		processor.WithMetricsPort(conf.Metrics.Port),
	)

	guarantee := conf.Processor.DeliveryGuarantee
	log.Infow("Delivery guarantee", zap.Stringer("mode", guarantee), zap.Bool("commitBeforeProcessing", guarantee.CommitBeforeProcessing()))
	opts := []kafkasource.Option{
		kafkasource.WithLogger(log),
		kafkasource.WithGroupName(conf.Kafka.ApplicationID),
		kafkasource.WithCommitBeforeProcessing(guarantee.CommitBeforeProcessing()),
	}
	if conf.Processor.IdleEviction == 0 {
		opts = append(opts, kafkasource.WithExpiryInterval(0))
	}
	src, err := kafkasource.NewKafkaSource("telemetry", conf.Kafka.Brokers, conf.Kafka.InputTopic, saramaConf, p.NewWorker, opts...)
	if err != nil {
		return multierr.Append(fmt.Errorf("failed to create kafka source, %w", err), set.close())
	}
	return p.Start(ctx, src)
}
