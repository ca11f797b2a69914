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

	"github.com/IBM/sarama"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/generator"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
)

func NewGenerateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "generate",
		Short: "Produce simulated reactor telemetry to the input topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewLogger().Named("generator")
			conf, err := loadConfig(func(v *viper.Viper) error {
				for key, flag := range map[string]string{
					"generator.maxRecords": "max-records",
					"generator.interval":   "interval",
					"generator.seed":       "seed",
				} {
					if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			saramaConf, err := conf.SaramaConfig()
			if err != nil {
				return err
			}
			saramaConf.Producer.Return.Successes = true
			sarama.Logger = zap.NewStdLog(log.Desugar())
			producer, err := sarama.NewSyncProducer(conf.Kafka.Brokers, saramaConf)
			if err != nil {
				return fmt.Errorf("failed to connect to kafka, %w", err)
			}
			defer func() {
				if err := producer.Close(); err != nil {
					log.Errorw("Failed to close producer", zap.Error(err))
				}
			}()

			opts := []generator.Option{
				generator.WithLogger(log),
				generator.WithMaxRecords(conf.Generator.MaxRecords),
				generator.WithInterval(conf.Generator.Interval),
			}
			if conf.Generator.Seed != 0 {
				opts = append(opts, generator.WithSeed(conf.Generator.Seed))
			}
			n, err := generator.NewGenerator(producer, conf.Kafka.InputTopic, opts...).Run(ctx)
			log.Infow("Simulation finished", zap.Int("records", n))
			return err
		},
	}
	command.Flags().Int("max-records", 10000, "Stop after this many records, 0 runs until interrupted")
	command.Flags().Duration("interval", 0, "Pause between two ticks of the simulation")
	command.Flags().Int64("seed", 0, "Seed of the simulation, 0 picks a random one")
	return command
}
