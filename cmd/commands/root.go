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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/numaproj/reactorwatch/pkg/config"
)

const (
	CLIName = "reactorwatch"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   CLIName,
	Short: "Reactor telemetry monitoring",
	Long: "Reads reactor telemetry from Kafka, classifies every reading, writes an audit log and alerts,\n" +
		"and keeps per-unit one minute aggregates in a state store.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a yaml configuration file, values are overridden by "+config.EnvPrefix+"_* environment variables")
	rootCmd.AddCommand(NewProcessorCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewInitSchemaCommand())
	rootCmd.AddCommand(NewVersionCommand())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the configuration, with command flags bound to their keys taking precedence.
func loadConfig(bind func(v *viper.Viper) error) (*config.Config, error) {
	v := config.NewViper()
	if bind != nil {
		if err := bind(v); err != nil {
			return nil, err
		}
	}
	return config.Load(v, configFile)
}
