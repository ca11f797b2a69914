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
	"database/sql"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/config"
	natsclient "github.com/numaproj/reactorwatch/pkg/shared/clients/nats"
	redisclient "github.com/numaproj/reactorwatch/pkg/shared/clients/redis"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	kafkasink "github.com/numaproj/reactorwatch/pkg/sinks/kafka"
	logsink "github.com/numaproj/reactorwatch/pkg/sinks/logger"
	natssink "github.com/numaproj/reactorwatch/pkg/sinks/nats"
	"github.com/numaproj/reactorwatch/pkg/sinks/postgres"
	redissink "github.com/numaproj/reactorwatch/pkg/sinks/redis"
)

// sinkSet holds the writers of one processor.
type sinkSet struct {
	audit      sinks.AuditWriter
	alert      sinks.AlertWriter
	state      sinks.StateWriter
	deadLetter sinks.DeadLetterWriter
	// db is set when a postgres backend is used
	db *sql.DB
	// opened is every writer created, in creation order
	opened []interface{ Close() error }
}

func (s *sinkSet) close() error {
	var err error
	closed := make(map[interface{ Close() error }]bool)
	for _, c := range s.opened {
		if closed[c] {
			continue
		}
		closed[c] = true
		err = multierr.Append(err, c.Close())
	}
	return err
}

// buildSinks connects every backend named by the configuration. A backend that cannot be reached
// fails the whole build, and anything opened so far is closed again.
func buildSinks(ctx context.Context, conf *config.Config, saramaConf *sarama.Config) (_ *sinkSet, err error) {
	log := logging.FromContext(ctx)
	set := &sinkSet{}
	defer func() {
		if err != nil {
			err = multierr.Append(err, set.close())
		}
	}()

	var toLog *logsink.ToLog
	logSink := func() (*logsink.ToLog, error) {
		if toLog != nil {
			return toLog, nil
		}
		l, lerr := logsink.NewToLog("log", logsink.WithLogger(log))
		if lerr != nil {
			return nil, lerr
		}
		toLog = l
		set.opened = append(set.opened, toLog)
		return toLog, nil
	}
	openDB := func() (*sql.DB, error) {
		if set.db != nil {
			return set.db, nil
		}
		db, oerr := postgres.Open(ctx, conf.Sinks.Postgres.DSN)
		if oerr != nil {
			return nil, oerr
		}
		set.db = db
		set.opened = append(set.opened, db)
		return db, nil
	}

	switch conf.Sinks.Audit {
	case config.BackendPostgres:
		db, err := openDB()
		if err != nil {
			return nil, err
		}
		set.audit = postgres.NewToAudit("audit-postgres", db, postgres.WithAuditTable(conf.Sinks.Postgres.AuditTable), postgres.WithAuditLogger(log))
	case config.BackendLog:
		if set.audit, err = logSink(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported audit sink %q", conf.Sinks.Audit)
	}

	switch conf.Sinks.Alert {
	case config.BackendKafka:
		toKafka, err := kafkasink.NewToKafka("alert-kafka", conf.Kafka.Brokers, conf.Kafka.AlertTopic, saramaConf, kafkasink.WithLogger(log))
		if err != nil {
			return nil, err
		}
		set.opened = append(set.opened, toKafka)
		set.alert = toKafka
	case config.BackendNATS:
		client, err := natsclient.NewNATSClient(ctx, natsclient.Config{
			URL:      conf.Sinks.NATS.URL,
			User:     conf.Sinks.NATS.User,
			Password: conf.Sinks.NATS.Password,
			TLS:      conf.Sinks.NATS.TLS,
		})
		if err != nil {
			return nil, err
		}
		toNATS, err := natssink.NewToNATS("alert-nats", client, conf.Sinks.NATS.Subject, natssink.WithLogger(log))
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		set.opened = append(set.opened, toNATS)
		set.alert = toNATS
	case config.BackendLog:
		if set.alert, err = logSink(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported alert sink %q", conf.Sinks.Alert)
	}

	switch conf.Sinks.State {
	case config.BackendPostgres:
		db, err := openDB()
		if err != nil {
			return nil, err
		}
		set.state = postgres.NewToState("state-postgres", db, postgres.WithStateTable(conf.Sinks.Postgres.StateTable), postgres.WithStateLogger(log))
	case config.BackendRedis:
		r := conf.Sinks.Redis
		client := redisclient.NewRedisClientFromConfig(r.Addrs, r.Username, r.Password, r.MasterName)
		toRedis := redissink.NewToRedis(ctx, "state-redis", client, redisclient.WithKeyPrefix(r.KeyPrefix), redisclient.WithTTL(r.TTL))
		set.opened = append(set.opened, toRedis)
		if err := toRedis.IsHealthy(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis, %w", err)
		}
		set.state = toRedis
	case config.BackendLog:
		if set.state, err = logSink(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported state sink %q", conf.Sinks.State)
	}

	if conf.Processor.DecodeFailurePolicy == config.DecodePolicyDeadLetter {
		dlq, err := kafkasink.NewToKafka("dead-letter-kafka", conf.Kafka.Brokers, conf.Kafka.DeadLetterTopic, saramaConf, kafkasink.WithLogger(log))
		if err != nil {
			return nil, err
		}
		set.opened = append(set.opened, dlq)
		set.deadLetter = dlq
	}

	log.Infow("Sinks ready", zap.String("audit", set.audit.GetName()), zap.String("alert", set.alert.GetName()), zap.String("state", set.state.GetName()))
	return set, nil
}
