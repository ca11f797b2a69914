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

package kafka

import (
	"context"
	"fmt"
	"testing"

	mock "github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

func scram() telemetry.EnrichedEvent {
	return telemetry.NewEnrichedEvent(telemetry.Reading{
		UnitID:          "ZNPP-4",
		Timestamp:       1700000000000,
		NeutronFlux:     1300,
		ReactorPressure: 17.4,
	}, telemetry.ScramEvent, "CRITICAL: Pressure/Flux exceeded safe limits!")
}

func TestWriteAlertSuccessToKafka(t *testing.T) {
	conf := mock.NewTestConfig()
	conf.Producer.Return.Successes = true
	producer := mock.NewSyncProducer(t, conf)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		e, err := telemetry.DecodeEvent(val)
		if err != nil {
			return err
		}
		if e.EventType != telemetry.ScramEvent || e.Telemetry.UnitID != "ZNPP-4" {
			return fmt.Errorf("unexpected alert %+v", e)
		}
		return nil
	})

	toKafka, err := NewToKafka("alerts", nil, "npp-alerts", nil, WithProducer(producer), WithLogger(logging.NewLogger()))
	require.NoError(t, err)
	res := toKafka.WriteAlert(context.Background(), scram())
	assert.Equal(t, sinks.Written, res.Outcome)
	assert.NoError(t, res.Err)
	assert.NoError(t, toKafka.Close())
}

func TestWriteAlertFailureToKafka(t *testing.T) {
	conf := mock.NewTestConfig()
	producer := mock.NewSyncProducer(t, conf)
	producer.ExpectSendMessageAndFail(fmt.Errorf("test"))

	toKafka, err := NewToKafka("alerts", nil, "npp-alerts", nil, WithProducer(producer))
	require.NoError(t, err)
	res := toKafka.WriteAlert(context.Background(), scram())
	assert.Equal(t, sinks.Dropped, res.Outcome)
	assert.Equal(t, "test", res.Err.Error())
	assert.Equal(t, "alerts", res.Sink)
	assert.NoError(t, toKafka.Close())
}

func TestWriteDeadLetter(t *testing.T) {
	conf := mock.NewTestConfig()
	producer := mock.NewSyncProducer(t, conf)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != "welcome" {
			return fmt.Errorf("unexpected value %q", val)
		}
		return nil
	})

	toKafka, err := NewToKafka("dead-letters", nil, "npp-raw-telemetry-dlq", nil, WithProducer(producer))
	require.NoError(t, err)
	res := toKafka.WriteDeadLetter(context.Background(), sinks.DeadLetter{
		Topic:     "npp-raw-telemetry",
		Partition: 2,
		Offset:    42,
		Key:       []byte("ZNPP-1"),
		Value:     []byte("welcome"),
		Reason:    "invalid character 'w'",
	})
	assert.Equal(t, sinks.Written, res.Outcome)
	assert.NoError(t, toKafka.Close())
}

func TestNewToKafka_RequiresConfig(t *testing.T) {
	_, err := NewToKafka("alerts", []string{"localhost:9092"}, "npp-alerts", nil)
	assert.Error(t, err)
}
