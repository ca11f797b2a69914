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
	"strconv"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

const (
	// HeaderReason carries the decode error of a dead letter.
	HeaderReason = "x-reactorwatch-reason"
	// HeaderSource carries topic/partition/offset of the original record of a dead letter.
	HeaderSource = "x-reactorwatch-source"
)

// ToKafka produces alerts and dead letters to a kafka topic.
type ToKafka struct {
	name     string
	producer sarama.SyncProducer
	topic    string
	log      *zap.SugaredLogger
}

var (
	_ sinks.AlertWriter      = (*ToKafka)(nil)
	_ sinks.DeadLetterWriter = (*ToKafka)(nil)
)

type Option func(*ToKafka) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToKafka) error {
		t.log = log
		return nil
	}
}

// WithProducer sets the producer instead of dialing the brokers.
func WithProducer(p sarama.SyncProducer) Option {
	return func(t *ToKafka) error {
		t.producer = p
		return nil
	}
}

// NewToKafka returns ToKafka type.
func NewToKafka(name string, brokers []string, topic string, config *sarama.Config, opts ...Option) (*ToKafka, error) {
	toKafka := new(ToKafka)
	//apply options for kafka sink
	for _, o := range opts {
		if err := o(toKafka); err != nil {
			return nil, err
		}
	}

	//set default logger
	if toKafka.log == nil {
		toKafka.log = logging.NewLogger()
	}
	toKafka.log = toKafka.log.With("sinkType", "kafka").With("topic", topic)
	toKafka.name = name
	toKafka.topic = topic

	if toKafka.producer == nil {
		if config == nil {
			return nil, fmt.Errorf("kafka sink %q requires a sarama config", name)
		}
		// SyncProducer needs the successes channel
		config.Producer.Return.Successes = true
		producer, err := sarama.NewSyncProducer(brokers, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer. %w", err)
		}
		toKafka.producer = producer
	}
	return toKafka, nil
}

// GetName returns the name.
func (tk *ToKafka) GetName() string {
	return tk.name
}

// WriteAlert publishes the event keyed by its unit.
func (tk *ToKafka) WriteAlert(_ context.Context, event telemetry.EnrichedEvent) sinks.Result {
	payload, err := telemetry.EncodeEvent(event)
	if err != nil {
		return sinks.Drop(tk.name, err)
	}
	return tk.send(&sarama.ProducerMessage{
		Topic: tk.topic,
		Key:   sarama.StringEncoder(event.Key()),
		Value: sarama.ByteEncoder(payload),
	})
}

// WriteDeadLetter publishes the raw record with the reason it could not be decoded.
func (tk *ToKafka) WriteDeadLetter(_ context.Context, record sinks.DeadLetter) sinks.Result {
	source := record.Topic + ":" + strconv.Itoa(int(record.Partition)) + ":" + strconv.FormatInt(record.Offset, 10)
	msg := &sarama.ProducerMessage{
		Topic: tk.topic,
		Value: sarama.ByteEncoder(record.Value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderReason), Value: []byte(record.Reason)},
			{Key: []byte(HeaderSource), Value: []byte(source)},
		},
	}
	if len(record.Key) > 0 {
		msg.Key = sarama.ByteEncoder(record.Key)
	}
	return tk.send(msg)
}

func (tk *ToKafka) send(message *sarama.ProducerMessage) sinks.Result {
	_, _, err := tk.producer.SendMessage(message)
	if err != nil {
		kafkaSinkWriteErrors.With(map[string]string{metrics.LabelSink: tk.name}).Inc()
		tk.log.Errorw("SendMessage failed", zap.Error(err))
		return sinks.Drop(tk.name, err)
	}
	kafkaSinkWriteCount.With(map[string]string{metrics.LabelSink: tk.name}).Inc()
	return sinks.OK(tk.name)
}

func (tk *ToKafka) Close() error {
	tk.log.Info("Closing kafka producer...")
	return tk.producer.Close()
}
