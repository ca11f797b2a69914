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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sources"
)

// DefaultExpiryInterval is how often a worker is asked to retire idle state.
const DefaultExpiryInterval = 10 * time.Second

// KafkaSource reads a topic through a consumer group. Every claimed partition is processed
// by its own worker, so a slow partition never stalls another one.
type KafkaSource struct {
	// name of the source
	name string
	// group name of the consumer group
	groupName string
	// topic to consume messages from
	topic string
	// kafka brokers
	brokers []string
	// handler for a kafka consumer group
	handler *consumerHandler
	// sarama config for kafka consumer group
	config *sarama.Config
	group  sarama.ConsumerGroup
	// commitBefore selects at-most-once offset marking
	commitBefore   bool
	expiryInterval time.Duration
	logger         *zap.SugaredLogger
	closeOnce      sync.Once
}

var _ sources.Source = (*KafkaSource)(nil)

// NewKafkaSource returns a KafkaSource based on Kafka Consumer Group. It connects to the brokers
// right away, so an unreachable cluster fails here.
func NewKafkaSource(name string, brokers []string, topic string, config *sarama.Config, factory sources.WorkerFactory, opts ...Option) (*KafkaSource, error) {
	kafkaSource := &KafkaSource{
		name:           name,
		groupName:      name,
		topic:          topic,
		brokers:        brokers,
		config:         config,
		commitBefore:   true,
		expiryInterval: DefaultExpiryInterval,
		logger:         logging.NewLogger(), // default logger
	}

	for _, o := range opts {
		if err := o(kafkaSource); err != nil {
			return nil, err
		}
	}
	kafkaSource.logger = kafkaSource.logger.With("source", name).With("topic", topic)

	sarama.Logger = zap.NewStdLog(kafkaSource.logger.Desugar())

	if kafkaSource.group == nil {
		if config == nil {
			return nil, fmt.Errorf("kafka source %q requires a sarama config", name)
		}
		// return errors from the underlying kafka client using the Errors channel
		config.Consumer.Return.Errors = true
		group, err := sarama.NewConsumerGroup(brokers, kafkaSource.groupName, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka consumer group, %w", err)
		}
		kafkaSource.group = group
	}
	kafkaSource.handler = newConsumerHandler(factory, kafkaSource.commitBefore, kafkaSource.expiryInterval, kafkaSource.logger)
	return kafkaSource, nil
}

func (r *KafkaSource) GetName() string {
	return r.name
}

// Ready is closed once the first consumer group session is set up.
func (r *KafkaSource) Ready() <-chan bool {
	return r.handler.ready
}

// Start consumes until the context is cancelled. It returns after every claim has finished its
// in-flight record and the marked offsets are committed.
func (r *KafkaSource) Start(ctx context.Context) error {
	r.logger.Infow("Starting kafka consumer group", zap.String("consumerGroupName", r.groupName), zap.Strings("brokers", r.brokers))
	wg := new(sync.WaitGroup)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case cErr, ok := <-r.group.Errors():
				if !ok {
					return
				}
				kafkaSourceErrors.With(map[string]string{metrics.LabelTopic: r.topic}).Inc()
				r.logger.Errorw("Kafka consumer error", zap.Error(cErr))
			}
		}
	}()

	var consumeErr error
	for {
		// `Consume` should be called inside an infinite loop; when a
		// server-side re-balance happens, the consumer session will need to be
		// recreated to get the new claims
		if err := r.group.Consume(ctx, []string{r.topic}, r.handler); err != nil {
			if !errors.Is(err, sarama.ErrClosedConsumerGroup) {
				consumeErr = fmt.Errorf("kafka consumer failed, %w", err)
			}
			break
		}
		// check if context was cancelled, signaling that the consumer should stop
		if ctx.Err() != nil {
			break
		}
	}
	cancel()
	wg.Wait()
	r.logger.Info("Kafka consumer stopped")
	return consumeErr
}

func (r *KafkaSource) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.logger.Info("Closing kafka consumer group...")
		err = r.group.Close()
	})
	return err
}
