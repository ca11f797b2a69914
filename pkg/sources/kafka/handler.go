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
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/metrics"
	"github.com/numaproj/reactorwatch/pkg/sources"
)

// consumerHandler runs one worker per claimed partition.
type consumerHandler struct {
	ready       chan bool
	readyCloser sync.Once
	newWorker   sources.WorkerFactory
	// commitBefore marks the offset before the record is processed
	commitBefore   bool
	expiryInterval time.Duration
	logger         *zap.SugaredLogger
}

// new handler creates a worker for every claim with the given factory
func newConsumerHandler(factory sources.WorkerFactory, commitBefore bool, expiryInterval time.Duration, logger *zap.SugaredLogger) *consumerHandler {
	return &consumerHandler{
		ready:          make(chan bool),
		newWorker:      factory,
		commitBefore:   commitBefore,
		expiryInterval: expiryInterval,
		logger:         logger,
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *consumerHandler) Setup(sess sarama.ConsumerGroupSession) error {
	consumer.logger.Infow("Consumer group session started", zap.String("memberID", sess.MemberID()), zap.Int32("generation", sess.GenerationID()), zap.Any("claims", sess.Claims()))
	consumer.readyCloser.Do(func() {
		close(consumer.ready)
	})
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *consumerHandler) Cleanup(sess sarama.ConsumerGroupSession) error {
	// every worker has returned, flush the marked offsets
	sess.Commit()
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (consumer *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	// The `ConsumeClaim` itself is called within a goroutine, see:
	// https://github.com/IBM/sarama/blob/main/consumer_group.go#L27-L29
	topic, partition := claim.Topic(), claim.Partition()
	labels := map[string]string{metrics.LabelTopic: topic, metrics.LabelPartition: strconv.Itoa(int(partition))}
	log := consumer.logger.With("topic", topic).With("partition", partition)

	// in-flight records are finished even after the session is cancelled
	processCtx := context.WithoutCancel(session.Context())
	worker := consumer.newWorker(processCtx, topic, partition)
	defer worker.Close()
	kafkaSourceClaims.With(map[string]string{metrics.LabelTopic: topic}).Inc()
	defer kafkaSourceClaims.With(map[string]string{metrics.LabelTopic: topic}).Dec()
	log.Infow("Partition claimed", zap.Int64("initialOffset", claim.InitialOffset()))

	var tick <-chan time.Time
	if consumer.expiryInterval > 0 {
		ticker := time.NewTicker(consumer.expiryInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			kafkaSourceReadCount.With(labels).Inc()
			if consumer.commitBefore {
				session.MarkMessage(msg, "")
				kafkaSourceAckCount.With(labels).Inc()
			}
			worker.Process(processCtx, toRecord(msg))
			if !consumer.commitBefore {
				session.MarkMessage(msg, "")
				kafkaSourceAckCount.With(labels).Inc()
			}
		case <-tick:
			worker.Expire()
		case <-session.Context().Done():
			log.Info("context was canceled, stopping consumer claim")
			return nil
		}
	}
}

func toRecord(m *sarama.ConsumerMessage) sources.Record {
	return sources.Record{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Timestamp,
	}
}
