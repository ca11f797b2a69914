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
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type Option func(*KafkaSource) error

// WithLogger is used to return logger information
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *KafkaSource) error {
		o.logger = l
		return nil
	}
}

// WithGroupName is used to set the consumer group name
func WithGroupName(gn string) Option {
	return func(o *KafkaSource) error {
		o.groupName = gn
		return nil
	}
}

// WithCommitBeforeProcessing marks the offset of a record before it is processed (at-most-once)
// instead of after (at-least-once).
func WithCommitBeforeProcessing(b bool) Option {
	return func(o *KafkaSource) error {
		o.commitBefore = b
		return nil
	}
}

// WithExpiryInterval sets how often the workers retire idle state, 0 disables it.
func WithExpiryInterval(d time.Duration) Option {
	return func(o *KafkaSource) error {
		o.expiryInterval = d
		return nil
	}
}

// WithConsumerGroup uses the given consumer group instead of connecting to the brokers.
func WithConsumerGroup(cg sarama.ConsumerGroup) Option {
	return func(o *KafkaSource) error {
		o.group = cg
		return nil
	}
}
