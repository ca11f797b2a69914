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
// Package generator simulates the telemetry of a fleet of reactor units and produces it to Kafka,
// keyed by unit id.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// Generator produces one reading per unit on every tick.
type Generator struct {
	producer   sarama.SyncProducer
	topic      string
	reactors   []*Reactor
	maxRecords int
	interval   time.Duration
	rng        *rand.Rand
	now        func() time.Time
	log        *zap.SugaredLogger
}

type Option func(*Generator)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithMaxRecords stops the generator after n records. Zero means no limit.
func WithMaxRecords(n int) Option {
	return func(g *Generator) {
		g.maxRecords = n
	}
}

// WithInterval sets the pause between two ticks. Zero produces as fast as the brokers accept.
func WithInterval(d time.Duration) Option {
	return func(g *Generator) {
		g.interval = d
	}
}

// WithSeed makes the simulation reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithPlants(plants []Plant) Option {
	return func(g *Generator) {
		g.reactors = NewReactors(plants)
	}
}

// NewGenerator returns a Generator simulating DefaultPlants.
func NewGenerator(producer sarama.SyncProducer, topic string, opts ...Option) *Generator {
	g := &Generator{
		producer: producer,
		topic:    topic,
		reactors: NewReactors(DefaultPlants),
		now:      time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.log == nil {
		g.log = logging.NewLogger()
	}
	return g
}

// Reactors returns the simulated units.
func (g *Generator) Reactors() []*Reactor {
	return g.reactors
}

// Run ticks until the record limit is reached or the context is done. It returns the number of
// records produced.
func (g *Generator) Run(ctx context.Context) (int, error) {
	g.log.Infow("Starting simulation", zap.Int("units", len(g.reactors)), zap.String("topic", g.topic), zap.Int("maxRecords", g.maxRecords))
	count := 0
	for {
		if g.maxRecords > 0 && count >= g.maxRecords {
			g.log.Infow("Record limit reached", zap.Int("records", count))
			return count, nil
		}
		select {
		case <-ctx.Done():
			g.log.Infow("Stopping simulation", zap.Int("records", count))
			return count, nil
		default:
		}

		msgs, err := g.tick(count)
		if err != nil {
			return count, err
		}
		if err := g.producer.SendMessages(msgs); err != nil {
			generatorErrorCount.WithLabelValues(g.topic).Inc()
			return count, fmt.Errorf("failed to produce telemetry, %w", err)
		}
		count += len(msgs)
		generatorRecordCount.WithLabelValues(g.topic).Add(float64(len(msgs)))

		if g.interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(g.interval):
			}
		}
	}
}

// tick advances every unit once and returns their readings, truncated to the remaining record budget.
func (g *Generator) tick(produced int) ([]*sarama.ProducerMessage, error) {
	generatorTickCount.Inc()
	msgs := make([]*sarama.ProducerMessage, 0, len(g.reactors))
	for _, r := range g.reactors {
		if g.maxRecords > 0 && produced+len(msgs) >= g.maxRecords {
			break
		}
		r.Step(g.rng)
		value, err := telemetry.EncodeReading(r.Reading(g.now()))
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: g.topic,
			Key:   sarama.StringEncoder(r.UnitID),
			Value: sarama.ByteEncoder(value),
		})
	}
	return msgs, nil
}
