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
package nats

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/shared/clients/nats"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/telemetry"
)

// ToNATS publishes alerts to a subject per unit, <subjectPrefix>.<unit id>.
type ToNATS struct {
	name          string
	subjectPrefix string
	client        *nats.Client
	log           *zap.SugaredLogger
}

var _ sinks.AlertWriter = (*ToNATS)(nil)

type Option func(*ToNATS)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToNATS) {
		t.log = log
	}
}

// NewToNATS returns an alert writer on top of an established client.
func NewToNATS(name string, client *nats.Client, subjectPrefix string, opts ...Option) (*ToNATS, error) {
	if subjectPrefix == "" {
		return nil, fmt.Errorf("nats sink %q requires a subject", name)
	}
	t := &ToNATS{
		name:          name,
		subjectPrefix: subjectPrefix,
		client:        client,
	}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = logging.NewLogger()
	}
	t.log = t.log.With("sinkType", "nats").With("subject", subjectPrefix)
	return t, nil
}

func (t *ToNATS) GetName() string {
	return t.name
}

// Subject returns the subject alerts of a unit are published to.
func (t *ToNATS) Subject(unitID string) string {
	return t.subjectPrefix + "." + unitID
}

func (t *ToNATS) WriteAlert(ctx context.Context, event telemetry.EnrichedEvent) sinks.Result {
	payload, err := telemetry.EncodeEvent(event)
	if err != nil {
		return sinks.Drop(t.name, err)
	}
	if err := t.client.Publish(ctx, t.Subject(event.Key()), payload); err != nil {
		t.log.Errorw("Publish failed", zap.String("unit", event.Key()), zap.Error(err))
		return sinks.Drop(t.name, err)
	}
	return sinks.OK(t.name)
}

func (t *ToNATS) IsHealthy(ctx context.Context) error {
	return t.client.IsHealthy(ctx)
}

func (t *ToNATS) Close() error {
	t.log.Info("Closing nats connection...")
	return t.client.Close()
}
