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
package processor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/config"
	"github.com/numaproj/reactorwatch/pkg/shared/logging"
	"github.com/numaproj/reactorwatch/pkg/sinks"
	"github.com/numaproj/reactorwatch/pkg/sources"
)

// DecodeFailurePolicy decides what happens to a record that is not valid telemetry.
// The record is never passed on to classification.
type DecodeFailurePolicy interface {
	Name() string
	OnDecodeFailure(ctx context.Context, r sources.Record, err error)
}

// DropPolicy logs and discards malformed records.
type DropPolicy struct {
	log *zap.SugaredLogger
}

func NewDropPolicy(log *zap.SugaredLogger) *DropPolicy {
	if log == nil {
		log = logging.NewLogger()
	}
	return &DropPolicy{log: log}
}

func (p *DropPolicy) Name() string {
	return config.DecodePolicyDrop
}

func (p *DropPolicy) OnDecodeFailure(_ context.Context, r sources.Record, err error) {
	p.log.Warnw("Dropping malformed record", zap.Stringer("record", r), zap.Int("size", len(r.Value)), zap.Error(err))
}

// DeadLetterPolicy forwards malformed records, unchanged, to a dead letter writer.
type DeadLetterPolicy struct {
	writer sinks.DeadLetterWriter
	log    *zap.SugaredLogger
}

func NewDeadLetterPolicy(writer sinks.DeadLetterWriter, log *zap.SugaredLogger) *DeadLetterPolicy {
	if log == nil {
		log = logging.NewLogger()
	}
	return &DeadLetterPolicy{writer: writer, log: log}
}

func (p *DeadLetterPolicy) Name() string {
	return config.DecodePolicyDeadLetter
}

func (p *DeadLetterPolicy) OnDecodeFailure(ctx context.Context, r sources.Record, err error) {
	res := p.writer.WriteDeadLetter(ctx, sinks.DeadLetter{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Reason:    err.Error(),
	})
	if res.Outcome == sinks.Dropped {
		p.log.Errorw("Failed to dead-letter malformed record, dropping it", zap.Stringer("record", r), zap.Error(res.Err))
		return
	}
	p.log.Debugw("Malformed record dead-lettered", zap.Stringer("record", r), zap.Error(err))
}

func (p *DeadLetterPolicy) Close() error {
	return p.writer.Close()
}

// NewDecodeFailurePolicy returns the policy of the given name. The dead letter writer is only
// required by the dead-letter policy.
func NewDecodeFailurePolicy(name string, writer sinks.DeadLetterWriter, log *zap.SugaredLogger) (DecodeFailurePolicy, error) {
	switch name {
	case config.DecodePolicyDrop:
		return NewDropPolicy(log), nil
	case config.DecodePolicyDeadLetter:
		if writer == nil {
			return nil, fmt.Errorf("decode failure policy %q requires a dead letter writer", name)
		}
		return NewDeadLetterPolicy(writer, log), nil
	default:
		return nil, fmt.Errorf("unknown decode failure policy %q", name)
	}
}
