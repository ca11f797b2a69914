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
// Package sources defines how records reach the partition workers.
package sources

import (
	"context"
	"fmt"
	"time"
)

// Record is one raw record read from a source partition.
type Record struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

func (r Record) String() string {
	return fmt.Sprintf("%s:%d:%d", r.Topic, r.Partition, r.Offset)
}

// PartitionWorker processes the records of one partition, one at a time and in offset order.
// A worker is created when a partition is assigned and closed when it is revoked.
type PartitionWorker interface {
	// Process handles one record and returns when every write caused by it has completed.
	Process(ctx context.Context, r Record)
	// Expire is called periodically between records to retire idle state.
	Expire()
	Close()
}

// WorkerFactory creates the worker of a newly assigned partition.
type WorkerFactory func(ctx context.Context, topic string, partition int32) PartitionWorker

// Source feeds records to partition workers until its context is cancelled.
type Source interface {
	GetName() string
	// Start blocks until the context is cancelled and every in-flight record has been processed.
	Start(ctx context.Context) error
	Close() error
}
