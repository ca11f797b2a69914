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
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion   = "version"
	LabelPlatform  = "platform"
	LabelComponent = "component"
	LabelTopic     = "topic"
	LabelPartition = "partition"
	LabelEventType = "event_type"
	LabelSink      = "sink"
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant value '1', labeled by reactorwatch binary version, platform, and component",
	}, []string{LabelComponent, LabelVersion, LabelPlatform})
)

// Processor metrics
var (
	// ReadMessagesCount is used to indicate the number of records read from the source
	ReadMessagesCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "processor",
		Name:      "read_total",
		Help:      "Total number of records read",
	}, []string{LabelTopic, LabelPartition})

	// ReadBytesCount is to indicate the number of bytes read
	ReadBytesCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "processor",
		Name:      "read_bytes_total",
		Help:      "Total number of bytes read",
	}, []string{LabelTopic, LabelPartition})

	// DecodeErrorCount is used to indicate the number of records that could not be decoded
	DecodeErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "processor",
		Name:      "decode_error_total",
		Help:      "Total number of malformed records, labeled by the decode failure policy applied",
	}, []string{LabelTopic, LabelPartition, LabelReason})

	// ClassifiedCount is used to indicate the number of classified readings per classification
	ClassifiedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "processor",
		Name:      "classified_total",
		Help:      "Total number of classified readings",
	}, []string{LabelEventType})

	// LateDropCount is used to indicate the number of readings dropped because their window was closed
	LateDropCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "processor",
		Name:      "late_drop_total",
		Help:      "Total number of readings mapped to a closed window",
	}, []string{LabelPartition})

	// ProcessingTime is a histogram to observe the latency of processing one record
	ProcessingTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "processor",
		Name:      "processing_time",
		Help:      "Processing times of one record (100 microseconds to 20 minutes)",
		Buckets:   prometheus.ExponentialBucketsRange(100, 60000000*20, 10),
	}, []string{LabelPartition})
)

// Window metrics
var (
	// OpenWindows is the number of aggregates held in memory per partition
	OpenWindows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem: "window",
		Name:      "open_total",
		Help:      "Number of open windows",
	}, []string{LabelPartition})

	// ClosedWindowsCount is used to indicate the number of retired windows
	ClosedWindowsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "window",
		Name:      "closed_total",
		Help:      "Total number of retired windows, labeled by what retired them",
	}, []string{LabelPartition, LabelReason})
)

// Sink metrics
var (
	// SinkResultCount is used to indicate the outcome of every sink write
	SinkResultCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sink",
		Name:      "result_total",
		Help:      "Total number of sink writes, labeled by outcome",
	}, []string{LabelSink, LabelOutcome})
)
