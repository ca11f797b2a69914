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
package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// generatorRecordCount is the number of readings produced by the simulator
var generatorRecordCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "generator",
	Name:      "records_total",
	Help:      "Total number of telemetry records produced",
}, []string{"topic"})

// generatorTickCount is the number of times the simulator has ticked
var generatorTickCount = promauto.NewCounter(prometheus.CounterOpts{
	Subsystem: "generator",
	Name:      "ticks_total",
	Help:      "Total number of simulation ticks",
})

// generatorErrorCount is the number of failed produce batches
var generatorErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "generator",
	Name:      "error_total",
	Help:      "Total number of produce errors",
}, []string{"topic"})
