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

// Package classifier maps telemetry readings to safety classifications.
package classifier

import "github.com/numaproj/reactorwatch/pkg/telemetry"

const (
	// ScramPressure is the reactor pressure above which a SCRAM is raised.
	ScramPressure = 17.0
	// ScramNeutronFlux is the neutron flux above which a SCRAM is raised.
	ScramNeutronFlux = 1200.0
	// WarningPressure is the reactor pressure above which the safety limit is considered approached.
	WarningPressure = 16.5

	ScramDescription   = "CRITICAL: Pressure/Flux exceeded safe limits!"
	WarningDescription = "WARNING: Pressure high"
	NormalDescription  = "Normal Operation"
)

// Classify returns the enriched event for the reading.
// Only pressure and flux are considered, all comparisons are strict, and the
// first matching tier wins.
func Classify(r telemetry.Reading) telemetry.EnrichedEvent {
	switch {
	case r.ReactorPressure > ScramPressure || r.NeutronFlux > ScramNeutronFlux:
		return telemetry.NewEnrichedEvent(r, telemetry.ScramEvent, ScramDescription)
	case r.ReactorPressure > WarningPressure:
		return telemetry.NewEnrichedEvent(r, telemetry.SafetyLimitApproached, WarningDescription)
	default:
		return telemetry.NewEnrichedEvent(r, telemetry.ParameterRecorded, NormalDescription)
	}
}
