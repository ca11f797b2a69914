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

// Package telemetry defines the reactor telemetry reading, the classified event built from it,
// and their JSON wire encoding.
package telemetry

import "time"

// EventType is the classification tag attached to every reading.
type EventType string

const (
	ParameterRecorded     EventType = "PARAMETER_RECORDED"
	SafetyLimitApproached EventType = "SAFETY_LIMIT_APPROACHED"
	ScramEvent            EventType = "SCRAM_EVENT"
)

// IsAbnormal returns true for every classification that must raise an alert.
func (e EventType) IsAbnormal() bool {
	return e != ParameterRecorded
}

func (e EventType) String() string {
	return string(e)
}

// Reading is a single sensor sample reported by a reactor unit.
// Timestamps are epoch milliseconds and are non-decreasing per unit as long as the
// transport preserves per-key ordering.
type Reading struct {
	UnitID             string  `json:"unit_id"`
	Timestamp          int64   `json:"timestamp"`
	NeutronFlux        float64 `json:"neutron_flux"`
	ReactorPower       float64 `json:"reactor_power"`
	CoolantTempInlet   float64 `json:"coolant_temp_inlet"`
	CoolantTempOutlet  float64 `json:"coolant_temp_outlet"`
	ReactorPressure    float64 `json:"reactor_pressure"`
	ControlRodPosition int32   `json:"control_rod_position"`
	RadiationLevel     float64 `json:"radiation_level"`
}

// EventTime returns the reading timestamp as a UTC time.
func (r Reading) EventTime() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// EnrichedEvent is a reading together with its classification.
// It is a value type; copies never share state.
type EnrichedEvent struct {
	Telemetry   Reading   `json:"telemetry"`
	EventType   EventType `json:"eventType"`
	Description string    `json:"description"`
}

// NewEnrichedEvent returns a fully formed EnrichedEvent.
func NewEnrichedEvent(r Reading, eventType EventType, description string) EnrichedEvent {
	return EnrichedEvent{
		Telemetry:   r,
		EventType:   eventType,
		Description: description,
	}
}

// Key returns the partition key of the event.
func (e EnrichedEvent) Key() string {
	return e.Telemetry.UnitID
}
