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

package aggregator

import (
	"time"

	"github.com/numaproj/reactorwatch/pkg/telemetry"
	"github.com/numaproj/reactorwatch/pkg/window"
)

// SafetyPressureLimit is the pressure the safety margin is measured against.
const SafetyPressureLimit = 18.0

// WindowAggregate is the running state of one unit within one window.
type WindowAggregate struct {
	UnitID               string
	Window               window.IntervalWindow
	Count                int64
	SumNeutronFlux       float64
	RunningEfficiencySum float64
	AvgEfficiency        float64
	SafetyMargin         float64
	// LastTimestamp starts at 0 for every new window, so the first sample of a window
	// measures its delta against the epoch.
	LastTimestamp int64
}

func newWindowAggregate(unitID string, w window.IntervalWindow) *WindowAggregate {
	return &WindowAggregate{UnitID: unitID, Window: w}
}

// Add applies one reading to the aggregate.
func (a *WindowAggregate) Add(r telemetry.Reading) {
	a.Count++
	a.SumNeutronFlux += r.NeutronFlux

	delta := r.Timestamp - a.LastTimestamp
	instantEfficiency := 0.0
	if delta > 0 {
		instantEfficiency = r.ReactorPower / float64(delta)
	}
	a.RunningEfficiencySum += instantEfficiency
	a.AvgEfficiency = a.RunningEfficiencySum / float64(a.Count)

	// latest sample only
	a.SafetyMargin = SafetyPressureLimit - r.ReactorPressure
	a.LastTimestamp = r.Timestamp
}

// Snapshot returns a copy of the current state of the aggregate.
func (a *WindowAggregate) Snapshot() Snapshot {
	avgFlux := 0.0
	if a.Count > 0 {
		avgFlux = a.SumNeutronFlux / float64(a.Count)
	}
	return Snapshot{
		UnitID:            a.UnitID,
		WindowStart:       a.Window.StartTime(),
		WindowEnd:         a.Window.EndTime(),
		Count:             a.Count,
		AvgNeutronFlux:    avgFlux,
		ThermalEfficiency: a.AvgEfficiency,
		SafetyMargin:      a.SafetyMargin,
		LastTimestamp:     a.LastTimestamp,
	}
}

// Snapshot is an immutable view of a WindowAggregate, emitted after every update.
// Consumers treat (UnitID, WindowStart) as the upsert key.
type Snapshot struct {
	UnitID            string    `json:"unit_id"`
	WindowStart       time.Time `json:"window_start"`
	WindowEnd         time.Time `json:"window_end"`
	Count             int64     `json:"count"`
	AvgNeutronFlux    float64   `json:"avg_neutron_flux"`
	ThermalEfficiency float64   `json:"thermal_efficiency"`
	SafetyMargin      float64   `json:"safety_margin"`
	LastTimestamp     int64     `json:"last_timestamp"`
}
