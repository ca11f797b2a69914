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

package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{"unit_id":"ZNPP-1","timestamp":1700000000123,"neutron_flux":1000.5,"reactor_power":950.48,` +
	`"coolant_temp_inlet":290.1,"coolant_temp_outlet":321.78,"reactor_pressure":16.02,"control_rod_position":80,"radiation_level":10.3}`

func TestDecodeReading(t *testing.T) {
	r, err := DecodeReading([]byte(sampleRecord))
	require.NoError(t, err)
	assert.Equal(t, Reading{
		UnitID:             "ZNPP-1",
		Timestamp:          1700000000123,
		NeutronFlux:        1000.5,
		ReactorPower:       950.48,
		CoolantTempInlet:   290.1,
		CoolantTempOutlet:  321.78,
		ReactorPressure:    16.02,
		ControlRodPosition: 80,
		RadiationLevel:     10.3,
	}, r)
	assert.Equal(t, time.UnixMilli(1700000000123).UTC(), r.EventTime())
}

func TestDecodeReading_IgnoresUnknownFields(t *testing.T) {
	withExtra := `{"unit_id":"ZNPP-1","timestamp":1700000000123,"neutron_flux":1000.5,"reactor_power":950.48,` +
		`"coolant_temp_inlet":290.1,"coolant_temp_outlet":321.78,"reactor_pressure":16.02,"control_rod_position":80,` +
		`"radiation_level":10.3,"operator":"shift-b","tags":{"zone":"A"}}`

	plain, err := DecodeReading([]byte(sampleRecord))
	require.NoError(t, err)
	extra, err := DecodeReading([]byte(withExtra))
	require.NoError(t, err)
	assert.Equal(t, plain, extra)

	encoded, err := EncodeReading(extra)
	require.NoError(t, err)
	again, err := DecodeReading(encoded)
	require.NoError(t, err)
	assert.Equal(t, plain, again)
}

func TestDecodeReading_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "not json", payload: []byte("welcome")},
		{name: "wrong type", payload: []byte(`{"unit_id":"ZNPP-1","timestamp":"yesterday"}`)},
		{name: "truncated", payload: []byte(`{"unit_id":"ZNPP-1",`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReading(tt.payload)
			require.Error(t, err)
			var de *DecodeError
			assert.True(t, errors.As(err, &de))
			assert.Equal(t, tt.payload, de.Payload)
		})
	}
}

func TestEncodeEvent(t *testing.T) {
	r, err := DecodeReading([]byte(sampleRecord))
	require.NoError(t, err)
	e := NewEnrichedEvent(r, ScramEvent, "CRITICAL: Pressure/Flux exceeded safe limits!")

	b, err := EncodeEvent(e)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"eventType":"SCRAM_EVENT"`)
	assert.Contains(t, string(b), `"telemetry":{"unit_id":"ZNPP-1"`)

	decoded, err := DecodeEvent(b)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
	assert.Equal(t, "ZNPP-1", decoded.Key())
}

func TestEventType_IsAbnormal(t *testing.T) {
	assert.False(t, ParameterRecorded.IsAbnormal())
	assert.True(t, SafetyLimitApproached.IsAbnormal())
	assert.True(t, ScramEvent.IsAbnormal())
}
