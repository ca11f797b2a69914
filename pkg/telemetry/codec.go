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
	"fmt"

	"github.com/goccy/go-json"
)

// ErrEmptyPayload is returned when a record carries no value.
var ErrEmptyPayload = errors.New("empty telemetry payload")

// DecodeError wraps a failure to turn raw bytes into a Reading.
type DecodeError struct {
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode telemetry record, %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeReading decodes a JSON telemetry record. Unknown fields are ignored.
func DecodeReading(data []byte) (Reading, error) {
	var r Reading
	if len(data) == 0 {
		return r, &DecodeError{Payload: data, Err: ErrEmptyPayload}
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return Reading{}, &DecodeError{Payload: data, Err: err}
	}
	return r, nil
}

// EncodeReading returns the JSON encoding of the reading, as stored in the audit log payload.
func EncodeReading(r Reading) ([]byte, error) {
	return json.Marshal(r)
}

// EncodeEvent returns the JSON encoding of an enriched event, as published on the alert stream.
func EncodeEvent(e EnrichedEvent) ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent decodes an alert record.
func DecodeEvent(data []byte) (EnrichedEvent, error) {
	var e EnrichedEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return EnrichedEvent{}, fmt.Errorf("failed to decode enriched event, %w", err)
	}
	return e, nil
}
