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
package config

import (
	"errors"
	"fmt"
	"strings"
)

// DeliveryGuarantee decides when the source offset of a record is committed relative to its processing.
type DeliveryGuarantee string

const (
	// AtMostOnce marks the offset before the record is processed. A crash loses the in-flight record.
	AtMostOnce DeliveryGuarantee = "at-most-once"
	// AtLeastOnce marks the offset after the record is processed. A crash replays the in-flight record.
	AtLeastOnce DeliveryGuarantee = "at-least-once"
	// ExactlyOnce is recognized only to be rejected.
	ExactlyOnce DeliveryGuarantee = "exactly-once"
)

var ErrUnsupportedDeliveryGuarantee = errors.New("unsupported delivery guarantee")

// ParseDeliveryGuarantee parses a delivery guarantee, accepting "_" as separator.
func ParseDeliveryGuarantee(s string) (DeliveryGuarantee, error) {
	d := DeliveryGuarantee(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

func (d DeliveryGuarantee) Validate() error {
	switch d {
	case AtMostOnce, AtLeastOnce:
		return nil
	case ExactlyOnce:
		return fmt.Errorf("%w %q, the sinks are not transactional", ErrUnsupportedDeliveryGuarantee, d)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedDeliveryGuarantee, d)
	}
}

// CommitBeforeProcessing returns true if the offset must be marked before the record is processed.
func (d DeliveryGuarantee) CommitBeforeProcessing() bool {
	return d != AtLeastOnce
}

func (d DeliveryGuarantee) String() string {
	return string(d)
}
