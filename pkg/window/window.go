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

package window

import (
	"fmt"
	"time"
)

// DefaultLength is the length of the tumbling window used by the aggregator.
const DefaultLength = time.Minute

// IntervalWindow is a fixed window. Start is inclusive, End is exclusive.
type IntervalWindow struct {
	// ID is floor(eventTime / length).
	ID int64
	// Start of the window in epoch milliseconds.
	Start int64
	// End of the window in epoch milliseconds.
	End int64
}

// StartTime returns start of the window.
func (w IntervalWindow) StartTime() time.Time {
	return time.UnixMilli(w.Start).UTC()
}

// EndTime returns end of the window.
func (w IntervalWindow) EndTime() time.Time {
	return time.UnixMilli(w.End).UTC()
}

// Contains returns true if the event time falls within the window.
func (w IntervalWindow) Contains(eventTime int64) bool {
	return eventTime >= w.Start && eventTime < w.End
}

func (w IntervalWindow) String() string {
	return fmt.Sprintf("%d:[%d,%d)", w.ID, w.Start, w.End)
}

// KeyedWindow is a window that belongs to a key.
type KeyedWindow struct {
	Key    string
	Window IntervalWindow
}

// Operation represents what admitting a record does to the windows of its key.
type Operation int

const (
	// Open creates a new window for the key.
	Open Operation = iota
	// Append applies the record to the open window of the key.
	Append
	// Drop discards the record because its window has already been closed.
	Drop
)

func (o Operation) String() string {
	switch o {
	case Open:
		return "Open"
	case Append:
		return "Append"
	case Drop:
		return "Drop"
	default:
		return "Unknown"
	}
}
