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

// Package fixed implements Fixed windows. Fixed windows (sometimes called tumbling windows) are
// defined by a static window size, e.g. minutely windows or hourly windows. They are generally aligned, i.e. every
// window applies across all the data for the corresponding period of time.
// Package fixed also maintains the lifecycle of the active window of every key: absent -> open -> closed.
package fixed

import (
	"math"
	"time"

	"github.com/numaproj/reactorwatch/pkg/window"
)

// Admission is the outcome of admitting a record.
type Admission struct {
	// Window the record was assigned to.
	Window window.IntervalWindow
	// Operation tells what to do with the record.
	Operation window.Operation
	// Closed is set when admitting the record closed the previously open window of the key.
	Closed *window.IntervalWindow
}

// keyState tracks the close boundary and the open window of a key.
type keyState struct {
	// closeBoundary is the largest event time observed for the key, raised to the end of
	// any window that was closed by expiry. Windows ending on or before it are closed.
	closeBoundary int64
	open          *window.IntervalWindow
}

// Fixed implements Fixed window.
// A Fixed is owned by a single worker and is not safe for concurrent use.
type Fixed struct {
	// Length is the temporal length of the window.
	Length time.Duration
	length int64
	// keys keeps one entry per key ever admitted, closed windows included, so that a late record
	// cannot reopen a window. The key space is the fleet of units and stays small.
	keys   map[string]*keyState
	active int
}

// NewFixed returns a Fixed windower.
func NewFixed(length time.Duration) *Fixed {
	if length < time.Millisecond {
		length = window.DefaultLength
	}
	return &Fixed{
		Length: length,
		length: length.Milliseconds(),
		keys:   make(map[string]*keyState),
	}
}

// AssignWindow assigns a window for the given event time in epoch milliseconds.
func (f *Fixed) AssignWindow(eventTime int64) window.IntervalWindow {
	id := floorDiv(eventTime, f.length)
	start := id * f.length
	// Assignment of windows follows a left inclusive and right exclusive
	// principle, an element on the boundary falls in to the window to the right.
	return window.IntervalWindow{
		ID:    id,
		Start: start,
		End:   start + f.length,
	}
}

// Admit runs the lifecycle of the key's windows for a record with the given event time.
func (f *Fixed) Admit(key string, eventTime int64) Admission {
	st, ok := f.keys[key]
	if !ok {
		st = &keyState{closeBoundary: math.MinInt64}
		f.keys[key] = st
	}
	if eventTime > st.closeBoundary {
		st.closeBoundary = eventTime
	}

	adm := Admission{Window: f.AssignWindow(eventTime)}
	if st.open != nil && st.open.End <= st.closeBoundary {
		closed := *st.open
		adm.Closed = &closed
		st.open = nil
		f.active--
	}

	switch {
	case adm.Window.End <= st.closeBoundary:
		adm.Operation = window.Drop
	case st.open != nil:
		// the open window and the assigned one both contain the close boundary, so they are the same window.
		adm.Operation = window.Append
	default:
		w := adm.Window
		st.open = &w
		f.active++
		adm.Operation = window.Open
	}
	return adm
}

// CloseWindows closes every open window whose end is on or before the given time, and returns them.
// The close boundary of each affected key is raised to the window end so that the window cannot be reopened.
func (f *Fixed) CloseWindows(until int64) []window.KeyedWindow {
	closed := make([]window.KeyedWindow, 0)
	for key, st := range f.keys {
		if st.open == nil || st.open.End > until {
			continue
		}
		closed = append(closed, window.KeyedWindow{Key: key, Window: *st.open})
		if st.open.End > st.closeBoundary {
			st.closeBoundary = st.open.End
		}
		st.open = nil
		f.active--
	}
	return closed
}

// OpenWindow returns the open window of a key, if any.
func (f *Fixed) OpenWindow(key string) (window.IntervalWindow, bool) {
	st, ok := f.keys[key]
	if !ok || st.open == nil {
		return window.IntervalWindow{}, false
	}
	return *st.open, true
}

// ActiveWindows returns the number of open windows.
func (f *Fixed) ActiveWindows() int {
	return f.active
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
