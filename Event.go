/*
Copyright 2011-2024 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bsdiff

import (
	"fmt"
	"time"
)

const (
	EVT_DIFF_START  = 0 // Diff construction starts
	EVT_REGION      = 1 // A control-triple region was committed
	EVT_DIFF_END    = 2 // Diff construction ends
	EVT_APPLY_START = 3 // Patch application starts
	EVT_APPLY_END   = 4 // Patch application ends
	EVT_SUFFIX_SORT = 5 // Suffix array construction of the old buffer starts
)

// Event a diff/patch progress or diagnostic event
type Event struct {
	eventType int
	size      int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message
func NewEventFromString(evtType int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance carrying a size (bytes scanned,
// bytes written, ...)
func NewEvent(evtType int, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, size: size, eventTime: evtTime}
}

// Type returns the event type
func (this *Event) Type() int {
	return this.eventType
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info
func (this *Event) Size() int64 {
	return this.size
}

// String returns a string representation of this event. If the event
// wraps a message, the message is returned; otherwise a string is built
// from the fields.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	t := ""

	switch this.eventType {
	case EVT_DIFF_START:
		t = "DIFF_START"
	case EVT_REGION:
		t = "REGION"
	case EVT_DIFF_END:
		t = "DIFF_END"
	case EVT_APPLY_START:
		t = "APPLY_START"
	case EVT_APPLY_END:
		t = "APPLY_END"
	case EVT_SUFFIX_SORT:
		t = "SUFFIX_SORT"
	}

	return fmt.Sprintf("{ \"type\":\"%s\", \"size\":%d, \"time\":%d }", t, this.size,
		this.eventTime.UnixNano()/1000000)
}

// Listener is an interface implemented by event processors
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}
