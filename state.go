// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

// A ReadyState identifies the lifecycle stage of one request/response
// exchange on a Client. The numeric values match the legacy interface
// being emulated.
type ReadyState int

const (
	// Unsent is the initial ready state, before Open has been called.
	//
	// A Client never transitions back into Unsent: the ready state is
	// monotonic within a send cycle, and Open moves straight to
	// Opened.
	Unsent ReadyState = iota
	// Opened is the ready state after Open has been called. The
	// request draft (method, URL, headers) exists and may be
	// modified, and Send may be called.
	Opened
	// HeadersReceived is the ready state once the response status
	// line and headers have arrived. Status, StatusText, ResponseURL
	// and the response header getters are meaningful from this state
	// on.
	HeadersReceived
	// Loading is the ready state while the response body is being
	// consumed. The transition into Loading always follows the
	// transition into HeadersReceived immediately, with no suspension
	// between the two: this client does not model incremental body
	// streaming.
	Loading
	// Done is the final ready state: the body has been fully read and
	// materialized, and the body accessors (Response, ResponseText)
	// are available.
	Done
	// readyStateSentinel provides the total number of ready states
	// typed as a ReadyState.
	readyStateSentinel

	// numReadyStates provides the total number of ready states as an
	// int.
	numReadyStates = int(readyStateSentinel)
)

var readyStateNames = []string{
	"Unsent",
	"Opened",
	"HeadersReceived",
	"Loading",
	"Done",
}

// ReadyStates returns a slice containing all ready states a Client can
// be in, in lifecycle order.
func ReadyStates() []ReadyState {
	return []ReadyState{
		Unsent,
		Opened,
		HeadersReceived,
		Loading,
		Done,
	}
}

// Name returns the name of the ready state.
func (s ReadyState) Name() string {
	return readyStateNames[int(s)]
}

// String returns the name of the ready state.
func (s ReadyState) String() string {
	return s.Name()
}
