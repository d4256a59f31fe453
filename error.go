// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"fmt"
)

// An UnimplementedError is returned by accessors for features this
// client deliberately does not implement: XML response parsing, and
// declared response types other than "text", "json", "arraybuffer"
// and "blob".
//
// An UnimplementedError is fatal only to the accessor call that
// produced it. The Client instance remains usable.
type UnimplementedError struct {
	// Feature names the unimplemented feature, for example
	// "responseXML" or a declared response type.
	Feature string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("xhr: %s is not implemented", e.Feature)
}

// An InvalidStateError is returned by Client operations and accessors
// whose ready-state precondition does not hold: sending without a
// prior Open, sending while an exchange is still in flight, aborting
// before any Send, or reading body materializations before the ready
// state reaches Done.
//
// The legacy interface leaves these situations undefined; this client
// upgrades them to explicit errors.
type InvalidStateError struct {
	// Op is the operation or accessor whose precondition failed.
	Op string
	// State is the ready state the client was in at the time of the
	// call.
	State ReadyState
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("xhr: %s called in ready state %s", e.Op, e.State)
}
