// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnimplementedError(t *testing.T) {
	err := &UnimplementedError{Feature: "responseXML"}
	assert.EqualError(t, err, "xhr: responseXML is not implemented")

	var u *UnimplementedError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &u))
	assert.Equal(t, "responseXML", u.Feature)
}

func TestInvalidStateError(t *testing.T) {
	err := &InvalidStateError{Op: "Send", State: Unsent}
	assert.EqualError(t, err, "xhr: Send called in ready state Unsent")

	var i *InvalidStateError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &i))
	assert.Equal(t, "Send", i.Op)
	assert.Equal(t, Unsent, i.State)
}
