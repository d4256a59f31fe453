// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	"errors"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Blob(t *testing.T) {
	t.Run("one shot", func(t *testing.T) {
		h := &Header{}
		require.True(t, h.Set("Content-Type", "text/plain"))
		r := NewResponse(200, "200 OK", h, "https://example.test/x", ioutil.NopCloser(strings.NewReader("hello")))
		b, err := r.Blob()
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.Size())
		assert.Equal(t, "text/plain", b.Type())
		assert.Equal(t, "hello", b.Text())
		b2, err := r.Blob()
		assert.Nil(t, b2)
		assert.Same(t, ErrBodyConsumed, err)
	})
	t.Run("nil body", func(t *testing.T) {
		r := NewResponse(204, "204 No Content", nil, "https://example.test/x", nil)
		b, err := r.Blob()
		require.NoError(t, err)
		assert.Equal(t, int64(0), b.Size())
		assert.Equal(t, "", b.Text())
	})
	t.Run("read error", func(t *testing.T) {
		expectedErr := errors.New("spam")
		r := NewResponse(200, "200 OK", nil, "https://example.test/x", &failingBody{err: expectedErr})
		b, err := r.Blob()
		assert.Nil(t, b)
		assert.Same(t, expectedErr, err)
		// Consumed even on failure.
		b, err = r.Blob()
		assert.Nil(t, b)
		assert.Same(t, ErrBodyConsumed, err)
	})
	t.Run("nil header", func(t *testing.T) {
		r := NewResponse(200, "200 OK", nil, "https://example.test/x", nil)
		require.NotNil(t, r.Header)
		assert.Equal(t, 0, r.Header.Len())
	})
}

func TestBlob(t *testing.T) {
	t.Run("bytes is a fresh copy", func(t *testing.T) {
		b := NewBlob([]byte("abc"), "application/octet-stream")
		buf := b.Bytes()
		buf[0] = 'x'
		assert.Equal(t, []byte("abc"), b.Bytes())
	})
	t.Run("constructor copies", func(t *testing.T) {
		data := []byte("abc")
		b := NewBlob(data, "")
		data[0] = 'x'
		assert.Equal(t, "abc", b.Text())
	})
	t.Run("type", func(t *testing.T) {
		b := NewBlob(nil, "image/png")
		assert.Equal(t, "image/png", b.Type())
		assert.Equal(t, int64(0), b.Size())
	})
}

type failingBody struct {
	err error
}

func (f *failingBody) Read([]byte) (int, error) {
	return 0, f.err
}

func (f *failingBody) Close() error {
	return nil
}
