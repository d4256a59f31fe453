// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	"errors"
	"io"
	"io/ioutil"
)

// ErrBodyConsumed is returned by Response.Blob when the response body
// has already been consumed by an earlier Blob call. A response body
// is one-shot: it can be materialized exactly once.
var ErrBodyConsumed = errors.New("xhr/fetch: response body already consumed")

// A Response represents the result of a completed exchange: the status
// line, the response headers, the final URL, and a one-shot consumable
// body.
//
// The status line and headers are available as soon as the Response
// exists. The body is not buffered up front; call Blob to read it to
// the end and materialize it.
type Response struct {
	// Status is the HTTP status code, e.g. 200.
	Status int

	// StatusText is the status line text accompanying the code, e.g.
	// "200 OK".
	StatusText string

	// Header contains the response header fields, in a stable
	// documented iteration order. It is never nil on a Response
	// constructed with NewResponse.
	Header *Header

	// URL is the final URL of the exchange, after any redirects
	// performed by the underlying transport.
	URL string

	body     io.ReadCloser
	consumed bool
}

// NewResponse constructs a Response from its parts. The body may be
// nil, which is equivalent to an empty body. Header may be nil, in
// which case an empty header collection is used.
//
// NewResponse exists chiefly so that Fetcher implementations, and test
// doubles standing in for them, can produce responses.
func NewResponse(status int, statusText string, header *Header, url string, body io.ReadCloser) *Response {
	if header == nil {
		header = &Header{}
	}
	return &Response{
		Status:     status,
		StatusText: statusText,
		Header:     header,
		URL:        url,
		body:       body,
	}
}

// Blob consumes the response body, reading it to the end and closing
// it, and returns the result as a Blob typed with the response's
// Content-Type header value.
//
// The body is one-shot: the first Blob call consumes it, and any
// subsequent call returns ErrBodyConsumed. If reading the body fails,
// for example because the exchange was cancelled mid-body, the read
// error is returned and the body is still considered consumed.
func (r *Response) Blob() (*Blob, error) {
	if r.consumed {
		return nil, ErrBodyConsumed
	}
	r.consumed = true
	if r.body == nil {
		return &Blob{contentType: r.Header.Get("Content-Type")}, nil
	}
	defer func() {
		_ = r.body.Close()
	}()
	data, err := ioutil.ReadAll(r.body)
	if err != nil {
		return nil, err
	}
	return &Blob{data: data, contentType: r.Header.Get("Content-Type")}, nil
}

// A Blob is an immutable chunk of byte content tagged with a declared
// content type. It is the first materialized form of a response body;
// binary buffers and decoded text are derived from it on demand.
type Blob struct {
	data        []byte
	contentType string
}

// NewBlob constructs a Blob from a copy of data and the given content
// type.
func NewBlob(data []byte, contentType string) *Blob {
	d := make([]byte, len(data))
	copy(d, data)
	return &Blob{data: d, contentType: contentType}
}

// Size returns the length of the blob content in bytes.
func (b *Blob) Size() int64 {
	return int64(len(b.data))
}

// Type returns the declared content type of the blob, which may be
// empty if the response carried no Content-Type header.
func (b *Blob) Type() string {
	return b.contentType
}

// Bytes derives a binary buffer from the blob. Each call returns a
// fresh copy, so callers may freely modify the result without
// affecting the blob.
func (b *Blob) Bytes() []byte {
	buf := make([]byte, len(b.data))
	copy(buf, b.data)
	return buf
}

// Text derives the decoded text form of the blob content, interpreting
// the bytes as UTF-8.
func (b *Blob) Text() string {
	return string(b.data)
}
