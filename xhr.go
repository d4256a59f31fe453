// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gogama/xhr/fetch"
)

// A Client exposes the legacy callback-driven HTTP client surface
// (numbered ready states, single-slot callbacks) on top of a Fetcher.
// Its zero value is a valid configuration.
//
// The zero value client uses fetch.Default as the Fetcher, which
// exchanges requests using http.DefaultClient (from net/http), and
// never times out.
//
// A Client drives one request/response exchange at a time through the
// ready-state lifecycle: Open moves it to Opened, and Send starts the
// asynchronous exchange, which moves it through HeadersReceived and
// Loading to Done as the response headers arrive and the body is
// materialized. Each transition invokes OnReadyStateChange exactly
// once, in transition order. HeadersReceived and Loading are emitted
// back-to-back once headers arrive, because the client buffers the
// whole body rather than modeling incremental streaming.
//
// Unlike its single-threaded ancestor, which relied on a cooperative
// event loop to serialize callback delivery, Client rebuilds the
// guarantee with a per-instance serialized delivery queue: no two
// callbacks belonging to the same instance ever run concurrently, and
// a callback enqueued while another is running is delivered after the
// running one returns. No lock is held while a callback runs, so
// callbacks may call freely back into the client, including Open and
// Send to chain the next exchange. Configuration fields, including
// the callback slots, must be assigned before Send is called and left
// alone while an exchange is in flight.
//
// A Client supports at most one in-flight exchange. A second Send
// while one is outstanding fails fast with an InvalidStateError.
type Client struct {
	// Fetcher specifies the mechanics of exchanging the request for a
	// response.
	//
	// If Fetcher is nil, fetch.Default is used.
	Fetcher fetch.Fetcher

	// Timeout caps the duration of the whole exchange started by
	// Send, from issuing the request through reading the body.
	//
	// A zero Timeout means the timer is never started and the
	// exchange is never timed out, no matter how long it takes. This
	// quirk of the legacy interface is preserved deliberately; use
	// the underlying HTTPDoer's own timeout facilities if a default
	// cap is wanted.
	Timeout time.Duration

	// OnReadyStateChange, if non-nil, is invoked once per ready-state
	// transition, synchronously with the transition, with the new
	// state as argument.
	OnReadyStateChange func(ReadyState)

	// OnLoadStart, if non-nil, is invoked by Send after the draft is
	// captured and before the exchange is issued.
	OnLoadStart func()

	// OnLoad, if non-nil, is invoked after the Done transition of a
	// successful exchange.
	OnLoad func()

	// OnError, if non-nil, receives any asynchronous failure of the
	// exchange: network errors, and rejections induced by Abort or by
	// timeout. The error carries the underlying failure detail but no
	// marker distinguishing a caller abort from a timeout abort; use
	// OnTimeout to detect timeouts.
	OnError func(error)

	// OnTimeout, if non-nil, is invoked when the Timeout timer
	// expires before the exchange completes. The timed-out exchange
	// is then cancelled, and its rejection still reaches OnError
	// afterward; OnTimeout does not suppress it.
	OnTimeout func()

	mu       sync.Mutex // guards the session state below
	state    ReadyState
	draft    *fetch.Request
	respType string
	resp     *fetch.Response
	comp     *computed
	cancel   context.CancelFunc
	inflight bool

	cbMu     sync.Mutex // guards the callback queue below
	cbQueue  []func()
	cbActive bool
}

// Open records the method and URL of the next exchange into a fresh
// request draft with an empty header set, and transitions the ready
// state to Opened.
//
// Open may be called in any ready state and has no network effect. An
// error is returned only if the method is not a valid HTTP token or
// the URL does not parse.
func (c *Client) Open(method, url string) error {
	r, err := fetch.NewRequest(method, url)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.draft = r
	c.mu.Unlock()
	c.transition(Opened)
	return nil
}

// OverrideMimeType declares how the response body should be
// interpreted by Response: TypeText, TypeJSON, TypeArrayBuffer or
// TypeBlob. It may be called at any point ahead of completion; the
// declared type takes effect when Response is read.
//
// If OverrideMimeType is never called, the response is interpreted as
// TypeText.
func (c *Client) OverrideMimeType(t string) {
	c.mu.Lock()
	c.respType = t
	c.mu.Unlock()
}

// SetRequestHeader upserts a header field into the request draft.
//
// SetRequestHeader only has an effect if the ready state is currently
// Opened; in any other state the call is a silent no-op. Fields with
// invalid names or values (per RFC 7230) are likewise silently
// dropped.
func (c *Client) SetRequestHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Opened || c.draft == nil {
		return
	}
	c.draft.Header.Set(name, value)
}

// GetResponseHeader returns the value of the named response header, or
// the empty string if the response has no such header or the ready
// state has not yet reached HeadersReceived.
func (c *Client) GetResponseHeader(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resp == nil {
		return ""
	}
	return c.resp.Header.Get(name)
}

// GetAllResponseHeaders serializes the response headers as
// "name: value" lines, each terminated by CRLF, in the header
// collection's iteration order. It returns the empty string if the
// ready state has not yet reached HeadersReceived.
func (c *Client) GetAllResponseHeaders() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resp == nil {
		return ""
	}
	var b strings.Builder
	c.resp.Header.Each(func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	})
	return b.String()
}

// Send captures the request draft, begins the asynchronous exchange,
// and returns immediately. Ready-state changes and the terminal
// callbacks (OnLoad, OnError, OnTimeout) fire asynchronously as the
// exchange progresses.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by fetch.BodyBytes, namely: string; []byte;
// io.Reader; and io.ReadCloser.
//
// Send fails fast with an InvalidStateError if Open has not been
// called since the last Send, or if an exchange is already in flight.
// All other failures are asynchronous and are delivered exclusively
// through the callbacks; Send itself returns nil once the exchange
// has been issued.
func (c *Client) Send(body interface{}) error {
	b, err := fetch.BodyBytes(body)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if c.draft == nil || c.inflight {
		st := c.state
		c.mu.Unlock()
		return &InvalidStateError{Op: "Send", State: st}
	}
	r := c.draft
	c.draft = nil // Send consumes the draft
	r.Body = b
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.inflight = true
	onLoadStart := c.OnLoadStart
	c.mu.Unlock()

	c.deliver(onLoadStart)

	var timer *time.Timer
	if c.Timeout > 0 {
		timer = time.AfterFunc(c.Timeout, func() {
			c.mu.Lock()
			onTimeout := c.OnTimeout
			c.mu.Unlock()
			c.deliver(onTimeout)
			cancel()
		})
	}

	go c.exchange(ctx, cancel, r, timer)
	return nil
}

// Abort cancels the in-flight exchange, if any. The cancelled
// exchange's rejection is delivered through OnError.
//
// Abort returns an InvalidStateError if Send has never been called on
// the client, since there is then no cancellation handle to invoke.
// Calling Abort after an exchange has already completed invokes the
// stale handle, which has no effect.
func (c *Client) Abort() error {
	c.mu.Lock()
	cancel := c.cancel
	st := c.state
	c.mu.Unlock()
	if cancel == nil {
		return &InvalidStateError{Op: "Abort", State: st}
	}
	cancel()
	return nil
}

// ReadyState returns the current ready state.
func (c *Client) ReadyState() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the HTTP status code of the response, or 0 if the
// ready state has not yet reached HeadersReceived.
func (c *Client) Status() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resp == nil {
		return 0
	}
	return c.resp.Status
}

// StatusText returns the status line text of the response, or the
// empty string if the ready state has not yet reached HeadersReceived.
func (c *Client) StatusText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resp == nil {
		return ""
	}
	return c.resp.StatusText
}

// ResponseURL returns the final URL of the exchange, after any
// redirects followed by the underlying transport, or the empty string
// if the ready state has not yet reached HeadersReceived.
func (c *Client) ResponseURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resp == nil {
		return ""
	}
	return c.resp.URL
}

// ResponseType returns the declared response interpretation, or
// TypeText if none has been declared via OverrideMimeType.
func (c *Client) ResponseType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.respType == "" {
		return TypeText
	}
	return c.respType
}

// ResponseText returns the response body decoded as text. It returns
// an InvalidStateError until the ready state reaches Done.
func (c *Client) ResponseText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.comp == nil {
		return "", &InvalidStateError{Op: "ResponseText", State: c.state}
	}
	return c.comp.text, nil
}

// Response returns the response body coerced according to the
// declared response type: a string for TypeText (the default), a
// []byte buffer for TypeArrayBuffer, a *fetch.Blob for TypeBlob, and
// the parsed JSON value for TypeJSON.
//
// The JSON value is parsed from the decoded text at most once and
// cached, so repeated reads return the identical value.
//
// Response returns an InvalidStateError until the ready state reaches
// Done, and an UnimplementedError if the declared type is not one the
// client understands.
func (c *Client) Response() (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.comp == nil {
		return nil, &InvalidStateError{Op: "Response", State: c.state}
	}
	switch c.respType {
	case "", TypeText:
		return c.comp.text, nil
	case TypeJSON:
		return c.comp.jsonMaterialization()
	case TypeArrayBuffer:
		return c.comp.buf, nil
	case TypeBlob:
		return c.comp.blob, nil
	default:
		return nil, &UnimplementedError{Feature: fmt.Sprintf("response type %q", c.respType)}
	}
}

// ResponseXML always returns an UnimplementedError. XML response
// parsing is deliberately not implemented.
func (c *Client) ResponseXML() (interface{}, error) {
	return nil, &UnimplementedError{Feature: "responseXML"}
}

// exchange runs on its own goroutine and drives one send cycle from
// issuing the request through the Done transition or failure. The
// cancel func is released when the cycle ends, whatever the outcome,
// so the exchange context does not outlive the exchange.
func (c *Client) exchange(ctx context.Context, cancel context.CancelFunc, r *fetch.Request, timer *time.Timer) {
	defer cancel()
	fetcher := c.Fetcher
	if fetcher == nil {
		fetcher = fetch.Default
	}
	resp, err := fetcher.Fetch(ctx, r)
	if err != nil {
		c.fail(r, timer, err)
		return
	}
	if timer != nil {
		timer.Stop()
	}
	c.mu.Lock()
	c.resp = resp
	c.mu.Unlock()
	c.transition(HeadersReceived)
	c.transition(Loading)
	blob, err := resp.Blob()
	if err != nil {
		// An abort during the body read rejects the consumption
		// chain; it surfaces here like any other exchange failure.
		c.fail(r, nil, err)
		return
	}
	c.mu.Lock()
	c.comp = materialize(blob)
	c.inflight = false
	onLoad := c.OnLoad
	c.mu.Unlock()
	c.transition(Done)
	c.deliver(onLoad)
}

func (c *Client) fail(r *fetch.Request, timer *time.Timer, err error) {
	if timer != nil {
		timer.Stop()
	}
	err = urlErrorWrap(r, err)
	c.mu.Lock()
	c.inflight = false
	onError := c.OnError
	c.mu.Unlock()
	if onError != nil {
		c.deliver(func() { onError(err) })
	}
}

// transition moves the ready state to s and fires OnReadyStateChange.
// A transition into Unsent would be suppressed, but no path produces
// one.
func (c *Client) transition(s ReadyState) {
	c.mu.Lock()
	c.state = s
	cb := c.OnReadyStateChange
	c.mu.Unlock()
	if s == Unsent || cb == nil {
		return
	}
	c.deliver(func() { cb(s) })
}

// deliver enqueues f for callback delivery and drains the queue,
// unless another delivery is already draining it, in which case f runs
// on the draining goroutine once the callbacks ahead of it return.
// Delivery is serialized per instance: no two callbacks ever run
// concurrently, though the relative order across the timeout timer
// and the exchange goroutine is not fixed. The queue lock is never
// held while a callback runs, so callbacks may re-enter the client,
// including calling Open and Send to start the next exchange.
func (c *Client) deliver(f func()) {
	if f == nil {
		return
	}
	c.cbMu.Lock()
	c.cbQueue = append(c.cbQueue, f)
	if c.cbActive {
		c.cbMu.Unlock()
		return
	}
	c.cbActive = true
	for len(c.cbQueue) > 0 {
		g := c.cbQueue[0]
		c.cbQueue = c.cbQueue[1:]
		c.cbMu.Unlock()
		g()
		c.cbMu.Lock()
	}
	c.cbActive = false
	c.cbMu.Unlock()
}

func urlErrorWrap(r *fetch.Request, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(r.Method),
		URL: r.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
