// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// A Fetcher performs a single-shot asynchronous exchange: given a
// request description, it eventually yields a Response or an error.
//
// Cancellation travels on the context: cancelling ctx aborts the
// exchange, causing Fetch to return the context's error if headers
// have not yet arrived, or causing a subsequent body read on the
// returned Response to fail if they have.
//
// Implementations of Fetcher must be safe for concurrent use by
// multiple goroutines.
type Fetcher interface {
	Fetch(ctx context.Context, r *Request) (*Response, error)
}

// Default is the default Fetcher. It exchanges requests using
// http.DefaultClient from the standard net/http package.
var Default Fetcher = NewFetcher(nil)

// NewFetcher returns a Fetcher which exchanges requests using the
// given HTTPDoer. A nil doer means http.DefaultClient.
//
// A Fetcher is lower-level than the legacy client in package xhr: the
// HTTPDoer remains responsible for all transport details (connection
// reuse, redirects, cookies, TLS), and the Fetcher only adapts between
// the Request/Response types of this package and the net/http types.
//
// Response headers produced by the returned Fetcher iterate in sorted
// field name order, with multiple values for one name joined by ", ".
// The wire order of received headers is not recoverable from net/http,
// so sorted order is used to keep iteration deterministic.
func NewFetcher(doer HTTPDoer) Fetcher {
	return &fetcher{doer: doer}
}

type fetcher struct {
	doer HTTPDoer
}

func (f *fetcher) Fetch(ctx context.Context, r *Request) (*Response, error) {
	hr, err := toHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	doer := f.doer
	if doer == nil {
		doer = http.DefaultClient
	}
	resp, err := doer.Do(hr)
	if err != nil {
		return nil, err
	}
	url := r.URL.String()
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return NewResponse(resp.StatusCode, resp.Status, fromHTTPHeader(resp.Header), url, resp.Body), nil
}

func toHTTPRequest(ctx context.Context, r *Request) (*http.Request, error) {
	hr, err := http.NewRequest(r.Method, r.URL.String(), nil)
	if err != nil {
		return nil, err
	}
	hr = hr.WithContext(ctx)
	r.Header.Each(func(name, value string) {
		hr.Header.Set(name, value)
	})
	if len(r.Body) > 0 {
		hr.Body = ioutil.NopCloser(bytes.NewReader(r.Body))
		hr.GetBody = func() (io.ReadCloser, error) {
			return ioutil.NopCloser(bytes.NewReader(r.Body)), nil
		}
		hr.ContentLength = int64(len(r.Body))
	}
	return hr, nil
}

func fromHTTPHeader(h http.Header) *Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	header := &Header{}
	for _, name := range names {
		header.Set(name, strings.Join(h[name], ", "))
	}
	return header
}
