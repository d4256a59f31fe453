// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const badBodyTypeMsg = "xhr/fetch: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// A Request describes a not-yet-sent HTTP request: the method, the
// parsed target URL, an ordered header collection, and a pre-buffered
// body.
//
// A Request looks like a stripped-down http.Request (net/http): all
// server-side fields are removed and the body is a simple []byte,
// because the exchange model in this library is transaction-oriented
// and requires a pre-buffered request body.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.). An
	// empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. It is
	// never nil on a Request constructed with NewRequest.
	Header *Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent, for
	// example on a GET or DELETE request.
	Body []byte
}

// NewRequest returns a new Request given a method and URL.
//
// The method must be a valid HTTP token ("" is interpreted as GET) and
// the URL must parse. The request starts with an empty header
// collection and no body; set Body directly, typically via BodyBytes.
func NewRequest(method, url string) (*Request, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("xhr/fetch: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	return &Request{
		Method: method,
		URL:    u,
		Header: &Header{},
	}, nil
}

// BodyBytes converts a generic body parameter to a byte slice for use
// as a request body.
//
// The body parameter may be nil, or it may be a string, []byte,
// io.Reader, or io.ReadCloser. The conversion logic is:
//
// • If body is nil, a nil byte slice and no error is returned.
//
// • If body is a []byte, body itself and no error is returned.
//
// • If body is a string, the built-in conversion from string to byte
// slice, and no error, is returned.
//
// • If body is an io.Reader or io.ReadCloser, the result of reading
// the whole contents of the reader (and closing it if it implements
// Closer) is returned. If reading or closing causes an error, the
// return value is a nil byte slice and the error.
//
// • If body is any other type than those listed above, a nil byte
// slice and an error is returned.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := ioutil.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(ioutil.NopCloser(x))
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

// validMethod reports whether method is a valid token per RFC 7230
// section 3.2.6. The token grammar for methods is identical to the one
// for header field names, so the httpguts field name check applies.
func validMethod(method string) bool {
	return httpguts.ValidHeaderFieldName(method)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
