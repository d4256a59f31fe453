// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	"strings"

	"golang.org/x/net/http/httpguts"
)

// A Header is an insertion-ordered collection of HTTP header fields.
//
// Unlike http.Header from net/http, which is a map with unspecified
// iteration order, a Header remembers the order in which field names
// were first set and iterates in that order. This matters to consumers
// which serialize the whole collection, for example the legacy
// getAllResponseHeaders operation in package xhr.
//
// Field name matching is case-insensitive, but the spelling used in
// the first Set for a name is the spelling reported back by Each.
//
// The zero value is an empty collection ready for use. A Header is not
// safe for concurrent use by multiple goroutines.
type Header struct {
	fields []headerField
}

type headerField struct {
	name  string
	value string
}

// Set upserts a header field. If a field with the same name (compared
// case-insensitively) already exists, its value is replaced and it
// keeps both its position and its original spelling; otherwise the
// field is appended at the end of the iteration order.
//
// Set validates the field name and value against the token and field
// content rules of RFC 7230. Invalid fields are not stored, and Set
// reports whether the field was stored.
func (h *Header) Set(name, value string) bool {
	if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
		return false
	}
	i := h.index(name)
	if i >= 0 {
		h.fields[i].value = value
		return true
	}
	h.fields = append(h.fields, headerField{name: name, value: value})
	return true
}

// Get returns the value of the named field, or the empty string if the
// collection contains no such field. The name is matched
// case-insensitively.
func (h *Header) Get(name string) string {
	i := h.index(name)
	if i < 0 {
		return ""
	}
	return h.fields[i].value
}

// Has reports whether the collection contains the named field.
func (h *Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Len returns the number of fields in the collection.
func (h *Header) Len() int {
	return len(h.fields)
}

// Each calls f once for every field in the collection, in iteration
// order.
func (h *Header) Each(f func(name, value string)) {
	for _, fld := range h.fields {
		f(fld.name, fld.value)
	}
}

// Clone returns a deep copy of the collection.
func (h *Header) Clone() *Header {
	h2 := &Header{}
	if len(h.fields) > 0 {
		h2.fields = make([]headerField, len(h.fields))
		copy(h2.fields, h.fields)
	}
	return h2
}

func (h *Header) index(name string) int {
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].name, name) {
			return i
		}
	}
	return -1
}
