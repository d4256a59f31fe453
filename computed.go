// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"encoding/json"

	"github.com/gogama/xhr/fetch"
)

// Declared response interpretations understood by Client.Response.
// Any other non-empty value declared via OverrideMimeType causes
// Response to fail with an UnimplementedError. The empty string is
// equivalent to TypeText.
const (
	TypeText        = "text"
	TypeJSON        = "json"
	TypeArrayBuffer = "arraybuffer"
	TypeBlob        = "blob"
)

// computed holds the materialized representations of a received
// response body. It is populated in one shot at the Done transition:
// the blob is the primary materialization, and the buffer and decoded
// text are derived from it eagerly. The JSON value alone is parsed
// lazily, on first access, and cached so that repeated reads yield
// the identical value.
type computed struct {
	text string
	buf  []byte
	blob *fetch.Blob

	jsonParsed bool
	jsonValue  interface{}
	jsonErr    error
}

func materialize(blob *fetch.Blob) *computed {
	return &computed{
		text: blob.Text(),
		buf:  blob.Bytes(),
		blob: blob,
	}
}

// jsonMaterialization parses the decoded text as JSON at most once and
// caches the result, error included.
func (c *computed) jsonMaterialization() (interface{}, error) {
	if !c.jsonParsed {
		c.jsonParsed = true
		c.jsonErr = json.Unmarshal([]byte(c.text), &c.jsonValue)
	}
	return c.jsonValue, c.jsonErr
}
