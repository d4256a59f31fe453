// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetch defines the network capability consumed by the legacy
client in package xhr: a single-shot asynchronous exchange that, given
a request description, eventually yields a response exposing a status,
an ordered header collection, and a one-shot consumable body.

The core types are Request, which describes a not-yet-sent HTTP request
(method, URL, ordered headers, and a pre-buffered body), and Response,
which exposes the received status line and headers together with a body
that can be materialized exactly once into a Blob. A Blob in turn
derives a fresh binary buffer (Bytes) or a decoded text form (Text) on
demand.

The Fetcher interface abstracts the exchange itself. Cancellation
travels on the context passed to Fetch: cancelling it aborts the
exchange whether headers have arrived yet or not. Package fetch ships
a production implementation over any HTTPDoer (typically http.Client
from net/http); the package-level Default fetcher uses
http.DefaultClient.

	req, err := fetch.NewRequest("GET", "https://example.com")
	...
	resp, err := fetch.Default.Fetch(ctx, req)
	...
	blob, err := resp.Blob()
	text := blob.Text()

Request headers are kept in a Header, an insertion-ordered collection
with upsert semantics. Response headers use the same type so that
callers observe a stable, documented iteration order.
*/
package fetch
