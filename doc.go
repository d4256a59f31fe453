// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package xhr exposes a legacy, callback-driven HTTP client interface
(the classic numbered ready-state lifecycle) on top of a modern
single-shot fetch primitive, for consumers written against the old
contract.

Create a Client, open it, install callbacks, and send:

	client := &xhr.Client{}
	client.OnReadyStateChange = func(s xhr.ReadyState) {
		if s == xhr.Done {
			text, _ := client.ResponseText()
			fmt.Println(client.Status(), text)
		}
	}
	err := client.Open("GET", "https://www.example.com")
	...
	err = client.Send(nil)
	...

Send returns immediately; the exchange progresses asynchronously
through the ready states Opened, HeadersReceived, Loading and Done,
invoking OnReadyStateChange at every transition. On success OnLoad
fires after the Done transition; on failure the error is delivered
through OnError and never thrown out of Send.

The callback slots are single-slot properties: assigning a new
callback discards the previous one, and there is no multi-listener
fan-out.

An exchange can be capped with a timeout and cancelled explicitly:

	client.Timeout = 2 * time.Second
	client.OnTimeout = func() { ... }
	...
	err := client.Abort()

A timeout of zero (the default) means the exchange is never timed
out. Timeout-triggered and caller-triggered aborts cancel the
exchange through the same handle; both surface through OnError with
no distinguishing marker, so use OnTimeout to tell them apart.

The response body is materialized in several forms once the exchange
is Done. Declare the wanted interpretation ahead of completion with
OverrideMimeType and read it back with Response:

	client.OverrideMimeType(xhr.TypeJSON)
	...
	v, err := client.Response() // parsed JSON value, cached

TypeText (the default), TypeJSON, TypeArrayBuffer and TypeBlob are
understood; anything else, and the ResponseXML accessor, fail with an
UnimplementedError.

For control over how requests are exchanged on the wire, plug in a
custom Fetcher from the fetch subpackage:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client := &xhr.Client{
		Fetcher: fetch.NewFetcher(doer),
	}
*/
package xhr
