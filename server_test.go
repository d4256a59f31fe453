// Copyright 2021 The xhr Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gogama/xhr/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var httpServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))

func TestMain(m *testing.M) {
	httpServer.Start()
	defer httpServer.Close()
	os.Exit(m.Run())
}

func serverHandler(w http.ResponseWriter, req *http.Request) {
	switch req.URL.Path {
	case "/hello":
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(200)
		_, _ = io.WriteString(w, "hello")
	case "/echo":
		body, _ := ioutil.ReadAll(req.Body)
		_ = req.Body.Close()
		w.Header().Set("Content-Type", req.Header.Get("Content-Type"))
		w.WriteHeader(200)
		_, _ = w.Write(body)
	case "/redirect":
		http.Redirect(w, req, "/hello", http.StatusFound)
	case "/slow":
		time.Sleep(250 * time.Millisecond)
		w.WriteHeader(200)
		_, _ = io.WriteString(w, "finally")
	case "/slow-body":
		f := w.(http.Flusher)
		w.Header().Set("Content-Length", "10")
		w.WriteHeader(200)
		_, _ = io.WriteString(w, "01234")
		f.Flush()
		time.Sleep(250 * time.Millisecond)
		_, _ = io.WriteString(w, "56789")
	default:
		w.WriteHeader(404)
	}
}

func serverClient() *Client {
	return &Client{
		Fetcher: fetch.NewFetcher(httpServer.Client()),
	}
}

func TestServerHappyPath(t *testing.T) {
	cl := serverClient()
	rec := record(cl)

	require.NoError(t, cl.Open("GET", httpServer.URL+"/hello"))
	require.NoError(t, cl.Send(nil))
	rec.wait(t)

	assert.Equal(t, Done, cl.ReadyState())
	assert.Equal(t, 200, cl.Status())
	assert.Equal(t, "text/plain", cl.GetResponseHeader("Content-Type"))
	text, err := cl.ResponseText()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, rec.count("load"))
	assert.Equal(t, []ReadyState{Opened, HeadersReceived, Loading, Done}, rec.states())
}

func TestServerEcho(t *testing.T) {
	cl := serverClient()
	rec := record(cl)

	require.NoError(t, cl.Open("POST", httpServer.URL+"/echo"))
	cl.SetRequestHeader("Content-Type", "application/json")
	cl.OverrideMimeType(TypeJSON)
	require.NoError(t, cl.Send(`{"a":1}`))
	rec.wait(t)

	assert.Equal(t, "application/json", cl.GetResponseHeader("Content-Type"))
	v, err := cl.Response()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, v)
}

func TestServerRedirect(t *testing.T) {
	cl := serverClient()
	rec := record(cl)

	require.NoError(t, cl.Open("GET", httpServer.URL+"/redirect"))
	require.NoError(t, cl.Send(nil))
	rec.wait(t)

	assert.Equal(t, 200, cl.Status())
	assert.Equal(t, httpServer.URL+"/hello", cl.ResponseURL())
	text, err := cl.ResponseText()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestServerTimeout(t *testing.T) {
	cl := serverClient()
	cl.Timeout = 50 * time.Millisecond
	rec := record(cl)

	require.NoError(t, cl.Open("GET", httpServer.URL+"/slow"))
	require.NoError(t, cl.Send(nil))
	rec.waitTimeout(t)
	rec.wait(t)

	assert.Equal(t, 1, rec.count("timeout"))
	assert.Equal(t, 1, rec.count("error"))
	assert.Equal(t, 0, rec.count("load"))
}

func TestServerAbortMidBody(t *testing.T) {
	cl := serverClient()
	rec := record(cl)
	loading := make(chan struct{})
	cl.OnReadyStateChange = func(s ReadyState) {
		rec.readyStateChange(s)
		if s == Loading {
			close(loading)
		}
	}

	require.NoError(t, cl.Open("GET", httpServer.URL+"/slow-body"))
	require.NoError(t, cl.Send(nil))
	<-loading
	require.NoError(t, cl.Abort())
	rec.wait(t)

	// Headers arrived, so HeadersReceived and Loading were observed,
	// but the body read rejected and routed to the error callback.
	assert.Equal(t, []ReadyState{Opened, HeadersReceived, Loading}, rec.states())
	assert.Equal(t, 1, rec.count("error"))
	assert.Equal(t, 0, rec.count("load"))
	assert.NotEqual(t, Done, cl.ReadyState())
}

func TestServerNotFound(t *testing.T) {
	cl := serverClient()
	rec := record(cl)

	require.NoError(t, cl.Open("GET", httpServer.URL+"/missing"))
	require.NoError(t, cl.Send(nil))
	rec.wait(t)

	// Non-2XX completes normally; it is not an error.
	assert.Equal(t, 404, cl.Status())
	assert.Equal(t, 1, rec.count("load"))
	assert.Equal(t, 0, rec.count("error"))
}

func TestServerConnectionError(t *testing.T) {
	deadServer := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadServer.Close()

	cl := &Client{}
	rec := record(cl)
	require.NoError(t, cl.Open("GET", deadServer.URL+"/x"))
	require.NoError(t, cl.Send(nil))
	rec.wait(t)

	assert.Equal(t, 0, rec.count("load"))
	require.Equal(t, 1, rec.count("error"))
	errs := rec.errors()
	assert.Error(t, errs[0])
}
