package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/wireform/packages/body"
	"github.com/abdul-hamid-achik/wireform/packages/boundary"
	wfhttp "github.com/abdul-hamid-achik/wireform/packages/http"
	"github.com/abdul-hamid-achik/wireform/packages/logging"
	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
	"github.com/abdul-hamid-achik/wireform/packages/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes ...*Route) *httptest.Server {
	t.Helper()
	s := NewServer(WithLogger(logging.Discard()))
	for _, r := range routes {
		s.AddRoute(r)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func inspectRoute() *Route {
	return &Route{Method: "*", PathPattern: "/inspect/{{id}}", Name: "inspect", Response: &MockResponse{Inspect: true}}
}

func postAndInspect(t *testing.T, url string, b body.RequestBody, opts ...wfhttp.ClientOption) *Inspection {
	t.Helper()
	client := wfhttp.NewClient(append(opts, wfhttp.WithLogger(logging.Discard()))...)
	resp, err := client.Post(url, b, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.BodyString())

	var in Inspection
	require.NoError(t, json.Unmarshal(resp.Body, &in))
	return &in
}

func TestInspect_URLEncoded(t *testing.T) {
	ts := newTestServer(t, inspectRoute())

	in := postAndInspect(t, ts.URL+"/inspect/42", body.Form{Parts: []body.Part{
		body.NameValue{Name: "q", Value: "a b&c"},
		body.NameValue{Name: "q", Value: "ü"},
	}})

	assert.Equal(t, "POST", in.Method)
	assert.Equal(t, map[string]string{"id": "42"}, in.Params)
	assert.Equal(t, mediatype.FormURLEncoded, in.ContentType)
	assert.Equal(t, []Field{{Name: "q", Value: "a b&c"}, {Name: "q", Value: "ü"}}, in.Fields)
}

func TestInspect_Multipart(t *testing.T) {
	ts := newTestServer(t, inspectRoute())

	factory := wfhttp.WithEncoderFactory(func() *body.Encoder {
		return body.NewEncoder(body.WithBoundaryGenerator(boundary.NewSeeded(3)))
	})
	in := postAndInspect(t, ts.URL+"/inspect/1", body.Form{Parts: []body.Part{
		body.NameValue{Name: "title", Value: "Report"},
		body.FormFile{Field: "doc", File: body.File{Filename: "a.txt", ContentType: "text/plain", Content: body.Plain{Text: "hello"}}},
		body.MultipartMixed{Field: "images", Files: []body.File{
			{Filename: "1.bin", ContentType: "application/octet-stream", Content: body.Binary{Data: []byte{0, 1, 2, 3}}},
			{Filename: "2.txt", ContentType: "text/plain", Content: body.Stream{Reader: strings.NewReader("streamed")}},
		}},
	}}, factory)

	assert.True(t, strings.HasPrefix(in.ContentType, "multipart/form-data; boundary="))
	require.Len(t, in.Parts, 3)

	assert.Equal(t, InspectedPart{Name: "title", Size: 6, Value: "Report"}, in.Parts[0])
	assert.Equal(t, InspectedPart{Name: "doc", Filename: "a.txt", ContentType: "text/plain", Size: 5}, in.Parts[1])

	mixed := in.Parts[2]
	assert.Equal(t, "images", mixed.Name)
	assert.True(t, strings.HasPrefix(mixed.ContentType, "multipart/mixed; boundary="))
	require.Len(t, mixed.Files, 2)
	assert.Equal(t, InspectedPart{Filename: "1.bin", ContentType: "application/octet-stream", TransferEncoding: "base64", Size: 4}, mixed.Files[0])
	assert.Equal(t, InspectedPart{Filename: "2.txt", ContentType: "text/plain", Size: 8}, mixed.Files[1])

	assert.True(t, in.Chunked, "streamed payload has no known length")
}

func TestInspect_Text(t *testing.T) {
	ts := newTestServer(t, inspectRoute())

	in := postAndInspect(t, ts.URL+"/inspect/t", body.Raw{Data: []byte("plain bytes")})
	assert.Equal(t, "plain bytes", in.Text)
	assert.Equal(t, int64(11), in.ContentLength)
	assert.False(t, in.Chunked)
}

func TestFixedResponse_WithParams(t *testing.T) {
	ts := newTestServer(t, &Route{
		Method:      "GET",
		PathPattern: "/users/{{id}}",
		Response: &MockResponse{
			StatusCode:  http.StatusCreated,
			ContentType: "application/json",
			Headers:     map[string]string{"X-Mock": "1"},
			Body:        `{"id":"{{id}}"}`,
		},
	})

	resp, err := http.Get(ts.URL + "/users/7/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Mock"))
	assert.Equal(t, map[string]string{"id": "7"}, got)

	resp2, err := http.Post(ts.URL+"/users/7", "text/plain", nil)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestEventReplay(t *testing.T) {
	ts := newTestServer(t, &Route{
		Method:      "GET",
		PathPattern: "/events",
		Response: &MockResponse{
			StatusCode: http.StatusOK,
			Events:     "id: 1\ndata: first\n\nevent: note\ndata: second\r\n\r\ndata: third\n\n",
		},
	})

	client := sse.NewClient(ts.URL+"/events", sse.WithLogger(logging.Discard()))
	result := client.Stream(context.Background(), 0)
	require.NoError(t, result.Error)

	assert.Equal(t, []sse.Event{
		{Data: "first", Type: "message", LastEventID: "1"},
		{Data: "second", Type: "note", LastEventID: "1"},
		{Data: "third", Type: "message", LastEventID: "1"},
	}, result.Events)
	assert.Equal(t, "1", client.LastEventID())
}

func TestSplitEventBlocks(t *testing.T) {
	assert.Equal(t, []string{"a\n\n", "b\r\n\r\n", "c"}, splitEventBlocks("a\n\nb\r\n\r\nc"))
	assert.Equal(t, []string{"x\r\r", "y\n\n"}, splitEventBlocks("x\r\ry\n\n"))
	assert.Nil(t, splitEventBlocks(""))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.txt"), []byte("data: hi\n\n"), 0644))
	routes := `
routes:
  - name: upload
    path: /upload
    inspect: true
  - name: stream
    method: get
    path: /events
    events: events.txt
    interval: 10ms
  - name: health
    method: GET
    path: /health
    contentType: application/json
    body: '{"ok":true}'
`
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(routes), 0644))

	s := NewServer(WithLogger(logging.Discard()))
	require.NoError(t, s.LoadFile(path))

	got := s.GetRoutes()
	require.Len(t, got, 3)
	assert.Equal(t, "*", got[0].Method)
	assert.True(t, got[0].Response.Inspect)
	assert.Equal(t, "GET", got[1].Method)
	assert.Equal(t, "data: hi\n\n", got[1].Response.Events)
	assert.Equal(t, int64(10_000_000), int64(got[1].Response.EventInterval))
	assert.Equal(t, http.StatusOK, got[2].Response.StatusCode)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(content string) string {
		path := filepath.Join(dir, "routes.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	s := NewServer(WithLogger(logging.Discard()))
	assert.Error(t, s.LoadFile(write("routes:\n  - method: GET\n")))
	assert.Error(t, s.LoadFile(write("routes:\n  - path: /x\n    events: missing.txt\n")))
	assert.Error(t, s.LoadFile(write("routes:\n  - path: /x\n    interval: soon\n")))
	assert.Error(t, s.LoadFile(filepath.Join(dir, "nope.yaml")))
}

func TestRouter_LiteralCharacters(t *testing.T) {
	r := NewRouter()
	r.AddRoute(&Route{Method: "GET", PathPattern: "/v1.0/items", PathRegex: createPathRegex("/v1.0/items")})

	route, _ := r.Match("GET", "/v1x0/items")
	assert.Nil(t, route)
	route, params := r.Match("get", "/v1.0/items")
	assert.NotNil(t, route)
	assert.Empty(t, params)
}
