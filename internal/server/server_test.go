package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-filtertags/pkg/formstate"
	"github.com/goliatone/go-filtertags/pkg/labels"
	"github.com/goliatone/go-filtertags/pkg/orchestrator"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	orch := orchestrator.New(
		orchestrator.WithSchema(formstate.Schema{
			Fields:      []string{"q", "skills", "isActive"},
			ArrayFields: []string{"skills"},
		}),
		orchestrator.WithCatalog(&labels.Catalog{
			Fields:      map[string]string{"q": "Search", "skills": "Skills", "isActive": "Active"},
			Values:      map[string]string{"true": "Yes"},
			BooleanKeys: []string{"isActive"},
		}),
	)
	ts := httptest.NewServer(New(orch).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_TagsHTML(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/tags?q=ada&skills=js&skills=go")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Search: ada")
	assert.Contains(t, string(body), `href="/tags?q=ada&amp;skills=go"`)
}

func TestServer_TagsUnknownRenderer(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/tags?q=ada&_renderer=pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_APITags(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/tags?q=ada&isActive=1&_fields=isActive")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload TagsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "q=ada&isActive=1", payload.Query)
	require.Len(t, payload.View.Tags, 1)
	assert.Equal(t, "Active: Yes", payload.View.Tags[0].Text)
	assert.Equal(t, "/tags?q=ada", payload.View.Tags[0].DismissHref)
	assert.Nil(t, payload.View.ClearAll)
}

func TestServer_Dismiss(t *testing.T) {
	ts := newTestServer(t)

	body := strings.NewReader(`{"query":"q=ada&skills=js&skills=go","keys":["skills[js]"]}`)
	resp, err := http.Post(ts.URL+"/api/dismiss", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload DismissResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "q=ada&skills=go", payload.Query)
	assert.Equal(t, "/tags?q=ada&skills=go", payload.Href)
	assert.Equal(t, []string{"skills[js]"}, payload.Dismissed)
	require.Len(t, payload.View.Tags, 2)
	assert.Equal(t, "Skills: go", payload.View.Tags[1].Text)
}

func TestServer_DismissErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"no keys", `{"query":"q=ada"}`, http.StatusBadRequest},
		{"unknown key", `{"query":"q=ada","keys":["skills[rust]"]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/dismiss", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServer_AssetsAndHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/assets/filtertags.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/tags", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_RequestID(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	generated := resp.Header.Get(RequestIDHeader)
	_, err = uuid.Parse(generated)
	assert.NoError(t, err, "expected generated uuid, got %q", generated)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "trace-42")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-42", resp.Header.Get(RequestIDHeader))
}

func TestSplitQuery(t *testing.T) {
	state, control := splitQuery("?q=a%20b&_locale=es&skills%5B%5D=go&_fields=q,skills")
	assert.Equal(t, "q=a%20b&skills%5B%5D=go", state)
	assert.Equal(t, "es", control.Get("_locale"))
	assert.Equal(t, "q,skills", control.Get("_fields"))
}

func TestServer_ListenAndServe(t *testing.T) {
	orch := orchestrator.New()
	srv := New(orch, WithShutdownGrace(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0", ready) }()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
