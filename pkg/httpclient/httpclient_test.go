package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`ok`))
	}))
	defer server.Close()

	client, err := New(server.URL+"/hooks", Config{Headers: map[string]string{"Authorization": "Bearer secret"}})
	require.NoError(t, err)

	resp, err := client.PostJSON(context.Background(), "boxsale", map[string]any{"sequence": 1})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.False(t, resp.IsError())
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, "/hooks/boxsale", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, float64(1), gotBody["sequence"])
}

func TestGetErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)
	resp, err := client.Get(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, resp.IsError())
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
	_, err = New("://missing-scheme")
	assert.Error(t, err)
}
