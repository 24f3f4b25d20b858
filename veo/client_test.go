package veo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string, pollInterval, maxWait time.Duration) *Client {
	return &Client{
		apiKey:       "test-key",
		baseURL:      baseURL,
		model:        "veo-2.0-generate-001",
		aspectRatio:  "9:16",
		durationSec:  8,
		personPolicy: "allow_all",
		pollInterval: pollInterval,
		maxWait:      maxWait,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerateSubmitsLongRunningRequest(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/veo-2.0-generate-001:predictLongRunning", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123"})
	}))
	defer srv.Close()

	c := testClient(srv.URL, time.Millisecond, time.Second)
	name, err := c.Generate(context.Background(), "pour the glaze")
	require.NoError(t, err)
	assert.Equal(t, "operations/op-123", name)

	params := gotBody["parameters"].(map[string]any)
	assert.Equal(t, "9:16", params["aspectRatio"])
	assert.Equal(t, float64(8), params["durationSeconds"])
	assert.Equal(t, float64(1), params["sampleCount"])
	assert.Equal(t, true, params["enhancePrompt"])
}

func TestAwaitPollsUntilDone(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operations/op-123", r.URL.Path)
		if calls.Add(1) < 3 {
			json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123", "done": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/op-123",
			"done": true,
			"response": map[string]any{
				"generateVideoResponse": map[string]any{
					"generatedSamples": []map[string]any{
						{"video": map[string]any{"uri": "https://files.example/video-1"}},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, time.Millisecond, time.Second)
	uri, err := c.Await(context.Background(), "operations/op-123")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/video-1", uri)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestAwaitTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123", "done": false})
	}))
	defer srv.Close()

	c := testClient(srv.URL, time.Millisecond, 20*time.Millisecond)
	_, err := c.Await(context.Background(), "operations/op-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not finish")
}

func TestAwaitHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123", "done": false})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	c := testClient(srv.URL, time.Hour, time.Hour)
	_, err := c.Await(ctx, "operations/op-123")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAwaitSurfacesOperationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"name":  "operations/op-123",
			"done":  true,
			"error": map[string]any{"code": 400, "message": "prompt rejected"},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, time.Millisecond, time.Second)
	_, err := c.Await(context.Background(), "operations/op-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt rejected")
}

func TestDownloadWritesFile(t *testing.T) {
	payload := make([]byte, 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "clip.mp4")
	c := testClient(srv.URL, time.Millisecond, time.Second)
	require.NoError(t, c.Download(context.Background(), srv.URL+"/file", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Len(t, data, 2048)
}

func TestDownloadRejectsTinyResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("oops"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "clip.mp4")
	c := testClient(srv.URL, time.Millisecond, time.Second)
	err := c.Download(context.Background(), srv.URL+"/file", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}
