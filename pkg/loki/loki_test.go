package loki

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type MockLogger struct{}

func (m *MockLogger) Error(msg string, args ...any) {
}

func Test_ConfigValidation(t *testing.T) {
	cfg := Config{}
	_, err := New(context.Background(), cfg, &MockLogger{})
	assert.Error(t, err)

	cfg.Url = "SomeUrl"
	pusher, err := New(context.Background(), cfg, &MockLogger{})
	assert.NoError(t, err)
	defer pusher.Stop()
	assert.Equal(t, cfg.Url, pusher.config.Url)
	assert.Equal(t, 1000, pusher.config.BatchMaxSize)
	assert.Equal(t, 5*time.Second, pusher.config.BatchMaxWait)
	assert.Equal(t, map[string]string{}, pusher.config.Labels)
}

func newLokiServer(t *testing.T) (*httptest.Server, chan pushRequest) {
	t.Helper()
	received := make(chan pushRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reader, err := gzip.NewReader(r.Body)
		require.NoError(t, err)

		var request pushRequest
		require.NoError(t, json.NewDecoder(reader).Decode(&request))
		received <- request
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server, received
}

func waitRequest(t *testing.T, received chan pushRequest) pushRequest {
	t.Helper()
	select {
	case request := <-received:
		return request
	case <-time.After(5 * time.Second):
		t.Fatal("batch was not pushed")
		return pushRequest{}
	}
}

func Test_Pusher_WhenStopped_ShouldFlushBatch(t *testing.T) {
	server, received := newLokiServer(t)

	pusher, err := New(context.Background(), Config{
		Url:    server.URL,
		Labels: map[string]string{"app": "funnel"},
	}, &MockLogger{})
	require.NoError(t, err)

	require.NoError(t, pusher.Push(LogEntry{Level: "error", Message: "boom", Fields: map[string]string{"error_type": "db"}}))
	pusher.Stop()

	request := waitRequest(t, received)
	require.Len(t, request.Streams, 1)
	assert.Equal(t, map[string]string{"app": "funnel", "level": "error"}, request.Streams[0].Stream)
	require.Len(t, request.Streams[0].Values, 1)
	assert.Contains(t, request.Streams[0].Values[0][1], `"error_type":"db"`)
}

func Test_Pusher_WhenStreamFieldsSet_ShouldSplitStreamsByField(t *testing.T) {
	server, received := newLokiServer(t)

	pusher, err := New(context.Background(), Config{
		Url:          server.URL,
		Labels:       map[string]string{"app": "funnel"},
		StreamFields: []string{"error_type"},
	}, &MockLogger{})
	require.NoError(t, err)

	require.NoError(t, pusher.Push(LogEntry{Level: "error", Message: "a", Fields: map[string]string{"error_type": "db"}}))
	require.NoError(t, pusher.Push(LogEntry{Level: "error", Message: "b", Fields: map[string]string{"error_type": "notify"}}))
	require.NoError(t, pusher.Push(LogEntry{Level: "error", Message: "c", Fields: map[string]string{"error_type": "db"}}))
	pusher.Stop()

	request := waitRequest(t, received)
	require.Len(t, request.Streams, 2)
	assert.Equal(t, "db", request.Streams[0].Stream["error_type"])
	assert.Len(t, request.Streams[0].Values, 2)
	assert.Equal(t, "notify", request.Streams[1].Stream["error_type"])
	assert.Len(t, request.Streams[1].Values, 1)
}
