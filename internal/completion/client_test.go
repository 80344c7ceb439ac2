package completion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// respondWith returns a server that records the last request body and
// answers with status and body.
func respondWith(t *testing.T, status int, body string, got *map[string]any, headers *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, got)
		}
		if headers != nil {
			*headers = r.Header.Clone()
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete_Success(t *testing.T) {
	var req map[string]any
	var hdr http.Header
	srv := respondWith(t, http.StatusOK, `{"choices":[{"message":{"content":"Try to get more rest."}}]}`, &req, &hdr)

	c := New(Options{Endpoint: srv.URL, APIKey: "secret"}, nil)
	answer := c.Complete(context.Background(), "How is my sleep?")

	assert.Equal(t, "Try to get more rest.", answer)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, "secret", hdr.Get(DefaultAPIKeyHeader))

	assert.Equal(t, 0.7, req["temperature"])
	assert.NotContains(t, req, "model")
	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	system := msgs[0].(map[string]any)
	user := msgs[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, DefaultSystemPrompt, system["content"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "How is my sleep?", user["content"])
}

func TestComplete_CustomHeaderAndModel(t *testing.T) {
	var req map[string]any
	var hdr http.Header
	srv := respondWith(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`, &req, &hdr)

	c := New(Options{
		Endpoint:     srv.URL,
		APIKey:       "k",
		APIKeyHeader: "x-api-key",
		Model:        "health-1",
		SystemPrompt: "be brief",
	}, nil)
	assert.Equal(t, "ok", c.Complete(context.Background(), "hi"))
	assert.Equal(t, "k", hdr.Get("x-api-key"))
	assert.Equal(t, "health-1", req["model"])
	assert.Equal(t, "be brief", req["messages"].([]any)[0].(map[string]any)["content"])
}

func TestComplete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	answer := New(Options{Endpoint: url}, nil).Complete(context.Background(), "q")
	assert.True(t, strings.HasPrefix(answer, "Network error:"), answer)
}

func TestComplete_EmptyBody(t *testing.T) {
	srv := respondWith(t, http.StatusOK, "", nil, nil)
	assert.Equal(t, noDataAnswer, New(Options{Endpoint: srv.URL}, nil).Complete(context.Background(), "q"))
}

func TestComplete_UnusableResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not json", http.StatusOK, "<html>bad gateway</html>"},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"missing message", http.StatusOK, `{"choices":[{"index":0}]}`},
		{"missing content", http.StatusOK, `{"choices":[{"message":{"role":"assistant"}}]}`},
		{"error envelope", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"array", http.StatusOK, `[1,2,3]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			srv := respondWith(t, tc.status, tc.body, nil, nil)

			answer := New(Options{Endpoint: srv.URL}, zap.New(core)).Complete(context.Background(), "q")
			assert.Equal(t, unusableAnswer, answer)

			entries := logs.FilterMessage("unusable completion response").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.body, entries[0].ContextMap()["payload"])
		})
	}
}

func TestComplete_FixedTemperature(t *testing.T) {
	var req map[string]any
	srv := respondWith(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`, &req, nil)

	New(Options{Endpoint: srv.URL}, nil).Complete(context.Background(), "hi")
	assert.Equal(t, Temperature, req["temperature"])
	assert.Equal(t, 0.7, req["temperature"])
}
