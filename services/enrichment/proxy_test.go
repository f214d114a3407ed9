package enrichment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/hr-platform/services"
	"go.uber.org/zap"
)

func newTestProxy(t *testing.T, url string, shape ResponseShape, mutate ...func(*Config)) *Proxy {
	t.Helper()
	cfg := Config{
		BaseURL:     url,
		Model:       "test-model",
		Shape:       shape,
		Timeout:     100 * time.Millisecond,
		MaxRetries:  2,
		BackoffBase: time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	p, err := NewProxy(cfg, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestProxy_RetriesTimeoutsThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text": "  Polished feedback.  "}]`))
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeCompletions)

	result, err := p.Polish(context.Background(), Request{Text: "good job"})
	require.NoError(t, err)
	assert.Equal(t, "Polished feedback.", result.PolishedText)
	assert.Equal(t, "good job", result.OriginalText)
	assert.Equal(t, "test-model", result.Model)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestProxy_BadRequestIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"bad input"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeCompletions)

	result, err := p.Polish(context.Background(), Request{Text: "good job"})
	assert.Nil(t, result)
	assert.True(t, services.IsEnrichmentUnavailableError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestProxy_ServerErrorsExhaustRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeCompletions)

	_, err := p.Polish(context.Background(), Request{Text: "good job"})
	assert.True(t, services.IsEnrichmentUnavailableError(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestProxy_MalformedResponses(t *testing.T) {
	tests := []struct {
		name  string
		shape ResponseShape
		body  string
	}{
		{name: "completions missing generated_text", shape: ShapeCompletions, body: `[{"summary_text": "hi"}]`},
		{name: "completions empty list", shape: ShapeCompletions, body: `[]`},
		{name: "completions object instead of list", shape: ShapeCompletions, body: `{"generated_text": "hi"}`},
		{name: "completions blank text", shape: ShapeCompletions, body: `[{"generated_text": "   "}]`},
		{name: "chat without choices", shape: ShapeChat, body: `{"choices": []}`},
		{name: "chat missing content", shape: ShapeChat, body: `{"choices": [{"message": {"role": "assistant"}}]}`},
		{name: "not json", shape: ShapeChat, body: `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := newTestProxy(t, server.URL, tt.shape)

			result, err := p.Polish(context.Background(), Request{Text: "good job"})
			assert.Nil(t, result)
			assert.True(t, services.IsMalformedBackendResponseError(err))
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestProxy_ChatShape(t *testing.T) {
	var got chatRequest
	var path, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "\nPolished.\n"}}]}`))
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeChat, func(c *Config) { c.APIKey = "sk-test" })

	result, err := p.Polish(context.Background(), Request{Text: "good job", Context: "employee feedback"})
	require.NoError(t, err)
	assert.Equal(t, "Polished.", result.PolishedText)
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.True(t, strings.HasPrefix(got.Messages[0].Content, "Context: employee feedback\n\n"))
	assert.True(t, strings.HasSuffix(got.Messages[0].Content, "good job"))
}

func TestProxy_CompletionsRequestAndRedaction(t *testing.T) {
	var got completionsRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`[{"generated_text": "ok"}]`))
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeCompletions, func(c *Config) { c.RedactPII = true })

	_, err := p.Polish(context.Background(), Request{Text: "reach me at ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "/test-model", path)
	assert.Equal(t, 512, got.Parameters.MaxLength)
	assert.True(t, got.Parameters.DoSample)
	assert.NotContains(t, got.Inputs, "ana@example.com")
	assert.Contains(t, got.Inputs, "[EMAIL_REDACTED]")
}

func TestProxy_EmptyTextIsRejectedWithoutCalling(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeCompletions)

	_, err := p.Polish(context.Background(), Request{Text: "   "})
	assert.True(t, services.IsValidationError(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestProxy_CancelledContextAbandonsCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeCompletions, func(c *Config) { c.Timeout = 5 * time.Second })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Polish(ctx, Request{Text: "good job"})
	assert.True(t, services.IsEnrichmentUnavailableError(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProxy_ConcurrencyCap(t *testing.T) {
	var inFlight, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		_, _ = w.Write([]byte(`[{"generated_text": "ok"}]`))
	}))
	defer server.Close()

	p := newTestProxy(t, server.URL, ShapeCompletions, func(c *Config) {
		c.MaxConcurrent = 2
		c.Timeout = time.Second
	})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Polish(context.Background(), Request{Text: "good job"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestNewProxy_Validation(t *testing.T) {
	_, err := NewProxy(Config{Model: "m"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewProxy(Config{BaseURL: "http://x", Model: "m", Shape: "xml"}, zap.NewNop())
	assert.Error(t, err)

	p, err := NewProxy(Config{BaseURL: "http://x/", Model: "m"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ShapeCompletions, p.cfg.Shape)
	assert.Equal(t, 30*time.Second, p.cfg.Timeout)
	assert.Equal(t, "http://x", p.cfg.BaseURL)
}

func TestParseResponseShape(t *testing.T) {
	shape, err := ParseResponseShape(" Chat ")
	require.NoError(t, err)
	assert.Equal(t, ShapeChat, shape)

	_, err = ParseResponseShape("raw")
	assert.Error(t, err)
}
