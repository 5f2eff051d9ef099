package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type completionServer struct {
	mu      sync.Mutex
	bodies  []string
	content string
	status  int
}

func (s *completionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.bodies = append(s.bodies, string(body))
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if s.status != 0 && s.status != http.StatusOK {
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
		return
	}
	resp := map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": s.content},
			"finish_reason": "stop",
		}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestClient(t *testing.T, srv *completionServer) *Client {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return NewClient("sk-test", "gpt-4o-mini", ts.URL+"/v1", 70, 3)
}

func TestDetectLabelsFiltersAndCaps(t *testing.T) {
	srv := &completionServer{content: `{"labels":[
		{"name":"Cat","confidence":98},
		{"name":"Blur","confidence":40},
		{"name":"Pet","confidence":90},
		{"name":"Animal","confidence":85},
		{"name":"Mammal","confidence":80}]}`}
	c := newTestClient(t, srv)

	labels, err := c.DetectLabels(context.Background(), pngBytes)
	require.NoError(t, err)
	assert.Equal(t, []analysis.Label{
		{Name: "Cat", Confidence: 98},
		{Name: "Pet", Confidence: 90},
		{Name: "Animal", Confidence: 85},
	}, labels)

	require.Len(t, srv.bodies, 1)
	assert.Contains(t, srv.bodies[0], "data:image/png;base64,")
	assert.Contains(t, srv.bodies[0], `"json_object"`)
	assert.Contains(t, srv.bodies[0], `"max_tokens":2048`)
}

func TestDetectTextEmptyIsNonNil(t *testing.T) {
	c := newTestClient(t, &completionServer{content: `{}`})

	text, err := c.DetectText(context.Background(), pngBytes)
	require.NoError(t, err)
	assert.NotNil(t, text)
	assert.Empty(t, text)
}

func TestDetectFacesDecodesAttributes(t *testing.T) {
	c := newTestClient(t, &completionServer{content: `{"faces":[{
		"boundingBox":{"width":0.2,"height":0.3,"left":0.1,"top":0.1},
		"ageRange":{"low":25,"high":35},
		"gender":{"value":"Female","confidence":99},
		"emotions":[{"type":"HAPPY","confidence":92}],
		"smile":{"value":true,"confidence":95},
		"confidence":99.9}]}`})

	faces, err := c.DetectFaces(context.Background(), pngBytes)
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, 25, faces[0].AgeRange.Low)
	assert.True(t, faces[0].Smile.Value)
	assert.Equal(t, "HAPPY", faces[0].Emotions[0].Type)
}

func TestQuotaErrorIsMapped(t *testing.T) {
	c := newTestClient(t, &completionServer{status: http.StatusTooManyRequests})

	_, err := c.DetectText(context.Background(), pngBytes)
	require.Error(t, err)
	assert.True(t, errors.Is(err, analysis.ErrQuotaExceeded))
	assert.True(t, errors.Is(err, analysis.ErrAnalysis))

	var aerr *analysis.Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, analysis.OpDetectText, aerr.Op)
}

func TestMalformedCompletionFails(t *testing.T) {
	srv := &completionServer{content: "sorry, I cannot help"}
	c := newTestClient(t, srv)

	_, err := c.DetectFaces(context.Background(), pngBytes)
	var aerr *analysis.Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, analysis.OpDetectFaces, aerr.Op)
	assert.False(t, errors.Is(err, analysis.ErrQuotaExceeded))
	assert.Len(t, srv.bodies, 1, "no retry")
}

func TestEmptyImageRejectedLocally(t *testing.T) {
	srv := &completionServer{content: `{}`}
	c := newTestClient(t, srv)

	_, err := c.DetectLabels(context.Background(), nil)
	assert.True(t, errors.Is(err, analysis.ErrAnalysis))
	assert.Empty(t, srv.bodies)
}

func TestReasoningModelUsesCompletionTokens(t *testing.T) {
	srv := &completionServer{content: `{"labels":[]}`}
	c := newTestClient(t, srv)
	c.Model = "o4-mini"

	_, err := c.DetectLabels(context.Background(), pngBytes)
	require.NoError(t, err)
	require.Len(t, srv.bodies, 1)
	assert.True(t, strings.Contains(srv.bodies[0], `"max_completion_tokens":2048`))
}

func TestDecodeToleratesFencesAndTrailingCommas(t *testing.T) {
	var out struct {
		Text []analysis.TextDetection `json:"text"`
	}
	content := "```json\n{\"text\":[{\"detectedText\":\"HI\",\"type\":\"LINE\",\"confidence\":90},]}\n```"

	require.NoError(t, decode(content, &out))
	require.Len(t, out.Text, 1)
	assert.Equal(t, "HI", out.Text[0].DetectedText)
}
