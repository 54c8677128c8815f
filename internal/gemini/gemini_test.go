package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/longkey1/mdbuddy/internal/buddy/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.NewDefaultConfig("prompts")
	cfg.Model = "gemini:gemini-2.0-flash"
	cfg.GeminiBaseURL = server.URL
	cfg.GeminiToken = "g-test"
	cfg.MaxTokens = 100

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewProvider(cfg, logrus.NewEntry(logger))
}

func TestComplete(t *testing.T) {
	var got GeminiRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-test", r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello, "},{"text":"world"}]},"finishReason":"STOP"}]}`))
	})

	reply, err := p.Complete(context.Background(), []buddy.Turn{
		buddy.SystemTurn("be brief"),
		buddy.UserTurn("q1"),
		buddy.AssistantTurn("a1"),
		buddy.UserTurn("q2"),
	})
	require.NoError(t, err)
	assert.Equal(t, buddy.AssistantTurn("Hello, world"), reply)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be brief", got.SystemInstruction.Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, 100, got.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, []GeminiContent{
		{Role: "user", Parts: []GeminiPart{{Text: "q1"}}},
		{Role: "model", Parts: []GeminiPart{{Text: "a1"}}},
		{Role: "user", Parts: []GeminiPart{{Text: "q2"}}},
	}, got.Contents)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "api error",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`,
			wantErr: "API key not valid",
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			body:    `{"candidates":[]}`,
			wantErr: "empty candidates",
		},
		{
			name:    "no parts",
			status:  http.StatusOK,
			body:    `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`,
			wantErr: `finish reason "SAFETY"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := p.Complete(context.Background(), []buddy.Turn{buddy.UserTurn("q")})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestListModels(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Write([]byte(`{"models":[
			{"name":"models/gemini-2.0-flash","displayName":"Gemini 2.0 Flash","supportedGenerationMethods":["generateContent"]},
			{"name":"models/text-embedding-004","supportedGenerationMethods":["embedContent"]},
			{"name":"models/gemini-2.5-pro","description":"Pro model","supportedGenerationMethods":["generateContent","countTokens"]}
		]}`))
	})

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []buddy.ModelInfo{
		{ID: "gemini-2.5-pro", Description: "Pro model"},
		{ID: "gemini-2.0-flash", Description: "Gemini 2.0 Flash", IsDefault: true},
	}, models)
}

func TestRedactKeyFromTransportErrors(t *testing.T) {
	cfg := config.NewDefaultConfig("prompts")
	cfg.Model = "gemini:gemini-2.0-flash"
	cfg.GeminiBaseURL = "http://127.0.0.1:1"
	cfg.GeminiToken = "secret-key"

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	p := NewProvider(cfg, logrus.NewEntry(logger))

	_, err := p.Complete(context.Background(), []buddy.Turn{buddy.UserTurn("q")})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}
