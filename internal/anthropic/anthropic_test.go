package anthropic

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
	cfg.Model = "anthropic:claude-3-5-sonnet-20241022"
	cfg.AnthropicBaseURL = server.URL
	cfg.AnthropicToken = "ak-test"

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewProvider(cfg, logrus.NewEntry(logger))
}

func TestComplete(t *testing.T) {
	var got MessagesAPIRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, AnthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"first"},{"type":"text","text":"second"}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":3}}`))
	})

	reply, err := p.Complete(context.Background(), []buddy.Turn{
		buddy.SystemTurn("be brief"),
		buddy.UserTurn("q1"),
		buddy.AssistantTurn("a1"),
		buddy.UserTurn("q2"),
	})
	require.NoError(t, err)
	assert.Equal(t, buddy.AssistantTurn("first\nsecond"), reply)

	assert.Equal(t, "claude-3-5-sonnet-20241022", got.Model)
	assert.Equal(t, config.DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "be brief", got.System)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, "a1", got.Messages[1].Content[0].Text)
}

func TestCompleteWithoutSystemTurn(t *testing.T) {
	var raw map[string]any
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`{"id":"msg_2","content":[{"type":"text","text":"ok"}]}`))
	})

	_, err := p.Complete(context.Background(), []buddy.Turn{buddy.UserTurn("q")})
	require.NoError(t, err)
	assert.NotContains(t, raw, "system")
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
			body:    `{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens too large"}}`,
			wantErr: "max_tokens too large",
		},
		{
			name:    "unparseable error",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: "HTTP 502",
		},
		{
			name:    "no text blocks",
			status:  http.StatusOK,
			body:    `{"id":"msg_3","content":[{"type":"tool_use"}]}`,
			wantErr: "no text content",
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
		w.Write([]byte(`{"data":[{"id":"claude-3-5-sonnet-20241022","display_name":"Claude 3.5 Sonnet"},{"id":"claude-3-7-sonnet-20250219","created_at":"2025-02-19T00:00:00Z"}]}`))
	})

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "claude-3-7-sonnet-20250219", models[0].ID)
	assert.Equal(t, "Created: 2025-02-19", models[0].Description)
	assert.Equal(t, "Claude 3.5 Sonnet", models[1].Description)
	assert.True(t, models[1].IsDefault)
}
