package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/sirupsen/logrus"
)

const (
	ProviderName   = "openai"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4.1"
)

// ChatRequest represents the request body for OpenAI's Chat Completions API
type ChatRequest struct {
	Model               string        `json:"model"`
	Messages            []ChatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

// ChatMessage represents a message in the conversation
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// ChatResponse represents the response from OpenAI's Chat Completions API
type ChatResponse struct {
	ID      string       `json:"id"`
	Choices []ChatChoice `json:"choices"`
	Error   *APIError    `json:"error,omitempty"`
}

// ChatChoice represents a single completion choice
type ChatChoice struct {
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// APIError represents an error in the API response
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ModelsAPIResponse represents the response from OpenAI's models endpoint
type ModelsAPIResponse struct {
	Data []ModelData `json:"data"`
}

// ModelData represents a single model in the API response
type ModelData struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// Config defines the configuration interface for OpenAI provider
type Config interface {
	GetModel() string
	GetBaseURL(provider string) (string, error)
	GetToken(provider string) (string, error)
	GetMaxTokens() int
	GetTimeout() (time.Duration, error)
}

// Provider implements the buddy.Provider interface for OpenAI
type Provider struct {
	config Config
	client *http.Client
	log    *logrus.Entry
}

// NewProvider creates a new OpenAI provider instance
func NewProvider(config Config, log *logrus.Entry) *Provider {
	return &Provider{
		config: config,
		client: &http.Client{},
		log:    log.WithField("provider", ProviderName),
	}
}

// ListModels returns the list of models available to the configured token
func (p *Provider) ListModels(ctx context.Context) ([]buddy.ModelInfo, error) {
	body, status, err := p.send(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var result ModelsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	models := make([]buddy.ModelInfo, 0, len(result.Data))
	for _, model := range result.Data {
		description := ""
		if model.Created > 0 {
			description = fmt.Sprintf("Created: %s", time.Unix(model.Created, 0).UTC().Format("2006-01-02"))
		}
		models = append(models, buddy.ModelInfo{
			ID:          model.ID,
			Description: description,
			IsDefault:   model.ID == DefaultModel,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID > models[j].ID
	})

	return models, nil
}

// Complete sends the turns to the Chat Completions API and returns the reply
func (p *Provider) Complete(ctx context.Context, turns []buddy.Turn) (buddy.Turn, error) {
	_, modelName, err := buddy.ParseModelString(p.config.GetModel())
	if err != nil {
		return buddy.Turn{}, fmt.Errorf("invalid model format: %w", err)
	}

	// System turns map directly onto the "system" message role
	messages := make([]ChatMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, ChatMessage{Role: turn.Role.String(), Content: turn.Content})
	}

	reqBody := ChatRequest{
		Model:               modelName,
		Messages:            messages,
		MaxCompletionTokens: p.config.GetMaxTokens(),
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return buddy.Turn{}, fmt.Errorf("error marshaling request: %w", err)
	}

	p.log.WithFields(logrus.Fields{"model": modelName, "turns": len(turns)}).Debug("Sending chat completion request")

	body, status, err := p.send(ctx, http.MethodPost, "/chat/completions", jsonData)
	if err != nil {
		return buddy.Turn{}, err
	}
	if status != http.StatusOK {
		return buddy.Turn{}, apiError(status, body)
	}

	var result ChatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return buddy.Turn{}, fmt.Errorf("failed to parse API response: %w", err)
	}
	if result.Error != nil {
		return buddy.Turn{}, fmt.Errorf("API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return buddy.Turn{}, fmt.Errorf("API returned empty response (id=%s)", result.ID)
	}

	return buddy.AssistantTurn(result.Choices[0].Message.Content), nil
}

// send performs an authenticated request and returns the body and status code
func (p *Provider) send(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	token, err := p.config.GetToken(ProviderName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get token: %w", err)
	}
	baseURL, err := p.config.GetBaseURL(ProviderName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get base URL: %w", err)
	}
	timeout, err := p.config.GetTimeout()
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response: %w", err)
	}

	p.log.WithFields(logrus.Fields{"status": resp.StatusCode, "path": path}).Debugf("Raw API response: %s", body)
	return body, resp.StatusCode, nil
}

// apiError builds an error from a non-200 response, preferring the API's message
func apiError(status int, body []byte) error {
	var errResp ChatResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
		return fmt.Errorf("API error [%s]: %s (HTTP %d)", errResp.Error.Type, errResp.Error.Message, status)
	}
	return fmt.Errorf("API request failed (HTTP %d). Use --verbose for details", status)
}
