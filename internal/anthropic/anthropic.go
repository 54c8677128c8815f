package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/sirupsen/logrus"
)

const (
	ProviderName     = "anthropic"
	DefaultBaseURL   = "https://api.anthropic.com/v1"
	DefaultModel     = "claude-3-5-sonnet-20241022"
	AnthropicVersion = "2023-06-01"
)

// ModelsAPIResponse represents the response from Anthropic's models endpoint
type ModelsAPIResponse struct {
	Data []ModelData `json:"data"`
}

// ModelData represents a single model in the API response
type ModelData struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessagesAPIRequest represents the request body for Anthropic's Messages API
type MessagesAPIRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"` // System prompt (optional)
	Messages  []MessageInput `json:"messages"`
}

// MessageInput represents a message in the conversation
type MessageInput struct {
	Role    string    `json:"role"`    // "user" or "assistant"
	Content []Content `json:"content"` // Array of content blocks
}

// Content represents a content block
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessagesAPIResponse represents the response from Anthropic's Messages API
type MessagesAPIResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []ResponseContent `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
	Usage      Usage             `json:"usage"`
	Error      *APIError         `json:"error,omitempty"`
}

// ResponseContent represents a content block in the response
type ResponseContent struct {
	Type string `json:"type"` // "text"
	Text string `json:"text,omitempty"`
}

// Usage represents token usage information
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// APIError represents an error in the API response
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Config defines the configuration interface for Anthropic provider
type Config interface {
	GetModel() string
	GetBaseURL(provider string) (string, error)
	GetToken(provider string) (string, error)
	GetMaxTokens() int
	GetTimeout() (time.Duration, error)
}

// Provider implements the buddy.Provider interface for Anthropic
type Provider struct {
	config Config
	client *http.Client
	log    *logrus.Entry
}

// NewProvider creates a new Anthropic provider instance
func NewProvider(config Config, log *logrus.Entry) *Provider {
	return &Provider{
		config: config,
		client: &http.Client{},
		log:    log.WithField("provider", ProviderName),
	}
}

// ListModels returns the list of supported models from the API
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
		description := model.DisplayName
		if description == "" && !model.CreatedAt.IsZero() {
			description = fmt.Sprintf("Created: %s", model.CreatedAt.UTC().Format("2006-01-02"))
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

// Complete sends the turns to Anthropic's Messages API and returns the reply.
// A leading system turn is sent as the top-level system prompt.
func (p *Provider) Complete(ctx context.Context, turns []buddy.Turn) (buddy.Turn, error) {
	_, modelName, err := buddy.ParseModelString(p.config.GetModel())
	if err != nil {
		return buddy.Turn{}, fmt.Errorf("invalid model format: %w", err)
	}

	systemPrompt, conversation := buddy.SplitSystem(turns)

	inputMessages := make([]MessageInput, 0, len(conversation))
	for _, turn := range conversation {
		inputMessages = append(inputMessages, MessageInput{
			Role: turn.Role.String(),
			Content: []Content{
				{
					Type: "text",
					Text: turn.Content,
				},
			},
		})
	}

	reqBody := MessagesAPIRequest{
		Model:     modelName,
		MaxTokens: p.config.GetMaxTokens(),
		System:    systemPrompt,
		Messages:  inputMessages,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return buddy.Turn{}, fmt.Errorf("error marshaling request: %w", err)
	}

	p.log.WithFields(logrus.Fields{"model": modelName, "turns": len(turns)}).Debug("Sending messages request")

	body, status, err := p.send(ctx, http.MethodPost, "/messages", jsonData)
	if err != nil {
		return buddy.Turn{}, err
	}
	if status != http.StatusOK {
		return buddy.Turn{}, apiError(status, body)
	}

	var result MessagesAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return buddy.Turn{}, fmt.Errorf("failed to parse API response: %w", err)
	}
	if result.Error != nil {
		return buddy.Turn{}, fmt.Errorf("API error [%s]: %s (id=%s)", result.Error.Type, result.Error.Message, result.ID)
	}

	// Extract text from content blocks
	var textBlocks []string
	for _, content := range result.Content {
		if content.Type == "text" && content.Text != "" {
			textBlocks = append(textBlocks, content.Text)
		}
	}
	if len(textBlocks) == 0 {
		return buddy.Turn{}, fmt.Errorf("no text content found in API response (id=%s)", result.ID)
	}

	p.log.WithFields(logrus.Fields{
		"input_tokens":  result.Usage.InputTokens,
		"output_tokens": result.Usage.OutputTokens,
		"stop_reason":   result.StopReason,
	}).Debug("Received reply")

	return buddy.AssistantTurn(strings.Join(textBlocks, "\n")), nil
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
	req.Header.Set("x-api-key", token)
	req.Header.Set("anthropic-version", AnthropicVersion)

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
	var errResp MessagesAPIResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
		return fmt.Errorf("API error [%s]: %s (HTTP %d)", errResp.Error.Type, errResp.Error.Message, status)
	}
	return fmt.Errorf("API request failed (HTTP %d). Use --verbose for details", status)
}
