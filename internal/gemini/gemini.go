package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/sirupsen/logrus"
)

const (
	ProviderName   = "gemini"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"

	// Gemini names the assistant role "model"
	modelRole = "model"
)

// ModelsAPIResponse represents the response from Gemini's models endpoint
type ModelsAPIResponse struct {
	Models []GeminiModelData `json:"models"`
}

// GeminiModelData represents a single model in the API response
type GeminiModelData struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// GeminiRequest represents the request body for Gemini's generate content API
type GeminiRequest struct {
	Contents          []GeminiContent          `json:"contents"`
	SystemInstruction *GeminiSystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  *GeminiGenerationConfig  `json:"generationConfig,omitempty"`
}

// GeminiSystemInstruction represents system instruction for Gemini
type GeminiSystemInstruction struct {
	Parts []GeminiPart `json:"parts"`
}

// GeminiGenerationConfig limits the reply
type GeminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

// GeminiContent represents a content item in the Gemini request format
type GeminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a part of the content in the Gemini request format
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiResponse represents the full response from Gemini API
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
	Error      *GeminiError      `json:"error,omitempty"`
}

// GeminiCandidate represents a candidate response
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// GeminiError represents an error in the API response
type GeminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Config defines the configuration interface for Gemini provider
type Config interface {
	GetModel() string
	GetBaseURL(provider string) (string, error)
	GetToken(provider string) (string, error)
	GetMaxTokens() int
	GetTimeout() (time.Duration, error)
}

// Provider implements the buddy.Provider interface for Gemini
type Provider struct {
	config Config
	client *http.Client
	log    *logrus.Entry
}

// NewProvider creates a new Gemini provider instance
func NewProvider(config Config, log *logrus.Entry) *Provider {
	return &Provider{
		config: config,
		client: &http.Client{},
		log:    log.WithField("provider", ProviderName),
	}
}

// ListModels returns the models that support generateContent
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

	models := make([]buddy.ModelInfo, 0)
	for _, model := range result.Models {
		if !slices.Contains(model.SupportedGenerationMethods, "generateContent") {
			continue
		}

		// Extract model ID from name (remove "models/" prefix)
		id := strings.TrimPrefix(model.Name, "models/")

		description := model.Description
		if description == "" {
			description = model.DisplayName
		}

		models = append(models, buddy.ModelInfo{
			ID:          id,
			Description: description,
			IsDefault:   id == DefaultModel,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID > models[j].ID
	})

	return models, nil
}

// Complete sends the turns to Gemini's generateContent API and returns the reply.
// A leading system turn is sent as the system instruction.
func (p *Provider) Complete(ctx context.Context, turns []buddy.Turn) (buddy.Turn, error) {
	_, modelName, err := buddy.ParseModelString(p.config.GetModel())
	if err != nil {
		return buddy.Turn{}, fmt.Errorf("invalid model format: %w", err)
	}

	systemPrompt, conversation := buddy.SplitSystem(turns)

	contents := make([]GeminiContent, 0, len(conversation))
	for _, turn := range conversation {
		role := turn.Role.String()
		if turn.Role == buddy.RoleAssistant {
			role = modelRole
		}
		contents = append(contents, GeminiContent{
			Role:  role,
			Parts: []GeminiPart{{Text: turn.Content}},
		})
	}

	reqBody := GeminiRequest{
		Contents:         contents,
		GenerationConfig: &GeminiGenerationConfig{MaxOutputTokens: p.config.GetMaxTokens()},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &GeminiSystemInstruction{
			Parts: []GeminiPart{{Text: systemPrompt}},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return buddy.Turn{}, fmt.Errorf("error marshaling request: %w", err)
	}

	p.log.WithFields(logrus.Fields{"model": modelName, "turns": len(turns)}).Debug("Sending generateContent request")

	body, status, err := p.send(ctx, http.MethodPost, "/models/"+url.PathEscape(modelName)+":generateContent", jsonData)
	if err != nil {
		return buddy.Turn{}, err
	}
	if status != http.StatusOK {
		return buddy.Turn{}, apiError(status, body)
	}

	var result GeminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return buddy.Turn{}, fmt.Errorf("failed to parse API response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return buddy.Turn{}, fmt.Errorf("no response from API (empty candidates)")
	}

	var parts []string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	if len(parts) == 0 {
		return buddy.Turn{}, fmt.Errorf("no response from API (empty parts, finish reason %q)", result.Candidates[0].FinishReason)
	}

	return buddy.AssistantTurn(strings.Join(parts, "")), nil
}

// send performs a request authenticated with the key query parameter
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
	endpoint := baseURL + path + "?key=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error sending request to %s: %w", path, redact(err, token))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response: %w", err)
	}

	p.log.WithFields(logrus.Fields{"status": resp.StatusCode, "path": path}).Debugf("Raw API response: %s", body)
	return body, resp.StatusCode, nil
}

// redact strips the API key that net/http includes in URL errors
func redact(err error, token string) error {
	if uerr, ok := err.(*url.Error); ok {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(token), "REDACTED")
		return uerr
	}
	return err
}

// apiError builds an error from a non-200 response, preferring the API's message
func apiError(status int, body []byte) error {
	var errResp GeminiResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
		return fmt.Errorf("API error [%s]: %s (HTTP %d)", errResp.Error.Status, errResp.Error.Message, status)
	}
	return fmt.Errorf("API request failed (HTTP %d). Use --verbose for details", status)
}
