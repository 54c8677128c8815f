// Package buddy implements the document-embedded conversation notation:
// a document of plain prose interleaved with fenced "buddy" blocks is parsed
// into role-tagged turns, and a reply turn is serialized back into the same
// notation so it can be appended to the document.
//
// This package also defines the Provider interface that completion clients
// (openai, gemini, anthropic) implement.
package buddy

import (
	"context"
	"fmt"
	"strings"
)

// ModelInfo represents information about an available model from a provider.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gpt-4.1", "gemini-2.0-flash")
	Description string // Human-readable description of the model
	IsDefault   bool   // Whether this is the default model for the provider
}

// Provider defines the interface for completion clients.
//
// Example usage:
//
//	provider := openai.NewProvider(cfg, log)
//	reply, err := provider.Complete(ctx, buddy.WithSystem(system, turns))
type Provider interface {
	// Complete submits the ordered turns and returns exactly one reply turn
	// with the assistant role. A leading system turn, if present, is mapped
	// to the provider's native system slot.
	Complete(ctx context.Context, turns []Turn) (Turn, error)

	// ListModels returns a list of available models for the provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ParseModelString parses a model string in "provider:model" format.
// Returns (provider, model, error).
//
// Example:
//
//	provider, model, err := ParseModelString("openai:gpt-4.1")
//	// provider = "openai", model = "gpt-4.1"
func ParseModelString(modelStr string) (string, string, error) {
	parts := strings.SplitN(modelStr, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid model format: %s (expected format: provider:model, e.g., openai:gpt-4.1)", modelStr)
	}

	provider := strings.TrimSpace(parts[0])
	model := strings.TrimSpace(parts[1])

	if provider == "" || model == "" {
		return "", "", fmt.Errorf("provider and model cannot be empty")
	}

	return provider, model, nil
}

// FormatModelString formats provider and model into "provider:model" format.
func FormatModelString(provider, model string) string {
	return fmt.Sprintf("%s:%s", provider, model)
}
