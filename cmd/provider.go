package cmd

import (
	"fmt"

	"github.com/longkey1/mdbuddy/internal/anthropic"
	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/longkey1/mdbuddy/internal/buddy/config"
	"github.com/longkey1/mdbuddy/internal/gemini"
	"github.com/longkey1/mdbuddy/internal/openai"
	"github.com/sirupsen/logrus"
)

// supportedProviders lists provider names in display order
var supportedProviders = []string{openai.ProviderName, gemini.ProviderName, anthropic.ProviderName}

// newProvider creates a provider for the model configured in cfg
func newProvider(cfg *config.Config, log *logrus.Entry) (buddy.Provider, error) {
	name, err := cfg.GetProvider()
	if err != nil {
		return nil, err
	}
	return newProviderByName(name, cfg, log)
}

// newProviderByName creates the named provider
func newProviderByName(name string, cfg *config.Config, log *logrus.Entry) (buddy.Provider, error) {
	switch name {
	case openai.ProviderName:
		return openai.NewProvider(cfg, log), nil
	case gemini.ProviderName:
		return gemini.NewProvider(cfg, log), nil
	case anthropic.ProviderName:
		return anthropic.NewProvider(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: openai, gemini, anthropic)", name)
	}
}
