/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/longkey1/mdbuddy/internal/buddy/config"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List available models for the specified provider(s)",
	Long: `List all available models for the specified provider.
Fetches the latest model information directly from the provider's API.

Supported providers: openai, gemini, anthropic

If no provider is specified, lists models from all providers.

Example:
  mdbuddy models            # List models from all providers
  mdbuddy models anthropic  # List Anthropic models`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		providers := supportedProviders
		if len(args) == 1 {
			if !slices.Contains(supportedProviders, args[0]) {
				return fmt.Errorf("unsupported provider '%s'\nSupported providers: %s", args[0], strings.Join(supportedProviders, ", "))
			}
			providers = []string{args[0]}
		}

		type providerResult struct {
			provider string
			models   []buddy.ModelInfo
			err      error
		}

		// Providers are queried concurrently; results keep the input order
		results := iter.Map(providers, func(name *string) providerResult {
			result := providerResult{provider: *name}
			log.WithField("provider", *name).Debug("Listing models")

			provider, err := newProviderByName(*name, cfg, log.WithField("command", "models"))
			if err != nil {
				result.err = err
				return result
			}
			models, err := provider.ListModels(cmd.Context())
			if err != nil {
				result.err = fmt.Errorf("failed to list models: %w", err)
				return result
			}
			if len(models) == 0 {
				result.err = fmt.Errorf("no models returned from API")
				return result
			}
			result.models = models
			return result
		})

		out := cmd.OutOrStdout()
		successCount := 0
		for _, result := range results {
			if result.err != nil {
				continue
			}
			if successCount > 0 {
				fmt.Fprintln(out)
			}
			successCount++

			fmt.Fprintf(out, "Available models for %s:\n\n", result.provider)

			maxModelWidth := 15
			for _, model := range result.models {
				if n := len(buddy.FormatModelString(result.provider, model.ID)); n > maxModelWidth {
					maxModelWidth = n
				}
			}

			fmt.Fprintf(out, "%-*s  %-10s  %s\n", maxModelWidth, "MODEL", "DEFAULT", "DESCRIPTION")
			fmt.Fprintf(out, "%s  %s  %s\n",
				strings.Repeat("-", maxModelWidth),
				strings.Repeat("-", 10),
				strings.Repeat("-", 50))

			for _, model := range result.models {
				defaultMark := ""
				if model.IsDefault {
					defaultMark = "Yes"
				}
				fmt.Fprintf(out, "%-*s  %-10s  %s\n",
					maxModelWidth,
					buddy.FormatModelString(result.provider, model.ID),
					defaultMark,
					model.Description)
			}

			fmt.Fprintf(out, "\nUse a model with: mdbuddy chat --model <model> <file>\n")
		}

		warn := color.New(color.FgYellow)
		for _, result := range results {
			if result.err != nil {
				warn.Fprintf(cmd.ErrOrStderr(), "Warning: Skipping %s - %v\n", result.provider, result.err)
			}
		}

		if successCount == 0 {
			return fmt.Errorf("no provider returned models")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
