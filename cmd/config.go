package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/mdbuddy/internal/buddy/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, notation, system_prompt, max_tokens, timeout, openai_base_url, openai_token, gemini_base_url, gemini_token, anthropic_base_url, anthropic_token, promptdirs"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  mdbuddy config              # Show all configuration
  mdbuddy config model        # Show only model
  mdbuddy config openai_token # Show only the (masked) OpenAI token`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fields := []struct {
			key   string
			label string
			value string
		}{
			{"configfile", "ConfigFile", viper.ConfigFileUsed()},
			{"model", "Model", cfg.Model},
			{"notation", "Notation", cfg.Notation},
			{"system_prompt", "SystemPrompt", cfg.SystemPrompt},
			{"max_tokens", "MaxTokens", fmt.Sprint(cfg.GetMaxTokens())},
			{"timeout", "Timeout", cfg.Timeout},
			{"openai_base_url", "OpenAIBaseURL", cfg.OpenAIBaseURL},
			{"openai_token", "OpenAIToken", maskToken(cfg.OpenAIToken)},
			{"gemini_base_url", "GeminiBaseURL", cfg.GeminiBaseURL},
			{"gemini_token", "GeminiToken", maskToken(cfg.GeminiToken)},
			{"anthropic_base_url", "AnthropicBaseURL", cfg.AnthropicBaseURL},
			{"anthropic_token", "AnthropicToken", maskToken(cfg.AnthropicToken)},
			{"promptdirs", "PromptDirectories", strings.Join(cfg.PromptDirs, ",")},
		}

		out := cmd.OutOrStdout()
		if len(args) > 0 {
			field := strings.ToLower(args[0])
			for _, f := range fields {
				if f.key == field || strings.ReplaceAll(f.key, "_", "") == field {
					fmt.Fprintln(out, f.value)
					return nil
				}
			}
			return fmt.Errorf("unknown field: %s\nAvailable fields: %s", args[0], configFields)
		}

		for _, f := range fields {
			fmt.Fprintf(out, "%s: %s\n", f.label, f.value)
		}
		return nil
	},
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
