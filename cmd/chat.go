/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/longkey1/mdbuddy/internal/buddy/config"
	"github.com/longkey1/mdbuddy/internal/buddy/document"
	promptpkg "github.com/longkey1/mdbuddy/internal/buddy/prompt"
	"github.com/spf13/cobra"
)

var (
	model        string
	prompt       string
	argFlags     []string
	systemPrompt string
	notation     string
	dryRun       bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat <file>",
	Short: "Send the document to the LLM and append the reply",
	Long: `Parse the document into a conversation, send it to the LLM, and append
the reply to the end of the document as a buddy block.

Use "-" as the file to read the document from stdin; the reply is then
printed to stdout instead of being appended.

The document must not end inside an unclosed buddy block, and its last turn
must be yours. Nothing is sent otherwise.

A reply containing a bare ` + "```" + ` line ends the buddy block early when the
document is read again. Use --notation callout for such content.

The model is chosen with this priority: --model flag, MDBUDDY_MODEL,
model from the prompt template, config file.

The prompt file should be in TOML format with the following structure:
system = "System prompt with optional {{document}} placeholder"
model = "optional provider:model"   # Optional: overrides the default model
notation = "fence"                  # Optional: fence or callout`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		path := args[0]
		system, err := resolveChatSettings(cmd, cfg, path)
		if err != nil {
			return err
		}

		n, err := cfg.GetNotation()
		if err != nil {
			return err
		}
		parser := buddy.NewParser(buddy.WithNotation(n))

		var src document.Source
		var sink document.Sink
		if path == "-" {
			src = document.Reader{R: cmd.InOrStdin()}
			sink = document.Writer{W: cmd.OutOrStdout()}
		} else {
			file := document.File{Path: path}
			src, sink = file, file
			if dryRun {
				sink = document.Writer{W: cmd.OutOrStdout()}
			}
		}

		entry := log.WithField("document", path)
		provider, err := newProvider(cfg, entry)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}

		entry.WithField("model", cfg.Model).Debug("Starting exchange")
		_, err = document.Exchange(cmd.Context(), src, sink, provider, document.Options{
			SystemPrompt: system,
			Parser:       parser,
			Log:          entry,
		})
		if err != nil {
			var malformed *buddy.MalformedDocumentError
			if errors.As(err, &malformed) {
				return fmt.Errorf("%s must be fixed before a message can be sent: %w", path, err)
			}
			return fmt.Errorf("chat request failed: %w", err)
		}

		if path != "-" && !dryRun {
			fmt.Fprintf(cmd.ErrOrStderr(), "Reply appended to %s\n", path)
		}
		return nil
	},
}

// resolveChatSettings applies flags and the prompt template to cfg and
// returns the system prompt to send.
func resolveChatSettings(cmd *cobra.Command, cfg *config.Config, path string) (string, error) {
	system := cfg.SystemPrompt

	if prompt != "" {
		rendered, err := promptpkg.Render(prompt, cfg.PromptDirs, filepath.Base(path), argFlags)
		if err != nil {
			return "", fmt.Errorf("formatting prompt: %w", err)
		}
		system = rendered.Text

		if rendered.Model != nil && os.Getenv("MDBUDDY_MODEL") == "" {
			cfg.Model = *rendered.Model
			log.WithField("model", cfg.Model).Debug("Using model from prompt file")
		}
		if rendered.Notation != nil {
			cfg.Notation = rendered.Notation.String()
		}
	}

	if cmd.Flags().Changed("system") {
		system = systemPrompt
	}
	if cmd.Flags().Changed("model") {
		if _, _, err := buddy.ParseModelString(model); err != nil {
			return "", fmt.Errorf("invalid model from flag: %w", err)
		}
		cfg.Model = model
	}
	if cmd.Flags().Changed("notation") {
		cfg.Notation = notation
	}

	return system, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (format: provider:model, e.g., openai:gpt-4.1)")
	chatCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Name of the prompt template (without .toml extension)")
	chatCmd.Flags().StringArrayVar(&argFlags, "arg", []string{}, "Key-value pairs for prompt template (format: key:value)")
	chatCmd.Flags().StringVar(&systemPrompt, "system", "", "System prompt (overrides config and prompt template)")
	chatCmd.Flags().StringVar(&notation, "notation", "", "Document notation: fence or callout")
	chatCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the reply instead of appending it to the document")
}
