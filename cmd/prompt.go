/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/mdbuddy/internal/buddy/config"
	promptpkg "github.com/longkey1/mdbuddy/internal/buddy/prompt"
	"github.com/spf13/cobra"
)

var withDir bool

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "List available prompt templates",
	Long: `List all available prompt templates from the configured prompt directories.
This command recursively scans all prompt directories specified in the configuration and displays
the names of available .toml prompt files, including those in subdirectories.

The prompt files should be in TOML format with the following structure:
system = "System prompt with optional {{document}} placeholder"

Prompt names are displayed as relative paths from the prompt directory root.
For example, a file at ${prompt_dir}/foo/bar.toml will be displayed as "foo/bar".

If you want to see which directory each prompt comes from, use the --with-dir option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log.WithField("promptDirs", cfg.PromptDirs).Debug("Scanning prompt directories")

		promptMap, allPrompts, err := promptpkg.ListPrompts(cfg.PromptDirs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(allPrompts) == 0 {
			fmt.Fprintln(out, "No prompt templates found.")
			fmt.Fprintln(out, "Create .toml files in the following directories:")
			for _, promptDir := range cfg.PromptDirs {
				fmt.Fprintf(out, "  - %s\n", promptDir)
			}
			return nil
		}

		fmt.Fprintf(out, "Available prompt templates (%d found):\n\n", len(allPrompts))
		for _, promptName := range allPrompts {
			if withDir {
				fmt.Fprintf(out, "  %s (from %s)\n", promptName, promptMap[promptName])
			} else {
				fmt.Fprintf(out, "  %s\n", promptName)
			}
		}

		fmt.Fprintf(out, "\nUse a prompt template with: mdbuddy chat --prompt <name> <file>\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each prompt was found in")
}
