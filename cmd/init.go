package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/mdbuddy/internal/buddy/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/mdbuddy/config.toml by default.
You can specify a different location using the --config option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Set config file path
		configFile := filepath.Join(home, ".config", "mdbuddy", "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		// Create config directory
		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		// Check if config file already exists
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		// Create default config
		cfg := config.NewDefaultConfig(filepath.Join(configDir, "prompts"))

		// Create config file
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		defer f.Close()

		// Encode config to TOML
		encoder := toml.NewEncoder(f)
		if err := encoder.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}

		// Example prompt template
		examplePrompt := filepath.Join(configDir, "prompts", "default.toml")
		if err := os.MkdirAll(filepath.Dir(examplePrompt), 0755); err != nil {
			return fmt.Errorf("failed to create prompts directory: %w", err)
		}
		if _, err := os.Stat(examplePrompt); os.IsNotExist(err) {
			if err := os.WriteFile(examplePrompt, []byte(defaultPromptTemplate), 0644); err != nil {
				return fmt.Errorf("failed to write example prompt: %w", err)
			}
		}

		// Create prompts directory
		promptsDir := filepath.Join(configDir, "prompts")
		if err := os.MkdirAll(promptsDir, 0755); err != nil {
			return fmt.Errorf("failed to create prompts directory: %w", err)
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		fmt.Printf("Prompts directory created at: %s\n", promptsDir)
		return nil
	},
}

const defaultPromptTemplate = `# System prompt sent before the turns of {{document}}
system = "You are a helpful assistant. Answer in markdown."
`

func init() {
	rootCmd.AddCommand(initCmd)
}
