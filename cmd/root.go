/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/longkey1/mdbuddy/internal/buddy/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	log = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mdbuddy",
	Short: "Chat with an LLM inside a markdown document",
	Long: `mdbuddy turns a markdown document into a conversation with an LLM.

Plain prose in the document is your side of the conversation. Replies are
appended to the document as fenced blocks tagged "buddy":

  What is 2+2?
  ` + "```buddy" + `
  4
  ` + "```" + `

Run 'mdbuddy chat <file>' after writing a message to get the next reply.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger, initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mdbuddy/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initLogger configures the shared logger from the --verbose flag.
func initLogger() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("MDBUDDY")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "mdbuddy")

	// Later directories in the array take precedence over earlier ones
	defaultPromptDirs := []string{
		"/usr/share/mdbuddy/prompts",
		"/usr/local/share/mdbuddy/prompts",
		filepath.Join(userConfigDir, "prompts"),
	}
	config.SetDefaults(viper.GetViper(), config.NewDefaultConfig(filepath.Join(userConfigDir, "prompts")), defaultPromptDirs)

	for _, key := range []string{
		"openai_base_url", "openai_token",
		"gemini_base_url", "gemini_token",
		"anthropic_base_url", "anthropic_token",
	} {
		viper.BindEnv(key)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.WithError(err).WithField("config", cfgFile).Error("Error reading config file")
		}
	} else {
		// System-wide config first (lower priority)
		for _, path := range []string{"/etc/mdbuddy", "/usr/local/etc/mdbuddy"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			log.WithField("config", viper.ConfigFileUsed()).Debug("Loaded system-wide config")
		}

		// User config (higher priority)
		viper.AddConfigPath(userConfigDir)
		var readErr error
		if systemConfigLoaded {
			readErr = viper.MergeInConfig()
		} else {
			readErr = viper.ReadInConfig()
		}
		var notFound viper.ConfigFileNotFoundError
		if readErr != nil && !errors.As(readErr, &notFound) {
			log.WithError(readErr).Error("Error reading user config file")
		}
	}

	log.WithFields(logrus.Fields{
		"config":     viper.ConfigFileUsed(),
		"model":      viper.GetString("model"),
		"notation":   viper.GetString("notation"),
		"promptDirs": viper.GetStringSlice("prompt_dirs"),
	}).Debug("Configuration loaded")
}
