package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T, toml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	defaults := NewDefaultConfig("prompts")
	SetDefaults(v, defaults, defaults.PromptDirs)
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(toml)))
	return v
}

func TestLoadConfigFromDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-openai")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := LoadConfigFrom(newTestViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "openai:gpt-4.1", cfg.GetModel())
	assert.Equal(t, "sk-test-openai", cfg.OpenAIToken)
	assert.Equal(t, DefaultMaxTokens, cfg.GetMaxTokens())

	notation, err := cfg.GetNotation()
	require.NoError(t, err)
	assert.Equal(t, buddy.NotationFence, notation)

	timeout, err := cfg.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, timeout)

	_, err = cfg.GetToken("anthropic")
	assert.ErrorContains(t, err, "MDBUDDY_ANTHROPIC_TOKEN")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(cwd, "prompts")}, cfg.PromptDirs)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("MY_GEMINI_KEY", "g-key")

	cfg, err := LoadConfigFrom(newTestViper(t, `
model = "gemini:gemini-2.0-flash"
gemini_token = "${MY_GEMINI_KEY}"
gemini_base_url = "http://localhost:9999/v1beta/"
notation = "callout"
system_prompt = "Be brief."
max_tokens = 512
timeout = "30s"
prompt_dirs = ["/opt/prompts"]
`))
	require.NoError(t, err)

	provider, err := cfg.GetProvider()
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider)

	name, err := cfg.GetModelName()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", name)

	token, err := cfg.GetToken("gemini")
	require.NoError(t, err)
	assert.Equal(t, "g-key", token)

	baseURL, err := cfg.GetBaseURL("gemini")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/v1beta", baseURL)

	notation, err := cfg.GetNotation()
	require.NoError(t, err)
	assert.Equal(t, buddy.NotationCallout, notation)

	timeout, err := cfg.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	assert.Equal(t, 512, cfg.GetMaxTokens())
	assert.Equal(t, "Be brief.", cfg.SystemPrompt)
	assert.Equal(t, []string{"/opt/prompts"}, cfg.PromptDirs)
}

func TestLoadConfigRejectsUnknownNotation(t *testing.T) {
	_, err := LoadConfigFrom(newTestViper(t, `notation = "quote"`))
	assert.ErrorContains(t, err, "unsupported notation")
}

func TestGetTimeoutInvalid(t *testing.T) {
	cfg := &Config{Timeout: "soon"}
	_, err := cfg.GetTimeout()
	assert.Error(t, err)

	cfg.Timeout = "-1s"
	_, err = cfg.GetTimeout()
	assert.Error(t, err)
}

func TestUnsupportedProvider(t *testing.T) {
	cfg := NewDefaultConfig("prompts")

	_, err := cfg.GetToken("mistral")
	assert.ErrorContains(t, err, "unsupported provider")

	_, err = cfg.GetBaseURL("mistral")
	assert.ErrorContains(t, err, "unsupported provider")
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("MDBUDDY_TEST_VALUE", "expanded")

	tests := []struct {
		input string
		want  string
	}{
		{input: "literal", want: "literal"},
		{input: "$MDBUDDY_TEST_VALUE", want: "expanded"},
		{input: "${MDBUDDY_TEST_VALUE}", want: "expanded"},
		{input: "$MDBUDDY_TEST_UNSET", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvVar(tt.input))
		})
	}
}

func TestResolvePathRelativeToConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`model = "openai:gpt-4.1"`), 0644))

	v := viper.New()
	v.SetConfigFile(configFile)
	require.NoError(t, v.ReadInConfig())

	got, err := ResolvePath(v, "prompts")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prompts"), got)

	got, err = ResolvePath(v, "/abs/prompts")
	require.NoError(t, err)
	assert.Equal(t, "/abs/prompts", got)
}
