package generation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"GENERATION_PROVIDER", "OLLAMA_BASE_URL", "GENERATION_MODEL",
		"GENERATION_API_KEY", "GENERATION_TIMEOUT_SECONDS", "GENERATION_REQUESTS_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, KindOllama, cfg.Provider)
	assert.Equal(t, defaultOllamaBaseURL, cfg.BaseURL)
	assert.Equal(t, defaultOllamaModel, cfg.Model)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultRequestsPerMinute, cfg.RequestsPerMinute)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("GENERATION_PROVIDER", "ollama")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")
	t.Setenv("GENERATION_MODEL", "mistral")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "30")
	t.Setenv("GENERATION_REQUESTS_PER_MINUTE", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://ollama.internal:11434", cfg.BaseURL)
	assert.Equal(t, "mistral", cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.RequestsPerMinute)
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATION_TIMEOUT_SECONDS")
}

func TestLoadConfig_HostedProviderRequiresKey(t *testing.T) {
	t.Setenv("GENERATION_PROVIDER", KindClaude)
	t.Setenv("GENERATION_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATION_API_KEY")
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Provider: KindOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "llama3.2",
		Timeout:  time.Minute,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid ollama", mutate: func(*Config) {}, wantErr: false},
		{name: "noop needs no key", mutate: func(c *Config) { c.Provider = KindNoOp }, wantErr: false},
		{name: "claude with key", mutate: func(c *Config) { c.Provider = KindClaude; c.APIKey = "sk-test" }, wantErr: false},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "gemini" }, wantErr: true},
		{name: "claude without key", mutate: func(c *Config) { c.Provider = KindClaude }, wantErr: true},
		{name: "empty base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: true},
		{name: "empty model", mutate: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewClaude_HonorsConfiguredTimeout(t *testing.T) {
	c := NewClaude(&Config{APIKey: "sk-test", Timeout: 30 * time.Second})
	assert.Equal(t, 30*time.Second, c.timeout)

	c = NewClaude(&Config{APIKey: "sk-test"})
	assert.Equal(t, defaultTimeout, c.timeout)
}

func TestNewOpenAI_HonorsConfiguredTimeout(t *testing.T) {
	o := NewOpenAI(&Config{APIKey: "sk-test", Timeout: 45 * time.Second})
	assert.Equal(t, 45*time.Second, o.timeout)

	o = NewOpenAI(&Config{APIKey: "sk-test"})
	assert.Equal(t, defaultTimeout, o.timeout)
}

func TestNew_SelectsProvider(t *testing.T) {
	noop, err := New(&Config{Provider: KindNoOp, BaseURL: "x", Model: "m", Timeout: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, KindNoOp, noop.Name())

	ollama, err := New(&Config{Provider: KindOllama, BaseURL: "http://localhost:11434", Model: "m", Timeout: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, KindOllama, ollama.Name())

	_, err = New(&Config{Provider: "bogus", Model: "m", Timeout: time.Minute})
	assert.Error(t, err)
}
