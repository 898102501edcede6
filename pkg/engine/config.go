package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/germanamz/cryptocontent/pkg/llm"
	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"gopkg.in/yaml.v3"
)

// Default models per provider, used when no model is configured.
var defaultModels = map[llm.ProviderID]string{
	llm.OpenAI:     "gpt-4o-mini",
	llm.Anthropic:  "claude-3-5-haiku-latest",
	llm.BearerREST: "Hermes-4-70B",
}

// Environment defaults.
const (
	DefaultProvider     = "hermes"
	DefaultEnvMaxTokens = 256
	DefaultServerName   = "contentgen"
)

// Config is the top-level engine configuration.
type Config struct {
	Provider     ProviderConfig `yaml:"provider"`
	PromptsDir   string         `yaml:"prompts_dir"`   // Directory of *.tmpl, *.txt, *.md templates.
	PromptsFile  string         `yaml:"prompts_file"`  // YAML template list.
	ProjectsFile string         `yaml:"projects_file"` // YAML project list; unset means no project data.
	Server       ServerConfig   `yaml:"server"`
}

// ProviderConfig describes the LLM provider. Durations are strings such as
// "30s" or "500ms".
type ProviderConfig struct {
	Kind        string      `yaml:"kind"`
	Model       string      `yaml:"model"`
	APIKey      string      `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL     string      `yaml:"base_url"`
	Timeout     string      `yaml:"timeout"`
	MaxTokens   int         `yaml:"max_tokens"`
	Temperature float64     `yaml:"temperature"`
	Retry       RetryConfig `yaml:"retry"`
}

// RetryConfig overrides the retry policy. Zero values keep the defaults.
type RetryConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Multiplier  string `yaml:"multiplier"`
	Min         string `yaml:"min"`
	Max         string `yaml:"max"`
}

// ServerConfig names the MCP server.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so API keys can stay in the environment.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// ConfigFromEnv builds a Config from the process environment:
//
//	DEFAULT_LLM_PROVIDER  provider kind (default hermes)
//	DEFAULT_LLM_MODEL     model name (default depends on the provider)
//	LLM_TEMPERATURE       sampling temperature
//	LLM_MAX_TOKENS        max tokens per call (default 256)
//	LLM_TIMEOUT           request timeout, e.g. 30s
//	HERMES_API_URL        bearer-rest base URL
//	HERMES_API_KEY        bearer-rest API key
//	OPENAI_API_KEY        openai API key
//	ANTHROPIC_API_KEY     anthropic API key
//	PROMPTS_DIR           template directory
//	PROJECTS_FILE         project YAML file
func ConfigFromEnv() (Config, error) {
	kind := envOr("DEFAULT_LLM_PROVIDER", DefaultProvider)

	id, err := llm.ParseProviderID(kind)
	if err != nil {
		return Config{}, fmt.Errorf("engine: env DEFAULT_LLM_PROVIDER: %w", err)
	}

	pc := ProviderConfig{
		Kind:      kind,
		Model:     envOr("DEFAULT_LLM_MODEL", defaultModels[id]),
		Timeout:   os.Getenv("LLM_TIMEOUT"),
		MaxTokens: DefaultEnvMaxTokens,
	}

	switch id {
	case llm.OpenAI:
		pc.APIKey = os.Getenv("OPENAI_API_KEY")
	case llm.Anthropic:
		pc.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case llm.BearerREST:
		pc.APIKey = os.Getenv("HERMES_API_KEY")
		pc.BaseURL = envOr("HERMES_API_URL", "https://inference-api.nousresearch.com")
	}

	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("engine: env LLM_MAX_TOKENS: %w", err)
		}
		pc.MaxTokens = n
	}

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("engine: env LLM_TEMPERATURE: %w", err)
		}
		pc.Temperature = f
	}

	return Config{
		Provider:     pc,
		PromptsDir:   os.Getenv("PROMPTS_DIR"),
		ProjectsFile: os.Getenv("PROJECTS_FILE"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if _, err := c.Provider.LLMConfig(); err != nil {
		return err
	}

	if c.PromptsDir != "" {
		info, err := os.Stat(c.PromptsDir)
		if err != nil {
			return fmt.Errorf("engine: config: prompts_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("engine: config: prompts_dir %q is not a directory", c.PromptsDir)
		}
	}

	return nil
}

// LLMConfig converts the provider section into an llm.ProviderConfig and
// validates it.
func (p ProviderConfig) LLMConfig() (llm.ProviderConfig, error) {
	if strings.TrimSpace(p.Kind) == "" {
		return llm.ProviderConfig{}, fmt.Errorf("engine: config: provider kind is required")
	}

	id, err := llm.ParseProviderID(p.Kind)
	if err != nil {
		return llm.ProviderConfig{}, fmt.Errorf("engine: config: %w", err)
	}

	model := p.Model
	if model == "" {
		model = defaultModels[id]
	}

	cfg := llm.ProviderConfig{
		Provider:    id,
		Model:       model,
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		Retry:       modeladapter.RetryPolicy{MaxAttempts: p.Retry.MaxAttempts},
	}

	durations := []struct {
		field string
		value string
		dst   *time.Duration
	}{
		{"timeout", p.Timeout, &cfg.Timeout},
		{"retry.multiplier", p.Retry.Multiplier, &cfg.Retry.Multiplier},
		{"retry.min", p.Retry.Min, &cfg.Retry.Min},
		{"retry.max", p.Retry.Max, &cfg.Retry.Max},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return llm.ProviderConfig{}, fmt.Errorf("engine: config: provider %s %q: %w", d.field, d.value, err)
		}
		*d.dst = v
	}

	if cfg.Retry.MaxAttempts < 0 {
		return llm.ProviderConfig{}, fmt.Errorf("engine: config: provider retry.max_attempts must not be negative")
	}

	if err := cfg.Validate(); err != nil {
		return llm.ProviderConfig{}, fmt.Errorf("engine: config: %w", err)
	}

	return cfg, nil
}
