package llm

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/providers/anthropic"
	"github.com/germanamz/cryptocontent/pkg/providers/bearer"
	"github.com/germanamz/cryptocontent/pkg/providers/openai"
)

// ProviderID identifies an upstream chat-completion protocol.
type ProviderID string

// Built-in providers.
const (
	OpenAI     ProviderID = "openai"
	Anthropic  ProviderID = "anthropic"
	BearerREST ProviderID = "bearer-rest"
)

// aliases maps alternative spellings to built-in providers.
var aliases = map[string]ProviderID{
	"openai-style":    OpenAI,
	"anthropic-style": Anthropic,
	"hermes":          BearerREST,
	"bearer":          BearerREST,
}

// ParseProviderID normalizes s and returns the matching ProviderID.
func ParseProviderID(s string) (ProviderID, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if id, ok := aliases[norm]; ok {
		return id, nil
	}

	id := ProviderID(norm)
	if _, ok := getFactory(id); !ok {
		return "", &modeladapter.ConfigurationError{Field: "provider", Reason: fmt.Sprintf("unsupported provider %q", s)}
	}

	return id, nil
}

// ProviderFactory builds the adapter for a validated ProviderConfig. The
// http.Client may be nil.
type ProviderFactory func(cfg ProviderConfig, client *http.Client) (modeladapter.Generator, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[ProviderID]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories[OpenAI] = newOpenAI
		factories[Anthropic] = newAnthropic
		factories[BearerREST] = newBearer
	})
}

// RegisterProvider registers a custom provider factory under the given id.
// It replaces any factory previously registered under the same id.
func RegisterProvider(id ProviderID, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[id] = factory
}

// Providers returns the registered provider ids, sorted.
func Providers() []ProviderID {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	ids := make([]ProviderID, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func getFactory(id ProviderID) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[id]
	return f, ok
}

func newOpenAI(cfg ProviderConfig, client *http.Client) (modeladapter.Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openai.DefaultBaseURL
	}

	a := openai.New(strings.TrimRight(baseURL, "/"), cfg.APIKey, cfg.Model)
	a.Client = client
	a.Timeout = cfg.Timeout

	return a, nil
}

func newAnthropic(cfg ProviderConfig, client *http.Client) (modeladapter.Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropic.DefaultBaseURL
	}

	a := anthropic.New(strings.TrimRight(baseURL, "/"), cfg.APIKey, cfg.Model)
	a.Client = client
	a.Timeout = cfg.Timeout

	return a, nil
}

func newBearer(cfg ProviderConfig, client *http.Client) (modeladapter.Generator, error) {
	if cfg.BaseURL == "" {
		return nil, &modeladapter.ConfigurationError{Field: "base_url", Reason: "required for bearer-rest provider"}
	}

	a := bearer.New(cfg.BaseURL, cfg.APIKey, cfg.Model, client)
	a.Timeout = cfg.Timeout

	return a, nil
}
