// Package config loads hub configuration from defaults, an optional YAML
// file and TRIAGEKIT_ prefixed environment variables, in that order of
// precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log      LogConfig      `koanf:"log"`
	LLM      LLMConfig      `koanf:"llm"`
	Routing  RoutingConfig  `koanf:"routing"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Backends BackendsConfig `koanf:"backends"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // openai, anthropic
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
}

// RoutingConfig bounds turn execution.
type RoutingConfig struct {
	MaxHandoffs int `koanf:"max_handoffs"`
}

// CatalogConfig points the remote backend at its agent catalog: the card
// sources (catalog id to agent card URL or file path), the entry agent
// reference, the specialist references, and the definition cache TTL.
type CatalogConfig struct {
	Cards       map[string]string `koanf:"cards"`
	Entry       string            `koanf:"entry"`
	Specialists []string          `koanf:"specialists"`
	CacheTTL    time.Duration     `koanf:"cache_ttl"`
}

// BackendsConfig orders and enables the fallback chain. Order lists backend
// names highest priority first; a name missing from the chain wiring is
// ignored.
type BackendsConfig struct {
	Order      []string `koanf:"order"`
	StaticText string   `koanf:"static_text"`
}

// Load reads configuration with defaults < file < environment precedence.
// Environment keys map TRIAGEKIT_LLM_PROVIDER -> llm.provider.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "openai")
	k.Set("llm.model", "gpt-4.1")
	k.Set("routing.max_handoffs", 5)
	k.Set("catalog.cache_ttl", "5m")
	k.Set("backends.order", []string{"remote-agent-platform", "local-handoff-graph", "keyword-classifier", "static-responder"})

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// TRIAGEKIT_LLM_PROVIDER -> llm.provider
	if err := k.Load(env.Provider("TRIAGEKIT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "TRIAGEKIT_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
