package config

import (
	"os"
	"sync"
)

// AIConfig holds the Groq credential/model pair. Both come from the
// environment; when either is missing the query path is disabled but
// uploads keep working.
type AIConfig struct {
	mu     sync.RWMutex
	apiKey string
	model  string
}

// LoadAIConfig reads GROQ_API_KEY and GROQ_MODEL from the environment.
func LoadAIConfig() *AIConfig {
	c := &AIConfig{}
	c.Reload()
	return c
}

// Reload re-reads the environment. Exposed so a key rotated at runtime can
// be picked up without a restart.
func (c *AIConfig) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = os.Getenv("GROQ_API_KEY")
	c.model = os.Getenv("GROQ_MODEL")
}

// Credentials returns the current key/model pair.
func (c *AIConfig) Credentials() (apiKey, model string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey, c.model
}

// Configured reports whether the query path can be served.
func (c *AIConfig) Configured() bool {
	key, model := c.Credentials()
	return key != "" && model != ""
}

// Model returns only the model identifier (safe to log).
func (c *AIConfig) Model() string {
	_, model := c.Credentials()
	return model
}

// KeyPresent reports whether a credential is set, without exposing it.
func (c *AIConfig) KeyPresent() bool {
	key, _ := c.Credentials()
	return key != ""
}

// MaskedKey returns a loggable form of the credential.
func (c *AIConfig) MaskedKey() string {
	key, _ := c.Credentials()
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// Port returns the HTTP port to listen on.
func Port() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return port
}
