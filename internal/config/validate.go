package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable. A missing Gemini API key is a
// hard failure: the server refuses to start rather than fall back to a baked-in
// credential.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGemini(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q is not a host:port address: %w", c.Server.Bind, err)
	}
	return nil
}

func (c *Config) validateGemini() error {
	if c.Gemini.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/meetnotes/config.toml"
		}
		return fmt.Errorf("gemini.api_key is required. Set MEETNOTES_GEMINI_API_KEY env var or edit %s (create with 'meetnotes config init')", defaultPath)
	}
	if !strings.HasPrefix(c.Gemini.BaseURL, "http://") && !strings.HasPrefix(c.Gemini.BaseURL, "https://") {
		return fmt.Errorf("gemini.base_url %q must be an http(s) URL", c.Gemini.BaseURL)
	}
	if c.Gemini.Temperature > 2 {
		return errors.New("gemini.temperature must be at most 2")
	}
	if c.Gemini.TopP > 1 {
		return errors.New("gemini.top_p must be at most 1")
	}
	return nil
}
