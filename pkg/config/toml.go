package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// FromTOML parses a configuration from TOML bytes.
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyTOML(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyTOML overlays the keys present in data onto c.
// Keys that do not map to a configuration field are reported as an error so
// that typos in hand-written files do not pass silently.
func (c *Config) ApplyTOML(data []byte) error {
	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse toml: unknown key %q", undecoded[0].String())
	}
	return nil
}
