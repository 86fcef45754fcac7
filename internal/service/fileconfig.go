package service

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"turbols/internal/vocab"
)

// FileConfig is the optional turbols.toml project file the CLI loads its
// vocabulary from. The host-pushed JSON payloads remain the authoritative
// configuration channel; this file only covers batch usage.
type FileConfig struct {
	Keywords      []string            `toml:"keywords"`
	Keypairs      map[string][]string `toml:"keypairs"`
	Metatags      []string            `toml:"metatags"`
	SyntaxMessage string              `toml:"syntax-message"`
	StepsFile     string              `toml:"steps-file"`
	Sections      map[string]string   `toml:"sections"`
	NoCheck       []string            `toml:"nocheck"`
}

// LoadFileConfig reads and decodes a turbols.toml file.
func LoadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// matcher compiles a matcher when the file overrides section patterns or the
// suppression list; otherwise it returns nil and the current matcher stays.
func (c FileConfig) matcher() (*vocab.Matcher, error) {
	if len(c.Sections) == 0 && len(c.NoCheck) == 0 {
		return nil, nil
	}
	payload := vocab.DefaultPayload()
	for name, pattern := range c.Sections {
		payload.Section[name] = pattern
	}
	if len(c.NoCheck) > 0 {
		payload.NoCheck = c.NoCheck
	}
	return vocab.CompileMatcher(payload)
}
