// Package config loads rowkeep's one environment-selected setting: the
// data root directory the catalog and table files live under. It mirrors
// the original implementation's environment-driven settings object
// (app/core/config/base.py), trimmed to what this Go port needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const envDataRoot = "ROWKEEP_DATA_ROOT"

const defaultDataRoot = "./data"

// Settings holds rowkeep's runtime configuration.
type Settings struct {
	DataRoot string `toml:"data_root"`
}

// Load reads path (if non-empty and present) as TOML, then lets
// ROWKEEP_DATA_ROOT override the decoded data_root, then falls back to
// defaultDataRoot if neither supplied one.
func Load(path string) (*Settings, error) {
	var s Settings

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &s); err != nil {
				return nil, fmt.Errorf("config: decoding %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: statting %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv(envDataRoot); ok && v != "" {
		s.DataRoot = v
	}
	if s.DataRoot == "" {
		s.DataRoot = defaultDataRoot
	}

	return &s, nil
}

// Validate ensures the configured data root exists (creating it if
// missing, matching the storage package's own MkdirAll-on-open behavior)
// and is writable, probed with a throwaway file since Go has no portable
// "is this directory writable" stat bit to check directly.
func (s *Settings) Validate() error {
	if err := os.MkdirAll(s.DataRoot, 0o755); err != nil {
		return fmt.Errorf("config: creating data root %s: %w", s.DataRoot, err)
	}

	probe := filepath.Join(s.DataRoot, ".rowkeep-write-probe")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("config: data root %s is not writable: %w", s.DataRoot, err)
	}
	f.Close()
	return os.Remove(probe)
}
