package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Paths to the external query tools. Overridable for systems where
	// util-linux lives outside the default PATH (e.g. /usr/sbin only).
	FindmntPath string `yaml:"findmnt_path,omitempty"`
	BlkidPath   string `yaml:"blkid_path,omitempty"`

	// Additional filesystem types to exclude beyond the built-in
	// pseudo-filesystem set.
	ExtraPseudoFS []string `yaml:"extra_pseudo_fs,omitempty"`

	// Additional mount options to strip from the options field beyond the
	// built-in runtime-only set.
	ExtraRuntimeOptions []string `yaml:"extra_runtime_options,omitempty"`
}

// defaultConfig provides baseline settings; tools are resolved via PATH
var defaultConfig = Config{
	FindmntPath: "findmnt",
	BlkidPath:   "blkid",
}

func Load(path string) (*Config, error) {
	if path == "" {
		// Try default locations
		candidates := []string{
			"/etc/fstabgen/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/fstabgen/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	var cfg Config
	if path == "" {
		// No config file found - use defaults
		cfg = defaultConfig
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			cfg = defaultConfig
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	// Apply defaults for missing tool paths
	if cfg.FindmntPath == "" {
		cfg.FindmntPath = defaultConfig.FindmntPath
	}
	if cfg.BlkidPath == "" {
		cfg.BlkidPath = defaultConfig.BlkidPath
	}

	return &cfg, nil
}
