package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the state directory.
const FileName = "config.yaml"

// Config represents the user configuration
type Config struct {
	Namespace   string            `yaml:"namespace,omitempty"`
	Kubeconfig  string            `yaml:"kubeconfig,omitempty"`
	AWSProfile  string            `yaml:"aws_profile,omitempty"`
	AWSRegion   string            `yaml:"aws_region,omitempty"`
	DownloadDir string            `yaml:"download_dir,omitempty"`
	Aliases     map[string]string `yaml:"aliases,omitempty"`
}

// GetStateDir returns the default state directory (~/.kse)
func GetStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kse"
	}
	return filepath.Join(home, ".kse")
}

// GetConfigPath returns the config file path inside dir
func GetConfigPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// LoadConfig loads the configuration from dir/config.yaml
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(GetConfigPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Aliases: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Aliases == nil {
		cfg.Aliases = make(map[string]string)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to dir/config.yaml
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigPath(dir), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetAlias maps a short name to a target such as "aws:/prod/db" or
// "kube:apps/db-credentials".
func SetAlias(dir, alias, target string) error {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return err
	}

	cfg.Aliases[alias] = target
	return SaveConfig(dir, cfg)
}

// ResolveAlias resolves an alias to its target
func (c *Config) ResolveAlias(name string) string {
	if target, ok := c.Aliases[name]; ok {
		return target
	}
	return name // not an alias
}

// ParseTarget splits a target like "aws:/prod/db" into provider and name.
// A target without a provider prefix returns an empty provider.
func ParseTarget(target string) (provider, name string) {
	parts := strings.SplitN(target, ":", 2)
	if len(parts) == 2 && (parts[0] == "aws" || parts[0] == "kube") {
		return parts[0], parts[1]
	}
	return "", target
}

// SplitNamespaced splits "namespace/name"; a bare name keeps def as the
// namespace.
func SplitNamespaced(ref, def string) (namespace, name string) {
	if ns, n, ok := strings.Cut(ref, "/"); ok && ns != "" {
		return ns, n
	}
	return def, ref
}
