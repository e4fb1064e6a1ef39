package app

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigDir returns ~/.config/foreman/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "foreman"), nil
}

// TDDMode is the operator's TDD guidance setting, stored in config.yaml and
// read or set by the `tdd` command. The Verification Pipeline does not read
// it.
type TDDMode string

// TDD mode values accepted by the `tdd` CLI command.
const (
	TDDStrict      TDDMode = "strict"
	TDDRecommended TDDMode = "recommended"
	TDDDisabled    TDDMode = "disabled"
)

// Valid reports whether m is one of the three defined modes.
func (m TDDMode) Valid() bool {
	switch m {
	case TDDStrict, TDDRecommended, TDDDisabled:
		return true
	}
	return false
}

// Config holds operator-level settings read from ~/.config/foreman/config.yaml.
// AgentPriority is stored and loaded here only: agent.PriorityOrder takes its
// order from FOREMAN_AGENT_PRIORITY or the built-in profile order and does
// not consult this field.
type Config struct {
	AgentPriority []string `yaml:"agent_priority,omitempty"`
	TDDMode       TDDMode  `yaml:"tdd_mode,omitempty"`
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0o600)
	}
	return nil
}

// LoadConfig reads ~/.config/foreman/config.yaml, returning a zero Config if
// the file is absent.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes cfg to ~/.config/foreman/config.yaml, creating the
// directory first if needed.
func SaveConfig(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), b, 0o600)
}

const defaultConfig = `# foreman configuration
# Run: foreman --help

# Optional: record a preferred agent order. The invoker does not read this
# setting; set the FOREMAN_AGENT_PRIORITY environment variable to change its
# order.
# agent_priority:
#   - claude
#   - opencode
#   - aider

# Optional: TDD guidance mode. One of strict, recommended, disabled.
# Set via ` + "`foreman tdd <mode>`" + `.
# tdd_mode: recommended
`
