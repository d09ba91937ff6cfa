// Package config provides configuration management for the mceliece CLI
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pqcore/mceliece/pkg/params"
)

// Config represents the main configuration structure
type Config struct {
	Version  string          `json:"version"`
	Defaults DefaultSettings `json:"defaults"`
	Security SecurityConfig  `json:"security"`
	UI       UIConfig        `json:"ui"`
	Storage  StorageConfig   `json:"storage"`
}

// DefaultSettings contains default values for common operations
type DefaultSettings struct {
	Variant   string `json:"variant"`   // Default: mceliece348864
	Shares    int    `json:"shares"`    // Default: 3
	Threshold int    `json:"threshold"` // Default: 2
}

// SecurityConfig contains security-related settings
type SecurityConfig struct {
	RequirePassword   bool `json:"require_password"`    // Force keystore passwords
	MinPasswordLength int  `json:"min_password_length"` // Minimum password length
	WipeMemory        bool `json:"wipe_memory"`         // Secure memory wiping
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor    bool   `json:"use_color"`    // Enable colored output
	ProgressBar bool   `json:"progress_bar"` // Show progress indicators
	Verbosity   string `json:"verbosity"`    // quiet, normal, verbose
}

// StorageConfig contains storage-related settings
type StorageConfig struct {
	DefaultPath     string `json:"default_path"`     // Default keystore directory
	FilePermissions string `json:"file_permissions"` // Default file permissions
}

// Manager manages configuration loading and saving
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new configuration manager, loading an existing
// config file or creating one with defaults.
func NewManager() (*Manager, error) {
	m := &Manager{}

	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	m.configPath = configPath

	if err := m.LoadConfig(); err != nil {
		m.config = DefaultConfig()
		if err := m.SaveConfig(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return m, nil
}

// Load reads the configuration without creating a file, falling back
// to defaults when none exists or the file fails validation.
func Load() *Config {
	configPath, err := getConfigPath()
	if err != nil {
		return DefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return DefaultConfig()
	}

	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return DefaultConfig()
	}
	return config
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			Variant:   params.McEliece348864.Name,
			Shares:    3,
			Threshold: 2,
		},
		Security: SecurityConfig{
			RequirePassword:   false,
			MinPasswordLength: 8,
			WipeMemory:        true,
		},
		UI: UIConfig{
			UseColor:    true,
			ProgressBar: true,
			Verbosity:   "normal",
		},
		Storage: StorageConfig{
			DefaultPath:     "~/.mceliece/keys",
			FilePermissions: "0600",
		},
	}
}

// LoadConfig loads the configuration from disk
func (m *Manager) LoadConfig() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (m *Manager) SaveConfig() error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// SetConfig updates the configuration
func (m *Manager) SetConfig(config *Config) {
	m.config = config
}

// Path returns the configuration file path in use
func (m *Manager) Path() string {
	return m.configPath
}

// Path returns the configuration file location without touching disk.
func Path() (string, error) {
	return getConfigPath()
}

// Validate checks the configuration against known parameter sets and
// sane sharing bounds.
func (c *Config) Validate() error {
	if _, err := params.ByName(c.Defaults.Variant); err != nil {
		return fmt.Errorf("invalid default variant: %w", err)
	}

	if c.Defaults.Threshold <= 0 {
		return fmt.Errorf("default threshold must be positive")
	}
	if c.Defaults.Threshold > c.Defaults.Shares {
		return fmt.Errorf("default threshold cannot exceed share count")
	}

	if c.Security.MinPasswordLength < 0 {
		return fmt.Errorf("minimum password length cannot be negative")
	}

	switch c.UI.Verbosity {
	case "quiet", "normal", "verbose":
	default:
		return fmt.Errorf("verbosity must be quiet, normal, or verbose")
	}

	return nil
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	if customPath := os.Getenv("MCELIECE_CONFIG"); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mceliece", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "mceliece", "config.json"), nil
}
