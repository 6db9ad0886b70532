package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/dragdrop/internal/debug"
)

// Config holds all user-configurable settings loaded from config.json (or config.yaml)
type Config struct {
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Window  WindowConfig  `json:"window" yaml:"window"`
	Effects EffectsConfig `json:"effects" yaml:"effects"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"` // "debug" | "info" | "warn" | "error"
	Dir   string `json:"dir" yaml:"dir"`     // Empty logs to stderr
}

// JournalConfig controls the sqlite dispatch journal
type JournalConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
	Retain  int    `json:"retain" yaml:"retain"` // Rows kept after pruning (0 = keep all)
}

// WindowConfig holds the demo window settings
type WindowConfig struct {
	Title  string `json:"title" yaml:"title"`
	Width  int    `json:"width" yaml:"width"`   // dp
	Height int    `json:"height" yaml:"height"` // dp
}

// EffectsConfig decides what the demo drop zone accepts
type EffectsConfig struct {
	AcceptFiles bool `json:"acceptFiles" yaml:"acceptFiles"`
	AcceptText  bool `json:"acceptText" yaml:"acceptText"`
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "error",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(configDir(), "journal.db"),
			Retain:  1000,
		},
		Window: WindowConfig{
			Title:  "Drop Zone",
			Width:  480,
			Height: 360,
		},
		Effects: EffectsConfig{
			AcceptFiles: true,
			AcceptText:  true,
		},
	}
}

func configDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dragdrop")
}

// ConfigPath returns the default config file path: ~/.config/dragdrop/config.json
func ConfigPath() string {
	return filepath.Join(configDir(), "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func encode(path string, cfg *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// Load reads the configuration from path (ConfigPath when empty).
// If the file doesn't exist, it is created with defaults.
// If parsing fails, the error is kept for ParseError and defaults are used.
func (m *Manager) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if path == "" {
		path = ConfigPath()
	}
	m.path = path
	m.parseErr = nil

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		debug.Log(debug.CONFIG, "creating default config at %s", m.path)
		m.config = DefaultConfig()
		return m.saveUnlocked()
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", m.path, err)
	}

	// Start from defaults so missing keys keep their default values
	cfg := DefaultConfig()
	if err := decode(m.path, data, cfg); err != nil {
		debug.Log(debug.CONFIG, "parse error in %s: %v", m.path, err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil // Don't return error - we're using defaults
	}

	debug.Log(debug.CONFIG, "loaded from %s", m.path)
	m.config = cfg
	return nil
}

// Reload reads the file given to the last Load again.
func (m *Manager) Reload() error {
	return m.Load(m.Path())
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := encode(m.path, m.config)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", m.path, err)
	}
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// Path returns the file the configuration was loaded from
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SetLogLevel updates the logging level and saves
func (m *Manager) SetLogLevel(level string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Logging.Level = level
	return m.saveUnlocked()
}

// SetAccept updates which payload kinds the drop zone accepts and saves
func (m *Manager) SetAccept(files, text bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Effects.AcceptFiles = files
	m.config.Effects.AcceptText = text
	return m.saveUnlocked()
}

// GenerateConfig backs up an existing config at path and writes a fresh default one.
// Returns the backup path if a backup was created.
func GenerateConfig(path string) (backupPath string, err error) {
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		ext := filepath.Ext(path)
		backupPath = strings.TrimSuffix(path, ext) + ".backup." + timestamp + ext

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := encode(path, DefaultConfig())
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
