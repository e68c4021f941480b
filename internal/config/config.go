package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMenuLabel      = "Run Ant Build"
	DefaultMenuLabelZH    = "运行 Ant 构建"
	DefaultTimeoutSeconds = 300
	DefaultVerb           = "AntBuildMenu"
	DefaultMinAntVersion  = "1.8.0"
)

// Config captures the settings shared by the context-menu installer and the
// build runner. The document may be YAML or JSON; unknown keys are ignored.
type Config struct {
	MenuLabel      string   `yaml:"menu_label"`
	MenuLabelZH    string   `yaml:"menu_label_zh"`
	Language       string   `yaml:"language"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	ShowOutput     *bool    `yaml:"show_output,omitempty"`
	Verb           string   `yaml:"verb"`
	FileClasses    []string `yaml:"file_classes"`
	Icon           string   `yaml:"icon,omitempty"`
	AntHome        string   `yaml:"ant_home,omitempty"`
	JavaHome       string   `yaml:"java_home,omitempty"`
	MinAntVersion  string   `yaml:"min_ant_version"`
	WriteBuildLog  *bool    `yaml:"write_build_log,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		MenuLabel:      DefaultMenuLabel,
		MenuLabelZH:    DefaultMenuLabelZH,
		Language:       LanguageAuto,
		TimeoutSeconds: DefaultTimeoutSeconds,
		ShowOutput:     boolPtr(true),
		Verb:           DefaultVerb,
		FileClasses:    []string{"xmlfile", "*"},
		MinAntVersion:  DefaultMinAntVersion,
		WriteBuildLog:  boolPtr(true),
	}
}

// Load reads the settings document from disk if it exists, otherwise returns
// the default configuration. The result is validated before it is returned.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(contents)
}

// Parse decodes a settings document, applies defaults and validates it. The
// nested menu_config/ant_config/ui_config/paths layout of older installs is
// accepted too.
func Parse(contents []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	var legacy legacyConfig
	if err := yaml.Unmarshal(contents, &legacy); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	legacy.applyTo(&cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills fields the document omitted.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.MenuLabel == "" {
		c.MenuLabel = defaults.MenuLabel
	}
	if c.MenuLabelZH == "" {
		c.MenuLabelZH = defaults.MenuLabelZH
	}
	if c.Language == "" {
		c.Language = defaults.Language
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if c.ShowOutput == nil {
		c.ShowOutput = boolPtr(true)
	}
	if c.Verb == "" {
		c.Verb = defaults.Verb
	}
	if c.FileClasses == nil {
		c.FileClasses = defaults.FileClasses
	}
	if c.MinAntVersion == "" {
		c.MinAntVersion = defaults.MinAntVersion
	}
	if c.WriteBuildLog == nil {
		c.WriteBuildLog = boolPtr(true)
	}
}

// ShowOutputValue returns the effective show_output flag applying defaults.
func (c Config) ShowOutputValue() bool {
	if c.ShowOutput == nil {
		return true
	}
	return *c.ShowOutput
}

// WriteBuildLogValue returns the effective write_build_log flag.
func (c Config) WriteBuildLogValue() bool {
	if c.WriteBuildLog == nil {
		return true
	}
	return *c.WriteBuildLog
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// Save writes the configuration to path, creating parent directories.
func (c Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}
