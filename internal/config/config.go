// Package config loads ppm's tool configuration.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables prefixed with PPM_ (PPM_PYTHON_INTERPRETER, ...)
//  2. YAML config file (~/.config/ppm/config.yaml, or $PPM_CONFIG_FILE)
//  3. Built-in defaults
//
// This is separate from a project's manifest: it controls how ppm behaves,
// not what a project declares.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override configuration.
const EnvPrefix = "PPM_"

const maxConfigFileSize = 1024 * 1024 // 1MB

// defaults is loaded before any user configuration.
var defaults = []byte(`
project:
  manifest: project.toml
  env_dir: venv
python:
  interpreter: python3
shell:
  kind: auto
history:
  enabled: true
  dir: .ppm
templates:
  dir: ""
`)

// Config is the resolved tool configuration.
type Config struct {
	Project   ProjectConfig   `koanf:"project"`
	Python    PythonConfig    `koanf:"python"`
	Shell     ShellConfig     `koanf:"shell"`
	History   HistoryConfig   `koanf:"history"`
	Templates TemplatesConfig `koanf:"templates"`
}

// ProjectConfig names the files ppm expects at a project root.
type ProjectConfig struct {
	Manifest string `koanf:"manifest"`
	EnvDir   string `koanf:"env_dir"`
}

// PythonConfig selects the interpreter used to create environments.
type PythonConfig struct {
	Interpreter string `koanf:"interpreter"`
}

// ShellConfig selects how scripts are executed: auto, posix or cmd.
type ShellConfig struct {
	Kind string `koanf:"kind"`
}

// HistoryConfig controls the operation journal. Dir is relative to the
// project root unless absolute.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// TemplatesConfig locates user-editable scaffolding templates.
// Empty means ~/.config/ppm/templates.
type TemplatesConfig struct {
	Dir string `koanf:"dir"`
}

// DefaultPath returns ~/.config/ppm/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ppm", "config.yaml"), nil
}

// Load reads configuration from configPath (default path when empty) and
// the environment. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	if err := loadFile(k, configPath); err != nil {
		return nil, err
	}

	// PPM_PYTHON_INTERPRETER -> python.interpreter
	// PPM_PROJECT_ENV_DIR    -> project.env_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	return nil
}

// envKey strips the prefix and splits on the first underscore only, so
// field names keep their own underscores.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// Validate checks that required values are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Manifest) == "" {
		return fmt.Errorf("project.manifest is required")
	}
	if strings.TrimSpace(c.Project.EnvDir) == "" {
		return fmt.Errorf("project.env_dir is required")
	}
	if strings.TrimSpace(c.Python.Interpreter) == "" {
		return fmt.Errorf("python.interpreter is required")
	}
	switch strings.ToLower(c.Shell.Kind) {
	case "auto", "posix", "cmd":
	default:
		return fmt.Errorf("shell.kind must be auto, posix or cmd, got %q", c.Shell.Kind)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Dir) == "" {
		return fmt.Errorf("history.dir is required when history is enabled")
	}
	return nil
}

// HistoryDir resolves the journal directory for a project at root.
func (c *Config) HistoryDir(root string) string {
	if filepath.IsAbs(c.History.Dir) {
		return c.History.Dir
	}
	return filepath.Join(root, c.History.Dir)
}
