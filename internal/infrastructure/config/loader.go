// Package config loads the assistant configuration from YAML.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/pkg/filesystem"
	"github.com/doeshing/nlsh/internal/ports"
)

// FileLoader loads YAML configuration from ~/.nlsh/config.yaml (overridable
// via NLSH_CONFIG). A missing file is written with the defaults on first run.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("NLSH_CONFIG"); custom != "" {
		return filesystem.Expand(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".nlsh", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences: domain.Preferences{
			DefaultModel:    "claude-sonnet-4",
			AutoExecuteSafe: false,
			HistoryCap:      20,
		},
		Security: domain.SecuritySettings{
			RulesFile: filepath.Join(filesystem.UserHomeDir(), ".nlsh", "rules.yaml"),
		},
		Execution: domain.ExecutionSettings{
			Shell:          "auto",
			TimeoutSeconds: 30,
			OutputCapBytes: 64 * 1024,
		},
		Thinking: domain.ThinkingSettings{
			ExplorationCap: 5,
			ResultCapBytes: 4 * 1024,
		},
		Models: []domain.ModelDefinition{
			{
				Name:       "claude-sonnet-4",
				Endpoint:   "https://api.anthropic.com/v1/messages",
				AuthEnvVar: "ANTHROPIC_API_KEY",
				ModelID:    "claude-3-5-sonnet-20240620",
				MaxTokens:  1024,
			},
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.HistoryCap <= 0 {
		cfg.Preferences.HistoryCap = 20
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = "auto"
	}
	if cfg.Execution.TimeoutSeconds <= 0 {
		cfg.Execution.TimeoutSeconds = 30
	}
	if cfg.Execution.OutputCapBytes <= 0 {
		cfg.Execution.OutputCapBytes = 64 * 1024
	}
	if cfg.Thinking.ExplorationCap <= 0 {
		cfg.Thinking.ExplorationCap = 5
	}
	if cfg.Thinking.ResultCapBytes <= 0 {
		cfg.Thinking.ResultCapBytes = 4 * 1024
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
