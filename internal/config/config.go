package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appName = "skim"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type FeedConfig struct {
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	UserAgent       string        `mapstructure:"user_agent"`
	Workers         int           `mapstructure:"workers"`
}

type UIConfig struct {
	Colors   UIColors `mapstructure:"colors"`
	PageSize int      `mapstructure:"page_size"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
}

type MediaConfig struct {
	DefaultOpener string `mapstructure:"default_opener"`
}

// KeyConfig tunes the hotkey dispatcher. The key table itself is fixed.
type KeyConfig struct {
	// RefreshGrace is the pause between a finished sync and the view reset.
	RefreshGrace time.Duration `mapstructure:"refresh_grace"`
	// SerializeMutations collapses concurrent identical article mutations.
	SerializeMutations bool `mapstructure:"serialize_mutations"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(xdg.DataHome, appName, "skim.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(xdg.DataHome, appName, "index.bleve"),
		},
		Feed: FeedConfig{
			HTTPTimeout:     30 * time.Second,
			RefreshInterval: 5 * time.Minute,
			UserAgent:       "skim/1.0 (https://github.com/pders01/skim)",
			Workers:         5,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
			},
			PageSize: 50,
		},
		Media: MediaConfig{
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			RefreshGrace:       1 * time.Second,
			SerializeMutations: false,
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(xdg.StateHome, appName, "skim.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultConfigPath is where Load looks when no explicit path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)
	v.SetDefault("database.search_index", cfg.Database.SearchIndex)

	v.SetDefault("feed.http_timeout", cfg.Feed.HTTPTimeout)
	v.SetDefault("feed.refresh_interval", cfg.Feed.RefreshInterval)
	v.SetDefault("feed.user_agent", cfg.Feed.UserAgent)
	v.SetDefault("feed.workers", cfg.Feed.Workers)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.page_size", cfg.UI.PageSize)

	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)

	v.SetDefault("keys.refresh_grace", cfg.Keys.RefreshGrace)
	v.SetDefault("keys.serialize_mutations", cfg.Keys.SerializeMutations)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SKIM")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if config.Keys.RefreshGrace < 0 {
		return nil, fmt.Errorf("keys.refresh_grace must not be negative, got %s", config.Keys.RefreshGrace)
	}
	if config.Feed.Workers <= 0 {
		config.Feed.Workers = 1
	}
	if config.UI.PageSize <= 0 {
		config.UI.PageSize = defaultConfig().UI.PageSize
	}

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings keep the TOML readable.
	v.Set("database", map[string]any{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	})
	v.Set("feed", map[string]any{
		"http_timeout":     config.Feed.HTTPTimeout.String(),
		"refresh_interval": config.Feed.RefreshInterval.String(),
		"user_agent":       config.Feed.UserAgent,
		"workers":          config.Feed.Workers,
	})
	v.Set("ui", map[string]any{
		"page_size": config.UI.PageSize,
		"colors": map[string]any{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
		},
	})
	v.Set("media", map[string]any{
		"default_opener": config.Media.DefaultOpener,
	})
	v.Set("keys", map[string]any{
		"refresh_grace":       config.Keys.RefreshGrace.String(),
		"serialize_mutations": config.Keys.SerializeMutations,
	})
	v.Set("log", map[string]any{
		"level": config.Log.Level,
		"path":  config.Log.Path,
	})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
