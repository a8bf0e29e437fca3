// Package config loads replay settings from defaults, optional config
// files, and GITBURST_* environment variables, in that precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all host-side tunables. Engine-facing fields map onto
// engine.Settings at startup; the rest stay in the host.
type Config struct {
	Speed         float64 `mapstructure:"speed"`
	FPS           int     `mapstructure:"fps"`
	NodeSizeScale float64 `mapstructure:"node_size_scale"`
	ShowLabels    bool    `mapstructure:"show_labels"`
	ShowAvatars   bool    `mapstructure:"show_avatars"`
	DecayWindowMs int     `mapstructure:"decay_window_ms"`
	ZoomMin       float64 `mapstructure:"zoom_min"`
	ZoomMax       float64 `mapstructure:"zoom_max"`
	Theme         string  `mapstructure:"theme"`
	NoCache       bool    `mapstructure:"no_cache"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Speed:         1.0,
		FPS:           30,
		NodeSizeScale: 1.0,
		ShowLabels:    true,
		ShowAvatars:   true,
		DecayWindowMs: 4000,
		ZoomMin:       0.2,
		ZoomMax:       8.0,
		Theme:         "dark",
	}
}

// Load builds the effective configuration. Config files are optional:
// $XDG_CONFIG_HOME/gitburst/config.yaml first, then .gitburst.yaml at
// the repo root, later files overriding earlier ones. Unknown keys in
// either file are ignored. A missing file is not an error.
func Load(repoRoot string) (Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix("gitburst")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join("$HOME", ".config", "gitburst"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if repoRoot != "" {
		repo := viper.New()
		repo.SetConfigFile(filepath.Join(repoRoot, ".gitburst.yaml"))
		if err := repo.ReadInConfig(); err == nil {
			for _, key := range repo.AllKeys() {
				v.Set(key, repo.Get(key))
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalize(cfg), nil
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("speed", d.Speed)
	v.SetDefault("fps", d.FPS)
	v.SetDefault("node_size_scale", d.NodeSizeScale)
	v.SetDefault("show_labels", d.ShowLabels)
	v.SetDefault("show_avatars", d.ShowAvatars)
	v.SetDefault("decay_window_ms", d.DecayWindowMs)
	v.SetDefault("zoom_min", d.ZoomMin)
	v.SetDefault("zoom_max", d.ZoomMax)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("no_cache", d.NoCache)
}

// normalize clamps out-of-range values back to their defaults rather
// than failing startup over a typo.
func normalize(cfg Config) Config {
	d := Default()
	if cfg.Speed <= 0 {
		cfg.Speed = d.Speed
	}
	if cfg.FPS < 1 || cfg.FPS > 120 {
		cfg.FPS = d.FPS
	}
	if cfg.NodeSizeScale <= 0 {
		cfg.NodeSizeScale = d.NodeSizeScale
	}
	if cfg.DecayWindowMs <= 0 {
		cfg.DecayWindowMs = d.DecayWindowMs
	}
	if cfg.ZoomMin <= 0 || cfg.ZoomMax <= cfg.ZoomMin {
		cfg.ZoomMin, cfg.ZoomMax = d.ZoomMin, d.ZoomMax
	}
	if cfg.Theme != "dark" && cfg.Theme != "light" {
		cfg.Theme = d.Theme
	}
	return cfg
}
