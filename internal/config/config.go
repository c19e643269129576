package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	State    StateConfig
	Scroll   ScrollConfig
	UI       UIConfig
	Debug    DebugConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// StateConfig names the saved header state to restore on start.
type StateConfig struct {
	Name string
}

// ScrollConfig tunes fling physics and redraw rate.
type ScrollConfig struct {
	FrictionMultiplier float64       `mapstructure:"friction_multiplier"`
	VelocityThreshold  float64       `mapstructure:"velocity_threshold"`
	FrameInterval      time.Duration `mapstructure:"frame_interval"`
	WheelStep          float64       `mapstructure:"wheel_step"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Pages        []string
	ItemsPerPage int      `mapstructure:"items_per_page"`
	HeaderLines  []string `mapstructure:"header_lines"`
}

// DebugConfig holds diagnostics settings.
type DebugConfig struct {
	LogFile string `mapstructure:"log_file"`
}

// Path returns the config file location. NESTSCROLL_CONFIG wins over the
// default under ~/.config.
func Path() string {
	if p := os.Getenv("NESTSCROLL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "nestscroll", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix NESTSCROLL_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "nestscroll", "nestscroll.db"))
	v.SetDefault("state.name", "main")
	v.SetDefault("scroll.friction_multiplier", 1.0)
	v.SetDefault("scroll.velocity_threshold", 0.1)
	v.SetDefault("scroll.frame_interval", "16ms")
	v.SetDefault("scroll.wheel_step", 1.0)
	v.SetDefault("ui.pages", []string{"Inbox", "Archive", "Starred"})
	v.SetDefault("ui.items_per_page", 60)
	v.SetDefault("ui.header_lines", []string{
		"nestscroll",
		"Scroll the list and this panel folds away before the rows move.",
		"Scroll back to the top and it unfolds again.",
	})
	v.SetDefault("debug.log_file", "")

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("NESTSCROLL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.ItemsPerPage < 0 {
		c.UI.ItemsPerPage = 0
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("state.name", cfg.State.Name)
	v.Set("scroll.friction_multiplier", cfg.Scroll.FrictionMultiplier)
	v.Set("scroll.velocity_threshold", cfg.Scroll.VelocityThreshold)
	v.Set("scroll.frame_interval", cfg.Scroll.FrameInterval.String())
	v.Set("scroll.wheel_step", cfg.Scroll.WheelStep)
	v.Set("ui.pages", cfg.UI.Pages)
	v.Set("ui.items_per_page", cfg.UI.ItemsPerPage)
	v.Set("ui.header_lines", cfg.UI.HeaderLines)
	v.Set("debug.log_file", cfg.Debug.LogFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
