// Package config loads cardforge.toml and applies environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/util"
)

// FileName is the config file looked for when no path is given.
const FileName = "cardforge.toml"

type Config struct {
	Server ServerConfig `toml:"server"`
	Assets AssetsConfig `toml:"assets"`
	Data   DataConfig   `toml:"data"`
	Fonts  FontsConfig  `toml:"fonts"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

type AssetsConfig struct {
	// Dir holds frames/, pt/, masks/ and mana-symbols/.
	Dir string `toml:"dir"`
	// Preload decodes every frame at startup.
	Preload bool `toml:"preload"`
}

type DataConfig struct {
	// Driver is "file" (a data directory) or "sqlite".
	Driver string `toml:"driver"`
	Dir    string `toml:"dir"`
	// DSN is the sqlite database path.
	DSN string `toml:"dsn"`
}

// FontsConfig holds optional TTF/OTF paths. Empty roles use the embedded Go
// fonts.
type FontsConfig struct {
	Title  string `toml:"title"`
	Body   string `toml:"body"`
	Italic string `toml:"italic"`
	PT     string `toml:"pt"`
	Info   string `toml:"info"`
}

type RenderConfig struct {
	DefaultDPI      int  `toml:"default_dpi"`
	ExpandReminders bool `toml:"expand_reminders"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Assets: AssetsConfig{Dir: "assets"},
		Data:   DataConfig{Driver: "file", Dir: "data", DSN: "cardforge.db"},
		Render: RenderConfig{DefaultDPI: 300, ExpandReminders: true},
		Log:    LogConfig{Level: "info", MaxSizeMB: 10},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PORT, CARDFORGE_ADDR, CARDFORGE_ASSETS,
// CARDFORGE_DATA, CARDFORGE_DB, CARDFORGE_DPI and CARDFORGE_LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("CARDFORGE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CARDFORGE_ASSETS"); v != "" {
		c.Assets.Dir = v
	}
	if v := os.Getenv("CARDFORGE_DATA"); v != "" {
		c.Data.Driver = "file"
		c.Data.Dir = v
	}
	if v := os.Getenv("CARDFORGE_DB"); v != "" {
		c.Data.Driver = "sqlite"
		c.Data.DSN = v
	}
	if v := getEnvInt("CARDFORGE_DPI"); v > 0 {
		c.Render.DefaultDPI = v
	}
	if v := os.Getenv("CARDFORGE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func getEnvInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) Validate() error {
	switch c.Data.Driver {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid data.driver %q: must be file or sqlite", c.Data.Driver)
	}
	switch c.Render.DefaultDPI {
	case 300, 600, 1200:
	default:
		return fmt.Errorf("invalid render.default_dpi %d: must be 300, 600 or 1200", c.Render.DefaultDPI)
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}
	if c.Assets.Dir == "" {
		return errors.New("assets.dir is required")
	}
	return nil
}

// FontPaths maps each configured role to its font file.
func (c *Config) FontPaths() map[fonts.Role]string {
	out := map[fonts.Role]string{}
	for role, p := range map[fonts.Role]string{
		fonts.Title:  c.Fonts.Title,
		fonts.Body:   c.Fonts.Body,
		fonts.Italic: c.Fonts.Italic,
		fonts.PT:     c.Fonts.PT,
		fonts.Info:   c.Fonts.Info,
	} {
		if p != "" {
			out[role] = p
		}
	}
	return out
}

// Save writes c as TOML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return util.WriteFile(path, buf.Bytes())
}
