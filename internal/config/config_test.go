package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cardforge/internal/fonts"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "CARDFORGE_ADDR", "CARDFORGE_ASSETS", "CARDFORGE_DATA", "CARDFORGE_DB", "CARDFORGE_DPI", "CARDFORGE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = "127.0.0.1:9000"

[data]
driver = "sqlite"
dsn = "/tmp/cards.db"

[fonts]
title = "/fonts/Beleren.ttf"

[render]
default_dpi = 600
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Data.Driver)
	assert.Equal(t, 600, cfg.Render.DefaultDPI)
	assert.True(t, cfg.Render.ExpandReminders, "unset keys keep defaults")
	assert.Equal(t, "assets", cfg.Assets.Dir)
	assert.Equal(t, map[fonts.Role]string{fonts.Title: "/fonts/Beleren.ttf"}, cfg.FontPaths())
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("CARDFORGE_DATA", "/srv/data")
	t.Setenv("CARDFORGE_DPI", "1200")
	t.Setenv("CARDFORGE_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "/srv/data", cfg.Data.Dir)
	assert.Equal(t, 1200, cfg.Render.DefaultDPI)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, os.WriteFile(path, []byte("[render]\ndefault_dpi = 72\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "default_dpi")

	require.NoError(t, os.WriteFile(path, []byte("[data]\ndriver = \"postgres\"\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "data.driver")

	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Log.File = "cardforge.log"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
