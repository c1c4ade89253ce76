// Package app wires configuration into a store and a render engine.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/youruser/cardforge/internal/assets"
	"github.com/youruser/cardforge/internal/config"
	"github.com/youruser/cardforge/internal/export"
	"github.com/youruser/cardforge/internal/fonts"
	"github.com/youruser/cardforge/internal/render"
	"github.com/youruser/cardforge/internal/store"
)

type App struct {
	Config *config.Config
	Log    *slog.Logger
	Store  store.Store
	Engine *render.Engine
	Export *export.Exporter

	closers []io.Closer
}

// Open builds the engine and opens the configured store.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	fc, err := fonts.New(cfg.FontPaths(), log)
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	loader := assets.NewDir(cfg.Assets.Dir, log)
	if cfg.Assets.Preload {
		loader.PreloadFrames(ctx)
	}
	engine := render.NewEngine(loader, fc, log)
	engine.ExpandReminders = cfg.Render.ExpandReminders

	a := &App{Config: cfg, Log: log, Engine: engine}
	switch cfg.Data.Driver {
	case "sqlite":
		db, err := store.OpenSQLite(ctx, cfg.Data.DSN, log)
		if err != nil {
			return nil, err
		}
		a.Store = db
		a.closers = append(a.closers, db)
	default:
		files, err := store.NewDir(ctx, cfg.Data.Dir, log)
		if err != nil {
			return nil, err
		}
		a.Store = files
	}
	a.Export = export.New(engine, a.Store, log)
	return a, nil
}

// DefaultDPI is the configured export resolution.
func (a *App) DefaultDPI() export.DPI {
	return export.DPI(a.Config.Render.DefaultDPI)
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
