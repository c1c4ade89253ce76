package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardforge/internal/api"
	"github.com/youruser/cardforge/internal/app"
	"github.com/youruser/cardforge/internal/config"
	"github.com/youruser/cardforge/internal/logger"
)

func main() {
	configPath := flag.String("config", config.FileName, "path to cardforge.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, closer := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File, MaxSizeMB: cfg.Log.MaxSizeMB})
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	r := gin.Default()
	h := api.NewHandler(a.Store, a.Engine, log)
	h.DefaultDPI = a.DefaultDPI()
	api.RegisterRoutes(r, h)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Info("starting server", "addr", cfg.Server.Addr, "assets", cfg.Assets.Dir, "data", cfg.Data.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
