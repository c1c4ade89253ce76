// Command cardforge renders and exports cards from the command line.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/youruser/cardforge/internal/app"
	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/config"
	"github.com/youruser/cardforge/internal/export"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/logger"
	"github.com/youruser/cardforge/internal/store"
	"github.com/youruser/cardforge/internal/util"
	"github.com/youruser/cardforge/internal/watch"
)

var commands = map[string]func(ctx context.Context, args []string) error{
	"render":    cmdRender,
	"export":    cmdExport,
	"json":      cmdJSON,
	"checklist": cmdChecklist,
	"proof":     cmdProof,
	"number":    cmdNumber,
	"watch":     cmdWatch,
	"import":    cmdImport,
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		printUsage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd(ctx, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, os.Args[1]+" failed:", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: cardforge <command> [flags]

commands:
  render     -card ID [-dpi 300|600|1200] [-o card.png]
  export     -set ID [-dpi N] [-o set.zip]
  json       -set ID [-o set.json]
  checklist  -set ID
  proof      -set ID [-o proof.png]
  number     -set ID
  watch      -card ID [-o preview.png]
  import     -sqlite cards.db

every command also takes -config path (default cardforge.toml)`)
}

type env struct {
	app    *app.App
	log    *slog.Logger
	closer io.Closer
}

func (e *env) Close() {
	e.app.Close()
	e.closer.Close()
}

func open(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, closer := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File, MaxSizeMB: cfg.Log.MaxSizeMB})
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &env{app: a, log: log, closer: closer}, nil
}

func dpiFlag(fs *flag.FlagSet) *string {
	return fs.String("dpi", "", "300, 600 or 1200 (default from config)")
}

func resolveDPI(a *app.App, s string) (export.DPI, error) {
	if s == "" {
		return a.DefaultDPI(), nil
	}
	return export.ParseDPI(s)
}

func progress(total string) export.Progress {
	return func(done, n int) {
		fmt.Fprintf(os.Stderr, "\r%s %d/%d", total, done, n)
		if done == n {
			fmt.Fprintln(os.Stderr)
		}
	}
}

// warnBatch reports skipped cards without failing the command.
func warnBatch(err error) error {
	var be *export.BatchError
	if errors.As(err, &be) {
		for _, s := range be.Skipped {
			fmt.Fprintf(os.Stderr, "skipped %03d %s: %s\n", s.Number, s.CardID, s.Error)
		}
		return nil
	}
	return err
}

func cmdRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	cardID := fs.String("card", "", "card id")
	dpi := dpiFlag(fs)
	out := fs.String("o", "", "output file (default <card>.png)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cardID == "" {
		return fmt.Errorf("card is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := resolveDPI(e.app, *dpi)
	if err != nil {
		return err
	}
	data, err := e.app.Export.CardPNG(ctx, *cardID, d)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = *cardID + ".png"
	}
	if err := util.WriteFile(*out, data); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	setID := fs.String("set", "", "set id")
	dpi := dpiFlag(fs)
	out := fs.String("o", "", "output archive (default <set>.zip)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *setID == "" {
		return fmt.Errorf("set is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := resolveDPI(e.app, *dpi)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	_, err = e.app.Export.SetZip(ctx, &buf, *setID, d, progress("rendering"))
	if err := warnBatch(err); err != nil {
		return err
	}
	if *out == "" {
		*out = *setID + ".zip"
	}
	if err := util.WriteFile(*out, buf.Bytes()); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdJSON(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	setID := fs.String("set", "", "set id")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *setID == "" {
		return fmt.Errorf("set is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	var buf bytes.Buffer
	if err := e.app.Export.SetJSON(ctx, &buf, *setID); err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return util.WriteFile(*out, buf.Bytes())
}

func cmdChecklist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checklist", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	setID := fs.String("set", "", "set id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *setID == "" {
		return fmt.Errorf("set is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	text, err := e.app.Export.Checklist(ctx, *setID)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func cmdProof(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("proof", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	setID := fs.String("set", "", "set id")
	out := fs.String("o", "", "output file (default <set>-proof.png)")
	columns := fs.Int("columns", imagepkg.DefaultProofSheet().Columns, "cards per row")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *setID == "" {
		return fmt.Errorf("set is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	sheet := imagepkg.DefaultProofSheet()
	sheet.Columns = *columns
	img, err := e.app.Export.ProofSheet(ctx, *setID, sheet, progress("rendering"))
	if err := warnBatch(err); err != nil {
		return err
	}
	data, err := export.EncodePNG(img)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = *setID + "-proof.png"
	}
	if err := util.WriteFile(*out, data); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdNumber(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("number", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	setID := fs.String("set", "", "set id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *setID == "" {
		return fmt.Errorf("set is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	cs, err := e.app.Store.CardsInSet(ctx, *setID)
	if err != nil {
		return err
	}
	numbers := cards.AssignCollectorNumbers(cs)
	for _, c := range cards.SortByCollectorNumber(cs) {
		fmt.Printf("%s\t%s\t%s\n", numbers[c.ID], c.ID, c.Name)
	}
	return nil
}

// cmdWatch re-renders a card whenever the data or asset directories
// change, until interrupted.
func cmdWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	cardID := fs.String("card", "", "card id")
	out := fs.String("o", "preview.png", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cardID == "" {
		return fmt.Errorf("card is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	files, ok := e.app.Store.(*store.File)
	if !ok {
		return fmt.Errorf("watch needs the file data driver")
	}
	w, err := watch.New(e.app.Config.Data.Dir, 200*time.Millisecond, e.log)
	if err != nil {
		return err
	}
	defer w.Close()

	render := func() {
		data, err := e.app.Export.CardPNG(ctx, *cardID, export.DPI300)
		if err != nil {
			e.log.Error("render failed", "card", *cardID, "error", err)
			return
		}
		if err := util.WriteFile(*out, data); err != nil {
			e.log.Error("write failed", "path", *out, "error", err)
			return
		}
		e.log.Info("preview written", "card", *cardID, "path", *out)
	}
	render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Events():
			if err := files.Reload(ctx); err != nil {
				e.log.Warn("reload failed, keeping previous data", "error", err)
				continue
			}
			render()
		}
	}
}

func cmdImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	configPath := fs.String("config", config.FileName, "config file")
	dbPath := fs.String("sqlite", "", "sqlite database to fill")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		return fmt.Errorf("sqlite is required")
	}
	e, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, ok := e.app.Store.(*store.File); !ok {
		return fmt.Errorf("import reads from the file data driver")
	}
	db, err := store.OpenSQLite(ctx, *dbPath, e.log)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Import(ctx, e.app.Store)
}
