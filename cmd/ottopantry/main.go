// OttoPantry: a restaurant inventory and recipe assistant.
//
// Usage:
//
//	ottopantry [--config pantry.yaml] serve|console|report|setup
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/hammamikhairi/ottopantry/internal/config"
	"github.com/hammamikhairi/ottopantry/internal/conversation"
	"github.com/hammamikhairi/ottopantry/internal/display"
	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/engine"
	"github.com/hammamikhairi/ottopantry/internal/gemini"
	"github.com/hammamikhairi/ottopantry/internal/inventory"
	"github.com/hammamikhairi/ottopantry/internal/logger"
	"github.com/hammamikhairi/ottopantry/internal/recipe"
	"github.com/hammamikhairi/ottopantry/internal/server"
	"github.com/hammamikhairi/ottopantry/internal/spoilage"
	"github.com/hammamikhairi/ottopantry/internal/storage"
)

func main() {
	_ = godotenv.Load()

	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "ottopantry",
		Usage: "Restaurant inventory and recipe assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "optional YAML config file"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable verbose/debug logging"},
			&cli.BoolFlag{Name: "quiet", Usage: "disable all logging"},
			&cli.StringFlag{Name: "log-file", Usage: "file to write logs to (\"stderr\" for the console)"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			consoleCommand(),
			reportCommand(),
			setupCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides ADDR)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if addr := cmd.String("addr"); addr != "" {
				cfg.Addr = addr
			}
			log, closeLog := setupLogger(cmd, cfg, "stderr")
			defer closeLog()

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := wire(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			supervisor := spoilage.New(a.engine, conversation.NewLogNotifier(log), log,
				spoilage.WithTickInterval(cfg.Pantry.SpoilageInterval),
			)
			supervisor.Start(ctx)
			defer supervisor.Stop()

			srv := server.New(a.engine, log, server.WithCORSOrigins(cfg.CORSOrigins))
			return srv.Run(ctx, cfg.Addr)
		},
	}
}

func consoleCommand() *cli.Command {
	return &cli.Command{
		Name:  "console",
		Usage: "Interactive terminal assistant",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			// Logs go to a file by default so the REPL stays clean.
			log, closeLog := setupLogger(cmd, cfg, ".ottopantry-logs/ottopantry.log")
			defer closeLog()

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			a, err := wire(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			ui := display.NewUI(a.engine)
			notifier := conversation.NewCLINotifier(log, ui.Printf)
			supervisor := spoilage.New(a.engine, notifier, log,
				spoilage.WithTickInterval(cfg.Pantry.SpoilageInterval),
			)
			supervisor.Start(ctx)
			defer supervisor.Stop()

			app := &cliApp{
				engine:   a.engine,
				parser:   conversation.NewKeywordParser(log),
				notifier: notifier,
				log:      log,
				ui:       ui,
			}

			fmt.Println(display.RenderBanner())
			fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
			fmt.Println()

			go func() {
				ui.WaitReady()
				app.run(ctx)
				ui.Quit()
			}()

			// Bubble Tea owns the terminal until quit.
			if err := ui.Run(); err != nil {
				log.Error("display: %v", err)
			}
			cancel()
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print the spoilage report and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			log, closeLog := setupLogger(cmd, cfg, "stderr")
			defer closeLog()

			a, err := wire(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println(display.RenderReport(a.engine.SpoilageReport(ctx)))
			return nil
		},
	}
}

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure the restaurant profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "restaurant name"},
			&cli.StringFlag{Name: "description"},
			&cli.StringFlag{Name: "cuisine"},
			&cli.StringFlag{Name: "specialties", Usage: "comma-separated list"},
			&cli.BoolFlag{Name: "skip", Usage: "store the sample profile"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			log, closeLog := setupLogger(cmd, cfg, "stderr")
			defer closeLog()

			a, err := wire(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.engine.SetupProfile(ctx, engine.ProfileInput{
				Name:        cmd.String("name"),
				Description: cmd.String("description"),
				Cuisine:     cmd.String("cuisine"),
				Specialties: cmd.String("specialties"),
				Skip:        cmd.Bool("skip"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Profile saved: %s (%s)\n", p.Name, p.Cuisine)
			return nil
		},
	}
}

// setupLogger builds the logger from config and flags. fallback is the log
// destination when neither --log-file nor LOG_FILE is set.
func setupLogger(cmd *cli.Command, cfg config.Config, fallback string) (*logger.Logger, func()) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using normal)\n", err)
	}
	if cmd.Bool("verbose") {
		level = logger.LevelVerbose
	}
	if cmd.Bool("quiet") {
		level = logger.LevelOff
	}

	path := cmd.String("log-file")
	if path == "" {
		path = cfg.Log.File
	}
	if path == "" {
		path = fallback
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" && path != "stderr" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		} else {
			out = f
			closeFn = func() { f.Close() }
		}
	}

	// Route the standard log package (used by some drivers) to the same place.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	var opts []logger.Option
	if cfg.Log.Format == "json" {
		opts = append(opts, logger.WithJSON())
	}
	log := logger.New(level, out, opts...)
	return log, func() {
		_ = log.Sync()
		closeFn()
	}
}

type app struct {
	engine *engine.Engine
	kv     domain.KVStore
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing store: %v\n", err)
	}
}

// wire builds the store, services, gateway and engine from cfg.
func wire(ctx context.Context, cfg config.Config, log *logger.Logger) (*app, error) {
	kv, err := storage.Open(ctx, cfg.Store.Backend(), log)
	if err != nil {
		return nil, err
	}
	pantry := storage.NewPantry(kv, log)

	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set: scanning and recipe generation will fail")
	}
	client := gemini.NewClient(cfg.Gemini.APIKey, log,
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithBaseURL(cfg.Gemini.BaseURL),
		gemini.WithHTTPTimeout(cfg.Gemini.Timeout),
	)

	opts := []engine.Option{
		engine.WithThresholds(cfg.Freshness.Spoilage),
		engine.WithMaxImageBytes(cfg.Pantry.MaxImageBytes),
		engine.WithRecipesPerRequest(cfg.Pantry.RecipesPerRequest),
	}
	if cfg.Photos.Enabled() {
		archive, err := storage.NewS3Archive(ctx, cfg.Photos.S3(), log)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("photo archive: %w", err)
		}
		opts = append(opts, engine.WithArchive(archive))
		log.Info("photo archive enabled (bucket=%s)", cfg.Photos.Bucket)
	}

	eng := engine.New(pantry,
		inventory.NewService(pantry, log, inventory.WithFilter(cfg.Freshness.Inventory)),
		recipe.NewBook(pantry, log),
		gemini.NewGateway(client, log),
		log,
		opts...,
	)
	log.Info("store=%s model=%s", cfg.Store.Driver, client.Model())
	return &app{engine: eng, kv: kv}, nil
}
