package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/maktaba/pkg/api"
	"github.com/hazyhaar/maktaba/pkg/bot"
	"github.com/hazyhaar/maktaba/pkg/catalog"
	"github.com/hazyhaar/maktaba/pkg/drive"
	"github.com/hazyhaar/maktaba/pkg/library"
	"github.com/hazyhaar/maktaba/pkg/match"
)

const version = "1.0.0"

type matchConfig struct {
	MatchThreshold   float64           `yaml:"match_threshold"`
	SuggestThreshold float64           `yaml:"suggest_threshold"`
	SuggestLimit     int               `yaml:"suggest_limit"`
	Folds            map[string]string `yaml:"folds"`
}

type config struct {
	Addr        string      `yaml:"addr"`
	DBPath      string      `yaml:"db_path"`
	DriveFolder string      `yaml:"drive_folder"`
	Admins      []int64     `yaml:"admins"`
	Match       matchConfig `yaml:"match"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: maktaba <command>\n\nCommands:\n  serve    Start the Telegram bot and the HTTP API\n  import   Bulk-load catalog rows from a CSV file\n  mcp      Serve the catalog tools over MCP stdio\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := loadConfig(*cfgPath, logger)

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		logger.Error("BOT_TOKEN is not set")
		os.Exit(1)
	}

	store, err := catalog.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open catalog", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Upload capability is optional: without credentials the bot still
	// serves lookups, only /add is disabled.
	var uploader library.Uploader
	if creds := os.Getenv("GDRIVE_CREDENTIALS_JSON"); creds != "" {
		dc, err := drive.New(ctx, []byte(creds), cfg.DriveFolder, logger)
		if err != nil {
			logger.Error("drive client", "error", err)
			os.Exit(1)
		}
		uploader = dc
	} else {
		logger.Warn("GDRIVE_CREDENTIALS_JSON not set, uploads disabled")
	}

	svc := buildService(cfg, store, uploader, logger)
	ep := api.NewEndpoints(svc, logger)

	tg, err := bot.New(bot.Config{
		Token:        token,
		Admins:       cfg.Admins,
		SuggestLimit: cfg.Match.SuggestLimit,
	}, svc, ep, logger)
	if err != nil {
		logger.Error("telegram bot", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(ep, svc),
	}

	// SIGHUP: drop the cached index so the next lookup rereads the catalog.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading catalog")
			svc.Reload()
		}
	}()

	go func() {
		if err := tg.Run(ctx); err != nil {
			logger.Error("bot stopped", "error", err)
		}
	}()

	go func() {
		logger.Info("maktaba listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := loadConfig(*cfgPath, logger)

	store, err := catalog.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open catalog", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := buildService(cfg, store, nil, logger)
	srv := server.NewMCPServer("maktaba", version)
	api.RegisterMCPTools(srv, api.NewEndpoints(svc, logger))

	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server", "error", err)
		os.Exit(1)
	}
}

func buildService(cfg config, store *catalog.Store, uploader library.Uploader, logger *slog.Logger) *library.Service {
	norm := match.NewNormalizer(foldTable(cfg.Match.Folds))
	resolver := match.NewResolver(norm, cfg.Match.MatchThreshold, cfg.Match.SuggestThreshold)
	return library.New(store, norm, resolver, uploader, logger)
}

// foldTable merges config overrides into the default fold table.
// An empty target drops the rune.
func foldTable(overrides map[string]string) map[rune]rune {
	folds := match.DefaultFolds()
	for from, to := range overrides {
		src := []rune(from)
		if len(src) != 1 {
			continue
		}
		if to == "" {
			folds[src[0]] = 0
			continue
		}
		folds[src[0]] = []rune(to)[0]
	}
	return folds
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:        ":8430",
		DBPath:      "books.db",
		DriveFolder: "TelegramBooks",
		Match: matchConfig{
			MatchThreshold:   match.DefaultMatchThreshold,
			SuggestThreshold: match.DefaultSuggestThreshold,
			SuggestLimit:     5,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
