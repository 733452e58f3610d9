package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/izposoja/internal/api"
	"github.com/erazemk/izposoja/internal/config"
	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/formtoken"
	"github.com/erazemk/izposoja/internal/imaging"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/notify"
	"github.com/erazemk/izposoja/internal/seed"
	"github.com/erazemk/izposoja/internal/store"
	"github.com/erazemk/izposoja/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also appended to that file. The returned cleanup closes it.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment.
	fs := flag.NewFlagSet("izposoja", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "")
	fs.StringVar(&cfg.SeedPath, "s", cfg.SeedPath, "")

	fs.StringVar(&cfg.ImagesDir, "images", cfg.ImagesDir, "")
	fs.StringVar(&cfg.ImagesDir, "i", cfg.ImagesDir, "")

	fs.StringVar(&cfg.NotifyURL, "notify-url", cfg.NotifyURL, "")
	fs.StringVar(&cfg.NotifyURL, "n", cfg.NotifyURL, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: izposoja [flags]

Flags:
  -a, -addr <host:port>    listen address (default: :8080)
  -l, -log <path>          log file path (default: no file, stdout/stderr only)
  -s, -seed <path>         JSON data set to load (default: built-in samples)
  -i, -images <dir>        directory with item photos named <item id>.jpg or .png
  -n, -notify-url <url>    RabbitMQ URL for notifications (default: log only)
  -h, -help                show this help and exit

Every flag can also be set with an IZPOSOJA_* environment variable
(IZPOSOJA_ADDR, IZPOSOJA_LOG, IZPOSOJA_SEED, IZPOSOJA_IMAGES,
IZPOSOJA_NOTIFY_URL, IZPOSOJA_NOTIFY_EXCHANGE).
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()
	today := model.Today()

	// Reservations live only for the lifetime of the process.
	database, err := db.Open(db.MemoryPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	data := seed.Sample(today)
	if cfg.SeedPath != "" {
		data, err = seed.ReadFile(cfg.SeedPath, today)
		if err != nil {
			return err
		}
	}
	if err := seed.Load(ctx, database, data); err != nil {
		return err
	}

	if cfg.ImagesDir != "" {
		n, err := imaging.LoadDir(ctx, database, cfg.ImagesDir)
		if err != nil {
			return err
		}
		slog.Info("item photos loaded", "dir", cfg.ImagesDir, "count", n)
	}

	secret, err := store.GetFormSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting form secret: %w", err)
	}
	tokens, err := formtoken.NewSigner(secret)
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.NewLog()
	if cfg.NotifyURL != "" {
		amqpNotifier, err := notify.NewAMQP(cfg.NotifyURL, cfg.NotifyExchange)
		if err != nil {
			return err
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
		slog.Info("publishing notifications", "exchange", cfg.NotifyExchange)
	}

	apiRouter := api.NewRouter(database, notifier, model.Today)
	webRouter, err := web.NewRouter(database, tokens, notifier, model.Today)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(api.RecoverMiddleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "today", today.Key())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	slog.Info("server stopped")
	return nil
}
