package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marambaia/drawdex/pkg/cache"
	"github.com/marambaia/drawdex/pkg/config"
	"github.com/marambaia/drawdex/pkg/errors"
	"github.com/marambaia/drawdex/pkg/logging"
	"github.com/marambaia/drawdex/pkg/source"
	"github.com/marambaia/drawdex/pkg/storage"
	"github.com/marambaia/drawdex/pkg/web"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var loadConfigFn = config.Load
var openStoreFn = storage.New

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("drawdex", flag.ContinueOnError)
	configPath := fs.String("config", "drawdex.yaml", "path to the YAML configuration file")
	bind := fs.String("bind", "", "address to bind the HTTP server (overrides config)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Printf("drawdex %s (commit %s, built %s)\n", version, commit, buildDate)
		return nil
	}

	cfg, err := loadConfigFn(*configPath)
	if err != nil {
		return err
	}
	if *bind != "" {
		cfg.Server.Bind = *bind
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageWrite, "opening log directory")
	}
	defer logger.Close()
	logger.SetMinLevel(logging.Level(cfg.Logging.Level))

	store, err := openStoreFn(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	fetcher := source.NewHTTPFetcher(cfg.Sources.FetchTimeout.Std())
	whitelistSrc := source.NewWhitelistSource(fetcher, cfg.Sources.WhitelistURL, cfg.Sources.WhitelistFormat)
	drawingSrc := source.NewDrawingSource(fetcher, cfg.Sources.DrawingsURL)

	cacheTTL := cfg.Sources.CacheTTL.Std()
	whitelistCch := cache.New("whitelist", cacheTTL, whitelistSrc.Load, logger)
	drawingsCch := cache.New("drawings", cacheTTL, drawingSrc.Load, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go sessionJanitor(ctx, store, cfg.Session.TTL.Std(), logger)

	server := web.NewServer(cfg, store, whitelistCch, drawingsCch, logger)
	return server.Start(ctx)
}

// sessionJanitor sweeps expired sessions out of the store so the database
// does not accumulate rows for logins that will never be presented again.
func sessionJanitor(ctx context.Context, store *storage.Store, ttl time.Duration, logger *logging.Logger) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-ttl)
			deleted, err := store.DeleteExpiredSessions(cutoff)
			if err != nil {
				logger.Error(logging.CategorySession, "janitor_sweep_failed", err.Error(), nil)
				continue
			}
			if deleted > 0 {
				logger.Info(logging.CategorySession, "janitor_sweep", "", map[string]any{
					"deleted": deleted,
				})
			}
		}
	}
}
