// Chronicled is the knowledge-management daemon behind Chronicles.
//
// It analyzes captured conversations against a fixed keyword taxonomy,
// turns relevant ones into story suggestions, serves the merged story
// collection over HTTP, archives conversations into an embedded vector
// store, and publishes story-added events to NATS.
//
// Configuration is loaded from a YAML file plus CHRONICLED_* environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	chronicled
//
//	# Point at a config file
//	chronicled -config ~/.config/chronicled/config.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chronicled/internal/analysis"
	"github.com/fyrsmithlabs/chronicled/internal/archive"
	"github.com/fyrsmithlabs/chronicled/internal/config"
	"github.com/fyrsmithlabs/chronicled/internal/embeddings"
	"github.com/fyrsmithlabs/chronicled/internal/events"
	"github.com/fyrsmithlabs/chronicled/internal/httpapi"
	"github.com/fyrsmithlabs/chronicled/internal/logging"
	"github.com/fyrsmithlabs/chronicled/internal/storage"
	"github.com/fyrsmithlabs/chronicled/internal/story"
	"github.com/fyrsmithlabs/chronicled/internal/vectorstore"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("chronicled by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the chronicled server and blocks until the context is
// cancelled. Returns http.ErrServerClosed on graceful shutdown.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("starting chronicled",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()),
	)

	deps, err := initDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	logger.Info("dependencies initialized",
		zap.Bool("archive_enabled", deps.archiveSvc != nil),
		zap.Bool("events_enabled", deps.publisher != nil),
	)

	analyzer := analysis.NewService(logger.Named("analysis"))
	stories := story.NewService(deps.store, analyzer, logger.Named("story"))

	if deps.publisher != nil {
		stories.Subscribe(deps.publisher.Listener())
	}

	proxies := &httpapi.ProxyConfig{}
	if cfg.Upstreams.ElevenLabs.APIKey.IsSet() {
		proxies.ElevenLabs = httpapi.NewUpstream(
			cfg.Upstreams.ElevenLabs.BaseURL,
			cfg.Upstreams.ElevenLabs.APIKey.Value(),
			cfg.Upstreams.ElevenLabs.RateLimit,
			cfg.Upstreams.ElevenLabs.Burst,
			cfg.Upstreams.ElevenLabs.Timeout.Duration(),
		)
	}
	if cfg.Upstreams.OpenAI.APIKey.IsSet() {
		proxies.OpenAI = httpapi.NewUpstream(
			cfg.Upstreams.OpenAI.BaseURL,
			cfg.Upstreams.OpenAI.APIKey.Value(),
			cfg.Upstreams.OpenAI.RateLimit,
			cfg.Upstreams.OpenAI.Burst,
			cfg.Upstreams.OpenAI.Timeout.Duration(),
		)
	}

	var archiver httpapi.Archiver
	if deps.archiveSvc != nil {
		archiver = deps.archiveSvc
	}

	srv, err := httpapi.NewServer(analyzer, stories, archiver, proxies, logger.Named("http"), &httpapi.Config{
		Host: "0.0.0.0",
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}

// dependencies holds all infrastructure dependencies.
type dependencies struct {
	store      storage.Store
	archiveSvc *archive.Service
	publisher  *events.Publisher
	logger     *zap.Logger
}

// Close releases all infrastructure resources.
func (d *dependencies) Close() {
	if d.publisher != nil {
		d.publisher.Close()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
}

// initDependencies wires storage, the conversation archive, and the
// event publisher from configuration. Archive and events are optional;
// when disabled their fields stay nil.
func initDependencies(cfg *config.Config, logger *zap.Logger) (*dependencies, error) {
	deps := &dependencies{logger: logger}

	switch cfg.Storage.Driver {
	case "sqlite":
		store, err := storage.NewSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		deps.store = store
	default:
		deps.store = storage.NewMemory()
	}

	if cfg.Archive.Enabled {
		embedSvc, err := embeddings.NewService(embeddings.Config{
			BaseURL: cfg.Embeddings.BaseURL,
			Model:   cfg.Embeddings.Model,
			APIKey:  cfg.Embeddings.APIKey.Value(),
		})
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("creating embedding service: %w", err)
		}

		vs, err := vectorstore.NewChromemStore(vectorstore.Config{
			Path:       cfg.Archive.Path,
			Collection: cfg.Archive.Collection,
		}, embedSvc, logger.Named("vectorstore"))
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("creating vector store: %w", err)
		}

		deps.archiveSvc = archive.NewService(vs, logger.Named("archive"))
	}

	if cfg.Events.Enabled {
		pub, err := events.Connect(cfg.Events.URL, cfg.Events.Subject, logger.Named("events"))
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}
		deps.publisher = pub
	}

	return deps, nil
}
