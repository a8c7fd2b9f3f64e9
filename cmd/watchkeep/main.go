package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/watchkeep/watchkeep/internal/adapter"
	"github.com/watchkeep/watchkeep/internal/domain"
	"github.com/watchkeep/watchkeep/internal/layout"
	"github.com/watchkeep/watchkeep/internal/library"
	"github.com/watchkeep/watchkeep/internal/persist"
	"github.com/watchkeep/watchkeep/internal/provider/anilist"
	"github.com/watchkeep/watchkeep/internal/provider/jikan"
	"github.com/watchkeep/watchkeep/internal/provider/kitsu"
	"github.com/watchkeep/watchkeep/internal/provider/tmdb"
	"github.com/watchkeep/watchkeep/internal/resolver"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("watchkeep %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting watchkeep", "version", Version)

	// Open the document store
	store, err := persist.NewStore(cfg.Data.Dir, cfg.Data.File)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	// Create catalog clients
	tmdbClient := tmdb.NewClient(cfg.Providers.TMDB.BaseURL, cfg.Providers.TMDB.APIKey, logger)
	kitsuClient := kitsu.NewClient(cfg.Providers.Kitsu.BaseURL, logger)
	anilistClient := anilist.NewClient(cfg.Providers.AniList.BaseURL, logger)
	jikanClient := jikan.NewClient(cfg.Providers.Jikan.BaseURL, logger)

	if !cfg.HasTMDBKey() {
		logger.Warn("no TMDB API key configured, film and series metadata will be limited")
	}

	// Create the metadata resolver over the catalog chain
	res := resolver.New(tmdbClient, kitsuClient, anilistClient, jikanClient, logger)

	// Persisted documents with configured tuning
	freshness := time.Duration(cfg.Persistence.FreshnessSeconds) * time.Second
	window := time.Duration(cfg.Persistence.ThrottleWindowMs) * time.Millisecond

	contentDocs := persist.NewService(store, library.DocumentKey, domain.DefaultContentDocument, logger,
		persist.WithFreshness[domain.ContentDocument](freshness),
		persist.WithThrottleWindow[domain.ContentDocument](window))
	layoutDocs := persist.NewService(store, layout.DocumentKey, domain.DefaultLayoutDocument, logger,
		persist.WithFreshness[domain.LayoutDocument](freshness),
		persist.WithThrottleWindow[domain.LayoutDocument](window))

	// Create services
	librarySvc := library.NewService(contentDocs, res, kitsuClient, logger)
	layoutSvc := layout.NewService(layoutDocs, logger)

	fmt.Printf("watchkeep %s\n", Version)
	fmt.Printf("  data: %s\n", cfg.Data.Dir)
	fmt.Printf("  tracked: %d items across %d pages\n", librarySvc.ContentCount(), len(librarySvc.GetPages()))
	for _, page := range librarySvc.GetPages() {
		fmt.Printf("  %-8s %d sliders\n", page.Title, len(layoutSvc.GetSliders(page.ID)))
	}

	logger.Info("shutting down")
	return nil
}
