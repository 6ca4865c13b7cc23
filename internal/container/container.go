package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/config"
	"github.com/anime-shed/thumbnail-inspector-go/internal/logger"
	"github.com/anime-shed/thumbnail-inspector-go/internal/observer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/scoring"
	"github.com/anime-shed/thumbnail-inspector-go/internal/service"
	"github.com/anime-shed/thumbnail-inspector-go/internal/storage"
	"github.com/anime-shed/thumbnail-inspector-go/internal/store"
	"github.com/anime-shed/thumbnail-inspector-go/internal/transport"
	"github.com/anime-shed/thumbnail-inspector-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	store            *store.Store
	analyzer         analyzer.ThumbnailAnalyzer
	sources          storage.Fetcher
	metrics          *observer.MetricsObserver
	thumbnailService service.ThumbnailService
	handler          http.Handler
}

// NewContainer builds the dependency graph from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger.Configure(cfg.LogLevel)

	httpFetcher := storage.NewHTTPFetcher(
		storage.WithTimeout(cfg.ImageFetchTimeout),
		storage.WithMaxBytes(cfg.MaxRequestBodySize),
	)

	var blobFetcher *storage.AzureBlobFetcher
	if cfg.AzureEnabled() {
		var err error
		blobFetcher, err = storage.NewAzureBlobFetcher(cfg.AzureStorageAccount, cfg.AzureStorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to configure azure blob source: %w", err)
		}
		logger.WithField("account", cfg.AzureStorageAccount).Info("Azure Blob source enabled")
	}
	sources := storage.NewRouter(httpFetcher, blobFetcher)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher(logger.Component("events"))
	events.Subscribe(observer.NewLoggingObserver(logger.Component("events")))
	events.Subscribe(metrics)

	thumbnailStore := store.New(
		store.WithLimit(cfg.MaxThumbnails),
		store.WithDuplicateDistance(cfg.DuplicateHashDistance),
	)
	thumbnailAnalyzer := analyzer.NewThumbnailAnalyzer(cfg.AnalysisWorkers)

	thumbnailService := service.NewThumbnailService(service.Dependencies{
		Store:             thumbnailStore,
		Analyzer:          thumbnailAnalyzer,
		Scoring:           scoring.NewEngine(),
		Sources:           sources,
		Validator:         validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.AllowedSourceHosts),
		Events:            events,
		AnalysisOptions:   analyzer.DefaultOptions().WithMaxDimension(cfg.AnalysisMaxDimension),
		AnalysisTimeout:   cfg.AnalysisTimeout,
		FetchTimeout:      cfg.ImageFetchTimeout,
		DuplicateDistance: cfg.DuplicateHashDistance,
		MaxImagePixels:    cfg.MaxImagePixels,
	})

	return &Container{
		config:           cfg,
		store:            thumbnailStore,
		analyzer:         thumbnailAnalyzer,
		sources:          sources,
		metrics:          metrics,
		thumbnailService: thumbnailService,
		handler:          transport.NewHandler(thumbnailService, metrics, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the analyzer's worker pool
func (c *Container) Close() error {
	return c.analyzer.Close()
}
