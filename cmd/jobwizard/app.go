package main

import (
	"fmt"
	"os"

	"github.com/pevans/jobwizard/api"
	"github.com/pevans/jobwizard/bot"
	"github.com/pevans/jobwizard/config"
	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/filter"
	"github.com/pevans/jobwizard/logging"
	"github.com/pevans/jobwizard/query"
	"github.com/pevans/jobwizard/render"
	"github.com/pevans/jobwizard/search"
	"github.com/pevans/jobwizard/source"
	"go.uber.org/zap"
)

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	searcher *search.Searcher
	service  *bot.Service
	store    *diagnostics.Store
}

// newApp loads configuration and wires the components. Configuration
// errors are fatal.
func newApp() *app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := source.Options{
		Timeout:   cfg.FetchTimeout,
		UserAgent: cfg.UserAgent,
		Limit:     cfg.Limit,
		Filter:    filter.New(cfg.AllowUnrestrictedRegion, cfg.ForbiddenTerms),
		Logger:    logger.Named("source"),
	}

	page, err := source.NewPageSource(cfg.SecondaryPage, opts)
	if err != nil {
		logger.Fatal("invalid listings page", zap.Error(err))
	}
	feed := source.NewFeedSource(cfg.PrimaryFeed, opts)
	if !cfg.ResolveFeedHost {
		feed.WithResolver(nil)
	}

	searcher := search.New(feed, page, query.NewBuilder(cfg.PrimaryFeed), logger.Named("search"))
	owner := render.Owner{Name: cfg.OwnerName, URL: cfg.OwnerURL}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		searcher: searcher,
		service:  bot.New(searcher, owner, logger.Named("bot")),
	}

	if cfg.DiagnosticsDSN != "" {
		logger.Info("opening diagnostics store", zap.String("dsn", cfg.DiagnosticsDSN))
		a.store, err = diagnostics.NewStore(cfg.DiagnosticsDSN)
		if err != nil {
			logger.Fatal("failed to open diagnostics store", zap.Error(err))
		}
	}

	return a
}

// trails returns where session trails are kept.
func (a *app) trails() api.TrailFactory {
	if a.store == nil {
		return api.InMemoryTrails
	}
	return api.StoreTrails(a.store, a.logger.Named("diagnostics"))
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close diagnostics store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
