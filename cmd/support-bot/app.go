package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/keshon/support-bot/internal/aoc"
	"github.com/keshon/support-bot/internal/commands"
	"github.com/keshon/support-bot/internal/config"
	"github.com/keshon/support-bot/internal/discord"
	"github.com/keshon/support-bot/internal/faq"
	"github.com/keshon/support-bot/internal/filter"
	"github.com/keshon/support-bot/internal/logging"
	"github.com/keshon/support-bot/internal/metrics"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	faqHTTPTimeout     = 15 * time.Second
)

// app holds everything the subcommands share.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	store   *storage.Storage
	metrics *prometheus.Registry
	bot     *discord.Bot
	closers []io.Closer
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: consoleLog})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	a.store, err = storage.Open(cfg.DBDriver, cfg.DBDSN, logging.NewGormLogger(logging.Named("storage"), slowQueryThreshold))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open storage: %w", err), a.Close())
	}
	a.closers = append(a.closers, a.store)

	f, err := filter.New(cfg.HomoglyphsPath, cfg.BlocklistPath, filter.WithRepliesPath(cfg.RepliesPath))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("load filter: %w", err), a.Close())
	}
	glyphs, words := f.Size()
	logger.Debug().Int("homoglyphs", glyphs).Int("blocklist", words).Msg("filter loaded")

	reg, err := commands.NewRegistry(cfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("register commands: %w", err), a.Close())
	}

	a.metrics = prometheus.NewRegistry()
	a.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.bot = discord.New(discord.Options{
		Config:   cfg,
		Registry: reg,
		Storage:  a.store,
		Filter:   f,
		FAQ:      faq.New(cfg.FAQURL, cfg.FAQCacheTTL, &http.Client{Timeout: faqHTTPTimeout}, logging.Named("faq")),
		AoC:      aoc.New(cfg.AoCLeaderboardID, cfg.AoCSession, cfg.AoCYear),
		Metrics:  metrics.NewMetrics(a.metrics),
		Logger:   logging.Named("discord"),
	})
	return a, nil
}

// Close releases the resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
