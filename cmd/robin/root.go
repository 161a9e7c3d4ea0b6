package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"robin/internal/api"
	"robin/internal/config"
	"robin/internal/domain"
	"robin/internal/eventbus"
	"robin/internal/logging"
	"robin/internal/logic"
	"robin/internal/metrics"
	"robin/internal/query"
	"robin/internal/ui"
)

type rootOptions struct {
	configPath  string
	baseURL     string
	logLevel    string
	logFile     string
	metricsFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "robin",
		Short:         "Browse patch review statistics from the terminal.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/robin/config.toml)")
	flags.StringVar(&opts.baseURL, "base-url", "", "statistics service URL")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "log file path")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus text metrics here on exit")

	cmd.AddCommand(
		newListCmd(opts, domain.CollectionRepositories),
		newListCmd(opts, domain.CollectionTeams),
		newPendingCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

// Execute runs the CLI until it finishes or receives SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// app bundles what every command needs
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	bus     *eventbus.Bus
	metrics *metrics.Recorder
	client  *api.Client

	logCloser   io.Closer
	unsubscribe func()
}

func newApp(opts *rootOptions, headless bool) (*app, error) {
	cs := config.NewConfigService()
	if opts.configPath != "" {
		cs = config.NewConfigServiceAt(opts.configPath)
	}
	cfg, err := cs.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.baseURL != "" {
		cfg.API.BaseURL = opts.baseURL
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.metricsFile != "" {
		cfg.Metrics.Textfile = opts.metricsFile
	}

	logOpts := logging.Options{File: cfg.Log.File, Level: cfg.Log.Level}
	if headless {
		logOpts.Console = os.Stderr
	}
	logger, closer, err := logging.Setup(logOpts)
	if err != nil {
		return nil, err
	}

	rec := metrics.New()
	client, err := api.NewClient(cfg.API, logger, api.WithObserver(rec))
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	bus := eventbus.New(logger)
	unsubscribeMetrics := rec.Subscribe(bus)
	unsubscribeFailures := bus.Subscribe(domain.EventRequestFailed, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.RequestFailedEvent); ok {
			logger.Warn("request failed", "collection", ev.Collection, "err", ev.Err)
		}
	})

	logger.Debug("robin starting", "base_url", cfg.API.BaseURL, "config", cs.Path(), "headless", headless)

	return &app{
		cfg:       cfg,
		logger:    logger,
		bus:       bus,
		metrics:   rec,
		client:    client,
		logCloser: closer,
		unsubscribe: func() {
			unsubscribeMetrics()
			unsubscribeFailures()
		},
	}, nil
}

func (a *app) session() *logic.Session {
	return logic.NewSession(a.client, query.Options{
		Category:            domain.Category(a.cfg.Query.Category),
		DefaultStatsType:    domain.StatsType(a.cfg.Query.DefaultStatsType),
		NotificationTimeout: a.cfg.Query.NotificationTimeout,
		Bus:                 a.bus,
		Logger:              a.logger,
	})
}

// close drains the event bus, exports metrics and closes the log file
func (a *app) close() error {
	a.bus.Close()
	a.unsubscribe()

	var errs []error
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := a.logCloser.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func withApp(opts *rootOptions, headless bool, fn func(*app) error) (err error) {
	a, err := newApp(opts, headless)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.close())
	}()
	return fn(a)
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	return withApp(opts, false, func(a *app) error {
		model := ui.NewModel(ctx, a.session(), ui.Options{
			RequestTimeout: a.cfg.API.Timeout,
			Logger:         a.logger,
		})

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		model.SetProgram(p)

		if _, err := p.Run(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})
}
