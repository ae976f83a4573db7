package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/deliberate/deliberate/internal/archive"
	"github.com/deliberate/deliberate/internal/catalog"
	"github.com/deliberate/deliberate/internal/events"
	"github.com/deliberate/deliberate/pkg/config"
	"github.com/deliberate/deliberate/pkg/decision"
)

// app bundles what a command needs to work on the archive.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	svc     *catalog.Service
	closers []func() error
}

// loadConfig resolves the config file: flag, then the nearest
// .deliberate/config.yaml, then defaults.
func loadConfig(opts *globalOpts) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.archivePath != "" {
		cfg.Archive.Backend = "file"
		cfg.Archive.Path = opts.archivePath
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	lc := cfg.Logging
	if !verbose {
		lc.Level = "warn"
	}
	return lc.NewLogger(os.Stderr)
}

// openApp loads config, opens the archive and loads the catalog. Events are
// published when a NATS URL is configured and the server answers the initial
// connect; otherwise the command runs without publishing.
func openApp(ctx context.Context, opts *globalOpts) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg, opts.verbose)

	store, closeStore, err := archive.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closers: []func() error{closeStore}}

	catalogOpts := append(catalog.ConfigOptions(cfg), catalog.WithLogger(logger))
	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(ctx, cfg.Events.NATSURL, logger)
		if err != nil {
			logger.Warn("event publishing disabled", "error", err)
		} else {
			catalogOpts = append(catalogOpts, catalog.WithPublisher(pub))
			a.closers = append(a.closers, func() error { pub.Close(); return nil })
		}
	}

	a.svc = catalog.New(store, catalogOpts...)
	if err := a.svc.Refresh(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("loading archive: %w", err)
	}
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// resolve finds a deliberation by ID, unique ID prefix or case-insensitive
// name.
func (a *app) resolve(ref string) (decision.Deliberation, error) {
	if d, err := a.svc.Get(ref); err == nil {
		return d, nil
	}

	var matches []decision.Deliberation
	for _, d := range a.svc.List() {
		if strings.HasPrefix(d.ID, ref) || strings.EqualFold(d.Name, ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return decision.Deliberation{}, fmt.Errorf("%w: %q", catalog.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return decision.Deliberation{}, fmt.Errorf("%q is ambiguous: matches %d deliberations", ref, len(matches))
	}
}

// withApp runs fn against an open app and closes it afterwards.
func withApp(ctx context.Context, opts *globalOpts, fn func(*app) error) error {
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.logger.Warn("closing archive", "error", cerr)
		}
	}()
	return fn(a)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
