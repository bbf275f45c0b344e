package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/peoplesfeelings/mindmap/pkg/feed"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/observability"
	"github.com/peoplesfeelings/mindmap/pkg/server"
)

const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	addr    string
	feed    string
	watch   bool
	name    string
	restore bool
	save    bool
	noCache bool
}

// serveCommand runs the HTTP API with a live frame loop.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", name: server.DefaultName, restore: true, save: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live mind map over HTTP",
		Long: `Serve a live mind map over HTTP. Items are posted to /items or read from
--feed; with --watch the feed file is re-read whenever it changes. The last
snapshot is restored from the cache on start and saved on shutdown.`,
		Example: `  mindmap serve --addr :8080
  mindmap serve --feed replies.ndjson --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.feed, "feed", "", "feed file to load on start")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload --feed when it changes")
	cmd.Flags().StringVar(&opts.name, "name", opts.name, "map name for saved snapshots")
	cmd.Flags().BoolVar(&opts.restore, "restore", opts.restore, "restore the saved snapshot on start")
	cmd.Flags().BoolVar(&opts.save, "save", opts.save, "save the snapshot on shutdown")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not restore or save snapshots")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.watch && opts.feed == "" {
		return errors.New("--watch requires --feed")
	}

	store, err := newCache(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewPrometheus(reg)
	observability.SetLayoutHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetServerHooks(metrics)
	defer observability.Reset()

	mmOpts := cfg.MindMapOptions()
	mmOpts.Logger = logger
	srv, err := server.New(mmOpts,
		server.WithLogger(logger),
		server.WithCache(store, nil),
		server.WithName(opts.name),
		server.WithMeasurer(cfg.TextMeasurer()),
		server.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	if err != nil {
		return err
	}

	if opts.restore && !opts.noCache {
		if found, err := srv.Load(ctx); err != nil {
			logger.Warn("could not restore snapshot", "error", err)
		} else if found {
			printInfo("Restored snapshot %s (%d nodes)", opts.name, srv.MindMap().Len())
		}
	}
	if opts.feed != "" {
		items, err := feed.ReadFile(opts.feed)
		if err != nil {
			return err
		}
		receive(srv, items)
	}
	var watcher *feed.Watcher
	if opts.watch {
		watcher, err = feed.NewWatcher(opts.feed,
			feed.WithOnItems(func(items []item.Item) { receive(srv, items) }),
			feed.WithOnError(func(err error) { logger.Warn("feed reload failed", "error", err) }),
			feed.WithWatchLogger(logger),
		)
		if err != nil {
			return err
		}
	}

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", opts.addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	err = g.Wait()
	if opts.save && !opts.noCache {
		if serr := srv.Save(context.Background()); serr != nil {
			logger.Warn("could not save snapshot", "error", serr)
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// receive adds a batch of items and updates the layout.
func receive(srv *server.Server, items []item.Item) {
	mm := srv.MindMap()
	mm.AddDataItems(items...)
	mm.UpdateSimulationData()
}
