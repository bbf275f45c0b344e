package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peoplesfeelings/mindmap/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string // output file, or base path for several formats
	formats  string // comma-separated formats; empty picks one from output
	noCache  bool
	refresh  bool
	maxTicks int
	seed     uint64
	width    float64
}

// renderCommand settles a feed and exports it.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render FEED",
		Short: "Settle a feed and export the mind map",
		Long: `Settle a feed of items and export the finished layout.

FEED is a JSON array or newline-delimited JSON file, or - for stdin. The
format is taken from --format, or from the extension of --output.`,
		Example: `  mindmap render replies.ndjson -o map.svg
  mindmap render replies.json -o map -f svg,json,dot
  cat replies.ndjson | mindmap render - -o map.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, json, dot, neato, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 0, "upper bound on simulation steps (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "placement jitter seed (default from config)")
	cmd.Flags().Float64Var(&opts.width, "item-width", 0, "node width (default from config)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, feedPath string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}

	items, err := pipeline.Load(feedPath, os.Stdin)
	if err != nil {
		return err
	}
	logger.Debug("loaded feed", "path", feedPath, "items", len(items))

	popts := pipelineOptions(cfg)
	popts.Formats = resolveFormats(opts.formats, opts.output)
	popts.Refresh = opts.refresh
	popts.Logger = logger
	if opts.maxTicks > 0 {
		popts.MaxTicks = opts.maxTicks
	}
	if opts.seed != 0 {
		popts.MindMap.Seed = opts.seed
	}
	if opts.width > 0 {
		popts.MindMap.ItemWidth = opts.width
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %d items...", len(items)))
	spinner.Start()
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, items, popts)
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Settled %d items", len(items)))

	paths := outputPaths(opts.output, feedPath, popts.Formats)
	for _, format := range popts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, res.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Rendered mind map")
	printStats(res.Stats, res.CacheInfo.LayoutHit)
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	if res.Stats.Unplaced > 0 {
		printWarning("%d items never found their parent", res.Stats.Unplaced)
	}
	return nil
}

// resolveFormats reads --format, falling back to the extension of the
// output path.
func resolveFormats(formats, output string) []string {
	if formats != "" {
		return strings.Split(formats, ",")
	}
	if output != "" && filepath.Ext(output) != "" {
		return []string{pipeline.FormatForPath(output)}
	}
	return []string{pipeline.FormatSVG}
}

// outputPaths maps each format to a file. A single format with an explicit
// output is written there; otherwise output (or the feed name) is a base
// path and each format adds its extension.
func outputPaths(output, feedPath string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}

	base := strings.TrimSuffix(output, filepath.Ext(output))
	if base == "" {
		if feedPath == pipeline.StdinPath {
			base = appName
		} else {
			base = strings.TrimSuffix(filepath.Base(feedPath), filepath.Ext(feedPath))
		}
	}
	for _, f := range formats {
		paths[f] = base + "." + extension(f)
	}
	return paths
}

func extension(format string) string {
	if format == pipeline.FormatNeato {
		return "neato.svg"
	}
	return format
}
